package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/newswire/newswire-go/internal/model"
)

var ErrPostNotFound = errors.New("post not found")

// PostRepository handles post persistence operations.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post and sets the generated row ID and creation time
// on the post struct. The cover path is stored verbatim; the repository does
// not verify that the referenced asset exists.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (post_id, title, summary, content, author, category, cover)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		post.PostID, post.Title, post.Summary, post.Content,
		post.Author, post.Category, post.Cover,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = id

	// Read back the DB-assigned creation timestamp so the response matches
	// what list and get will later return.
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM posts WHERE id = ?`, id).
		Scan(&post.CreatedAt)
}

// List retrieves up to limit posts, newest first. Posts created in the same
// instant fall back to insertion order via the auto-increment row ID.
func (r *PostRepository) List(ctx context.Context, limit int) ([]model.Post, error) {
	query := `SELECT id, post_id, title, summary, content, author, category, cover, created_at
		FROM posts ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.PostID, &p.Title, &p.Summary, &p.Content,
			&p.Author, &p.Category, &p.Cover, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// GetByPostID retrieves a post by its public identifier.
func (r *PostRepository) GetByPostID(ctx context.Context, postID string) (*model.Post, error) {
	query := `SELECT id, post_id, title, summary, content, author, category, cover, created_at
		FROM posts WHERE post_id = ?`

	post := &model.Post{}
	err := r.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID, &post.PostID, &post.Title, &post.Summary, &post.Content,
		&post.Author, &post.Category, &post.Cover, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}
