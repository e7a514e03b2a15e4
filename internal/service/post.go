package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/newswire/newswire-go/internal/model"
	"github.com/newswire/newswire-go/internal/repository"
)

// listCap bounds the result set of List regardless of how many posts exist.
const listCap = 50

var ErrPostNotFound = errors.New("post not found")

// PostStore is the post persistence the service depends on.
// *repository.PostRepository satisfies it.
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	List(ctx context.Context, limit int) ([]model.Post, error)
	GetByPostID(ctx context.Context, postID string) (*model.Post, error)
}

// PostService handles post business logic.
type PostService struct {
	repo PostStore
}

// NewPostService creates a new PostService.
func NewPostService(repo PostStore) *PostService {
	return &PostService{repo: repo}
}

// CreatePost persists a new post. Absent form fields are stored empty, and
// coverPath is stored verbatim when non-empty; the service does not verify
// that the referenced asset exists.
func (s *PostService) CreatePost(ctx context.Context, req model.CreatePostRequest, coverPath string) (model.PostResponse, error) {
	post := &model.Post{
		PostID:   uuid.NewString(),
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Author:   req.Author,
		Category: req.Category,
	}
	if coverPath != "" {
		post.Cover = &coverPath
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return model.PostResponse{}, err
	}

	return postToResponse(post), nil
}

// ListPosts returns the newest posts, capped at 50.
func (s *PostService) ListPosts(ctx context.Context) ([]model.PostResponse, error) {
	posts, err := s.repo.List(ctx, listCap)
	if err != nil {
		return nil, err
	}

	result := make([]model.PostResponse, len(posts))
	for i := range posts {
		result[i] = postToResponse(&posts[i])
	}
	return result, nil
}

// GetPost retrieves a single post by its public identifier.
func (s *PostService) GetPost(ctx context.Context, postID string) (model.PostResponse, error) {
	post, err := s.repo.GetByPostID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.PostResponse{}, ErrPostNotFound
		}
		return model.PostResponse{}, err
	}

	return postToResponse(post), nil
}

// postToResponse converts a Post to its API response shape.
func postToResponse(p *model.Post) model.PostResponse {
	return model.PostResponse{
		ID:        p.PostID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Author:    p.Author,
		Category:  p.Category,
		Cover:     p.Cover,
		CreatedAt: p.CreatedAt,
	}
}
