package model

import "time"

// Post represents an article in the database. ID is the insertion counter,
// PostID the public identifier.
type Post struct {
	ID        int64
	PostID    string
	Title     string
	Summary   string
	Content   string
	Author    string
	Category  string
	Cover     *string
	CreatedAt time.Time
}

// CreatePostRequest represents the form fields of a post creation request.
// The optional file part is handled separately by the upload store.
type CreatePostRequest struct {
	Title    string
	Summary  string
	Content  string
	Author   string
	Category string
}

// PostResponse represents a post in API responses.
type PostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Cover     *string   `json:"cover"`
	CreatedAt time.Time `json:"created_at"`
}
