package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/newswire-go/internal/model"
	"github.com/newswire/newswire-go/internal/repository"
	"github.com/newswire/newswire-go/internal/service"
	"github.com/newswire/newswire-go/internal/upload"
)

// memPostStore is a minimal slice-backed service.PostStore.
type memPostStore struct {
	posts []model.Post
}

func (s *memPostStore) Create(ctx context.Context, post *model.Post) error {
	post.ID = int64(len(s.posts) + 1)
	post.CreatedAt = time.Now().UTC()
	s.posts = append(s.posts, *post)
	return nil
}

func (s *memPostStore) List(ctx context.Context, limit int) ([]model.Post, error) {
	if len(s.posts) > limit {
		return s.posts[:limit], nil
	}
	return s.posts, nil
}

func (s *memPostStore) GetByPostID(ctx context.Context, postID string) (*model.Post, error) {
	for i := range s.posts {
		if s.posts[i].PostID == postID {
			p := s.posts[i]
			return &p, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func newTestPostHandler(t *testing.T, maxFile int64) (*PostHandler, *memPostStore, *upload.Store) {
	t.Helper()
	store := &memPostStore{}
	uploads, err := upload.NewStore(t.TempDir(), maxFile)
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	return NewPostHandler(service.NewPostService(store), uploads, maxFile), store, uploads
}

func createPostRequest(t *testing.T, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/post", body)
	req.Header.Set("Content-Type", contentType)
	return req
}

func TestHandleCreatePost_NoFile(t *testing.T) {
	h, store, _ := newTestPostHandler(t, 1<<20)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", "headline")
	w.WriteField("author", "alice")
	w.Close()

	rec := httptest.NewRecorder()
	h.HandleCreatePost(rec, createPostRequest(t, &buf, w.FormDataContentType()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp model.PostResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Cover != nil {
		t.Errorf("response cover = %v, want null without a file part", resp.Cover)
	}
	if len(store.posts) != 1 {
		t.Errorf("store has %d posts, want 1", len(store.posts))
	}
}

func TestHandleCreatePost_WithFile(t *testing.T) {
	h, store, _ := newTestPostHandler(t, 1<<20)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", "headline")
	fw, err := w.CreateFormFile("file", "cover.png")
	if err != nil {
		t.Fatalf("CreateFormFile() unexpected error: %v", err)
	}
	fw.Write([]byte("image-bytes"))
	w.Close()

	rec := httptest.NewRecorder()
	h.HandleCreatePost(rec, createPostRequest(t, &buf, w.FormDataContentType()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp model.PostResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Cover == nil || !strings.HasPrefix(*resp.Cover, "/uploads/") {
		t.Errorf("response cover = %v, want /uploads/ path", resp.Cover)
	}
	if len(store.posts) != 1 {
		t.Errorf("store has %d posts, want 1", len(store.posts))
	}
}

func TestHandleCreatePost_FileTooLarge(t *testing.T) {
	h, store, uploads := newTestPostHandler(t, 16)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", "headline")
	fw, err := w.CreateFormFile("file", "big.png")
	if err != nil {
		t.Fatalf("CreateFormFile() unexpected error: %v", err)
	}
	fw.Write(bytes.Repeat([]byte("x"), 64))
	w.Close()

	rec := httptest.NewRecorder()
	h.HandleCreatePost(rec, createPostRequest(t, &buf, w.FormDataContentType()))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	if len(store.posts) != 0 {
		t.Errorf("store has %d posts, want none after rejected upload", len(store.posts))
	}
	entries, err := os.ReadDir(uploads.Dir())
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("upload dir has %d leftover files", len(entries))
	}
}

func TestHandleCreatePost_BodyLimitAtPartBoundary(t *testing.T) {
	// Build a body where the limit is crossed between the text field and the
	// file part, so the limit error surfaces wrapped by the multipart reader.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("content", strings.Repeat("a", 3<<19)) // 1.5MB
	fieldEnd := buf.Len()
	fw, err := w.CreateFormFile("file", "cover.png")
	if err != nil {
		t.Fatalf("CreateFormFile() unexpected error: %v", err)
	}
	fw.Write([]byte("tiny"))
	w.Close()

	// HandleCreatePost caps the body at maxFile + 1MB.
	maxFile := int64(fieldEnd+8) - 1<<20
	if maxFile <= 0 {
		t.Fatal("test setup: field too small to place the limit past it")
	}
	h, store, _ := newTestPostHandler(t, maxFile)

	rec := httptest.NewRecorder()
	h.HandleCreatePost(rec, createPostRequest(t, &buf, w.FormDataContentType()))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusRequestEntityTooLarge, rec.Body.String())
	}
	if len(store.posts) != 0 {
		t.Errorf("store has %d posts, want none after rejected body", len(store.posts))
	}
}

func TestHandleGetPost_NotFound(t *testing.T) {
	h, _, _ := newTestPostHandler(t, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/post/unknown", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "unknown")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.HandleGetPost(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
