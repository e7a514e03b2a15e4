package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/newswire-go/internal/model"
	"github.com/newswire/newswire-go/internal/service"
	"github.com/newswire/newswire-go/internal/upload"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temp files.
const multipartMemory = 4 << 20 // 4MB

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service *service.PostService
	uploads *upload.Store
	maxFile int64
}

// NewPostHandler creates a new PostHandler. maxFile caps the size of a single
// uploaded cover file.
func NewPostHandler(svc *service.PostService, uploads *upload.Store, maxFile int64) *PostHandler {
	return &PostHandler{service: svc, uploads: uploads, maxFile: maxFile}
}

// HandleCreatePost handles POST /post requests: multipart form fields plus an
// optional cover file under the "file" part.
func (h *PostHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	// Cap the whole body at the file limit plus headroom for the text fields.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFile+1<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		// The multipart reader may wrap the body-limit error, so match the
		// error type rather than its text.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("upload too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart form"))
		return
	}

	req := model.CreatePostRequest{
		Title:    r.FormValue("title"),
		Summary:  r.FormValue("summary"),
		Content:  r.FormValue("content"),
		Author:   r.FormValue("author"),
		Category: r.FormValue("category"),
	}

	// The file part is optional; a post without a cover is not an error.
	var coverPath string
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()

		name, err := h.uploads.Save(file, header.Filename)
		if err != nil {
			if errors.Is(err, upload.ErrTooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("upload too large"))
				return
			}
			slog.Error("storing upload failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
			return
		}
		coverPath = upload.PublicPath(name)
	case errors.Is(err, http.ErrMissingFile):
		// no cover
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid file part"))
		return
	}

	resp, err := h.service.CreatePost(r.Context(), req, coverPath)
	if err != nil {
		// The stored cover, if any, is orphaned here. Accepted tradeoff;
		// a reconciliation sweep can reclaim it offline.
		if coverPath != "" {
			slog.Warn("post creation failed after upload, asset orphaned", "cover", coverPath, "error", err)
		} else {
			slog.Error("post creation failed", "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleListPosts handles GET /post requests.
func (h *PostHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		slog.Error("listing posts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	if posts == nil {
		posts = []model.PostResponse{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleGetPost handles GET /post/{id} requests.
func (h *PostHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	if postID == "" || len(postID) > 36 {
		writeJSON(w, http.StatusNotFound, errorResponse("post not found"))
		return
	}

	resp, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("post not found"))
			return
		}
		slog.Error("getting post failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
