package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/tkucar/inkwell/internal/service"
	"github.com/tkucar/inkwell/pkg/validator"
)

type PostHandler struct {
	postService     *service.PostService
	identityService *service.IdentityService
}

func NewPostHandler(postService *service.PostService, identityService *service.IdentityService) *PostHandler {
	return &PostHandler{
		postService:     postService,
		identityService: identityService,
	}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidatePost(input.Title, input.Content, input.Status, input.Tags); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	post, err := h.postService.Create(r.Context(), callerID, input)
	if err != nil {
		h.writePostError(w, err, "create post")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"post": post})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var input service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	post, err := h.postService.Update(r.Context(), postID, callerID, input)
	if err != nil {
		h.writePostError(w, err, "update post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), postID, callerID); err != nil {
		h.writePostError(w, err, "delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), postID, callerID)
	if err != nil {
		h.writePostError(w, err, "get post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// GetPublished is the public read path, addressed by owner username + post id.
func (h *PostHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	post, err := h.postService.GetPublished(r.Context(), r.PathValue("username"), postID)
	if err != nil {
		h.writePostError(w, err, "get published post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	posts, err := h.postService.ListByAuthor(r.Context(), callerID, r.URL.Query().Get("status"))
	if err != nil {
		h.writePostError(w, err, "list posts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	posts, err := h.postService.ListPublished(r.Context(), limit, offset)
	if err != nil {
		log.Printf("ERROR feed: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter q is required")
		return
	}

	posts, err := h.postService.SearchPublished(r.Context(), query, 0)
	if err != nil {
		log.Printf("ERROR search posts: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// IncrementView counts a page load. Public, never deduplicated.
func (h *PostHandler) IncrementView(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.postService.IncrementView(r.Context(), postID); err != nil {
		h.writePostError(w, err, "increment view")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) writePostError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
	case errors.Is(err, service.ErrNotPostAuthor):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the post author can do that")
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrTooManyTags),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrScheduleRequired),
		errors.Is(err, service.ErrPublishedTerminal):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.Printf("ERROR %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
