package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tkucar/inkwell/internal/service"
	"github.com/tkucar/inkwell/internal/transport/http/middleware"
	"github.com/tkucar/inkwell/pkg/validator"
)

type CommentHandler struct {
	commentService  *service.CommentService
	identityService *service.IdentityService
}

func NewCommentHandler(commentService *service.CommentService, identityService *service.IdentityService) *CommentHandler {
	return &CommentHandler{
		commentService:  commentService,
		identityService: identityService,
	}
}

type addCommentInput struct {
	Content     string `json:"content"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// Add accepts comments from authenticated users and anonymous guests alike.
// When a valid identity rides along, the comment is attributed to it and
// the body's name/email are ignored.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var input addCommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateComment(input.AuthorName, input.AuthorEmail, input.Content); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	author := service.CommentAuthor{Name: input.AuthorName}
	if input.AuthorEmail != "" {
		author.Email = &input.AuthorEmail
	}

	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		user, err := h.identityService.GetCurrent(r.Context(), identity)
		if err != nil {
			log.Printf("ERROR resolve comment author: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
			return
		}
		if user != nil {
			author.UserID = &user.ID
			author.Name = user.DisplayName
			author.Email = user.Email
		}
	}

	comment, err := h.commentService.Add(r.Context(), postID, author, input.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyComment):
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, service.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
		default:
			log.Printf("ERROR add comment: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.List(r.Context(), postID, r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCommentStatus) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		log.Printf("ERROR list comments: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Comment not found")
		case errors.Is(err, service.ErrNotCommentOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the comment author or the post author can delete a comment")
		default:
			log.Printf("ERROR delete comment: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
