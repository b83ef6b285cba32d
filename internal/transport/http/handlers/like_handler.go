package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/tkucar/inkwell/internal/service"
)

type LikeHandler struct {
	likeService     *service.LikeService
	identityService *service.IdentityService
}

func NewLikeHandler(likeService *service.LikeService, identityService *service.IdentityService) *LikeHandler {
	return &LikeHandler{
		likeService:     likeService,
		identityService: identityService,
	}
}

func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	result, err := h.likeService.Toggle(r.Context(), postID, callerID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
			return
		}
		log.Printf("ERROR toggle like: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *LikeHandler) HasLiked(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	liked, err := h.likeService.HasLiked(r.Context(), postID, callerID)
	if err != nil {
		log.Printf("ERROR has liked: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"liked": liked})
}
