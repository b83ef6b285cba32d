package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/tkucar/inkwell/internal/service"
)

type FollowHandler struct {
	followService   *service.FollowService
	identityService *service.IdentityService
}

func NewFollowHandler(followService *service.FollowService, identityService *service.IdentityService) *FollowHandler {
	return &FollowHandler{
		followService:   followService,
		identityService: identityService,
	}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	if err := h.followService.Follow(r.Context(), callerID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Cannot follow yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			log.Printf("ERROR follow: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(r.Context(), callerID, targetID); err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Cannot unfollow yourself")
			return
		}
		log.Printf("ERROR unfollow: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FollowHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	following, err := h.followService.IsFollowing(r.Context(), callerID, targetID)
	if err != nil {
		log.Printf("ERROR is following: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"following": following})
}

func (h *FollowHandler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	follows, err := h.followService.ListFollowers(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list followers: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"followers": follows})
}

func (h *FollowHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	follows, err := h.followService.ListFollowing(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list following: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"following": follows})
}

func (h *FollowHandler) Counts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	counts, err := h.followService.Counts(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR follow counts: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, counts)
}
