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

type IdentityHandler struct {
	identityService *service.IdentityService
}

func NewIdentityHandler(identityService *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{identityService: identityService}
}

// Store resolves the caller's identity into an internal user id, creating
// the user row on first contact.
func (h *IdentityHandler) Store(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "No identity presented")
		return
	}

	userID, err := h.identityService.StoreOrRefresh(r.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "No identity presented")
			return
		}
		log.Printf("ERROR identity store: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID})
}

type claimUsernameInput struct {
	Username string `json:"username"`
}

func (h *IdentityHandler) ClaimUsername(w http.ResponseWriter, r *http.Request) {
	var input claimUsernameInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateUsername(input.Username); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	callerID, ok := resolveCaller(w, r, h.identityService)
	if !ok {
		return
	}

	userID, err := h.identityService.ClaimUsername(r.Context(), callerID, input.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			writeError(w, http.StatusBadRequest, "INVALID_USERNAME", err.Error())
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username is already taken")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			log.Printf("ERROR claim username: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID})
}

func (h *IdentityHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "No identity presented")
		return
	}

	user, err := h.identityService.GetCurrent(r.Context(), identity)
	if err != nil {
		log.Printf("ERROR get current user: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *IdentityHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	profile, err := h.identityService.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		log.Printf("ERROR get profile: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No user with that username")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (h *IdentityHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter q is required")
		return
	}

	profiles, err := h.identityService.SearchUsers(r.Context(), query, 0)
	if err != nil {
		log.Printf("ERROR search users: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": profiles})
}
