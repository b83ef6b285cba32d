package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/tkucar/inkwell/internal/service"
	"github.com/tkucar/inkwell/internal/transport/http/middleware"
	"github.com/tkucar/inkwell/pkg/validator"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}

// pathUUID parses the named path segment as a UUID, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// resolveCaller turns the request's identity tuple into an internal user id,
// creating or refreshing the user row on the way (every authenticated
// contact refreshes last_active_at). Writes a 401 when no identity is
// attached.
func resolveCaller(w http.ResponseWriter, r *http.Request, identitySvc *service.IdentityService) (uuid.UUID, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "No identity presented")
		return uuid.Nil, false
	}

	userID, err := identitySvc.StoreOrRefresh(r.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Could not resolve identity")
		} else {
			log.Printf("ERROR resolve caller: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return uuid.Nil, false
	}
	return userID, true
}
