// Package handler provides the HTTP layer of the ReelTube API.
// Handlers decode requests, call services and encode responses; all
// business rules live below them.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
	"github.com/reeltube/reeltube/internal/service"
)

// messageResponse is the generic error/status payload.
type messageResponse struct {
	Message string `json:"message"`
}

// validationResponse carries field-level validation failures.
type validationResponse struct {
	Errors []service.ValidationError `json:"errors"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeMessage writes a {"message": ...} payload.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError maps service and domain errors onto HTTP responses.
// Validation problems list every failed field; everything else is a
// single message. Unclassified errors surface as 500 with the error
// text in the body.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, validationResponse{Errors: verrs})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists):
		writeMessage(w, http.StatusBadRequest, "Username or email already in use")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, domain.ErrInvalidReactionKind):
		writeMessage(w, http.StatusBadRequest, "Invalid reaction")
	case errors.Is(err, domain.ErrNotOwner):
		writeMessage(w, http.StatusForbidden, "Forbidden: you do not own this resource")
	case errors.Is(err, domain.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrChannelNotFound):
		writeMessage(w, http.StatusNotFound, "Channel not found")
	case errors.Is(err, domain.ErrVideoNotFound):
		writeMessage(w, http.StatusNotFound, "Video not found")
	case errors.Is(err, domain.ErrCommentNotFound):
		writeMessage(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, repository.ErrLockNotAcquired):
		writeMessage(w, http.StatusConflict, "Operation already in progress, retry shortly")
	default:
		logger.Error().Err(err).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields
// so request bodies stay allow-listed.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return service.ValidationErrors{{Field: "body", Message: "invalid JSON payload"}}
	}
	return nil
}
