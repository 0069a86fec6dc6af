package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kanbanboard/kanban-api/internal/api/middleware"
	"github.com/kanbanboard/kanban-api/internal/api/shared"
	"github.com/kanbanboard/kanban-api/internal/platform/logger"
)

var errInvalidPathID = errors.New("path id must be a positive integer")

// getPathID extracts a positive int64 from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidPathID
	}
	return id, nil
}

// requireUserID returns the caller id placed in the context by the auth gate.
// It writes a 401 and returns false when there is none.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	return userID, true
}

// handleUserIDAndPathID extracts the caller id and a path id. label names
// the entity in the 400 message, for example "board" gives "Invalid board ID".
func handleUserIDAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	label string,
) (int64, int64, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return 0, 0, false
	}

	pathID, err := getPathID(r, paramName)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+label+" ID")
		return 0, 0, false
	}

	return userID, pathID, true
}

// decodeAndValidate decodes the body into req and runs its validate tags.
// It writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
