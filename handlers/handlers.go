// Package handlers contains the HTTP handlers for the fleetdesk API.
// Handlers stay thin: decode, call the service, map the error.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/repositories"
	"github.com/fleetdeskhq/fleetdesk/services"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// maxBodyBytes caps request bodies; the API only ever carries small
// JSON documents.
const maxBodyBytes = 1 << 20

// Auditor records permitted mutations for the audit trail
type Auditor interface {
	RecordAllowed(ctx context.Context, subject string, resource authz.Resource, action authz.Action, resourceID uuid.UUID, requestID string)
}

// decodeJSON decodes a request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseListFilter reads the q, status, limit and offset query
// parameters shared by the list endpoints
func parseListFilter(r *http.Request) repositories.ListFilter {
	query := r.URL.Query()
	filter := repositories.ListFilter{
		Query:  query.Get("q"),
		Status: query.Get("status"),
	}
	if v := query.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := query.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	return filter
}

// parseIDParam parses the {id} chi URL parameter
func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return utils.ParseUUID(chi.URLParam(r, name))
}

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		_ = utils.WriteBadRequest(w, "Validation failed", details)
		return
	}

	details := services.GetErrorDetails(err)
	switch {
	case services.IsNotFoundError(err):
		_ = utils.WriteNotFound(w, err.Error())

	case services.IsValidationError(err):
		_ = utils.WriteBadRequest(w, err.Error(), details)

	case services.IsUnauthorizedError(err):
		_ = utils.WriteUnauthorized(w, err.Error())

	case services.IsConflictError(err):
		_ = utils.WriteConflict(w, err.Error(), details)

	default:
		// internal or unclassified; hide details from the client
		logger.Error("internal server error", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "An internal error occurred")
	}
}

// handleDecodeError writes a 400 for request body decoding failures
func handleDecodeError(w http.ResponseWriter, err error) {
	var syntaxErr *json.SyntaxError
	msg := "Invalid request body"
	if errors.As(err, &syntaxErr) {
		msg = fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset)
	}
	_ = utils.WriteBadRequest(w, msg, nil)
}
