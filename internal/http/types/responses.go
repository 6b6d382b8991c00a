// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/team-planner/internal/authorization"
	"github.com/canonical/team-planner/internal/idp"
	"github.com/canonical/team-planner/internal/storage"
	"github.com/canonical/team-planner/internal/types"
)

// maxBodySize caps every JSON request body.
const maxBodySize = 1 << 20

// ErrorResponse is the JSON body of every non 2xx answer.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Response wraps successful payloads.
type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status"`
}

// StatusFromError maps the error taxonomy onto HTTP status codes.
func StatusFromError(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, authorization.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, idp.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, storage.ErrForeignKeyViolation),
		errors.Is(err, idp.ErrUnknownRole),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, idp.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes data wrapped in a Response envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(
		Response{
			Data:   data,
			Status: status,
		},
	)
}

// WriteError answers with the status matching err. Internal errors are not
// echoed back to the caller.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFromError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(
		ErrorResponse{
			Status:  status,
			Message: message,
		},
	)
}

// DecodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", types.ErrInvalidInput, err)
	}

	return nil
}
