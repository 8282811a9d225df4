package web

import (
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

// JSON endpoints (health probes, live handshake failures) answer with a Google style envelope.
const (
	googleAPIVersion = "2.0"
	errorDomain      = "fantasy-manager-hub"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var (
	errInvalidInput = mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}
	errNotFound     = mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}
	errUnavailable  = mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}
	errInternal     = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}
)

const internalErrorMessage = "internal server error"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

// writeError maps err to a status. Messages of unmapped errors are replaced so internals do not
// leak to the browser.
func writeError(w http.ResponseWriter, err error) {
	mapped := mapError(err)
	msg := err.Error()
	if mapped == errInternal {
		msg = internalErrorMessage
	}
	writeMappedError(w, mapped, msg)
}

func writeInternalError(w http.ResponseWriter) {
	writeMappedError(w, errInternal, internalErrorMessage)
}

func writeMappedError(w http.ResponseWriter, mapped mappedError, msg string) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: msg,
			Status:  mapped.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: msg}},
		},
	})
}

func mapError(err error) mappedError {
	var apiErr *usecase.APIError

	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrNothingToSimulate):
		return errInvalidInput
	case errors.Is(err, usecase.ErrNotFound):
		return errNotFound
	case errors.Is(err, usecase.ErrDependencyUnavailable), errors.As(err, &apiErr):
		return errUnavailable
	default:
		return errInternal
	}
}
