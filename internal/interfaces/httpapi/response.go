package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "nba-stats-viewer"
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
	// Public replaces the error text for server-side failures so warehouse
	// URLs and bodies stay out of responses.
	Public string
}

// errorRules is checked in order; the first sentinel matched wins. An open
// circuit carries both ErrDependencyUnavailable and ErrRemote, so it comes first.
var errorRules = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT", ""}},
	{usecase.ErrRateLimited, mappedError{http.StatusTooManyRequests, "rateLimitExceeded", "RESOURCE_EXHAUSTED", ""}},
	{usecase.ErrPlayerNotIndexed, mappedError{http.StatusNotFound, "playerNotIndexed", "NOT_FOUND", ""}},
	{usecase.ErrClosed, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE", "viewer session closed"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE", "stats warehouse temporarily unavailable"}},
	{usecase.ErrRemote, mappedError{http.StatusBadGateway, "upstreamError", "UNAVAILABLE", "stats warehouse request failed"}},
}

var internalError = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL", "internal server error"}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.mapped
		}
	}
	return internalError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(_ context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	if mapped.HTTPStatus == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "1")
	}
	msg := mapped.Public
	if msg == "" {
		msg = err.Error()
	}
	writeMapped(w, mapped, msg)
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	writeMapped(w, internalError, internalError.Public)
}

func writeMapped(w http.ResponseWriter, mapped mappedError, msg string) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: msg,
			Status:  mapped.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: msg,
			}},
		},
	})
}
