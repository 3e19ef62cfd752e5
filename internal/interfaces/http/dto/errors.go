package dto

import (
	"net/http"

	"github.com/givebridge/backend/internal/domain/shared"
)

// HTTP-facing error codes not produced by the domain layer
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when webhook signature verification fails
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// errorCodeHTTPStatus maps domain and HTTP error codes to status codes
var errorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:         http.StatusBadRequest,
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeConflict:           http.StatusConflict,
	shared.CodePreconditionFailed: http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition:  http.StatusUnprocessableEntity,
	shared.CodeExternalService:    http.StatusBadGateway,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
