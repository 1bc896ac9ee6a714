package utils

import (
	"net/http"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
)

// ErrorCode is the machine-readable code written in error envelopes.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

var codeStatus = map[ErrorCode]int{
	CodeNotFound:     http.StatusNotFound,
	CodeBadRequest:   http.StatusBadRequest,
	CodeConflict:     http.StatusConflict,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeInternal:     http.StatusInternalServerError,
}

// HTTPStatus is 500 for codes outside the known set.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := codeStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// CodeForKind maps a service error kind onto its envelope code.
func CodeForKind(kind apperror.Kind) ErrorCode {
	switch kind {
	case apperror.KindNotFound:
		return CodeNotFound
	case apperror.KindBadRequest:
		return CodeBadRequest
	case apperror.KindConflict:
		return CodeConflict
	case apperror.KindUnauthorized:
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    Meta `json:"meta"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// NewSuccessResponse stamps the envelope with at, normalized to UTC.
func NewSuccessResponse(data any, at time.Time) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    Meta{Timestamp: at.UTC()},
	}
}

func NewErrorResponse(code ErrorCode, message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: APIError{Code: code, Message: message}}
}

// ErrorResponseFor builds the envelope for a service error. Internal
// failures never leak their cause, only the generic message.
func ErrorResponseFor(err error) (ErrorResponse, int) {
	code := CodeForKind(apperror.KindOf(err))
	return NewErrorResponse(code, apperror.MessageOf(err)), code.HTTPStatus()
}
