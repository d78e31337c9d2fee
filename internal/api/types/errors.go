package types

import (
	"errors"
	"net/http"

	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ae *appErr.AppError
	if errors.As(err, &ae) {
		return &APIError{Code: string(ae.Code), Message: ae.Message}
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
}

// StatusOf maps the error taxonomy onto HTTP statuses. Invalid
// transitions and uniqueness clashes both answer 409; a delete blocked
// by dependents or a missing link answers 400.
func StatusOf(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict, appErr.CodeInvalidTransition:
		return http.StatusConflict
	case appErr.CodeUnprocessable:
		return http.StatusUnprocessableEntity
	case appErr.CodeDeleteFailed, appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
