// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenInvalid = errors.New("token invalid")
)

// AppError is an error with a fixed HTTP rendering. Handlers either
// build one directly or map sentinel errors onto one before writing
// the response.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func ConflictError(message string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

func UnauthorizedError(message string) *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func ForbiddenError(message string) *AppError {
	return &AppError{
		Status:  http.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NotFoundError(resource string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: resource + " not found",
	}
}

func ValidationError(message string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func DuplicateError(field string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    "DUPLICATE",
		Message: field + " already exists",
	}
}

// InactiveAccountError is the distinct outcome for tenants whose
// entity is not ACTIVE. Deliberately not a 404: the tenant exists,
// access is suspended.
func InactiveAccountError() *AppError {
	return &AppError{
		Status:  http.StatusForbidden,
		Code:    "ACCOUNT_INACTIVE",
		Message: "this account is not active",
	}
}

func PasswordResetRequiredError() *AppError {
	return &AppError{
		Status:  http.StatusForbidden,
		Code:    "PASSWORD_RESET_REQUIRED",
		Message: "password reset required before continuing",
	}
}

func InvalidSignatureError() *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "INVALID_SIGNATURE",
		Message: "request signature verification failed",
	}
}

func TokenExpiredError() *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "TOKEN_EXPIRED",
		Message: "token has expired",
	}
}

func TokenRevokedError() *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "TOKEN_REVOKED",
		Message: "token has been revoked",
	}
}

func TokenInvalidError() *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Code:    "TOKEN_INVALID",
		Message: "token is invalid",
	}
}
