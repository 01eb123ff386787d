package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced to API clients in error.code.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNoToken            = "NO_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountDeactivated = "ACCOUNT_DEACTIVATED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotAdmin           = "NOT_ADMIN"
	CodeNotFound           = "NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeRouteNotFound      = "ROUTE_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeAlreadyApplied     = "ALREADY_APPLIED"
	CodeInvalidUpdate      = "INVALID_UPDATE"
	CodeSamePassword       = "SAME_PASSWORD"
	CodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	CodeResetTokenExpired  = "RESET_TOKEN_EXPIRED"
	CodeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error carrying client-visible details.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewConflictError reports a duplicate. Conflicts surface as 400, not 409.
func NewConflictError(code, message string) *AppError {
	if code == "" {
		code = CodeConflict
	}
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewError builds an AppError with an explicit code.
func NewError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// StatusCode maps an error to its HTTP status. Unknown errors map to 500.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	switch appErr.Code {
	case CodeValidation, CodeConflict, CodeDuplicateEmail, CodeDuplicateName,
		CodeAlreadyApplied, CodeInvalidUpdate, CodeSamePassword,
		CodeInvalidResetToken, CodeResetTokenExpired, CodeInvalidTransition:
		return fiber.StatusBadRequest
	case CodeUnauthorized, CodeNoToken, CodeInvalidToken, CodeTokenExpired,
		CodeInvalidCredentials, CodeAccountDeactivated:
		return fiber.StatusUnauthorized
	case CodeForbidden, CodeNotAdmin:
		return fiber.StatusForbidden
	case CodeNotFound, CodeUserNotFound, CodeRouteNotFound:
		return fiber.StatusNotFound
	case CodeRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standard error envelope.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	body := ErrorBody{Code: CodeInternal, Message: "Internal server error"}

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		body.Code = appErr.Code
		body.Message = appErr.Message
		body.Details = appErr.Details
	case errors.As(err, &fiberErr):
		body.Code = httpCode(fiberErr.Code)
		body.Message = fiberErr.Message
	}

	return c.Status(status).JSON(Envelope{Success: false, Error: &body})
}

func httpCode(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return CodeValidation
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}
