package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rgehrsitz/kalkyl/internal/config"
)

const (
	// Client errors (4xx)
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternalError = "INTERNAL_ERROR"
)

// AppError is an error with a stable code and the HTTP status it maps to
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError without wrapping
func NewAppError(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// WrapAppError creates an AppError that wraps an existing error
func WrapAppError(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

var (
	ErrNotFound        = NewAppError(CodeNotFound, "Resource not found", http.StatusNotFound)
	ErrInternal        = NewAppError(CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)
	ErrMalformedBody   = NewAppError(CodeInvalidInput, "Request body is not valid JSON", http.StatusBadRequest)
	ErrTooManyRequests = NewAppError(CodeTooManyRequests, "Too many requests from this IP", http.StatusTooManyRequests)
)

// mapValidationError turns a request-shape validation failure into a 400
func mapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return WrapAppError(err, CodeInvalidInput, config.DescribeValidation(err), http.StatusBadRequest)
	}
	return WrapAppError(err, CodeInvalidInput, err.Error(), http.StatusBadRequest)
}

// errorHandler writes every error as a {code,message} body
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			var fe *fiber.Error
			switch {
			case errors.As(err, &fe) && fe.Code == fiber.StatusNotFound:
				appErr = ErrNotFound
			case errors.As(err, &fe) && fe.Code < 500:
				appErr = NewAppError(CodeInvalidInput, fe.Message, fe.Code)
			default:
				appErr = WrapAppError(err, ErrInternal.Code, ErrInternal.Message, ErrInternal.HTTPStatus)
			}
		}

		if appErr.HTTPStatus >= 500 {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(appErr.HTTPStatus).JSON(appErr)
	}
}
