package errprocess

import (
	"errors"
	"fmt"

	"prepconnect_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// Code definition error category
type Code string

const (
	// CodeUnauthenticated 無法確認呼叫者身份
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	// CodePermissionDenied 已驗證但無權存取該資源
	CodePermissionDenied Code = "PERMISSION_DENIED"
	// CodeInvalidArgument 缺少必要欄位
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeNotFound 資源不存在
	CodeNotFound Code = "NOT_FOUND"
	// CodeInternal 內部錯誤(storage 細節不外洩)
	CodeInternal Code = "INTERNAL"
)

// AppError definition error with category code
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap support errors.Is / errors.As
func (e *AppError) Unwrap() error { return e.Cause }

// New create AppError by code
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

// Wrap create AppError keep cause
func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Unauthenticated missing/invalid caller credential
func Unauthenticated(msg string) error { return New(CodeUnauthenticated, msg) }

// Forbidden caller not entitled to the resource
func Forbidden(msg string) error { return New(CodePermissionDenied, msg) }

// InvalidArgument missing required field
func InvalidArgument(msg string) error { return New(CodeInvalidArgument, msg) }

// NotFound referenced resource absent
func NotFound(msg string) error { return New(CodeNotFound, msg) }

// Internal underlying operation failed
func Internal(msg string, cause error) error { return Wrap(CodeInternal, msg, cause) }

// CodeOf get category, unknown error treat as internal
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus map category to http status
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodePermissionDenied:
		return fiber.StatusForbidden
	case CodeInvalidArgument:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ClientMessage internal 細節只進 log, 不回給 caller
func ClientMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		return appErr.Message
	}
	return "internal server error"
}

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}
