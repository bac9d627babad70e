package utils

import "github.com/gin-gonic/gin"

// Error codes surfaced in the response envelope.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeUserExists    = "USER_ALREADY_EXISTS"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternalError = "INTERNAL_ERROR"
)

// APIError is the error half of the response envelope.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// JSONResponse defines the uniform structure for API responses:
// {"success": true, "data": ...} or {"success": false, "error": {...}}.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// Success writes a 200 success envelope.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, JSONResponse{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(201, JSONResponse{Success: true, Data: data})
}

// Error writes an error envelope with the given HTTP status and error code.
func Error(ctx *gin.Context, status int, code string, message string) {
	ctx.JSON(status, JSONResponse{Success: false, Error: &APIError{Code: code, Message: message}})
}

// ErrorDetails writes an error envelope carrying field-level details.
func ErrorDetails(ctx *gin.Context, status int, code string, message string, details interface{}) {
	ctx.JSON(status, JSONResponse{Success: false, Error: &APIError{Code: code, Message: message, Details: details}})
}
