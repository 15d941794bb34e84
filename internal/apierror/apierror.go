// Package apierror defines the error envelope every 4xx/5xx response uses.
// Service errors pass through here so the desktop shell can always read
// "detail", and internals (SQL errors, paths, stack traces) never leak out.
package apierror

// APIError is the canonical error body.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field failures from request validation.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
