// Package apierror defines the JSON error envelope of the API.
// Handlers never put driver errors or stack traces into it.
package apierror

// APIError is the body of every 4xx/5xx response.
type APIError struct {
	Detail string `json:"detail"`
	// Code is the machine-readable error kind, e.g. "insufficient_stock".
	Code string `json:"code,omitempty"`
	// Context carries the numbers behind a ledger rejection.
	Context map[string]any `json:"context,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode returns an error with a machine-readable kind.
func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// ValidationError lists rejected fields.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Code: "validation", Fields: fields}
}
