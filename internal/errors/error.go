package errors

import "fmt"

// Category represents the kind of condition being reported.
type Category string

const (
	CategoryTemplate Category = "template"
	CategoryBinding  Category = "binding"
	CategoryRebind   Category = "rebind"
	CategoryDisposal Category = "disposal"
	CategoryCLI      Category = "cli"
)

// Error is a structured error with a registered code.
type Error struct {
	// Code is a unique identifier ("E002", "W101"). W-codes are conditions
	// the engine logs and recovers from; E-codes are genuine errors.
	Code string

	// Category is the condition's area.
	Category Category

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown condition",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an Error with a formatted message and no code.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(code).Wrap(err)
}
