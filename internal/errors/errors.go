// Package errors defines the domain error taxonomy shared across services
// and mapped to HTTP statuses at the handler boundary.
package errors

import "fmt"

// Error kinds, in increasing order of surprise.
const (
	KindUnauthorized = "UNAUTHORIZED"
	KindNotFound     = "NOT_FOUND"
	KindValidation   = "VALIDATION"
	KindBusinessRule = "BUSINESS_RULE"
	KindInternal     = "INTERNAL"
)

// DomainError is a typed failure that is safe to show to the caller.
type DomainError struct {
	Kind    string
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NotFound builds a NOT_FOUND error for a named entity.
func NotFound(entity string) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    fmt.Sprintf("%s_NOT_FOUND", entity),
		Message: fmt.Sprintf("%s not found", entity),
	}
}

// Validation builds a VALIDATION error with a human-readable reason.
func Validation(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// BusinessRule builds a BUSINESS_RULE error with a human-readable reason.
func BusinessRule(code, message string) *DomainError {
	return &DomainError{Kind: KindBusinessRule, Code: code, Message: message}
}
