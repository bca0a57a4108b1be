package model

import (
	"errors"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	Unmet         []string `json:"unmet,omitempty"`
	CorrelationID string   `json:"correlationId,omitempty"`
}

// Error codes surfaced by the order desk.
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeSelfDependency  = "SELF_DEPENDENCY"
	ErrCodeDependencyUnmet = "DEPENDENCY_UNMET"
	ErrCodeDuplicateReview = "DUPLICATE_REVIEW"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeInvalidRange    = "INVALID_RANGE"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError is a recoverable business-rule failure.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// DependencyUnmetError is returned when an order still waits on
// prerequisites that are not completed.
type DependencyUnmetError struct {
	OrderCode string
	Unmet     []string
}

func (e *DependencyUnmetError) Error() string {
	return "order " + e.OrderCode + " cannot be completed yet, it depends on: " + strings.Join(e.Unmet, ", ")
}

// Common domain errors
var (
	ErrOrderNotFound      = NewDomainError(ErrCodeNotFound, "order not found")
	ErrOrderNotCompleted  = NewDomainError(ErrCodeNotFound, "order is not in history yet")
	ErrTokenNotFound      = NewDomainError(ErrCodeNotFound, "token not found")
	ErrTokenUnavailable   = NewDomainError(ErrCodeNotFound, "token does not exist or has already been used")
	ErrSelfDependency     = NewDomainError(ErrCodeSelfDependency, "an order cannot depend on itself")
	ErrDuplicateReview    = NewDomainError(ErrCodeDuplicateReview, "order has already been reviewed")
	ErrNotOrderCustomer   = NewDomainError(ErrCodeUnauthorised, "only the customer who placed the order may review it")
	ErrInvalidRating      = NewDomainError(ErrCodeInvalidRange, "rating must be between 1 and 5")
	ErrInvalidPosition    = NewDomainError(ErrCodeInvalidRange, "queue position must be at least 1")
	ErrInvalidPage        = NewDomainError(ErrCodeInvalidRange, "page does not exist")
	ErrInvalidDueDate     = NewDomainError(ErrCodeInvalidRange, "due date must use the YYYY-MM-DD format")
	ErrStatusNotSettable  = NewDomainError(ErrCodeInvalidRange, "completed is reached through completion, not a status update")
	ErrInvalidStatus      = NewDomainError(ErrCodeInvalidRange, "initial status must be pending, preparing or manufacturing")
	ErrDescriptionMissing = NewDomainError(ErrCodeMissingField, "description is required")
	ErrCustomerMissing    = NewDomainError(ErrCodeMissingField, "customer is required")
)

// Kind returns the error code carried by err, or "" when err is not a
// domain failure.
func Kind(err error) string {
	var unmet *DependencyUnmetError
	if errors.As(err, &unmet) {
		return ErrCodeDependencyUnmet
	}
	var domain *DomainError
	if errors.As(err, &domain) {
		return domain.Code
	}
	return ""
}

// IsKind reports whether err carries the given error code.
func IsKind(err error, code string) bool {
	return Kind(err) == code
}
