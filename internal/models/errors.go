package models

import (
	"errors"
	"fmt"
	"strings"
)

// APIError represents a standardized error response format for the API.
// @Description APIError represents a standardized error response format, including an application-specific error code, a human-readable message, and optional details.
type APIError struct {
	Code    string      `json:"code"`              // Application-specific error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string      `json:"message"`           // Human-readable message describing the error
	Details interface{} `json:"details,omitempty"` // Optional field for additional error details (e.g., validation failures per field)
}

// Predefined application-specific error codes
const (
	// Generic Errors
	ErrorCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"

	// Input Validation & Data Errors
	ErrorCodeValidation      = "VALIDATION_ERROR" // General validation failure
	ErrorCodeInvalidIDFormat = "INVALID_ID_FORMAT"

	// Resource Specific Errors
	ErrorCodeNotFound          = "NOT_FOUND"
	ErrorCodeClientNotFound    = "CLIENT_NOT_FOUND"
	ErrorCodeInterfaceNotFound = "INTERFACE_NOT_FOUND"
	ErrorCodeRuleNotFound      = "MAPPING_RULE_NOT_FOUND"
	ErrorCodeFileNotFound      = "PROCESSED_FILE_NOT_FOUND"

	// Business Logic / State Errors
	ErrorCodeConflict      = "CONFLICT_ERROR" // e.g., unique constraint violation
	ErrorCodeDuplicateName = "DUPLICATE_NAME"
	ErrorCodeMissingTenant = "CLIENT_CONTEXT_MISSING"
)

// Pipeline error taxonomy. All of these are caught at the orchestration
// boundary and turned into a terminal ERROR ProcessedFile row; they never
// escape to the caller as a fault.
var (
	// ErrMalformedDocument means the input could not be parsed as XML.
	ErrMalformedDocument = errors.New("malformed XML document")

	// ErrInterfaceNotFound means no active interface of the client matched the
	// document on any detection tier.
	ErrInterfaceNotFound = errors.New("could not detect interface for XML document")

	// ErrTenantContextMissing means processing was attempted without a
	// resolvable client.
	ErrTenantContextMissing = errors.New("client context not available")

	// ErrConfigurationNotFound means a referenced interface or rule set was
	// deleted mid-flight.
	ErrConfigurationNotFound = errors.New("interface configuration not found")

	// ErrCancelled means the caller's context was cancelled between pipeline
	// phases.
	ErrCancelled = errors.New("processing cancelled")
)

// FieldError is one failed mapping rule within an extraction attempt: the rule
// it belongs to and why it failed.
type FieldError struct {
	RuleID   string `json:"rule_id"`
	RuleName string `json:"rule_name"`
	Field    string `json:"field"`
	Reason   string `json:"reason"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s (%s): %s", e.RuleName, e.Field, e.Reason)
}

// ExtractionError aggregates every failed rule of one extraction attempt. The
// engine never short-circuits, so a single attempt reports all invalid fields
// at once.
type ExtractionError struct {
	FieldErrors []FieldError
}

func (e *ExtractionError) Error() string {
	parts := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		parts = append(parts, fe.String())
	}
	return fmt.Sprintf("extraction failed for %d field(s): %s", len(e.FieldErrors), strings.Join(parts, "; "))
}
