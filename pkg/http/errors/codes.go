package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeInvalidPayload   = "invalid_payload"
	ErrCodeValidationFailed = "validation_failed"

	// Item errors
	ErrCodeItemNotFound     = "item_not_found"
	ErrCodeUnknownKind      = "unknown_kind"
	ErrCodeBelowMinimum     = "below_minimum_cardinality"
	ErrCodeFixedCardinality = "fixed_cardinality"
	ErrCodeUnknownUnit      = "unknown_unit"
	ErrCodeSaveFailed       = "save_failed"

	// Attempt errors
	ErrCodeIncompleteAttempt = "incomplete_attempt"
	ErrCodeAlreadySubmitted  = "already_submitted"
	ErrCodeGradingFailed     = "grading_failed"

	// Server errors
	ErrCodeInternalError  = "internal_error"
	ErrCodeUpstreamError  = "upstream_error"
	ErrCodeNotImplemented = "not_implemented"
)
