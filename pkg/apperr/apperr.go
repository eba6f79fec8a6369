package apperr

import "fmt"

// Error codes surfaced to API clients. Handlers map these to HTTP statuses.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeInvalidState       = "INVALID_STATE"
	CodeNotFound           = "NOT_FOUND"
	CodeNothingAccepted    = "NOTHING_ACCEPTED"
	CodeAlreadyCompensated = "ALREADY_COMPENSATED"
)

// Error is a typed domain error. Callers branch on Code, never on the
// message text.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is match two domain errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Validation reports invalid caller input on a specific field.
func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// InsufficientStock reports that an operation would drive available or
// on-hand stock negative.
func InsufficientStock(message string) *Error {
	return &Error{Code: CodeInsufficientStock, Message: message}
}

// InvalidState reports a transition attempted on an entity not in the
// required state.
func InvalidState(message string) *Error {
	return &Error{Code: CodeInvalidState, Message: message}
}

// NotFound reports an unknown entity id.
func NotFound(entity string) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

// NothingAccepted reports a confirm call where every accepted quantity was
// zero. The caller should reject the transfer instead.
func NothingAccepted() *Error {
	return &Error{Code: CodeNothingAccepted, Message: "no quantity was accepted; reject the transfer instead"}
}

// AlreadyCompensated reports an attempt to create a second compensation
// transfer for the same parent. The single-confirm rule makes this a
// programming error, not a user-facing condition.
func AlreadyCompensated(transferID string) *Error {
	return &Error{Code: CodeAlreadyCompensated, Message: "transfer " + transferID + " already has a return transfer"}
}
