package api

import "fmt"

// ValidationError is a client-side field check failure. It is raised before
// any request is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthError means the call needs a verified session and none is present,
// or the server rejected the token.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "must verify account: " + e.Reason
}

// NetworkError is a transport failure or a non-2xx response without a
// recognized business error code.
type NetworkError struct {
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return "request failed: " + e.Err.Error()
	}
	return fmt.Sprintf("request failed: status %d", e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Recognized business error codes returned by the chat endpoints.
const (
	CodeInsufficientFunds = "Insufficient funds in BoxMoney."
	CodeMessageLimitUnset = "Message limit is not set."
	CodeWalletMissing     = "BoxMoney not found."
)

// DomainError is a recognized business error returned with HTTP 400.
// Fields carries a field-keyed error map when the server provides one
// (e.g. visit form validation).
type DomainError struct {
	Code   string
	Fields map[string]string
}

func (e *DomainError) Error() string {
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("server rejected request (%d field errors)", len(e.Fields))
}
