package auth

import (
	"errors"
	"fmt"
)

// ErrorKind tags the distinct ways token extraction, parsing, and validation fail.
type ErrorKind string

const (
	ErrorKindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	ErrorKindSignature       ErrorKind = "SIGNATURE_INVALID"
	ErrorKindMalformed       ErrorKind = "MALFORMED"
	ErrorKindExpired         ErrorKind = "EXPIRED"
	ErrorKindUnsupported     ErrorKind = "UNSUPPORTED"
)

// TokenError pairs a failure kind with the underlying cause. ValidateToken
// collapses it to a boolean; callers that need to branch keep the kind.
type TokenError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

func newTokenError(kind ErrorKind, message string, err error) *TokenError {
	return &TokenError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from err; it returns "" when err carries no kind.
func KindOf(err error) ErrorKind {
	var tokenErr *TokenError
	if errors.As(err, &tokenErr) {
		return tokenErr.Kind
	}
	return ""
}
