package errors

import (
	"errors"
)

// Sentinel errors for the failure taxonomy. Handlers map these to
// user-visible fallback replies; nothing below the handler boundary is
// allowed to leave a webhook event without a response.
var (
	// ErrInvalidInput - empty or malformed call id, text, or message.
	// Rejected before any capability call is attempted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - no stored record for the given key. Normal for a new
	// session; never fatal.
	ErrNotFound = errors.New("not found")

	// ErrCapability - a model, embedding, or index call failed. The caller
	// degrades to a safe default instead of retrying.
	ErrCapability = errors.New("capability failure")

	// ErrInternal - unexpected failure; caught at the handler boundary and
	// turned into an apologetic reply.
	ErrInternal = errors.New("internal error")
)
