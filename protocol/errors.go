package protocol

import "errors"

var (
	// ErrMalformedMessage marks a buffer that cannot hold the structure
	// it claims to carry.
	ErrMalformedMessage = errors.New("malformed message")
	// ErrFieldOverflow marks a value that does not fit its fixed wire
	// slot. Values are never silently truncated.
	ErrFieldOverflow = errors.New("field overflow")
	// ErrPrecondition marks a caller logic error, like broadcasting an
	// unsigned transaction.
	ErrPrecondition = errors.New("precondition failed")
)
