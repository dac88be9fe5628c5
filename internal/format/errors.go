package format

import (
	"errors"
	"fmt"
)

// CorruptProjectError reports a document that is not well-formed JSON or is
// missing its version field.
type CorruptProjectError struct {
	Reason string
}

// Error implements the error interface.
func (e *CorruptProjectError) Error() string {
	return fmt.Sprintf("corrupt project document: %s", e.Reason)
}

// UnsupportedVersionError reports a format_version this build cannot read.
type UnsupportedVersionError struct {
	Version int
	Current int
}

// Error implements the error interface.
func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported format version %d (current is %d)", e.Version, e.Current)
}

// InvalidProjectError reports a well-formed document that fails the schema
// or the model's referential invariants.
type InvalidProjectError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *InvalidProjectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid project document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid project document: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *InvalidProjectError) Unwrap() error { return e.Err }

// IsCorrupt reports whether err is a CorruptProjectError.
func IsCorrupt(err error) bool {
	var ce *CorruptProjectError
	return errors.As(err, &ce)
}

// IsUnsupportedVersion reports whether err is an UnsupportedVersionError.
func IsUnsupportedVersion(err error) bool {
	var ve *UnsupportedVersionError
	return errors.As(err, &ve)
}

// IsInvalid reports whether err is an InvalidProjectError.
func IsInvalid(err error) bool {
	var ie *InvalidProjectError
	return errors.As(err, &ie)
}
