package temporal

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrUnsupportedFamily is returned when a converter is requested for a
	// family that has no transform of the requested width.
	ErrUnsupportedFamily = errors.New("unsupported pattern family")

	// ErrInvalidPattern is returned when a pattern string cannot be compiled.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// IsInvariantViolation reports whether err signals an internal defect, such as
// a raw buffer whose width does not match the family's logical type.
func IsInvariantViolation(err error) bool {
	return err != nil && errors.HasAssertionFailure(err)
}
