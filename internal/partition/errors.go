package partition

import (
	"errors"
	"fmt"
)

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// CodeKeyOverlap indicates a unit key present in both train and test.
	CodeKeyOverlap InvariantCode = "KEY_OVERLAP"

	// CodeSizeMismatch indicates |train| + |test| != |source| in member records.
	CodeSizeMismatch InvariantCode = "SIZE_MISMATCH"

	// CodeSchemaMismatch indicates a partition schema diverging from the source.
	CodeSchemaMismatch InvariantCode = "SCHEMA_MISMATCH"

	// CodeDegenerateLabel indicates a must-vary column left constant in the
	// test partition after the single repair attempt.
	CodeDegenerateLabel InvariantCode = "DEGENERATE_LABEL"

	// CodeClassLoss indicates a class label present in the source but absent
	// from both partitions.
	CodeClassLoss InvariantCode = "CLASS_LOSS"
)

// InvariantViolationError reports a failed structural invariant.
// Violations are fail-fast and non-recoverable: they indicate a bug in the
// raw data or the caller's configuration, never a transient condition.
type InvariantViolationError struct {
	Code    InvariantCode
	Message string
	Details map[string]string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvariantViolation reports whether err is an InvariantViolationError
// with the given code. Uses errors.As to handle wrapped errors.
func IsInvariantViolation(err error, code InvariantCode) bool {
	var ive *InvariantViolationError
	if errors.As(err, &ive) {
		return ive.Code == code
	}
	return false
}

func newViolation(code InvariantCode, format string, args ...any) *InvariantViolationError {
	return &InvariantViolationError{Code: code, Message: fmt.Sprintf(format, args...)}
}
