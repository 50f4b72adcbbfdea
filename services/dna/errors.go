package dna

import (
	"errors"
	"fmt"
)

// ErrValidation matches every ValidationError via errors.Is.
var ErrValidation = errors.New("dna validation failed")

// ValidationError describes a value that a record field cannot hold.
//
// Validation errors are produced at mutation boundaries and handled there:
// the offending field keeps its previous value. They are returned for
// inspection and logging, not to abort the surrounding edit.
type ValidationError struct {
	Variant Variant
	Field   string
	Value   any
	Reason  string
}

// Error implements error.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s (got %v)", e.Variant, e.Field, e.Reason, e.Value)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// JoinValidation folds a slice of validation errors into one error, or nil.
func JoinValidation(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}
