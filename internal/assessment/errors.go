package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind signals an item kind outside the supported set.
	ErrUnknownKind = errors.New("unknown item kind")

	// ErrUnknownUnit signals an authoring operation addressed to a unit
	// id the item does not contain. Learner sessions never raise this;
	// they treat unknown references as unanswered.
	ErrUnknownUnit = errors.New("unknown unit id")

	// ErrKindMismatch signals an operation that does not apply to the
	// item's kind (e.g. setCorrectness on an exercise).
	ErrKindMismatch = errors.New("operation does not apply to item kind")

	// ErrFixedCardinality signals add/remove on a kind whose unit count
	// is structural (true/false, text).
	ErrFixedCardinality = errors.New("kind has a fixed number of units")

	// ErrInvalidItem wraps structural validation failures so callers
	// can classify them without matching message text.
	ErrInvalidItem = errors.New("invalid item")

	// ErrIncompleteAttempt signals a submit before the completeness
	// predicate holds.
	ErrIncompleteAttempt = errors.New("attempt is not complete enough to submit")

	// ErrAlreadySubmitted signals a mutation or second submit on a
	// submitted session; Reset returns the session to a usable state.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
)

// BelowMinimumError rejects a removal that would take an item below its
// kind's structural minimum. The item is left unchanged.
type BelowMinimumError struct {
	Kind string
	Min  int
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("kind %s requires at least %d units", e.Kind, e.Min)
}
