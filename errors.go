package dictomaton

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfOrder is returned when a word is not strictly greater than the
	// previously added word.
	ErrOutOfOrder = errors.New("words not in strictly increasing order")

	// ErrFinalized is returned when a builder is modified after it was
	// finalized by Build, BuildPerfectHash or a dot export.
	ErrFinalized = errors.New("builder finalized")

	// ErrNotFound is returned by lookups of words that are not in the
	// dictionary.
	ErrNotFound = errors.New("not found")

	// ErrRankOutOfRange is returned by Unrank for ranks outside [0, Size).
	ErrRankOutOfRange = fmt.Errorf("rank out of range: %w", ErrNotFound)
)

// OutOfOrderError reports an Add that would break the ordering contract.
type OutOfOrderError struct {
	Previous string
	Word     string
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("cannot add %q after %q: %v", e.Word, e.Previous, ErrOutOfOrder)
}

func (e *OutOfOrderError) Unwrap() error {
	return ErrOutOfOrder
}

// NotFoundError reports a lookup of a key that is not accepted.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q: %v", e.Key, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ErrInvalidWord is returned for words that are not valid UTF-8.
var ErrInvalidWord = errors.New("word is not valid UTF-8")
