package live

import (
	"errors"
	"fmt"
)

// ErrUnknownMatch is returned when a change arrives for a public id that was
// never registered with the watcher.
var ErrUnknownMatch = errors.New("match not registered")

// PatchErrorCode categorizes patch application failures.
type PatchErrorCode string

const (
	// ErrCodeUnknownEventType means a collection name matched no event variant.
	// The rest of the patch is not applied.
	ErrCodeUnknownEventType PatchErrorCode = "UNKNOWN_EVENT_TYPE"

	// ErrCodeIndexOutOfRange means a removal addressed a position that does not
	// exist (any more). Only that removal entry is skipped.
	ErrCodeIndexOutOfRange PatchErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeInvalidIndex means an explicit index key was not a non-negative
	// integer. The rest of the patch is not applied.
	ErrCodeInvalidIndex PatchErrorCode = "INVALID_INDEX"
)

// PatchError describes why (part of) a patch could not be applied.
type PatchError struct {
	Code       PatchErrorCode
	Collection string
	Index      int
	Message    string
}

// Error implements the error interface.
func (e *PatchError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("%s: %s (collection=%s)", e.Code, e.Message, e.Collection)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Fatal reports whether the error stops the rest of the patch.
func (e *PatchError) Fatal() bool {
	return e.Code != ErrCodeIndexOutOfRange
}

// IsUnknownEventType returns true if err wraps an unknown event type error.
func IsUnknownEventType(err error) bool {
	return hasCode(err, ErrCodeUnknownEventType)
}

// IsIndexOutOfRange returns true if err wraps an index out of range error.
func IsIndexOutOfRange(err error) bool {
	return hasCode(err, ErrCodeIndexOutOfRange)
}

// IsInvalidIndex returns true if err wraps an invalid index error.
func IsInvalidIndex(err error) bool {
	return hasCode(err, ErrCodeInvalidIndex)
}

func hasCode(err error, code PatchErrorCode) bool {
	var pe *PatchError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

func newUnknownEventType(name string) *PatchError {
	return &PatchError{
		Code:       ErrCodeUnknownEventType,
		Collection: name,
		Index:      -1,
		Message:    fmt.Sprintf("unknown event type %q", name),
	}
}

func newIndexOutOfRange(kind EventKind, index, length int) *PatchError {
	return &PatchError{
		Code:       ErrCodeIndexOutOfRange,
		Collection: kind.String(),
		Index:      index,
		Message:    fmt.Sprintf("index %d out of range (len %d)", index, length),
	}
}

func newInvalidIndex(kind EventKind, key string) *PatchError {
	return &PatchError{
		Code:       ErrCodeInvalidIndex,
		Collection: kind.String(),
		Index:      -1,
		Message:    fmt.Sprintf("invalid index %q", key),
	}
}
