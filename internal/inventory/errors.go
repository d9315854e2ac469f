package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeMismatch is returned when the item or capacity list length does
	// not match the inventory size.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrInvalidSize is returned for negative inventory sizes.
	ErrInvalidSize = errors.New("invalid inventory size")

	// ErrInvalidCapacity is returned for slot capacities below one.
	ErrInvalidCapacity = errors.New("invalid slot capacity")

	// ErrOverCapacity is returned when a stack exceeds the effective
	// capacity of the slot it is being placed in at construction time or
	// when a capacity change would leave a slot over-full.
	ErrOverCapacity = errors.New("stack exceeds slot capacity")
)

// IndexError reports an access to a slot outside [0, Size).
//
// Slot accesses panic with an *IndexError, like slice indexing.
type IndexError struct {
	Slot int
	Size int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("slot %d out of range [0,%d)", e.Slot, e.Size)
}

// DecodeError reports malformed persisted inventory data.
type DecodeError struct {
	// Offset is the byte offset at which decoding failed.
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode inventory at byte %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsIndexError reports whether err is or wraps an *IndexError.
func IsIndexError(err error) bool {
	var ie *IndexError
	return errors.As(err, &ie)
}
