package gui

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned for grids with a non-positive width
	// or height.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrNoContentSlots is returned when a paged or scroll grid is built
	// without content slots.
	ErrNoContentSlots = errors.New("no content slots")

	// ErrLineLength is returned when content slots cannot be split into
	// lines of equal length.
	ErrLineLength = errors.New("invalid line length")
)

// IndexError reports an access to a cell outside [0, Size).
// Cell accesses panic with an *IndexError, like slice indexing.
type IndexError struct {
	Slot int
	Size int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("cell %d out of range [0,%d)", e.Slot, e.Size)
}

// ConfigError reports a grid wiring that cannot be evaluated.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Grid and Slot identify where the failing walk started.
	Grid GridID
	Slot int
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeForwardCycle indicates a forwarding chain longer than the
	// graph's max hops, almost always a cycle.
	ErrCodeForwardCycle ConfigErrorCode = "FORWARD_CYCLE"

	// ErrCodeDanglingLink indicates a LinkedSlot whose target slot is out
	// of range for the target grid, or an InventoryLink whose slot is out
	// of range for its inventory.
	ErrCodeDanglingLink ConfigErrorCode = "DANGLING_LINK"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s (grid=%s, slot=%d)", e.Code, e.Message, e.Grid, e.Slot)
}

// IsForwardCycle reports whether err is a forwarding cycle error.
// Uses errors.As to handle wrapped errors.
func IsForwardCycle(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeForwardCycle
	}
	return false
}

// IsDanglingLink reports whether err is a dangling link error.
func IsDanglingLink(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeDanglingLink
	}
	return false
}
