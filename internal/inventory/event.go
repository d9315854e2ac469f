package inventory

import "github.com/roach88/invgui/internal/item"

// PreUpdateHandler inspects, alters or cancels a proposed slot write.
type PreUpdateHandler func(*PreUpdateEvent)

// PostUpdateHandler observes a slot write after it happened.
type PostUpdateHandler func(*PostUpdateEvent)

// PreUpdateEvent describes a proposed slot write.
//
// Handlers may replace New to change what gets written, or cancel the
// write. Previous is a copy; changing it has no effect.
type PreUpdateEvent struct {
	Inventory *Inventory
	Cause     Cause
	Slot      int
	Previous  *item.Stack
	New       *item.Stack

	cancelled bool
}

// Cancel prevents the write.
func (e *PreUpdateEvent) Cancel() { e.cancelled = true }

// SetCancelled sets whether the write is prevented.
func (e *PreUpdateEvent) SetCancelled(cancelled bool) { e.cancelled = cancelled }

// Cancelled reports whether the write has been cancelled.
func (e *PreUpdateEvent) Cancelled() bool { return e.cancelled }

// IsAdd reports whether the write only adds items of the same kind.
func (e *PreUpdateEvent) IsAdd() bool { return isAdd(e.Previous, e.New) }

// IsRemove reports whether the write only removes items.
func (e *PreUpdateEvent) IsRemove() bool { return isRemove(e.Previous, e.New) }

// IsSwap reports whether the write replaces one kind of item with another.
func (e *PreUpdateEvent) IsSwap() bool { return isSwap(e.Previous, e.New) }

// AddedAmount returns how many items the write adds.
func (e *PreUpdateEvent) AddedAmount() int { return addedAmount(e.Previous, e.New) }

// RemovedAmount returns how many items the write removes.
func (e *PreUpdateEvent) RemovedAmount() int { return removedAmount(e.Previous, e.New) }

// PostUpdateEvent describes a completed slot write.
type PostUpdateEvent struct {
	Inventory *Inventory
	Cause     Cause
	Slot      int
	Previous  *item.Stack
	New       *item.Stack
}

// IsAdd reports whether the write only added items of the same kind.
func (e *PostUpdateEvent) IsAdd() bool { return isAdd(e.Previous, e.New) }

// IsRemove reports whether the write only removed items.
func (e *PostUpdateEvent) IsRemove() bool { return isRemove(e.Previous, e.New) }

// IsSwap reports whether the write replaced one kind of item with another.
func (e *PostUpdateEvent) IsSwap() bool { return isSwap(e.Previous, e.New) }

// AddedAmount returns how many items the write added.
func (e *PostUpdateEvent) AddedAmount() int { return addedAmount(e.Previous, e.New) }

// RemovedAmount returns how many items the write removed.
func (e *PostUpdateEvent) RemovedAmount() int { return removedAmount(e.Previous, e.New) }

func isAdd(prev, next *item.Stack) bool {
	if item.Empty(next) {
		return false
	}
	if item.Empty(prev) {
		return true
	}
	return prev.IsSimilar(next) && next.Amount > prev.Amount
}

func isRemove(prev, next *item.Stack) bool {
	if item.Empty(prev) {
		return false
	}
	if item.Empty(next) {
		return true
	}
	return prev.IsSimilar(next) && next.Amount < prev.Amount
}

func isSwap(prev, next *item.Stack) bool {
	return !item.Empty(prev) && !item.Empty(next) && !prev.IsSimilar(next)
}

func addedAmount(prev, next *item.Stack) int {
	switch {
	case isSwap(prev, next):
		return item.Amount(next)
	case isAdd(prev, next):
		return item.Amount(next) - item.Amount(prev)
	default:
		return 0
	}
}

func removedAmount(prev, next *item.Stack) int {
	switch {
	case isSwap(prev, next):
		return item.Amount(prev)
	case isRemove(prev, next):
		return item.Amount(prev) - item.Amount(next)
	default:
		return 0
	}
}
