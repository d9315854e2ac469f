package inventory

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/invgui/internal/item"
)

// ResizeHandler is called after a Virtual changed its number of slots.
type ResizeHandler func(oldSize, newSize int)

// Virtual is an inventory that owns its slots.
//
// It is identified by a UUID, can be resized, and can be persisted with
// Serialize / Deserialize.
type Virtual struct {
	*Inventory

	id         uuid.UUID
	items      []*item.Stack
	capacities []int

	resizeHandlers []resizeEntry
	nextHandlerID  int
}

type resizeEntry struct {
	id int
	h  ResizeHandler
}

// NewVirtual creates a Virtual with the given size.
//
// items and capacities may be nil; otherwise their length must equal size.
// Missing capacities default to item.DefaultMaxStack. A uuid.Nil id is
// replaced by a fresh version 7 UUID. Items are copied; empty stacks become
// empty slots. Construction fails if any stack exceeds the effective
// capacity of its slot.
func NewVirtual(id uuid.UUID, size int, items []*item.Stack, capacities []int, opts ...Option) (*Virtual, error) {
	if size < 0 {
		return nil, fmt.Errorf("new virtual inventory: %w: %d", ErrInvalidSize, size)
	}
	if items != nil && len(items) != size {
		return nil, fmt.Errorf("new virtual inventory: %w: %d items for size %d", ErrSizeMismatch, len(items), size)
	}
	if capacities != nil && len(capacities) != size {
		return nil, fmt.Errorf("new virtual inventory: %w: %d capacities for size %d", ErrSizeMismatch, len(capacities), size)
	}

	caps := make([]int, size)
	for i := range caps {
		caps[i] = item.DefaultMaxStack
		if capacities != nil {
			if capacities[i] < 1 {
				return nil, fmt.Errorf("new virtual inventory: %w: slot %d has %d", ErrInvalidCapacity, i, capacities[i])
			}
			caps[i] = capacities[i]
		}
	}

	stacks := make([]*item.Stack, size)
	for i := range items {
		s := item.TakeUnlessEmpty(items[i])
		if s == nil {
			continue
		}
		if limit := EffectiveCapacity(caps[i], s.MaxStackSize()); s.Amount > limit {
			return nil, fmt.Errorf("new virtual inventory: %w: slot %d holds %d, limit %d", ErrOverCapacity, i, s.Amount, limit)
		}
		stacks[i] = s.Clone()
	}

	if id == uuid.Nil {
		id = uuid.Must(uuid.NewV7())
	}

	v := &Virtual{id: id, items: stacks, capacities: caps}
	v.Inventory = newInventory(v, opts...)
	return v, nil
}

// NewSized creates an empty Virtual with default capacities and a fresh
// UUID. It panics if size is negative.
func NewSized(size int, opts ...Option) *Virtual {
	v, err := NewVirtual(uuid.Nil, size, nil, nil, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// newScratch copies the slots and capacities of inv into a private Virtual
// with no handlers and no observers.
func newScratch(inv *Inventory) *Virtual {
	size := inv.b.size()
	v := &Virtual{
		items:      make([]*item.Stack, size),
		capacities: make([]int, size),
	}
	for i := 0; i < size; i++ {
		v.items[i] = inv.b.unsafeItem(i).Clone()
		v.capacities[i] = inv.b.slotCapacity(i)
	}
	v.Inventory = newInventory(v)
	return v
}

// UUID returns the identity of the inventory.
func (v *Virtual) UUID() uuid.UUID {
	return v.id
}

// SetSlotCapacity changes the capacity of slot. It fails if the slot holds
// more items than the new capacity allows.
func (v *Virtual) SetSlotCapacity(slot, capacity int) error {
	v.checkSlot(slot)
	if capacity < 1 {
		return fmt.Errorf("set slot capacity: %w: %d", ErrInvalidCapacity, capacity)
	}
	if cur := v.items[slot]; cur != nil && cur.Amount > EffectiveCapacity(capacity, cur.MaxStackSize()) {
		return fmt.Errorf("set slot capacity: %w: slot %d holds %d", ErrOverCapacity, slot, cur.Amount)
	}
	v.capacities[slot] = capacity
	v.notify(slot)
	return nil
}

// Resize changes the number of slots. Slots below the new size keep their
// content and capacity; new slots are empty with the default capacity.
// Resize handlers run before observers are told that all slots changed.
func (v *Virtual) Resize(size int) error {
	if size < 0 {
		return fmt.Errorf("resize: %w: %d", ErrInvalidSize, size)
	}
	old := len(v.items)
	if size == old {
		return nil
	}

	items := make([]*item.Stack, size)
	copy(items, v.items)
	caps := make([]int, size)
	copy(caps, v.capacities)
	for i := old; i < size; i++ {
		caps[i] = item.DefaultMaxStack
	}
	v.items = items
	v.capacities = caps

	for _, e := range slices.Clone(v.resizeHandlers) {
		v.runResizeHandler(e.h, old, size)
	}
	v.notify(AllSlots)
	return nil
}

func (v *Virtual) runResizeHandler(h ResizeHandler, old, size int) {
	defer func() {
		if r := recover(); r != nil {
			v.log().Error("resize handler panicked",
				"inventory", v.id.String(),
				"old_size", old,
				"new_size", size,
				"panic", r,
			)
		}
	}()
	h(old, size)
}

// OnResize registers h and returns a function that unregisters it.
func (v *Virtual) OnResize(h ResizeHandler) (cancel func()) {
	v.nextHandlerID++
	id := v.nextHandlerID
	v.resizeHandlers = append(v.resizeHandlers, resizeEntry{id: id, h: h})
	return func() {
		v.resizeHandlers = slices.DeleteFunc(v.resizeHandlers, func(e resizeEntry) bool {
			return e.id == id
		})
	}
}

func (v *Virtual) size() int { return len(v.items) }

func (v *Virtual) unsafeItem(slot int) *item.Stack { return v.items[slot] }

func (v *Virtual) setClone(slot int, s *item.Stack) {
	v.items[slot] = item.TakeUnlessEmpty(s).Clone()
}

func (v *Virtual) setDirect(slot int, s *item.Stack) {
	v.items[slot] = item.TakeUnlessEmpty(s)
}

func (v *Virtual) slotCapacity(slot int) int { return v.capacities[slot] }

func (v *Virtual) changed(slot int) { v.notify(slot) }
