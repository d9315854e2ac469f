package inventory

import (
	"slices"

	"github.com/roach88/invgui/internal/item"
)

// Masked exposes a subset of the slots of another inventory.
//
// The included slots are chosen once, at construction; slot i of the Masked
// inventory is the i-th included slot of the source. Notification and
// handler behaviour matches Composite.
type Masked struct {
	*Inventory

	src     *Inventory
	slots   []int
	reverse []int
	fwd     *maskedForwarder
}

// NewMasked creates a Masked view of src containing every slot for which
// include returns true.
func NewMasked(src *Inventory, include func(slot int) bool, opts ...Option) *Masked {
	size := src.Size()
	m := &Masked{src: src, reverse: make([]int, size)}
	for i := 0; i < size; i++ {
		m.reverse[i] = -1
		if include(i) {
			m.reverse[i] = len(m.slots)
			m.slots = append(m.slots, i)
		}
	}
	m.fwd = &maskedForwarder{m: m}
	m.Inventory = newInventory(m, opts...)
	return m
}

// NewObscured creates a Masked view of src that hides the given slots.
func NewObscured(src *Inventory, hidden []int, opts ...Option) *Masked {
	return NewMasked(src, func(slot int) bool {
		return !slices.Contains(hidden, slot)
	}, opts...)
}

// Source returns the wrapped inventory.
func (m *Masked) Source() *Inventory {
	return m.src
}

// SourceSlot returns the source index behind slot.
func (m *Masked) SourceSlot(slot int) int {
	m.checkSlot(slot)
	return m.slots[slot]
}

// SourceSlots returns the included source indices in order.
func (m *Masked) SourceSlots() []int {
	return slices.Clone(m.slots)
}

func (m *Masked) at(slot int) int {
	idx := m.slots[slot]
	m.src.checkSlot(idx)
	return idx
}

func (m *Masked) size() int { return len(m.slots) }

func (m *Masked) unsafeItem(slot int) *item.Stack { return m.src.b.unsafeItem(m.at(slot)) }

func (m *Masked) setClone(slot int, s *item.Stack) { m.src.b.setClone(m.at(slot), s) }

func (m *Masked) setDirect(slot int, s *item.Stack) { m.src.b.setDirect(m.at(slot), s) }

func (m *Masked) slotCapacity(slot int) int { return m.src.b.slotCapacity(m.at(slot)) }

func (m *Masked) changed(slot int) { m.src.b.changed(m.at(slot)) }

func (m *Masked) attach() { m.src.AddObserver(m.fwd) }

func (m *Masked) detach() { m.src.RemoveObserver(m.fwd) }

type maskedForwarder struct {
	m *Masked
}

func (f *maskedForwarder) InventoryChanged(_ *Inventory, slot int) {
	if slot == AllSlots {
		f.m.notify(AllSlots)
		return
	}
	if slot < len(f.m.reverse) && f.m.reverse[slot] >= 0 {
		f.m.notify(f.m.reverse[slot])
	}
}
