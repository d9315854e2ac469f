package inventory

import (
	"slices"

	"github.com/roach88/invgui/internal/item"
)

// Composite exposes several inventories as one contiguous index space, in
// list order. It stores nothing itself.
//
// Writes through a Composite fire the Composite's own handlers; the
// underlying inventories' observers are notified of the change. While the
// Composite is observed, changes made directly on an underlying inventory
// are forwarded to its observers with translated indices.
type Composite struct {
	*Inventory

	parts []*Inventory
	fwd   *compositeForwarder
}

// NewComposite creates a Composite over parts. The list is copied.
func NewComposite(parts []*Inventory, opts ...Option) *Composite {
	c := &Composite{parts: slices.Clone(parts)}
	c.fwd = &compositeForwarder{c: c}
	c.Inventory = newInventory(c, opts...)
	return c
}

// Parts returns the underlying inventories in order.
func (c *Composite) Parts() []*Inventory {
	return slices.Clone(c.parts)
}

// Find maps slot to the inventory holding it and the index within it.
func (c *Composite) Find(slot int) (*Inventory, int, error) {
	if slot >= 0 {
		offset := 0
		for _, p := range c.parts {
			size := p.Size()
			if slot < offset+size {
				return p, slot - offset, nil
			}
			offset += size
		}
	}
	return nil, 0, &IndexError{Slot: slot, Size: c.size()}
}

func (c *Composite) mustFind(slot int) (*Inventory, int) {
	p, local, err := c.Find(slot)
	if err != nil {
		panic(err)
	}
	return p, local
}

func (c *Composite) size() int {
	total := 0
	for _, p := range c.parts {
		total += p.Size()
	}
	return total
}

func (c *Composite) unsafeItem(slot int) *item.Stack {
	p, local := c.mustFind(slot)
	return p.b.unsafeItem(local)
}

func (c *Composite) setClone(slot int, s *item.Stack) {
	p, local := c.mustFind(slot)
	p.b.setClone(local, s)
}

func (c *Composite) setDirect(slot int, s *item.Stack) {
	p, local := c.mustFind(slot)
	p.b.setDirect(local, s)
}

func (c *Composite) slotCapacity(slot int) int {
	p, local := c.mustFind(slot)
	return p.b.slotCapacity(local)
}

func (c *Composite) changed(slot int) {
	p, local := c.mustFind(slot)
	p.b.changed(local)
}

func (c *Composite) attach() {
	for _, p := range c.distinctParts() {
		p.AddObserver(c.fwd)
	}
}

func (c *Composite) detach() {
	for _, p := range c.distinctParts() {
		p.RemoveObserver(c.fwd)
	}
}

func (c *Composite) distinctParts() []*Inventory {
	var out []*Inventory
	for _, p := range c.parts {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// compositeForwarder relays notifications from the parts of a Composite to
// the Composite's observers.
type compositeForwarder struct {
	c *Composite
}

func (f *compositeForwarder) InventoryChanged(src *Inventory, slot int) {
	if slot == AllSlots {
		f.c.notify(AllSlots)
		return
	}
	offset := 0
	for _, p := range f.c.parts {
		if p == src {
			f.c.notify(offset + slot)
		}
		offset += p.Size()
	}
}
