package gui

import (
	"fmt"

	"github.com/roach88/invgui/internal/inventory"
)

// SlotElement is the content of one cell. The set of implementations is
// closed: ItemElement, InventoryLink and LinkedSlot.
type SlotElement interface {
	isSlotElement()
	String() string
}

// ItemElement shows a static item.
type ItemElement struct {
	Item Item
}

// InventoryLink shows one slot of an inventory. Background is rendered
// while the slot is empty and may be nil.
type InventoryLink struct {
	Inventory  *inventory.Inventory
	Slot       int
	Background Item
}

// LinkedSlot forwards to a cell of another grid.
type LinkedSlot struct {
	Grid GridID
	Slot int
}

func (ItemElement) isSlotElement()   {}
func (InventoryLink) isSlotElement() {}
func (LinkedSlot) isSlotElement()    {}

func (e ItemElement) String() string {
	return fmt.Sprintf("item(%T)", e.Item)
}

// checkSlot fails when the linked slot no longer exists, which happens
// after the inventory shrinks. grid and slot name the linking cell.
func (e InventoryLink) checkSlot(grid GridID, slot int) error {
	if n := e.Inventory.Size(); e.Slot < 0 || e.Slot >= n {
		return &ConfigError{
			Code:    ErrCodeDanglingLink,
			Message: fmt.Sprintf("inventory slot %d out of range for a %d slot inventory", e.Slot, n),
			Grid:    grid,
			Slot:    slot,
		}
	}
	return nil
}

func (e InventoryLink) String() string {
	return fmt.Sprintf("inventory(%p:%d)", e.Inventory, e.Slot)
}

func (e LinkedSlot) String() string {
	return fmt.Sprintf("linked(%s:%d)", e.Grid, e.Slot)
}
