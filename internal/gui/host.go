package gui

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

// Viewer is the context an item is rendered for.
type Viewer interface {
	ID() string
	Locale() language.Tag
}

// Player is the host state a click acts on.
type Player interface {
	Viewer

	// Cursor returns a copy of the stack on the cursor, or nil.
	Cursor() *item.Stack
	SetCursor(s *item.Stack)

	// Inventory returns the player's own inventory. Slots 0 through 8 are
	// the hotbar.
	Inventory() *inventory.Inventory

	// Drop throws s into the world.
	Drop(s *item.Stack)
}

// Item is an externally owned, item-producing handle shown by ItemElement.
type Item interface {
	Render(v Viewer) *item.Stack
	HandleClick(c Click)
}

// Window displays a grid. The graph tells it which cells need redrawing.
type Window interface {
	HandleSlotUpdate(g *Grid, slot int)
}

// ClickKind is the kind of a click on a cell.
type ClickKind int

const (
	ClickLeft ClickKind = iota + 1
	ClickRight
	ClickShiftLeft
	ClickShiftRight
	ClickNumberKey
	ClickDrop
	ClickControlDrop
	ClickDouble
)

var clickNames = map[ClickKind]string{
	ClickLeft:        "left",
	ClickRight:       "right",
	ClickShiftLeft:   "shift_left",
	ClickShiftRight:  "shift_right",
	ClickNumberKey:   "number_key",
	ClickDrop:        "drop",
	ClickControlDrop: "control_drop",
	ClickDouble:      "double_click",
}

func (k ClickKind) String() string {
	if s, ok := clickNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ClickKind(%d)", int(k))
}

// ParseClickKind returns the kind named s, as printed by String.
func ParseClickKind(s string) (ClickKind, error) {
	for k, name := range clickNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown click kind %q", s)
}

// Click is a click by a player on one cell.
type Click struct {
	Kind   ClickKind
	Player Player
	Slot   int

	// Hotbar is the hotbar slot for ClickNumberKey.
	Hotbar int
}

// Drag is a drag of the cursor stack over several cells of one grid.
type Drag struct {
	Player Player
	Slots  []int

	// Right distributes one item per slot instead of splitting evenly.
	Right bool
}
