// Package window adapts a top-level grid to one viewer.
//
// A View is the gui.Window attached to a grid. It records which cells the
// graph reported as changed and re-renders only those on Flush.
package window

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/invgui/internal/gui"
	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

// Change is one re-rendered cell.
type Change struct {
	Slot int
	Item *item.Stack
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the view's logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithUpdateHook registers fn to observe every slot update the view
// receives, before it is flushed.
func WithUpdateHook(fn func(slot int)) Option {
	return func(v *View) { v.hook = fn }
}

// View shows a grid to one player.
type View struct {
	grid   *gui.Grid
	player gui.Player

	rendered []*item.Stack
	dirty    map[int]struct{}
	updates  int
	closed   bool

	hook   func(slot int)
	logger *slog.Logger
}

// Open attaches a new View for player to grid. Every cell starts dirty.
func Open(grid *gui.Grid, player gui.Player, opts ...Option) *View {
	v := &View{
		grid:     grid,
		player:   player,
		rendered: make([]*item.Stack, grid.Size()),
		dirty:    make(map[int]struct{}, grid.Size()),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	for i := 0; i < grid.Size(); i++ {
		v.dirty[i] = struct{}{}
	}
	grid.Graph().Attach(grid.ID(), v)
	return v
}

// Grid returns the displayed grid.
func (v *View) Grid() *gui.Grid { return v.grid }

// Player returns the viewer.
func (v *View) Player() gui.Player { return v.player }

// HandleSlotUpdate implements gui.Window.
func (v *View) HandleSlotUpdate(g *gui.Grid, slot int) {
	if v.closed || g != v.grid {
		return
	}
	v.updates++
	v.dirty[slot] = struct{}{}
	if v.hook != nil {
		v.hook(slot)
	}
}

// Updates returns how many slot updates the view has received.
func (v *View) Updates() int { return v.updates }

// Dirty returns the slots waiting for Flush, in order.
func (v *View) Dirty() []int {
	out := make([]int, 0, len(v.dirty))
	for s := range v.dirty {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Flush re-renders the dirty slots and returns those whose content
// changed. Cells that fail to render are logged and shown empty.
func (v *View) Flush() []Change {
	var changes []Change
	for _, slot := range v.Dirty() {
		delete(v.dirty, slot)
		s, err := v.grid.Render(slot, v.player)
		if err != nil {
			v.logger.Warn("render failed",
				"grid", v.grid.ID().String(),
				"slot", slot,
				"error", err,
			)
			s = nil
		}
		if item.Equal(s, v.rendered[slot]) {
			continue
		}
		v.rendered[slot] = s
		changes = append(changes, Change{Slot: slot, Item: s.Clone()})
	}
	return changes
}

// Item returns the last flushed content of slot.
func (v *View) Item(slot int) *item.Stack {
	return v.rendered[slot].Clone()
}

// Click sends a click on slot to the grid and flushes.
func (v *View) Click(kind gui.ClickKind, slot, hotbar int) ([]Change, error) {
	if v.closed {
		return nil, fmt.Errorf("click: view closed")
	}
	err := v.grid.HandleClick(gui.Click{Kind: kind, Player: v.player, Slot: slot, Hotbar: hotbar})
	return v.Flush(), err
}

// Drag sends a drag over slots to the grid and flushes.
func (v *View) Drag(slots []int, right bool) ([]Change, error) {
	if v.closed {
		return nil, fmt.Errorf("drag: view closed")
	}
	err := v.grid.HandleDrag(gui.Drag{Player: v.player, Slots: slots, Right: right})
	return v.Flush(), err
}

// Close detaches the view. A non-empty cursor is returned to the player's
// inventory, and dropped if it does not fit.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.grid.Graph().Detach(v.grid.ID(), v)
	if cursor := item.TakeUnlessEmpty(v.player.Cursor()); cursor != nil {
		v.player.SetCursor(nil)
		if left := v.player.Inventory().AddItem(inventory.PlayerCause(v.player.ID(), "close"), cursor); left > 0 {
			v.player.Drop(cursor.WithAmount(left))
		}
	}
}

// Closed reports whether Close was called.
func (v *View) Closed() bool { return v.closed }

// Dump renders the last flushed state as text, one line per row. Empty
// cells are ".", others "material" or "material×amount".
func (v *View) Dump() string {
	var b strings.Builder
	w := v.grid.Width()
	for y := 0; y < v.grid.Height(); y++ {
		cells := make([]string, w)
		for x := 0; x < w; x++ {
			cells[x] = cellText(v.rendered[y*w+x])
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func cellText(s *item.Stack) string {
	switch {
	case item.Empty(s):
		return "."
	case s.Amount == 1:
		return s.Material
	default:
		return fmt.Sprintf("%s×%d", s.Material, s.Amount)
	}
}
