package testutil

import (
	"golang.org/x/text/language"

	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

// PlayerInventorySize matches a host player inventory: 9 hotbar slots
// followed by 27 storage slots.
const PlayerInventorySize = 36

// Player is an in-memory gui.Player.
type Player struct {
	Name    string
	Lang    language.Tag
	Held    *item.Stack
	Storage *inventory.Virtual
	Dropped []*item.Stack
}

// NewPlayer creates a player with an empty inventory.
func NewPlayer(name string) *Player {
	return &Player{
		Name:    name,
		Lang:    language.English,
		Storage: inventory.NewSized(PlayerInventorySize),
	}
}

// ID implements gui.Viewer.
func (p *Player) ID() string { return p.Name }

// Locale implements gui.Viewer.
func (p *Player) Locale() language.Tag { return p.Lang }

// Cursor implements gui.Player.
func (p *Player) Cursor() *item.Stack { return p.Held.Clone() }

// SetCursor implements gui.Player.
func (p *Player) SetCursor(s *item.Stack) { p.Held = item.TakeUnlessEmpty(s).Clone() }

// Inventory implements gui.Player.
func (p *Player) Inventory() *inventory.Inventory { return p.Storage.Inventory }

// Drop implements gui.Player.
func (p *Player) Drop(s *item.Stack) {
	if s = item.TakeUnlessEmpty(s); s != nil {
		p.Dropped = append(p.Dropped, s.Clone())
	}
}

// DroppedAmount returns the total amount dropped so far.
func (p *Player) DroppedAmount() int {
	total := 0
	for _, s := range p.Dropped {
		total += s.Amount
	}
	return total
}
