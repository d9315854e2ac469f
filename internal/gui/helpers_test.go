package gui

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

type update struct {
	grid GridID
	slot int
}

type recordingWindow struct {
	updates []update
}

func (w *recordingWindow) HandleSlotUpdate(g *Grid, slot int) {
	w.updates = append(w.updates, update{grid: g.ID(), slot: slot})
}

func (w *recordingWindow) reset() { w.updates = nil }

type fakePlayer struct {
	id      string
	locale  language.Tag
	cursor  *item.Stack
	inv     *inventory.Virtual
	dropped []*item.Stack
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{id: "alice", locale: language.English, inv: inventory.NewSized(36)}
}

func (p *fakePlayer) ID() string                      { return p.id }
func (p *fakePlayer) Locale() language.Tag            { return p.locale }
func (p *fakePlayer) Cursor() *item.Stack             { return p.cursor.Clone() }
func (p *fakePlayer) SetCursor(s *item.Stack)         { p.cursor = item.TakeUnlessEmpty(s).Clone() }
func (p *fakePlayer) Inventory() *inventory.Inventory { return p.inv.Inventory }
func (p *fakePlayer) Drop(s *item.Stack)              { p.dropped = append(p.dropped, s.Clone()) }

type clickRecorder struct {
	StaticItem
	clicks []Click
}

func (c *clickRecorder) HandleClick(cl Click) { c.clicks = append(c.clicks, cl) }

var testInvID = uuid.MustParse("0190a4c2-7b3e-7000-8000-0000000000aa")

func newGrid(t *testing.T, g *Graph, w, h int) *Grid {
	t.Helper()
	grid, err := g.NewGrid(w, h)
	require.NoError(t, err)
	return grid
}

func static(material string) ItemElement {
	return ItemElement{Item: StaticItem{Stack: item.New(material, 1)}}
}
