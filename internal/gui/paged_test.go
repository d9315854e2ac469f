package gui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgui/internal/item"
)

func numbered(n int) []SlotElement {
	out := make([]SlotElement, n)
	for i := range out {
		out[i] = static(fmt.Sprintf("item_%d", i))
	}
	return out
}

func materialAt(t *testing.T, g *Grid, slot int) string {
	t.Helper()
	s, err := g.Render(slot, newFakePlayer())
	require.NoError(t, err)
	if s == nil {
		return ""
	}
	return s.Material
}

func TestNewPagedGrid_NoContentSlots(t *testing.T) {
	_, err := NewPagedGrid(NewGraph(), 3, 1, nil)
	assert.ErrorIs(t, err, ErrNoContentSlots)
}

func TestPagedGrid_Content(t *testing.T) {
	p, err := NewPagedGrid(NewGraph(), 4, 1, []int{0, 1, 2})
	require.NoError(t, err)
	var changes [][2]int
	p.OnPageChange(func(o, n int) { changes = append(changes, [2]int{o, n}) })

	assert.Equal(t, 1, p.PageCount())
	p.SetContent(numbered(7))
	assert.Equal(t, 3, p.PageCount())
	assert.Equal(t, "item_0", materialAt(t, p.Grid, 0))

	p.NextPage()
	assert.Equal(t, "item_3", materialAt(t, p.Grid, 0))

	p.SetPage(10)
	assert.Equal(t, 2, p.Page())
	assert.Equal(t, "item_6", materialAt(t, p.Grid, 0))
	assert.Equal(t, "", materialAt(t, p.Grid, 1))
	assert.False(t, p.HasNextPage())

	p.SetContent(numbered(2))
	assert.Equal(t, 0, p.Page())
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 0}}, changes)
}

func TestPagedGrid_Infinite(t *testing.T) {
	p, err := NewPagedGrid(NewGraph(), 2, 1, []int{0, 1})
	require.NoError(t, err)
	p.SetInfinite(true)
	p.SetContent(numbered(2))

	p.SetPage(5)
	assert.Equal(t, 5, p.Page())
	assert.True(t, p.HasNextPage())
	assert.Equal(t, "", materialAt(t, p.Grid, 0))

	p.SetPage(-3)
	assert.Equal(t, 0, p.Page())
}

func TestPagedGrid_NestedPages(t *testing.T) {
	g := NewGraph()
	p, err := NewPagedGrid(g, 3, 1, []int{0, 1})
	require.NoError(t, err)
	page1 := newGrid(t, g, 2, 1)
	page1.SetCell(0, static("p1_a"))
	page2 := newGrid(t, g, 1, 1)
	page2.SetCell(0, static("p2_a"))

	p.SetPages([]*Grid{page1, page2})
	assert.Equal(t, 2, p.PageCount())
	assert.Equal(t, LinkedSlot{Grid: page1.ID(), Slot: 0}, p.Cell(0))
	assert.Equal(t, "p1_a", materialAt(t, p.Grid, 0))
	assert.Equal(t, []GridID{p.ID()}, g.Parents(page1.ID()))

	w := &recordingWindow{}
	g.Attach(p.ID(), w)
	page1.SetCell(1, static("p1_b"))
	assert.Equal(t, []update{{grid: p.ID(), slot: 1}}, w.updates)

	p.NextPage()
	assert.Equal(t, "p2_a", materialAt(t, p.Grid, 0))
	assert.Nil(t, p.Cell(1))
	assert.Empty(t, g.Parents(page1.ID()))
}

func TestPageButton(t *testing.T) {
	g := NewGraph()
	p, err := NewPagedGrid(g, 3, 1, []int{0})
	require.NoError(t, err)
	next := &PageButton{Paged: p, Forward: true, Active: item.New("arrow", 1), Inactive: item.New("barrier", 1)}
	prev := &PageButton{Paged: p, Active: item.New("arrow", 1), Inactive: item.New("barrier", 1)}
	p.SetCell(1, ItemElement{Item: prev})
	p.SetCell(2, ItemElement{Item: next})
	p.SetContent(numbered(2))
	w := &recordingWindow{}
	g.Attach(p.ID(), w)

	assert.Equal(t, "barrier", materialAt(t, p.Grid, 1))
	assert.Equal(t, "arrow", materialAt(t, p.Grid, 2))

	require.NoError(t, p.HandleClick(Click{Kind: ClickLeft, Player: newFakePlayer(), Slot: 2}))
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, "arrow", materialAt(t, p.Grid, 1))
	assert.Equal(t, "barrier", materialAt(t, p.Grid, 2))
	assert.Contains(t, w.updates, update{grid: p.ID(), slot: 1})
	assert.Contains(t, w.updates, update{grid: p.ID(), slot: 2})
}
