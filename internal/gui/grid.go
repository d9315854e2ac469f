package gui

import (
	"slices"

	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

// Grid is a width×height array of optional slot elements. Grids are
// created by Graph.NewGrid and belong to that graph.
type Grid struct {
	graph    *Graph
	id       GridID
	width    int
	height   int
	cells    []SlotElement
	bg       Item
	released bool
}

// ID returns the grid's handle.
func (g *Grid) ID() GridID { return g.id }

// Graph returns the graph owning the grid.
func (g *Grid) Graph() *Graph { return g.graph }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the number of cells.
func (g *Grid) Size() int { return len(g.cells) }

// Index converts a column and row to a cell index.
func (g *Grid) Index(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(&IndexError{Slot: y*g.width + x, Size: len(g.cells)})
	}
	return y*g.width + x
}

// Released reports whether the grid was dropped from its graph.
func (g *Grid) Released() bool { return g.released }

func (g *Grid) checkSlot(slot int) {
	if slot < 0 || slot >= len(g.cells) {
		panic(&IndexError{Slot: slot, Size: len(g.cells)})
	}
}

// Cell returns the element in slot, or nil.
func (g *Grid) Cell(slot int) SlotElement {
	g.checkSlot(slot)
	return g.cells[slot]
}

// Background returns the grid's background item, or nil.
func (g *Grid) Background() Item { return g.bg }

// SetBackground sets the item shown in empty cells and redraws them.
func (g *Grid) SetBackground(bg Item) {
	g.bg = bg
	var empty []cellRef
	for i, el := range g.cells {
		if el == nil {
			empty = append(empty, cellRef{grid: g.id, slot: i})
		}
	}
	g.graph.propagate(empty...)
}

// SetCell replaces the element in slot and notifies everything that shows
// it. Parent edges and inventory links are kept in step with the new
// content.
func (g *Grid) SetCell(slot int, el SlotElement) {
	if g.released {
		panic("gui: SetCell on released grid " + g.id.String())
	}
	g.checkSlot(slot)

	old := g.cells[slot]
	g.cells[slot] = el

	if link, ok := old.(InventoryLink); ok {
		g.graph.removeLink(link.Inventory, g.id)
	}
	if link, ok := el.(InventoryLink); ok {
		g.graph.addLink(link.Inventory, g.id)
	}

	g.graph.propagate(cellRef{grid: g.id, slot: slot})

	oldLink, hadOld := old.(LinkedSlot)
	newLink, hasNew := el.(LinkedSlot)
	if hadOld && hasNew && oldLink.Grid == newLink.Grid {
		return
	}
	if hadOld {
		g.graph.removeParent(oldLink.Grid, g.id)
	}
	if hasNew {
		g.graph.addParent(newLink.Grid, g.id)
	}
}

// SetCellXY is SetCell addressed by column and row.
func (g *Grid) SetCellXY(x, y int, el SlotElement) {
	g.SetCell(g.Index(x, y), el)
}

// Fill sets every empty cell to el.
func (g *Grid) Fill(el SlotElement) {
	for i := range g.cells {
		if g.cells[i] == nil {
			g.SetCell(i, el)
		}
	}
}

// Redraw notifies windows that slot needs redrawing without changing it.
func (g *Grid) Redraw(slot int) {
	g.checkSlot(slot)
	g.graph.propagate(cellRef{grid: g.id, slot: slot})
}

// RedrawItems redraws every cell holding an ItemElement. Control items use
// it after the state they render changed.
func (g *Grid) RedrawItems() {
	var refs []cellRef
	for i, el := range g.cells {
		if _, ok := el.(ItemElement); ok {
			refs = append(refs, cellRef{grid: g.id, slot: i})
		}
	}
	g.graph.propagate(refs...)
}

// Resolve resolves the element in slot.
func (g *Grid) Resolve(slot int) (SlotElement, error) {
	g.checkSlot(slot)
	return g.graph.Resolve(g.cells[slot])
}

// Render returns what slot shows to v, or nil for an empty cell.
//
// When the resolved element renders empty, the backgrounds of the grids on
// the forwarding chain are tried, deepest grid first and this grid last.
func (g *Grid) Render(slot int, v Viewer) (*item.Stack, error) {
	g.checkSlot(slot)

	el, chain, err := g.graph.resolveChain(g.cells[slot], []*Grid{g})
	if err != nil {
		return nil, err
	}

	var out *item.Stack
	switch e := el.(type) {
	case nil:
	case ItemElement:
		if e.Item != nil {
			out = e.Item.Render(v)
		}
	case InventoryLink:
		if err := e.checkSlot(g.id, slot); err != nil {
			return nil, err
		}
		out = e.Inventory.Item(e.Slot)
		if item.Empty(out) && e.Background != nil {
			out = e.Background.Render(v)
		}
	case LinkedSlot:
		panic("gui: unresolved LinkedSlot")
	}
	if !item.Empty(out) {
		return out, nil
	}

	for i := len(chain) - 1; i >= 0; i-- {
		if bg := chain[i].bg; bg != nil {
			if out := bg.Render(v); !item.Empty(out) {
				return out, nil
			}
		}
	}
	return nil, nil
}

// Inventories returns the distinct inventories linked from this grid, in
// cell order. Forwarded cells are not followed.
func (g *Grid) Inventories() []*inventory.Inventory {
	var out []*inventory.Inventory
	for _, el := range g.cells {
		link, ok := el.(InventoryLink)
		if !ok {
			continue
		}
		if !slices.Contains(out, link.Inventory) {
			out = append(out, link.Inventory)
		}
	}
	return out
}
