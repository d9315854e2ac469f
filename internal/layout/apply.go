package layout

import (
	"fmt"

	"github.com/roach88/invgui/internal/gui"
	"github.com/roach88/invgui/internal/inventory"
)

// Bindings supplies the named values a structure refers to.
type Bindings struct {
	Inventories map[string]*inventory.Inventory
	Items       map[string]gui.Item
}

// Apply writes the structure into grid. Marker cells are left untouched.
// Each inventory ingredient consumes the next slot of its inventory, in
// row-major cell order.
func (s *Structure) Apply(grid *gui.Grid, b Bindings) error {
	if grid.Width() != s.Width || grid.Height() != s.Height {
		return &ApplyError{
			Structure: s.Name,
			Message:   fmt.Sprintf("grid is %dx%d, structure is %dx%d", grid.Width(), grid.Height(), s.Width, s.Height),
		}
	}

	elements, err := s.elements(b)
	if err != nil {
		return err
	}
	for i, el := range elements {
		if ing, ok := s.Ingredient(i); ok && ing.Kind == KindMarker {
			continue
		}
		grid.SetCell(i, el)
	}
	return nil
}

// elements resolves every cell before anything is written, so a failed
// binding leaves the grid untouched.
func (s *Structure) elements(b Bindings) ([]gui.SlotElement, error) {
	out := make([]gui.SlotElement, len(s.cells))
	next := make(map[string]int)

	for i := range s.cells {
		ing, ok := s.Ingredient(i)
		if !ok {
			continue
		}
		switch ing.Kind {
		case KindItem:
			out[i] = gui.ItemElement{Item: gui.StaticItem{Stack: ing.Item}}

		case KindInventory:
			inv := b.Inventories[ing.Name]
			if inv == nil {
				return nil, &ApplyError{Structure: s.Name, Message: fmt.Sprintf("inventory %q is not bound", ing.Name)}
			}
			slot := next[ing.Name]
			if slot >= inv.Size() {
				return nil, &ApplyError{
					Structure: s.Name,
					Message:   fmt.Sprintf("inventory %q has %d slots, structure needs more", ing.Name, inv.Size()),
				}
			}
			next[ing.Name]++
			link := gui.InventoryLink{Inventory: inv, Slot: slot}
			if ing.Background != nil {
				link.Background = gui.StaticItem{Stack: ing.Background}
			}
			out[i] = link

		case KindRef:
			it := b.Items[ing.Name]
			if it == nil {
				return nil, &ApplyError{Structure: s.Name, Message: fmt.Sprintf("item %q is not bound", ing.Name)}
			}
			out[i] = gui.ItemElement{Item: it}

		case KindMarker:
		}
	}
	return out, nil
}

// NewGrid creates a grid of the structure's size in graph and applies the
// structure to it.
func (s *Structure) NewGrid(graph *gui.Graph, b Bindings) (*gui.Grid, error) {
	grid, err := graph.NewGrid(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(grid, b); err != nil {
		graph.Release(grid.ID())
		return nil, err
	}
	return grid, nil
}

// NewPagedGrid creates a paged grid whose content slots are the
// structure's markers.
func (s *Structure) NewPagedGrid(graph *gui.Graph, b Bindings) (*gui.PagedGrid, error) {
	p, err := gui.NewPagedGrid(graph, s.Width, s.Height, s.ContentSlots())
	if err != nil {
		return nil, fmt.Errorf("structure %s: %w", s.Name, err)
	}
	if err := s.Apply(p.Grid, b); err != nil {
		graph.Release(p.ID())
		return nil, err
	}
	return p, nil
}

// NewScrollGrid creates a scroll grid whose content slots are the
// structure's markers. The line length is the longest run of markers in a
// row, or in a column for vertical markers.
func (s *Structure) NewScrollGrid(graph *gui.Graph, b Bindings) (*gui.ScrollGrid, error) {
	slots := s.ContentSlots()
	width := s.Width
	lineLength, err := gui.LineLength(width, slots, s.Vertical())
	if err != nil {
		return nil, fmt.Errorf("structure %s: %w", s.Name, err)
	}
	sg, err := gui.NewScrollGrid(graph, s.Width, s.Height, slots, lineLength)
	if err != nil {
		return nil, fmt.Errorf("structure %s: %w", s.Name, err)
	}
	if err := s.Apply(sg.Grid, b); err != nil {
		graph.Release(sg.ID())
		return nil, err
	}
	return sg, nil
}
