package gui

import (
	"fmt"
	"slices"

	"github.com/roach88/invgui/internal/inventory"
)

// ScrollHandler is called after the first visible line changed.
type ScrollHandler func(oldLine, newLine int)

// ScrollGrid shows a window of lines over a list of elements. The content
// slots are split into lines of lineLength cells.
type ScrollGrid struct {
	*Grid

	contentSlots []int
	lineLength   int
	content      []SlotElement
	line         int
	handlers     []ScrollHandler

	inventories []*inventory.Virtual
	unsubscribe []func()
}

// NewScrollGrid creates a scroll grid. len(contentSlots) must be a positive
// multiple of lineLength.
func NewScrollGrid(graph *Graph, width, height int, contentSlots []int, lineLength int) (*ScrollGrid, error) {
	if len(contentSlots) == 0 {
		return nil, fmt.Errorf("new scroll grid: %w", ErrNoContentSlots)
	}
	if lineLength <= 0 || len(contentSlots)%lineLength != 0 {
		return nil, fmt.Errorf("new scroll grid: %w: %d slots, line length %d", ErrLineLength, len(contentSlots), lineLength)
	}
	grid, err := graph.NewGrid(width, height)
	if err != nil {
		return nil, fmt.Errorf("new scroll grid: %w", err)
	}
	for _, s := range contentSlots {
		grid.checkSlot(s)
	}
	return &ScrollGrid{
		Grid:         grid,
		contentSlots: slices.Clone(contentSlots),
		lineLength:   lineLength,
	}, nil
}

// LineLength derives a line length from content slot geometry: the
// longest run of slots sharing a row, or a column when vertical is set.
func LineLength(width int, slots []int, vertical bool) (int, error) {
	if width <= 0 {
		return 0, fmt.Errorf("line length: %w: width %d", ErrInvalidDimensions, width)
	}
	if len(slots) == 0 {
		return 0, fmt.Errorf("line length: %w", ErrNoContentSlots)
	}
	counts := make(map[int]int)
	longest := 0
	for _, s := range slots {
		key := s / width
		if vertical {
			key = s % width
		}
		counts[key]++
		longest = max(longest, counts[key])
	}
	if len(slots)%longest != 0 {
		return 0, fmt.Errorf("line length: %w: %d slots, line length %d", ErrLineLength, len(slots), longest)
	}
	return longest, nil
}

// LineLength returns the number of cells per line.
func (s *ScrollGrid) LineLength() int { return s.lineLength }

// VisibleLines returns the number of lines shown at once.
func (s *ScrollGrid) VisibleLines() int { return len(s.contentSlots) / s.lineLength }

// Line returns the first visible line.
func (s *ScrollGrid) Line() int { return s.line }

// MaxLine returns the largest valid first line.
func (s *ScrollGrid) MaxLine() int {
	lines := (len(s.content) + s.lineLength - 1) / s.lineLength
	return max(0, lines-s.VisibleLines())
}

// CanScroll reports whether Scroll(delta) would move.
func (s *ScrollGrid) CanScroll(delta int) bool {
	return s.clamp(s.line+delta) != s.line
}

// OnScroll registers h.
func (s *ScrollGrid) OnScroll(h ScrollHandler) {
	if h != nil {
		s.handlers = append(s.handlers, h)
	}
}

// SetLine scrolls to line, clamped to [0, MaxLine].
func (s *ScrollGrid) SetLine(line int) {
	old := s.line
	s.line = s.clamp(line)
	s.update()
	if old != s.line {
		for _, h := range slices.Clone(s.handlers) {
			h(old, s.line)
		}
	}
}

// Scroll moves the visible window by delta lines.
func (s *ScrollGrid) Scroll(delta int) {
	s.SetLine(s.line + delta)
}

func (s *ScrollGrid) clamp(line int) int {
	return min(max(line, 0), s.MaxLine())
}

// SetContent replaces the content.
func (s *ScrollGrid) SetContent(content []SlotElement) {
	s.content = slices.Clone(content)
	s.SetLine(s.line)
}

// SetInventories shows every slot of the given inventories as content, in
// order. The content is rebuilt whenever one of them is resized.
func (s *ScrollGrid) SetInventories(invs ...*inventory.Virtual) {
	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.unsubscribe = nil
	s.inventories = slices.Clone(invs)
	for _, inv := range s.inventories {
		s.unsubscribe = append(s.unsubscribe, inv.OnResize(func(int, int) {
			s.rebuild()
		}))
	}
	s.rebuild()
}

func (s *ScrollGrid) rebuild() {
	var content []SlotElement
	for _, inv := range s.inventories {
		for slot := 0; slot < inv.Size(); slot++ {
			content = append(content, InventoryLink{Inventory: inv.Inventory, Slot: slot})
		}
	}
	s.SetContent(content)
}

func (s *ScrollGrid) update() {
	offset := s.line * s.lineLength
	for i, slot := range s.contentSlots {
		var el SlotElement
		if idx := offset + i; idx < len(s.content) {
			el = s.content[idx]
		}
		s.Grid.SetCell(slot, el)
	}
	s.Grid.RedrawItems()
}
