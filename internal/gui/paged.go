package gui

import (
	"fmt"
	"slices"
)

// PageHandler is called after the current page changed.
type PageHandler func(oldPage, newPage int)

// PagedGrid shows one page of content in its content slots at a time.
//
// Content is either a flat list of elements (SetContent), split into pages
// of len(ContentSlots()) elements, or a list of nested grids (SetPages),
// each of which becomes a page of LinkedSlots.
type PagedGrid struct {
	*Grid

	contentSlots []int
	content      []SlotElement
	pageGrids    []GridID
	nested       bool

	page     int
	infinite bool
	handlers []PageHandler
}

// NewPagedGrid creates a paged grid whose content is shown in contentSlots,
// in the given order.
func NewPagedGrid(graph *Graph, width, height int, contentSlots []int) (*PagedGrid, error) {
	if len(contentSlots) == 0 {
		return nil, fmt.Errorf("new paged grid: %w", ErrNoContentSlots)
	}
	grid, err := graph.NewGrid(width, height)
	if err != nil {
		return nil, fmt.Errorf("new paged grid: %w", err)
	}
	for _, s := range contentSlots {
		grid.checkSlot(s)
	}
	return &PagedGrid{Grid: grid, contentSlots: slices.Clone(contentSlots)}, nil
}

// ContentSlots returns the cells used for content.
func (p *PagedGrid) ContentSlots() []int {
	return slices.Clone(p.contentSlots)
}

// SetInfinite allows SetPage beyond the last page, showing empty pages.
func (p *PagedGrid) SetInfinite(infinite bool) {
	p.infinite = infinite
}

// SetContent replaces the content with a flat list of elements and shows
// the current page again, clamped to the new page count.
func (p *PagedGrid) SetContent(content []SlotElement) {
	p.content = slices.Clone(content)
	p.pageGrids = nil
	p.nested = false
	p.refresh()
}

// SetPages replaces the content with nested grids, one per page.
func (p *PagedGrid) SetPages(pages []*Grid) {
	p.pageGrids = make([]GridID, len(pages))
	for i, pg := range pages {
		p.pageGrids[i] = pg.ID()
	}
	p.content = nil
	p.nested = true
	p.refresh()
}

// PageCount returns the number of pages, at least one.
func (p *PagedGrid) PageCount() int {
	if p.nested {
		return max(1, len(p.pageGrids))
	}
	n := len(p.contentSlots)
	return max(1, (len(p.content)+n-1)/n)
}

// Page returns the current page.
func (p *PagedGrid) Page() int { return p.page }

// HasNextPage reports whether NextPage would move.
func (p *PagedGrid) HasNextPage() bool {
	return p.infinite || p.page < p.PageCount()-1
}

// HasPreviousPage reports whether PreviousPage would move.
func (p *PagedGrid) HasPreviousPage() bool {
	return p.page > 0
}

// NextPage moves one page forward.
func (p *PagedGrid) NextPage() { p.SetPage(p.page + 1) }

// PreviousPage moves one page back.
func (p *PagedGrid) PreviousPage() { p.SetPage(p.page - 1) }

// OnPageChange registers h.
func (p *PagedGrid) OnPageChange(h PageHandler) {
	if h != nil {
		p.handlers = append(p.handlers, h)
	}
}

// SetPage shows page. Pages outside the valid range are clamped.
func (p *PagedGrid) SetPage(page int) {
	old := p.page
	p.page = p.clamp(page)
	p.update()
	if old != p.page {
		for _, h := range slices.Clone(p.handlers) {
			h(old, p.page)
		}
	}
}

func (p *PagedGrid) clamp(page int) int {
	if page < 0 {
		return 0
	}
	if !p.infinite && page >= p.PageCount() {
		return p.PageCount() - 1
	}
	return page
}

func (p *PagedGrid) refresh() {
	p.SetPage(p.page)
}

// update writes the current page into the content slots.
func (p *PagedGrid) update() {
	for i, slot := range p.contentSlots {
		p.Grid.SetCell(slot, p.elementAt(i))
	}
	p.Grid.RedrawItems()
}

func (p *PagedGrid) elementAt(i int) SlotElement {
	if p.nested {
		if p.page >= len(p.pageGrids) {
			return nil
		}
		id := p.pageGrids[p.page]
		pg := p.Graph().Grid(id)
		if pg == nil || i >= pg.Size() {
			return nil
		}
		return LinkedSlot{Grid: id, Slot: i}
	}
	idx := p.page*len(p.contentSlots) + i
	if idx >= len(p.content) {
		return nil
	}
	return p.content[idx]
}
