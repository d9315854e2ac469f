package gui

import "github.com/roach88/invgui/internal/item"

// PageButton is a control item that turns the pages of a PagedGrid.
// A left click moves in the button's direction.
type PageButton struct {
	Paged   *PagedGrid
	Forward bool

	// Active is shown while the button can move, Inactive otherwise.
	Active   *item.Stack
	Inactive *item.Stack
}

func (b *PageButton) canMove() bool {
	if b.Forward {
		return b.Paged.HasNextPage()
	}
	return b.Paged.HasPreviousPage()
}

// Render implements Item.
func (b *PageButton) Render(Viewer) *item.Stack {
	if b.canMove() {
		return b.Active.Clone()
	}
	return b.Inactive.Clone()
}

// HandleClick implements Item.
func (b *PageButton) HandleClick(c Click) {
	if c.Kind != ClickLeft || !b.canMove() {
		return
	}
	if b.Forward {
		b.Paged.NextPage()
	} else {
		b.Paged.PreviousPage()
	}
}

// ScrollButton is a control item that scrolls a ScrollGrid by Delta lines
// on a left click.
type ScrollButton struct {
	Scroll *ScrollGrid
	Delta  int

	Active   *item.Stack
	Inactive *item.Stack
}

// Render implements Item.
func (b *ScrollButton) Render(Viewer) *item.Stack {
	if b.Scroll.CanScroll(b.Delta) {
		return b.Active.Clone()
	}
	return b.Inactive.Clone()
}

// HandleClick implements Item.
func (b *ScrollButton) HandleClick(c Click) {
	if c.Kind == ClickLeft {
		b.Scroll.Scroll(b.Delta)
	}
}
