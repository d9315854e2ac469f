package gui

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/invgui/internal/inventory"
)

// DefaultMaxHops bounds forwarding chains unless WithMaxHops says otherwise.
const DefaultMaxHops = 64

// GridID is a generation-checked handle to a grid in a Graph. The zero
// GridID never refers to a grid.
type GridID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the zero handle.
func (id GridID) IsZero() bool {
	return id.gen == 0
}

func (id GridID) String() string {
	return fmt.Sprintf("%d.%d", id.index, id.gen)
}

func compareIDs(a, b GridID) int {
	if c := cmp.Compare(a.index, b.index); c != 0 {
		return c
	}
	return cmp.Compare(a.gen, b.gen)
}

type arenaSlot struct {
	gen  uint32
	grid *Grid
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithMaxHops sets the longest forwarding chain the graph follows.
func WithMaxHops(n int) GraphOption {
	return func(g *Graph) {
		if n > 0 {
			g.maxHops = n
		}
	}
}

// WithLogger sets the graph's logger.
func WithLogger(l *slog.Logger) GraphOption {
	return func(g *Graph) {
		g.logger = l
	}
}

// Graph is the arena that owns grids and the edges between them.
type Graph struct {
	slots []arenaSlot
	free  []uint32

	parents map[GridID]map[GridID]int
	links   map[*inventory.Inventory]map[GridID]int
	windows map[GridID][]Window

	maxHops int
	logger  *slog.Logger
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		parents: make(map[GridID]map[GridID]int),
		links:   make(map[*inventory.Inventory]map[GridID]int),
		windows: make(map[GridID][]Window),
		maxHops: DefaultMaxHops,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// MaxHops returns the longest forwarding chain the graph follows.
func (g *Graph) MaxHops() int {
	return g.maxHops
}

// NewGrid allocates an empty width×height grid.
func (g *Graph) NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new grid: %w: %dx%d", ErrInvalidDimensions, width, height)
	}

	var index uint32
	if n := len(g.free); n > 0 {
		index = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		index = uint32(len(g.slots))
		g.slots = append(g.slots, arenaSlot{})
	}
	slot := &g.slots[index]
	slot.gen++
	id := GridID{index: index, gen: slot.gen}

	grid := &Grid{
		graph:  g,
		id:     id,
		width:  width,
		height: height,
		cells:  make([]SlotElement, width*height),
	}
	slot.grid = grid
	return grid, nil
}

// Grid returns the grid behind id, or nil if id is stale or zero.
func (g *Graph) Grid(id GridID) *Grid {
	if id.gen == 0 || int(id.index) >= len(g.slots) {
		return nil
	}
	slot := g.slots[id.index]
	if slot.gen != id.gen {
		return nil
	}
	return slot.grid
}

// Len returns the number of live grids.
func (g *Graph) Len() int {
	return len(g.slots) - len(g.free)
}

// Release drops a grid. Its cells are cleared, so every edge it owns is
// removed and observers of those cells are notified. Attached windows are
// detached. LinkedSlots that still point at the grid resolve to empty.
func (g *Graph) Release(id GridID) {
	grid := g.Grid(id)
	if grid == nil {
		return
	}
	for i := range grid.cells {
		if grid.cells[i] != nil {
			grid.SetCell(i, nil)
		}
	}
	delete(g.windows, id)

	slot := &g.slots[id.index]
	slot.grid = nil
	slot.gen++
	g.free = append(g.free, id.index)
	grid.released = true

	g.log().Debug("grid released", "grid", id.String(), "parents", len(g.parents[id]))
}

// Attach registers w to receive updates for the grid behind id.
func (g *Graph) Attach(id GridID, w Window) {
	if g.Grid(id) == nil || slices.Contains(g.windows[id], w) {
		return
	}
	g.windows[id] = append(g.windows[id], w)
}

// Detach removes w from the grid behind id.
func (g *Graph) Detach(id GridID, w Window) {
	ws := slices.DeleteFunc(g.windows[id], func(x Window) bool { return x == w })
	if len(ws) == 0 {
		delete(g.windows, id)
		return
	}
	g.windows[id] = ws
}

// Windows returns the windows attached to the grid behind id.
func (g *Graph) Windows(id GridID) []Window {
	return slices.Clone(g.windows[id])
}

// Parents returns the grids that forward into the grid behind id, in
// handle order.
func (g *Graph) Parents(id GridID) []GridID {
	return sortedIDs(g.parents[id])
}

// LinkedInventories returns how many inventories the graph observes.
func (g *Graph) LinkedInventories() int {
	return len(g.links)
}

func sortedIDs(m map[GridID]int) []GridID {
	return slices.SortedFunc(maps.Keys(m), compareIDs)
}

func (g *Graph) addParent(child, parent GridID) {
	m := g.parents[child]
	if m == nil {
		m = make(map[GridID]int)
		g.parents[child] = m
	}
	m[parent]++
}

func (g *Graph) removeParent(child, parent GridID) {
	m := g.parents[child]
	if m[parent] <= 1 {
		delete(m, parent)
		if len(m) == 0 {
			delete(g.parents, child)
		}
		return
	}
	m[parent]--
}

func (g *Graph) addLink(inv *inventory.Inventory, grid GridID) {
	m := g.links[inv]
	if m == nil {
		m = make(map[GridID]int)
		g.links[inv] = m
		inv.AddObserver(g)
	}
	m[grid]++
}

func (g *Graph) removeLink(inv *inventory.Inventory, grid GridID) {
	m := g.links[inv]
	if m[grid] > 1 {
		m[grid]--
		return
	}
	delete(m, grid)
	if len(m) == 0 {
		delete(g.links, inv)
		inv.RemoveObserver(g)
	}
}

// InventoryChanged implements inventory.Observer. Every cell linking to
// the changed slot seeds a propagation walk.
func (g *Graph) InventoryChanged(inv *inventory.Inventory, slot int) {
	var seeds []cellRef
	for _, id := range sortedIDs(g.links[inv]) {
		grid := g.Grid(id)
		if grid == nil {
			continue
		}
		for i, el := range grid.cells {
			link, ok := el.(InventoryLink)
			if !ok || link.Inventory != inv {
				continue
			}
			if slot == inventory.AllSlots || link.Slot == slot {
				seeds = append(seeds, cellRef{grid: id, slot: i})
			}
		}
	}
	g.propagate(seeds...)
}

type cellRef struct {
	grid GridID
	slot int
}

// propagate notifies the windows of every seed and walks the parent graph
// breadth first. Each (grid, slot) pair is visited at most once.
func (g *Graph) propagate(seeds ...cellRef) {
	visited := make(map[cellRef]struct{}, len(seeds))
	queue := make([]cellRef, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := visited[s]; !ok {
			visited[s] = struct{}{}
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		grid := g.Grid(cur.grid)
		if grid == nil {
			continue
		}
		for _, w := range slices.Clone(g.windows[cur.grid]) {
			w.HandleSlotUpdate(grid, cur.slot)
		}

		for _, pid := range sortedIDs(g.parents[cur.grid]) {
			parent := g.Grid(pid)
			if parent == nil {
				continue
			}
			for i, el := range parent.cells {
				ls, ok := el.(LinkedSlot)
				if !ok || ls.Grid != cur.grid || ls.Slot != cur.slot {
					continue
				}
				next := cellRef{grid: pid, slot: i}
				if _, seen := visited[next]; seen {
					continue
				}
				visited[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
}

// Resolve follows LinkedSlot chains starting at el and returns the first
// element that is not a LinkedSlot. Links to released grids resolve to nil.
func (g *Graph) Resolve(el SlotElement) (SlotElement, error) {
	resolved, _, err := g.resolveChain(el, nil)
	return resolved, err
}

// resolveChain resolves el and appends every grid it passes through to
// chain.
func (g *Graph) resolveChain(el SlotElement, chain []*Grid) (SlotElement, []*Grid, error) {
	start, _ := el.(LinkedSlot)
	for hops := 0; ; hops++ {
		ls, ok := el.(LinkedSlot)
		if !ok {
			return el, chain, nil
		}
		if hops >= g.maxHops {
			return nil, chain, &ConfigError{
				Code:    ErrCodeForwardCycle,
				Message: fmt.Sprintf("forwarding chain exceeds %d hops", g.maxHops),
				Grid:    start.Grid,
				Slot:    start.Slot,
			}
		}
		target := g.Grid(ls.Grid)
		if target == nil {
			return nil, chain, nil
		}
		if ls.Slot < 0 || ls.Slot >= len(target.cells) {
			return nil, chain, &ConfigError{
				Code:    ErrCodeDanglingLink,
				Message: fmt.Sprintf("slot %d out of range for a %d cell grid", ls.Slot, len(target.cells)),
				Grid:    ls.Grid,
				Slot:    ls.Slot,
			}
		}
		chain = append(chain, target)
		el = target.cells[ls.Slot]
	}
}
