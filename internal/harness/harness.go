package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/roach88/invgui/internal/engine"
	"github.com/roach88/invgui/internal/gui"
	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
	"github.com/roach88/invgui/internal/layout"
	"github.com/roach88/invgui/internal/testutil"
	"github.com/roach88/invgui/internal/window"
)

// scenarioCause marks mutations performed by scenario steps.
var scenarioCause = inventory.PluginCause("scenario")

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger  *slog.Logger
	maxHops int
}

// WithLogger sets the logger handed to the engine, graph and inventories.
// Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// WithMaxHops bounds click forwarding in the scenario's graph.
func WithMaxHops(n int) Option {
	return func(c *runConfig) { c.maxHops = n }
}

// world is the state a scenario builds and mutates. It is only touched
// from engine tasks.
type world struct {
	logger      *slog.Logger
	graph       *gui.Graph
	inventories map[string]*inventory.Virtual
	players     map[string]*testutil.Player
	grids       map[string]*gui.Grid
	paged       map[string]*gui.PagedGrid
	scroll      map[string]*gui.ScrollGrid
	views       map[string]*window.View
	playerOrder []string
	result      *Result
	seq         int64
}

// Run executes scenario on a fresh engine and returns its trace and
// assertion outcome. Errors are returned for scenarios that cannot be
// built; failing steps and assertions are reported in the Result.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxHops: gui.DefaultMaxHops,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	eng := engine.New(engine.WithLogger(cfg.logger))
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		_ = eng.Run(runCtx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	w := &world{
		logger:      cfg.logger,
		graph:       gui.NewGraph(gui.WithMaxHops(cfg.maxHops), gui.WithLogger(cfg.logger)),
		inventories: make(map[string]*inventory.Virtual),
		players:     make(map[string]*testutil.Player),
		grids:       make(map[string]*gui.Grid),
		paged:       make(map[string]*gui.PagedGrid),
		scroll:      make(map[string]*gui.ScrollGrid),
		views:       make(map[string]*window.View),
		result:      NewResult(),
	}

	err := eng.Do(ctx, "setup", func(_ context.Context, seq int64) error {
		w.seq = seq
		return w.build(scenario)
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	for i, st := range scenario.Steps {
		name := fmt.Sprintf("step[%d] %s", i, st.Action)
		err := eng.Do(ctx, name, func(_ context.Context, seq int64) error {
			w.seq = seq
			w.runStep(i, st)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %s: %w", scenario.Name, name, err)
		}
	}

	err = eng.Do(ctx, "assert", func(context.Context, int64) error {
		for i, a := range scenario.Assertions {
			if err := w.check(a); err != nil {
				w.result.AddError(fmt.Sprintf("assertions[%d] %s: %v", i, a.Type, err))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return w.result, nil
}

func (w *world) emit(e TraceEvent) {
	e.Seq = w.seq
	w.result.Trace = append(w.result.Trace, e)
}

func (w *world) build(s *Scenario) error {
	ids := testutil.NewSequentialIDs()
	invOpts := []inventory.Option{inventory.WithLogger(w.logger)}

	for _, spec := range s.Inventories {
		items, err := placeItems(spec.Size, spec.Items)
		if err != nil {
			return fmt.Errorf("inventory %s: %w", spec.Name, err)
		}
		var caps []int
		if spec.Capacity > 0 {
			caps = make([]int, spec.Size)
			for i := range caps {
				caps[i] = spec.Capacity
			}
		}
		v, err := inventory.NewVirtual(ids.Next(), spec.Size, items, caps, invOpts...)
		if err != nil {
			return fmt.Errorf("inventory %s: %w", spec.Name, err)
		}
		if len(spec.Deny) > 0 {
			v.OnPreUpdate(denyHandler(spec.Deny))
		}
		w.inventories[spec.Name] = v
		w.record(spec.Name, v.Inventory)
	}

	for _, spec := range s.Players {
		p := testutil.NewPlayer(spec.Name)
		if spec.Locale != "" {
			tag, err := language.Parse(spec.Locale)
			if err != nil {
				return fmt.Errorf("player %s: %w", spec.Name, err)
			}
			p.Lang = tag
		}
		items, err := placeItems(testutil.PlayerInventorySize, spec.Items)
		if err != nil {
			return fmt.Errorf("player %s: %w", spec.Name, err)
		}
		p.Storage, err = inventory.NewVirtual(ids.Next(), testutil.PlayerInventorySize, items, nil, invOpts...)
		if err != nil {
			return fmt.Errorf("player %s: %w", spec.Name, err)
		}
		p.SetCursor(spec.Cursor.Stack())
		w.players[spec.Name] = p
		w.playerOrder = append(w.playerOrder, spec.Name)
		w.record(spec.Name, p.Storage.Inventory)
	}

	return w.buildGrids(s)
}

func placeItems(size int, specs []SlotSpec) ([]*item.Stack, error) {
	items := make([]*item.Stack, size)
	for _, sp := range specs {
		if sp.Slot < 0 || sp.Slot >= size {
			return nil, fmt.Errorf("item slot %d out of range [0,%d)", sp.Slot, size)
		}
		items[sp.Slot] = sp.StackSpec.Stack()
	}
	return items, nil
}

// record registers trace handlers on inv. They run after any handler the
// scenario installed, so pre events show the final decision.
func (w *world) record(name string, inv *inventory.Inventory) {
	inv.OnPreUpdate(func(e *inventory.PreUpdateEvent) {
		w.emit(TraceEvent{
			Type:      EventPre,
			Inventory: name,
			Slot:      intPtr(e.Slot),
			Cause:     e.Cause.String(),
			Previous:  describe(e.Previous),
			New:       describe(e.New),
			Cancelled: e.Cancelled(),
		})
	})
	inv.OnPostUpdate(func(e *inventory.PostUpdateEvent) {
		w.emit(TraceEvent{
			Type:      EventPost,
			Inventory: name,
			Slot:      intPtr(e.Slot),
			Cause:     e.Cause.String(),
			Previous:  describe(e.Previous),
			New:       describe(e.New),
		})
	})
}

func denyHandler(kinds []string) inventory.PreUpdateHandler {
	deny := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		deny[k] = true
	}
	return func(e *inventory.PreUpdateEvent) {
		if (deny["add"] && e.IsAdd()) || (deny["remove"] && e.IsRemove()) || (deny["swap"] && e.IsSwap()) {
			e.Cancel()
		}
	}
}

func (w *world) buildGrids(s *Scenario) error {
	var structures []*layout.Structure
	if s.Layouts != "" {
		var err error
		structures, err = layout.LoadDir(s.Layouts)
		if err != nil {
			return err
		}
	}

	bindings := layout.Bindings{
		Inventories: make(map[string]*inventory.Inventory),
		Items:       make(map[string]gui.Item),
	}
	for name, v := range w.inventories {
		bindings.Inventories[name] = v.Inventory
	}
	for name, p := range w.players {
		bindings.Inventories[name] = p.Storage.Inventory
	}
	for name, st := range s.Items {
		bindings.Items[name] = gui.StaticItem{Stack: st.Stack()}
	}

	// Grids first, so cells and pages may refer to any grid.
	for _, spec := range s.Grids {
		if spec.Structure == "" {
			g, err := w.graph.NewGrid(spec.Width, spec.Height)
			if err != nil {
				return fmt.Errorf("grid %s: %w", spec.Name, err)
			}
			w.grids[spec.Name] = g
			continue
		}
		st := layout.Find(structures, spec.Structure)
		if st == nil {
			return fmt.Errorf("grid %s: unknown structure %q", spec.Name, spec.Structure)
		}
		if err := w.buildStructured(spec, st, bindings); err != nil {
			return fmt.Errorf("grid %s: %w", spec.Name, err)
		}
	}

	for _, spec := range s.Grids {
		g := w.grids[spec.Name]
		if spec.Background != nil {
			g.SetBackground(gui.StaticItem{Stack: spec.Background.Stack()})
		}
		for _, c := range spec.Cells {
			el, err := w.cellElement(c)
			if err != nil {
				return fmt.Errorf("grid %s cell %d: %w", spec.Name, c.Slot, err)
			}
			if c.Slot < 0 || c.Slot >= g.Size() {
				return fmt.Errorf("grid %s: cell %d out of range [0,%d)", spec.Name, c.Slot, g.Size())
			}
			g.SetCell(c.Slot, el)
		}
		if p := w.paged[spec.Name]; p != nil && len(spec.Pages) > 0 {
			pages := make([]*gui.Grid, 0, len(spec.Pages))
			for _, name := range spec.Pages {
				pg := w.grids[name]
				if pg == nil {
					return fmt.Errorf("grid %s: unknown page grid %q", spec.Name, name)
				}
				pages = append(pages, pg)
			}
			p.SetPages(pages)
		}
		if sg := w.scroll[spec.Name]; sg != nil && len(spec.Content) > 0 {
			invs := make([]*inventory.Virtual, 0, len(spec.Content))
			for _, name := range spec.Content {
				v := w.inventories[name]
				if v == nil {
					return fmt.Errorf("grid %s: unknown content inventory %q", spec.Name, name)
				}
				invs = append(invs, v)
			}
			sg.SetInventories(invs...)
		}
	}
	return nil
}

// buildStructured creates a grid from a structure. Paged and scroll grids
// get their page and scroll buttons bound to the matching refs.
func (w *world) buildStructured(spec GridSpec, st *layout.Structure, base layout.Bindings) error {
	b := layout.Bindings{Inventories: base.Inventories, Items: make(map[string]gui.Item, len(base.Items)+2)}
	for k, v := range base.Items {
		b.Items[k] = v
	}
	active := func(name, fallback string) *item.Stack {
		if it, ok := base.Items[name].(gui.StaticItem); ok {
			return it.Stack
		}
		return item.New(fallback, 1)
	}

	switch spec.Kind {
	case GridPaged:
		pg := &pagedButtons{}
		b.Items["previous_page"] = pg.button(false, active("previous_page", "arrow"))
		b.Items["next_page"] = pg.button(true, active("next_page", "arrow"))
		p, err := st.NewPagedGrid(w.graph, b)
		if err != nil {
			return err
		}
		pg.bind(p)
		w.paged[spec.Name] = p
		w.grids[spec.Name] = p.Grid

	case GridScroll:
		sb := &scrollButtons{}
		b.Items["scroll_up"] = sb.button(-1, active("scroll_up", "arrow"))
		b.Items["scroll_down"] = sb.button(1, active("scroll_down", "arrow"))
		sg, err := st.NewScrollGrid(w.graph, b)
		if err != nil {
			return err
		}
		sb.bind(sg)
		w.scroll[spec.Name] = sg
		w.grids[spec.Name] = sg.Grid

	default:
		g, err := st.NewGrid(w.graph, b)
		if err != nil {
			return err
		}
		w.grids[spec.Name] = g
	}
	return nil
}

// pagedButtons creates page buttons before the paged grid they control
// exists.
type pagedButtons struct{ buttons []*gui.PageButton }

func (pb *pagedButtons) button(forward bool, active *item.Stack) *gui.PageButton {
	b := &gui.PageButton{Forward: forward, Active: active, Inactive: item.New("gray_dye", 1)}
	pb.buttons = append(pb.buttons, b)
	return b
}

func (pb *pagedButtons) bind(p *gui.PagedGrid) {
	for _, b := range pb.buttons {
		b.Paged = p
	}
	p.RedrawItems()
}

type scrollButtons struct{ buttons []*gui.ScrollButton }

func (sb *scrollButtons) button(delta int, active *item.Stack) *gui.ScrollButton {
	b := &gui.ScrollButton{Delta: delta, Active: active, Inactive: item.New("gray_dye", 1)}
	sb.buttons = append(sb.buttons, b)
	return b
}

func (sb *scrollButtons) bind(s *gui.ScrollGrid) {
	for _, b := range sb.buttons {
		b.Scroll = s
	}
	s.RedrawItems()
}

func (w *world) cellElement(c CellSpec) (gui.SlotElement, error) {
	switch {
	case c.Item != nil:
		return gui.ItemElement{Item: gui.StaticItem{Stack: c.Item.Stack()}}, nil
	case c.Inventory != "":
		inv := w.inventory(c.Inventory)
		if inv == nil {
			return nil, fmt.Errorf("unknown inventory %q", c.Inventory)
		}
		return gui.InventoryLink{Inventory: inv, Slot: c.InventorySlot}, nil
	case c.Link != nil:
		g := w.grids[c.Link.Grid]
		if g == nil {
			return nil, fmt.Errorf("unknown grid %q", c.Link.Grid)
		}
		return gui.LinkedSlot{Grid: g.ID(), Slot: c.Link.Slot}, nil
	default:
		return nil, nil
	}
}

// inventory looks up a named inventory or a player's inventory.
func (w *world) inventory(name string) *inventory.Inventory {
	if v := w.inventories[name]; v != nil {
		return v.Inventory
	}
	if p := w.players[name]; p != nil {
		return p.Storage.Inventory
	}
	return nil
}

func (w *world) runStep(i int, st Step) {
	ev := TraceEvent{Type: EventStep, Action: st.Action, Player: st.Player, Inventory: st.Inventory}
	switch st.Action {
	case StepClick, StepPut, StepSet:
		ev.Slot = intPtr(st.Slot)
	}
	w.emit(ev)
	idx := len(w.result.Trace) - 1

	result, err := w.step(st)
	w.result.Trace[idx].Result = result
	if err != nil {
		w.result.Trace[idx].Error = err.Error()
		w.result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, st.Action, err))
	}
	w.flushViews()
}
