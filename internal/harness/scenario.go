package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/invgui/internal/gui"
	"github.com/roach88/invgui/internal/item"
)

// Scenario is a scripted GUI session.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Layouts is a directory of CUE structure definitions, relative to
	// the scenario file.
	Layouts string `yaml:"layouts,omitempty"`

	// Items are stacks bound to ref ingredients of structures.
	Items map[string]StackSpec `yaml:"items,omitempty"`

	Inventories []InventorySpec `yaml:"inventories,omitempty"`
	Players     []PlayerSpec    `yaml:"players"`
	Grids       []GridSpec      `yaml:"grids"`
	Steps       []Step          `yaml:"steps"`
	Assertions  []Assertion     `yaml:"assertions"`
}

// StackSpec describes an item stack. Amount defaults to 1.
type StackSpec struct {
	Material string `yaml:"material"`
	Amount   int    `yaml:"amount,omitempty"`
	MaxStack int    `yaml:"max_stack,omitempty"`
	Name     string `yaml:"name,omitempty"`
}

// Stack returns the described stack.
func (s *StackSpec) Stack() *item.Stack {
	if s == nil {
		return nil
	}
	amount := s.Amount
	if amount == 0 {
		amount = 1
	}
	return &item.Stack{Material: s.Material, Amount: amount, MaxStack: s.MaxStack, Name: s.Name}
}

// SlotSpec is a stack placed in a given slot.
type SlotSpec struct {
	Slot      int `yaml:"slot"`
	StackSpec `yaml:",inline"`
}

// InventorySpec declares a virtual inventory.
type InventorySpec struct {
	Name     string     `yaml:"name"`
	Size     int        `yaml:"size"`
	Capacity int        `yaml:"capacity,omitempty"`
	Items    []SlotSpec `yaml:"items,omitempty"`

	// Deny cancels non-suppressed writes of the listed kinds: add,
	// remove, swap.
	Deny []string `yaml:"deny,omitempty"`
}

// PlayerSpec declares a player. The player's inventory is addressable
// under the player's name.
type PlayerSpec struct {
	Name   string     `yaml:"name"`
	Locale string     `yaml:"locale,omitempty"`
	Items  []SlotSpec `yaml:"items,omitempty"`
	Cursor *StackSpec `yaml:"cursor,omitempty"`
}

// Grid kinds.
const (
	GridPlain  = "plain"
	GridPaged  = "paged"
	GridScroll = "scroll"
)

// GridSpec declares a grid, either sized explicitly or built from a
// structure.
type GridSpec struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind,omitempty"`
	Structure string `yaml:"structure,omitempty"`
	Width     int    `yaml:"width,omitempty"`
	Height    int    `yaml:"height,omitempty"`

	Background *StackSpec `yaml:"background,omitempty"`
	Cells      []CellSpec `yaml:"cells,omitempty"`

	// Pages names the page grids of a paged grid.
	Pages []string `yaml:"pages,omitempty"`
	// Content names the inventories shown by a scroll grid.
	Content []string `yaml:"content,omitempty"`
}

// CellSpec sets one cell. Exactly one of Item, Inventory and Link is set.
type CellSpec struct {
	Slot          int        `yaml:"slot"`
	Item          *StackSpec `yaml:"item,omitempty"`
	Inventory     string     `yaml:"inventory,omitempty"`
	InventorySlot int        `yaml:"inventory_slot,omitempty"`
	Link          *LinkSpec  `yaml:"link,omitempty"`
}

// LinkSpec points a cell at a cell of another grid.
type LinkSpec struct {
	Grid string `yaml:"grid"`
	Slot int    `yaml:"slot"`
}

// Step actions.
const (
	StepOpen   = "open"
	StepClose  = "close"
	StepClick  = "click"
	StepDrag   = "drag"
	StepPut    = "put"
	StepAdd    = "add"
	StepSet    = "set"
	StepResize = "resize"
	StepPage   = "page"
	StepScroll = "scroll"
)

// Step is one action of the scenario.
type Step struct {
	Action string `yaml:"action"`

	Player    string     `yaml:"player,omitempty"`
	Grid      string     `yaml:"grid,omitempty"`
	Inventory string     `yaml:"inventory,omitempty"`
	Kind      string     `yaml:"kind,omitempty"`
	Slot      int        `yaml:"slot,omitempty"`
	Hotbar    int        `yaml:"hotbar,omitempty"`
	Slots     []int      `yaml:"slots,omitempty"`
	Right     bool       `yaml:"right,omitempty"`
	Item      *StackSpec `yaml:"item,omitempty"`
	Size      int        `yaml:"size,omitempty"`
	Delta     int        `yaml:"delta,omitempty"`
}

// Assertion types.
const (
	AssertSlot       = "slot"
	AssertCursor     = "cursor"
	AssertRender     = "render"
	AssertDropped    = "dropped"
	AssertTraceCount = "trace_count"
	AssertDump       = "dump"
	AssertPersisted  = "persisted"
)

// Assertion checks the state after the last step.
type Assertion struct {
	Type string `yaml:"type"`

	Inventory string `yaml:"inventory,omitempty"`
	Player    string `yaml:"player,omitempty"`
	Slot      int    `yaml:"slot,omitempty"`

	// Expect is the expected stack; absent means empty.
	Expect *StackSpec `yaml:"expect,omitempty"`

	// Event is the trace event type counted by trace_count.
	Event string `yaml:"event,omitempty"`
	Count int    `yaml:"count,omitempty"`

	// Text is the expected view dump.
	Text string `yaml:"text,omitempty"`
}

// LoadScenario reads a scenario file. Unknown fields are rejected and the
// layouts directory is resolved relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Layouts != "" && !filepath.IsAbs(s.Layouts) {
		s.Layouts = filepath.Join(filepath.Dir(path), s.Layouts)
	}
	return s, nil
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	names := make(map[string]string)
	claim := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("%s name is required", kind)
		}
		if prev, ok := names[name]; ok {
			return fmt.Errorf("%s %q: name already used by a %s", kind, name, prev)
		}
		names[name] = kind
		return nil
	}
	for i, inv := range s.Inventories {
		if err := claim("inventory", inv.Name); err != nil {
			return err
		}
		if inv.Size < 0 {
			return fmt.Errorf("inventories[%d]: negative size", i)
		}
		for _, d := range inv.Deny {
			if !slices.Contains([]string{"add", "remove", "swap"}, d) {
				return fmt.Errorf("inventories[%d]: unknown deny kind %q", i, d)
			}
		}
	}
	for _, p := range s.Players {
		if err := claim("player", p.Name); err != nil {
			return err
		}
	}
	for i, g := range s.Grids {
		if err := claim("grid", g.Name); err != nil {
			return err
		}
		switch g.Kind {
		case "", GridPlain, GridPaged, GridScroll:
		default:
			return fmt.Errorf("grids[%d]: unknown kind %q", i, g.Kind)
		}
		if g.Structure == "" && (g.Width < 1 || g.Height < 1) {
			return fmt.Errorf("grids[%d]: structure or width and height are required", i)
		}
		if g.Kind != "" && g.Kind != GridPlain && g.Structure == "" {
			return fmt.Errorf("grids[%d]: %s grids need a structure", i, g.Kind)
		}
		for j, c := range g.Cells {
			set := 0
			if c.Item != nil {
				set++
			}
			if c.Inventory != "" {
				set++
			}
			if c.Link != nil {
				set++
			}
			if set > 1 {
				return fmt.Errorf("grids[%d].cells[%d]: item, inventory and link are exclusive", i, j)
			}
		}
	}

	for i, st := range s.Steps {
		if err := validateStep(st); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(st Step) error {
	need := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("%s is required for %s", field, st.Action)
		}
		return nil
	}
	switch st.Action {
	case StepOpen:
		if err := need("player", st.Player); err != nil {
			return err
		}
		return need("grid", st.Grid)
	case StepClose:
		return need("player", st.Player)
	case StepClick:
		if err := need("player", st.Player); err != nil {
			return err
		}
		if _, err := gui.ParseClickKind(st.Kind); err != nil {
			return err
		}
	case StepDrag:
		if err := need("player", st.Player); err != nil {
			return err
		}
		if len(st.Slots) == 0 {
			return fmt.Errorf("slots are required for drag")
		}
	case StepPut, StepAdd:
		if err := need("inventory", st.Inventory); err != nil {
			return err
		}
		if st.Item == nil {
			return fmt.Errorf("item is required for %s", st.Action)
		}
	case StepSet, StepResize:
		return need("inventory", st.Inventory)
	case StepPage, StepScroll:
		return need("grid", st.Grid)
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertSlot, AssertPersisted:
		if a.Inventory == "" {
			return fmt.Errorf("inventory is required for %s", a.Type)
		}
	case AssertCursor, AssertRender, AssertDropped, AssertDump:
		if a.Player == "" {
			return fmt.Errorf("player is required for %s", a.Type)
		}
	case AssertTraceCount:
		if a.Event == "" {
			return fmt.Errorf("event is required for trace_count")
		}
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for trace_count")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
