package harness

import (
	"fmt"

	"github.com/roach88/invgui/internal/item"
)

// Trace event types.
const (
	EventStep   = "step"
	EventPre    = "pre"
	EventPost   = "post"
	EventRedraw = "redraw"
)

// TraceEvent is one entry of a scenario trace.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Type string `json:"type"`

	Action    string `json:"action,omitempty"`
	Inventory string `json:"inventory,omitempty"`
	Player    string `json:"player,omitempty"`
	Slot      *int   `json:"slot,omitempty"`
	Cause     string `json:"cause,omitempty"`
	Previous  string `json:"previous,omitempty"`
	New       string `json:"new,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`

	// Result is the step's return value, such as a leftover amount.
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass   bool         `json:"pass"`
	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{Pass: true, Trace: []TraceEvent{}, Errors: []string{}}
}

// AddError records a failure.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Count returns the number of trace events of the given type. A non-empty
// inventory restricts the count to events of that inventory.
func (r *Result) Count(eventType, inventory string) int {
	n := 0
	for _, e := range r.Trace {
		if e.Type == eventType && (inventory == "" || e.Inventory == inventory) {
			n++
		}
	}
	return n
}

// describe renders a stack as "material" or "material×amount"; empty
// stacks render as "".
func describe(s *item.Stack) string {
	switch {
	case item.Empty(s):
		return ""
	case s.Amount == 1:
		return s.Material
	default:
		return fmt.Sprintf("%s×%d", s.Material, s.Amount)
	}
}

func intPtr(n int) *int { return &n }
