package harness

import (
	"fmt"

	"github.com/roach88/invgui/internal/item"
	"github.com/roach88/invgui/internal/storage"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

func stackText(s *item.Stack) string {
	if d := describe(s); d != "" {
		return d
	}
	return "empty"
}

func expectStack(want, got *item.Stack) error {
	if item.Equal(want, got) {
		return nil
	}
	return &AssertionError{Expected: stackText(want), Actual: stackText(got)}
}

func (w *world) check(a Assertion) error {
	switch a.Type {
	case AssertSlot:
		inv, err := w.slotTarget(a.Inventory, a.Slot)
		if err != nil {
			return err
		}
		return expectStack(a.Expect.Stack(), inv.Item(a.Slot))

	case AssertCursor:
		p := w.players[a.Player]
		if p == nil {
			return fmt.Errorf("unknown player %q", a.Player)
		}
		return expectStack(a.Expect.Stack(), p.Cursor())

	case AssertRender:
		v, err := w.view(a.Player)
		if err != nil {
			return err
		}
		if a.Slot < 0 || a.Slot >= v.Grid().Size() {
			return fmt.Errorf("cell %d out of range [0,%d)", a.Slot, v.Grid().Size())
		}
		return expectStack(a.Expect.Stack(), v.Item(a.Slot))

	case AssertDropped:
		p := w.players[a.Player]
		if p == nil {
			return fmt.Errorf("unknown player %q", a.Player)
		}
		if got := p.DroppedAmount(); got != a.Count {
			return &AssertionError{Expected: fmt.Sprintf("%d dropped", a.Count), Actual: fmt.Sprintf("%d dropped", got)}
		}
		return nil

	case AssertTraceCount:
		if got := w.result.Count(a.Event, a.Inventory); got != a.Count {
			return &AssertionError{
				Expected: fmt.Sprintf("%d %s events", a.Count, a.Event),
				Actual:   fmt.Sprintf("%d", got),
			}
		}
		return nil

	case AssertDump:
		v, err := w.view(a.Player)
		if err != nil {
			return err
		}
		if got := v.Dump(); got != a.Text {
			return &AssertionError{Expected: fmt.Sprintf("%q", a.Text), Actual: fmt.Sprintf("%q", got)}
		}
		return nil

	case AssertPersisted:
		return w.checkPersisted(a.Inventory)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// checkPersisted round-trips an inventory through the stored encoding and
// compares every slot.
func (w *world) checkPersisted(name string) error {
	v := w.inventories[name]
	if v == nil {
		if p := w.players[name]; p != nil {
			v = p.Storage
		}
	}
	if v == nil {
		return fmt.Errorf("unknown inventory %q", name)
	}
	data, err := storage.Encode(v)
	if err != nil {
		return err
	}
	back, err := storage.Decode(data)
	if err != nil {
		return err
	}
	if back.UUID() != v.UUID() || back.Size() != v.Size() {
		return &AssertionError{
			Expected: fmt.Sprintf("%s with %d slots", v.UUID(), v.Size()),
			Actual:   fmt.Sprintf("%s with %d slots", back.UUID(), back.Size()),
		}
	}
	for slot := 0; slot < v.Size(); slot++ {
		if err := expectStack(v.Item(slot), back.Item(slot)); err != nil {
			return fmt.Errorf("slot %d: %w", slot, err)
		}
	}
	return nil
}
