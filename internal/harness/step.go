package harness

import (
	"fmt"
	"strconv"

	"github.com/roach88/invgui/internal/gui"
	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/window"
)

// step performs st and returns its result for the trace.
func (w *world) step(st Step) (string, error) {
	switch st.Action {
	case StepOpen:
		p := w.players[st.Player]
		if p == nil {
			return "", fmt.Errorf("unknown player %q", st.Player)
		}
		g := w.grids[st.Grid]
		if g == nil {
			return "", fmt.Errorf("unknown grid %q", st.Grid)
		}
		if old := w.views[st.Player]; old != nil {
			old.Close()
		}
		w.views[st.Player] = window.Open(g, p, window.WithLogger(w.logger))
		return "", nil

	case StepClose:
		v, err := w.view(st.Player)
		if err != nil {
			return "", err
		}
		v.Close()
		delete(w.views, st.Player)
		return "", nil

	case StepClick:
		v, err := w.view(st.Player)
		if err != nil {
			return "", err
		}
		kind, err := gui.ParseClickKind(st.Kind)
		if err != nil {
			return "", err
		}
		if st.Slot < 0 || st.Slot >= v.Grid().Size() {
			return "", fmt.Errorf("cell %d out of range [0,%d)", st.Slot, v.Grid().Size())
		}
		err = v.Grid().HandleClick(gui.Click{Kind: kind, Player: v.Player(), Slot: st.Slot, Hotbar: st.Hotbar})
		return "", err

	case StepDrag:
		v, err := w.view(st.Player)
		if err != nil {
			return "", err
		}
		for _, slot := range st.Slots {
			if slot < 0 || slot >= v.Grid().Size() {
				return "", fmt.Errorf("cell %d out of range [0,%d)", slot, v.Grid().Size())
			}
		}
		err = v.Grid().HandleDrag(gui.Drag{Player: v.Player(), Slots: st.Slots, Right: st.Right})
		return "", err

	case StepPut:
		inv, err := w.slotTarget(st.Inventory, st.Slot)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(inv.PutItem(scenarioCause, st.Slot, st.Item.Stack())), nil

	case StepAdd:
		inv := w.inventory(st.Inventory)
		if inv == nil {
			return "", fmt.Errorf("unknown inventory %q", st.Inventory)
		}
		return strconv.Itoa(inv.AddItem(scenarioCause, st.Item.Stack())), nil

	case StepSet:
		inv, err := w.slotTarget(st.Inventory, st.Slot)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(inv.SetItem(scenarioCause, st.Slot, st.Item.Stack())), nil

	case StepResize:
		v := w.inventories[st.Inventory]
		if v == nil {
			return "", fmt.Errorf("unknown inventory %q", st.Inventory)
		}
		return "", v.Resize(st.Size)

	case StepPage:
		p := w.paged[st.Grid]
		if p == nil {
			return "", fmt.Errorf("grid %q is not paged", st.Grid)
		}
		p.SetPage(p.Page() + st.Delta)
		return strconv.Itoa(p.Page()), nil

	case StepScroll:
		s := w.scroll[st.Grid]
		if s == nil {
			return "", fmt.Errorf("grid %q is not a scroll grid", st.Grid)
		}
		s.Scroll(st.Delta)
		return strconv.Itoa(s.Line()), nil
	}
	return "", fmt.Errorf("unknown action %q", st.Action)
}

func (w *world) view(player string) (*window.View, error) {
	v := w.views[player]
	if v == nil {
		return nil, fmt.Errorf("player %q has no open view", player)
	}
	return v, nil
}

func (w *world) slotTarget(name string, slot int) (*inventory.Inventory, error) {
	inv := w.inventory(name)
	if inv == nil {
		return nil, fmt.Errorf("unknown inventory %q", name)
	}
	if slot < 0 || slot >= inv.Size() {
		return nil, fmt.Errorf("slot %d out of range [0,%d)", slot, inv.Size())
	}
	return inv, nil
}

// flushViews re-renders every open view and traces the changed cells,
// players in declaration order.
func (w *world) flushViews() {
	for _, name := range w.playerOrder {
		v := w.views[name]
		if v == nil {
			continue
		}
		for _, c := range v.Flush() {
			w.emit(TraceEvent{
				Type:   EventRedraw,
				Player: name,
				Slot:   intPtr(c.Slot),
				New:    describe(c.Item),
			})
		}
	}
}
