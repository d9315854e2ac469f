package testutil

import (
	"github.com/roach88/invgui/internal/gui"
)

// SlotUpdate is one notification received by a RecordingWindow.
type SlotUpdate struct {
	Grid gui.GridID
	Slot int
}

// RecordingWindow is a gui.Window that records every update it receives.
type RecordingWindow struct {
	Updates []SlotUpdate
}

// HandleSlotUpdate implements gui.Window.
func (w *RecordingWindow) HandleSlotUpdate(g *gui.Grid, slot int) {
	w.Updates = append(w.Updates, SlotUpdate{Grid: g.ID(), Slot: slot})
}

// Count returns how many updates for slot of grid were recorded.
func (w *RecordingWindow) Count(grid gui.GridID, slot int) int {
	n := 0
	for _, u := range w.Updates {
		if u.Grid == grid && u.Slot == slot {
			n++
		}
	}
	return n
}

// Reset forgets all recorded updates.
func (w *RecordingWindow) Reset() {
	w.Updates = nil
}
