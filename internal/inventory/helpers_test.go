package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/invgui/internal/item"
)

// requireInvariant checks that every occupied slot holds a positive amount
// within its effective capacity.
func requireInvariant(t *testing.T, inv *Inventory) {
	t.Helper()
	for slot := 0; slot < inv.Size(); slot++ {
		s := inv.Item(slot)
		if s == nil {
			continue
		}
		require.Greater(t, s.Amount, 0, "slot %d", slot)
		require.LessOrEqual(t, s.Amount, inv.MaxStackSize(slot, nil), "slot %d", slot)
	}
}

func amounts(inv *Inventory) []int {
	out := make([]int, inv.Size())
	for i, s := range inv.Items() {
		out[i] = item.Amount(s)
	}
	return out
}

func mustVirtual(t *testing.T, items []*item.Stack, caps []int, opts ...Option) *Virtual {
	t.Helper()
	v, err := NewVirtual(testID, len(items), items, caps, opts...)
	require.NoError(t, err)
	return v
}

type recordingObserver struct {
	calls []int
}

func (r *recordingObserver) InventoryChanged(_ *Inventory, slot int) {
	r.calls = append(r.calls, slot)
}

type observerFunc func(inv *Inventory, slot int)

func (f observerFunc) InventoryChanged(inv *Inventory, slot int) { f(inv, slot) }
