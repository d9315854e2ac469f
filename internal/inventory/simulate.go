package inventory

import "github.com/roach88/invgui/internal/item"

// SimulateAdd reports, for each stack, the leftover amount AddItem would
// return if the stacks were added one after another. The inventory is not
// modified and no events fire.
//
// A single stack is simulated by a forward scan. Several stacks are added
// to a private copy of the inventory so that they compete for the same
// slots exactly as real additions would.
func (inv *Inventory) SimulateAdd(stacks ...*item.Stack) []int {
	switch len(stacks) {
	case 0:
		return []int{}
	case 1:
		return []int{inv.simulateSingleAdd(stacks[0])}
	default:
		return inv.simulateMultiAdd(stacks)
	}
}

// CanHold reports whether all stacks fit into the inventory together.
func (inv *Inventory) CanHold(stacks ...*item.Stack) bool {
	for _, left := range inv.SimulateAdd(stacks...) {
		if left != 0 {
			return false
		}
	}
	return true
}

func (inv *Inventory) simulateSingleAdd(s *item.Stack) int {
	if item.Empty(s) {
		return 0
	}
	left := s.Amount

	for slot := 0; slot < inv.b.size() && left > 0; slot++ {
		cur := inv.b.unsafeItem(slot)
		if cur == nil || !cur.IsSimilar(s) {
			continue
		}
		left -= min(left, Room(cur.Amount, inv.maxStackSize(slot, s)))
	}

	for slot := 0; slot < inv.b.size() && left > 0; slot++ {
		if inv.b.unsafeItem(slot) != nil {
			continue
		}
		left -= min(left, inv.maxStackSize(slot, s))
	}

	return left
}

func (inv *Inventory) simulateMultiAdd(stacks []*item.Stack) []int {
	scratch := newScratch(inv)
	out := make([]int, len(stacks))
	for i, s := range stacks {
		out[i] = scratch.AddItem(Suppressed, s)
	}
	return out
}
