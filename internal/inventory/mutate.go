package inventory

import "github.com/roach88/invgui/internal/item"

// SetItem replaces the content of slot with a copy of s (nil clears it).
// It returns false if s exceeds the effective capacity of the slot or a
// handler cancelled the write.
func (inv *Inventory) SetItem(cause Cause, slot int, s *item.Stack) bool {
	inv.checkSlot(slot)
	s = item.TakeUnlessEmpty(s)
	if s != nil && s.Amount > inv.maxStackSize(slot, s) {
		return false
	}
	_, ok := inv.update(cause, slot, inv.b.unsafeItem(slot), s.Clone())
	return ok
}

// ModifyItem passes a copy of the content of slot (nil if empty) to fn and
// writes back what fn returns, subject to the same rules as SetItem.
func (inv *Inventory) ModifyItem(cause Cause, slot int, fn func(*item.Stack) *item.Stack) bool {
	inv.checkSlot(slot)
	return inv.SetItem(cause, slot, fn(inv.b.unsafeItem(slot).Clone()))
}

// SetItemAmount changes the amount of the stack in slot, capped at the
// effective capacity; an amount of zero or less clears the slot. It returns
// the amount in the slot afterwards. Empty slots are left alone and report 0.
func (inv *Inventory) SetItemAmount(cause Cause, slot int, amount int) int {
	inv.checkSlot(slot)
	cur := inv.b.unsafeItem(slot)
	if cur == nil {
		return 0
	}

	var next *item.Stack
	if amount > 0 {
		next = cur.WithAmount(min(amount, inv.maxStackSize(slot, nil)))
	}

	written, ok := inv.update(cause, slot, cur, next)
	if !ok {
		return cur.Amount
	}
	return item.Amount(written)
}

// AddItemAmount adds amount (which may be negative) to the stack in slot
// and returns how much the amount actually changed.
func (inv *Inventory) AddItemAmount(cause Cause, slot int, amount int) int {
	inv.checkSlot(slot)
	cur := inv.b.unsafeItem(slot)
	if cur == nil {
		return 0
	}
	before := cur.Amount
	return inv.SetItemAmount(cause, slot, before+amount) - before
}

// PutItem merges s into slot and returns the leftover amount that did not
// fit. A slot holding a dissimilar item accepts nothing. If a handler
// changes the proposed stack, the leftover is derived from what was
// actually written.
func (inv *Inventory) PutItem(cause Cause, slot int, s *item.Stack) int {
	inv.checkSlot(slot)
	if item.Empty(s) {
		return 0
	}
	requested := s.Amount

	cur := inv.b.unsafeItem(slot)
	if cur != nil && !cur.IsSimilar(s) {
		return requested
	}

	current := item.Amount(cur)
	placed, _ := Fit(current, requested, inv.maxStackSize(slot, s))
	if placed == 0 {
		return requested
	}

	written, ok := inv.update(cause, slot, cur, s.WithAmount(current+placed))
	if !ok {
		return requested
	}
	accepted := item.Amount(written) - current
	return requested - min(max(accepted, 0), requested)
}

// AddItem distributes s over the inventory and returns the leftover amount.
//
// Partial stacks of similar items are topped up first, in slot order; what
// remains goes into empty slots, in slot order.
func (inv *Inventory) AddItem(cause Cause, s *item.Stack) int {
	if item.Empty(s) {
		return 0
	}
	left := s.Amount

	for slot := 0; slot < inv.b.size() && left > 0; slot++ {
		cur := inv.b.unsafeItem(slot)
		if cur == nil || !cur.IsSimilar(s) {
			continue
		}
		if cur.Amount >= inv.maxStackSize(slot, s) {
			continue
		}
		left = inv.PutItem(cause, slot, s.WithAmount(left))
	}

	for slot := 0; slot < inv.b.size() && left > 0; slot++ {
		if inv.b.unsafeItem(slot) != nil {
			continue
		}
		left = inv.PutItem(cause, slot, s.WithAmount(left))
	}

	return left
}

// takeFrom removes up to maxTake items from slot and returns how many
// were removed.
func (inv *Inventory) takeFrom(cause Cause, slot int, maxTake int) int {
	cur := inv.b.unsafeItem(slot)
	if cur == nil || maxTake <= 0 {
		return 0
	}
	take := min(cur.Amount, maxTake)

	var next *item.Stack
	if take != cur.Amount {
		next = cur.WithAmount(cur.Amount - take)
	}

	written, ok := inv.update(cause, slot, cur, next)
	if !ok {
		return 0
	}
	return max(0, cur.Amount-item.Amount(written))
}

// CollectSimilar gathers items similar to template into one stack that
// already holds baseAmount, up to the template's max stack size, and
// returns the resulting amount.
//
// Partial stacks, those below their slot's effective capacity, are drained
// first, in slot order. Full stacks are only broken up when no partial
// similar stack exists.
func (inv *Inventory) CollectSimilar(cause Cause, template *item.Stack, baseAmount int) int {
	if template == nil {
		return baseAmount
	}
	amount := baseAmount
	target := template.MaxStackSize()
	if amount >= target {
		return amount
	}

	sawPartial := false
	for slot := 0; slot < inv.b.size(); slot++ {
		cur := inv.b.unsafeItem(slot)
		if cur == nil || cur.Amount >= inv.maxStackSize(slot, cur) || !template.IsSimilar(cur) {
			continue
		}
		sawPartial = true
		amount += inv.takeFrom(cause, slot, target-amount)
		if amount >= target {
			return amount
		}
	}
	if sawPartial {
		return amount
	}

	for slot := 0; slot < inv.b.size(); slot++ {
		cur := inv.b.unsafeItem(slot)
		if cur == nil || cur.Amount < inv.maxStackSize(slot, cur) || !template.IsSimilar(cur) {
			continue
		}
		amount += inv.takeFrom(cause, slot, target-amount)
		if amount >= target {
			return amount
		}
	}
	return amount
}

// RemoveIf clears every slot whose stack matches pred and returns the
// number of items removed. pred receives a copy.
func (inv *Inventory) RemoveIf(cause Cause, pred func(*item.Stack) bool) int {
	removed := 0
	for slot := 0; slot < inv.b.size(); slot++ {
		cur := inv.b.unsafeItem(slot)
		if cur == nil || !pred(cur.Clone()) {
			continue
		}
		written, ok := inv.update(cause, slot, cur, nil)
		if !ok {
			continue
		}
		if item.Empty(written) || !written.IsSimilar(cur) {
			removed += cur.Amount
		} else {
			removed += max(0, cur.Amount-written.Amount)
		}
	}
	return removed
}

// RemoveFirst removes up to amount items matching pred, scanning in slot
// order, and returns the number removed.
func (inv *Inventory) RemoveFirst(cause Cause, amount int, pred func(*item.Stack) bool) int {
	if amount <= 0 {
		return 0
	}
	left := amount
	for slot := 0; slot < inv.b.size(); slot++ {
		cur := inv.b.unsafeItem(slot)
		if cur == nil || !pred(cur.Clone()) {
			continue
		}
		left -= inv.takeFrom(cause, slot, left)
		if left <= 0 {
			return amount
		}
	}
	return amount - left
}

// RemoveSimilar clears every slot holding an item similar to template.
func (inv *Inventory) RemoveSimilar(cause Cause, template *item.Stack) int {
	return inv.RemoveIf(cause, template.IsSimilar)
}

// RemoveFirstSimilar removes up to amount items similar to template.
func (inv *Inventory) RemoveFirstSimilar(cause Cause, amount int, template *item.Stack) int {
	return inv.RemoveFirst(cause, amount, template.IsSimilar)
}
