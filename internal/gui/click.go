package gui

import (
	"fmt"

	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

// HotbarSize is the number of player inventory slots reachable by number
// keys.
const HotbarSize = 9

// HandleClick routes a click on c.Slot.
//
// ItemElements receive the click. InventoryLinks turn it into inventory
// operations under a player cause. LinkedSlots re-dispatch it to the target
// grid, which performs its own resolution.
func (g *Grid) HandleClick(c Click) error {
	return g.handleClick(c, 0)
}

func (g *Grid) handleClick(c Click, hops int) error {
	g.checkSlot(c.Slot)
	if c.Player == nil {
		return fmt.Errorf("handle click: no player")
	}

	switch el := g.cells[c.Slot].(type) {
	case nil:
		return nil
	case ItemElement:
		if el.Item != nil {
			el.Item.HandleClick(c)
		}
		return nil
	case InventoryLink:
		if err := el.checkSlot(g.id, c.Slot); err != nil {
			return err
		}
		g.clickInventory(el, c)
		return nil
	case LinkedSlot:
		if hops >= g.graph.maxHops {
			return &ConfigError{
				Code:    ErrCodeForwardCycle,
				Message: fmt.Sprintf("click forwarded more than %d hops", g.graph.maxHops),
				Grid:    g.id,
				Slot:    c.Slot,
			}
		}
		target := g.graph.Grid(el.Grid)
		if target == nil {
			return nil
		}
		if el.Slot < 0 || el.Slot >= target.Size() {
			return &ConfigError{
				Code:    ErrCodeDanglingLink,
				Message: fmt.Sprintf("slot %d out of range for a %d cell grid", el.Slot, target.Size()),
				Grid:    el.Grid,
				Slot:    el.Slot,
			}
		}
		c.Slot = el.Slot
		return target.handleClick(c, hops+1)
	default:
		panic(fmt.Sprintf("gui: unknown slot element %T", el))
	}
}

func (g *Grid) clickInventory(link InventoryLink, c Click) {
	cause := inventory.PlayerCause(c.Player.ID(), c.Kind.String())
	inv, slot := link.Inventory, link.Slot

	switch c.Kind {
	case ClickLeft:
		clickPrimary(inv, slot, c.Player, cause, false)
	case ClickRight:
		clickPrimary(inv, slot, c.Player, cause, true)
	case ClickShiftLeft, ClickShiftRight:
		moveToPlayer(inv, slot, c.Player, cause)
	case ClickNumberKey:
		swapHotbar(inv, slot, c.Player, c.Hotbar, cause)
	case ClickDrop, ClickControlDrop:
		cur := inv.Item(slot)
		if cur == nil {
			return
		}
		n := 1
		if c.Kind == ClickControlDrop {
			n = cur.Amount
		}
		if taken := take(inv, slot, n, cause); taken > 0 {
			c.Player.Drop(cur.WithAmount(taken))
		}
	case ClickDouble:
		g.collectToCursor(c.Player, cause)
	default:
		g.graph.log().Debug("click ignored", "kind", c.Kind.String(), "grid", g.id.String(), "slot", c.Slot)
	}
}

// take removes up to n items from slot and returns how many were removed.
func take(inv *inventory.Inventory, slot, n int, cause inventory.Cause) int {
	return max(0, -inv.AddItemAmount(cause, slot, -n))
}

// clickPrimary implements left and right clicks: pick up, place, or swap.
// A right click picks up half the stack or places a single item.
func clickPrimary(inv *inventory.Inventory, slot int, p Player, cause inventory.Cause, right bool) {
	cursor := item.TakeUnlessEmpty(p.Cursor())
	cur := inv.Item(slot)

	switch {
	case cursor == nil && cur == nil:
		return

	case cursor == nil:
		n := cur.Amount
		if right {
			n = (cur.Amount + 1) / 2
		}
		if taken := take(inv, slot, n, cause); taken > 0 {
			p.SetCursor(cur.WithAmount(taken))
		}

	case cur == nil || cur.IsSimilar(cursor):
		offer := cursor
		if right {
			offer = cursor.WithAmount(1)
		}
		left := inv.PutItem(cause, slot, offer)
		placed := offer.Amount - left
		if placed > 0 {
			p.SetCursor(item.TakeUnlessEmpty(cursor.WithAmount(cursor.Amount - placed)))
		}

	default:
		if cursor.Amount > inv.MaxStackSize(slot, cursor) {
			return
		}
		if inv.SetItem(cause, slot, cursor) {
			p.SetCursor(cur)
		}
	}
}

// moveToPlayer moves the stack in slot into the player's inventory. What
// does not fit is put back without events, and dropped if even that fails.
func moveToPlayer(inv *inventory.Inventory, slot int, p Player, cause inventory.Cause) {
	cur := inv.Item(slot)
	if cur == nil {
		return
	}
	taken := take(inv, slot, cur.Amount, cause)
	if taken == 0 {
		return
	}
	left := p.Inventory().AddItem(cause, cur.WithAmount(taken))
	if left == 0 {
		return
	}
	if rest := inv.PutItem(inventory.Suppressed, slot, cur.WithAmount(left)); rest > 0 {
		p.Drop(cur.WithAmount(rest))
	}
}

// swapHotbar swaps slot with a hotbar slot of the player's inventory.
func swapHotbar(inv *inventory.Inventory, slot int, p Player, hotbar int, cause inventory.Cause) {
	pinv := p.Inventory()
	if hotbar < 0 || hotbar >= min(HotbarSize, pinv.Size()) {
		return
	}
	cur := inv.Item(slot)
	held := pinv.Item(hotbar)
	if cur == nil && held == nil {
		return
	}
	if held != nil && held.Amount > inv.MaxStackSize(slot, held) {
		return
	}
	if cur != nil && cur.Amount > pinv.MaxStackSize(hotbar, cur) {
		return
	}
	if !inv.SetItem(cause, slot, held) {
		return
	}
	if !pinv.SetItem(cause, hotbar, cur) {
		inv.SetItem(inventory.Suppressed, slot, cur)
	}
}

// collectToCursor gathers items similar to the cursor from the grid's
// inventories, then from the player's inventory.
func (g *Grid) collectToCursor(p Player, cause inventory.Cause) {
	cursor := item.TakeUnlessEmpty(p.Cursor())
	if cursor == nil {
		return
	}
	amount := cursor.Amount
	for _, inv := range append(g.Inventories(), p.Inventory()) {
		if amount >= cursor.MaxStackSize() {
			break
		}
		amount = inv.CollectSimilar(cause, cursor, amount)
	}
	if amount != cursor.Amount {
		p.SetCursor(cursor.WithAmount(amount))
	}
}

// HandleDrag distributes the cursor stack over the dragged cells that
// resolve to inventory slots able to take it. A left drag splits the
// cursor evenly, a right drag places one item per cell.
func (g *Grid) HandleDrag(d Drag) error {
	if d.Player == nil {
		return fmt.Errorf("handle drag: no player")
	}
	cursor := item.TakeUnlessEmpty(d.Player.Cursor())
	if cursor == nil {
		return nil
	}

	var targets []InventoryLink
	for _, slot := range d.Slots {
		g.checkSlot(slot)
		el, err := g.graph.Resolve(g.cells[slot])
		if err != nil {
			return fmt.Errorf("handle drag: %w", err)
		}
		link, ok := el.(InventoryLink)
		if !ok {
			continue
		}
		if err := link.checkSlot(g.id, slot); err != nil {
			return fmt.Errorf("handle drag: %w", err)
		}
		if cur := link.Inventory.Item(link.Slot); cur != nil && !cur.IsSimilar(cursor) {
			continue
		}
		targets = append(targets, link)
	}
	if len(targets) == 0 {
		return nil
	}

	per := 1
	if !d.Right {
		per = max(1, cursor.Amount/len(targets))
	}
	kind := "drag"
	if d.Right {
		kind = "right_drag"
	}
	cause := inventory.PlayerCause(d.Player.ID(), kind)

	remaining := cursor.Amount
	for _, t := range targets {
		if remaining == 0 {
			break
		}
		offer := min(per, remaining)
		left := t.Inventory.PutItem(cause, t.Slot, cursor.WithAmount(offer))
		remaining -= offer - left
	}
	if remaining != cursor.Amount {
		d.Player.SetCursor(item.TakeUnlessEmpty(cursor.WithAmount(remaining)))
	}
	return nil
}
