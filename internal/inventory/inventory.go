package inventory

import (
	"log/slog"
	"slices"

	"github.com/roach88/invgui/internal/item"
)

// AllSlots is passed to observers when every slot may have changed,
// for example after a resize.
const AllSlots = -1

// backing is the slot storage behind an Inventory.
//
// Implementations assume slot is in range; Inventory checks bounds before
// calling in. setClone copies its argument before storing it, setDirect may
// keep the reference and is only used for stacks the inventory already owns.
// Both store nil for empty stacks.
type backing interface {
	size() int
	unsafeItem(slot int) *item.Stack
	setClone(slot int, s *item.Stack)
	setDirect(slot int, s *item.Stack)
	slotCapacity(slot int) int

	// changed notifies whoever observes the storage that slot was written.
	changed(slot int)
}

// attacher is implemented by backings that forward notifications from other
// inventories. attach is called when the inventory gains its first
// observer, detach when it loses its last.
type attacher interface {
	attach()
	detach()
}

// Observer is notified after a slot of an inventory changed.
// slot is AllSlots when the whole inventory may have changed.
type Observer interface {
	InventoryChanged(inv *Inventory, slot int)
}

type observerRef struct {
	o    Observer
	refs int
}

// Option configures an inventory.
type Option func(*Inventory)

// WithLogger sets the logger used to report handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(inv *Inventory) {
		inv.logger = l
	}
}

// WithPreUpdateHandler registers a pre-update handler at construction.
func WithPreUpdateHandler(h PreUpdateHandler) Option {
	return func(inv *Inventory) {
		inv.OnPreUpdate(h)
	}
}

// WithPostUpdateHandler registers a post-update handler at construction.
func WithPostUpdateHandler(h PostUpdateHandler) Option {
	return func(inv *Inventory) {
		inv.OnPostUpdate(h)
	}
}

// Inventory is the stack-aware slot store. See the package documentation
// for the event contract and copy semantics.
type Inventory struct {
	b backing

	pre  []PreUpdateHandler
	post []PostUpdateHandler

	observers []observerRef
	logger    *slog.Logger
}

func newInventory(b backing, opts ...Option) *Inventory {
	inv := &Inventory{b: b}
	for _, opt := range opts {
		if opt != nil {
			opt(inv)
		}
	}
	return inv
}

func (inv *Inventory) log() *slog.Logger {
	if inv.logger != nil {
		return inv.logger
	}
	return slog.Default()
}

// Size returns the number of slots.
func (inv *Inventory) Size() int {
	return inv.b.size()
}

func (inv *Inventory) checkSlot(slot int) {
	if size := inv.b.size(); slot < 0 || slot >= size {
		panic(&IndexError{Slot: slot, Size: size})
	}
}

// Item returns a copy of the stack in slot, or nil if the slot is empty.
func (inv *Inventory) Item(slot int) *item.Stack {
	inv.checkSlot(slot)
	return inv.b.unsafeItem(slot).Clone()
}

// Items returns copies of all slots in index order.
func (inv *Inventory) Items() []*item.Stack {
	size := inv.b.size()
	out := make([]*item.Stack, size)
	for i := 0; i < size; i++ {
		out[i] = inv.b.unsafeItem(i).Clone()
	}
	return out
}

// SlotCapacity returns the capacity of slot independent of its content.
func (inv *Inventory) SlotCapacity(slot int) int {
	inv.checkSlot(slot)
	return inv.b.slotCapacity(slot)
}

// Capacities returns the capacity of every slot in index order.
func (inv *Inventory) Capacities() []int {
	size := inv.b.size()
	out := make([]int, size)
	for i := 0; i < size; i++ {
		out[i] = inv.b.slotCapacity(i)
	}
	return out
}

// MaxStackSize returns the effective capacity of slot for alt, or for the
// stack currently in the slot when alt is nil. An empty slot with no alt
// uses item.DefaultMaxStack as the item limit.
func (inv *Inventory) MaxStackSize(slot int, alt *item.Stack) int {
	inv.checkSlot(slot)
	return inv.maxStackSize(slot, alt)
}

func (inv *Inventory) maxStackSize(slot int, alt *item.Stack) int {
	itemMax := item.DefaultMaxStack
	if alt != nil {
		itemMax = alt.MaxStackSize()
	} else if cur := inv.b.unsafeItem(slot); cur != nil {
		itemMax = cur.MaxStackSize()
	}
	return EffectiveCapacity(inv.b.slotCapacity(slot), itemMax)
}

// IsEmpty reports whether no slot holds an item.
func (inv *Inventory) IsEmpty() bool {
	return inv.FirstNonEmptySlot() < 0
}

// IsFull reports whether every slot holds as many items as it can.
func (inv *Inventory) IsFull() bool {
	for slot := 0; slot < inv.b.size(); slot++ {
		cur := inv.b.unsafeItem(slot)
		if cur == nil || cur.Amount < inv.maxStackSize(slot, nil) {
			return false
		}
	}
	return true
}

// FirstEmptySlot returns the lowest empty slot, or -1.
func (inv *Inventory) FirstEmptySlot() int {
	for slot := 0; slot < inv.b.size(); slot++ {
		if inv.b.unsafeItem(slot) == nil {
			return slot
		}
	}
	return -1
}

// FirstNonEmptySlot returns the lowest occupied slot, or -1.
func (inv *Inventory) FirstNonEmptySlot() int {
	for slot := 0; slot < inv.b.size(); slot++ {
		if inv.b.unsafeItem(slot) != nil {
			return slot
		}
	}
	return -1
}

// ContainsSimilar reports whether any slot holds an item similar to template.
func (inv *Inventory) ContainsSimilar(template *item.Stack) bool {
	for slot := 0; slot < inv.b.size(); slot++ {
		if template.IsSimilar(inv.b.unsafeItem(slot)) {
			return true
		}
	}
	return false
}

// CountSimilar returns the total amount of items similar to template.
func (inv *Inventory) CountSimilar(template *item.Stack) int {
	total := 0
	for slot := 0; slot < inv.b.size(); slot++ {
		if cur := inv.b.unsafeItem(slot); template.IsSimilar(cur) {
			total += cur.Amount
		}
	}
	return total
}

// OnPreUpdate appends a pre-update handler.
func (inv *Inventory) OnPreUpdate(h PreUpdateHandler) {
	if h != nil {
		inv.pre = append(inv.pre, h)
	}
}

// OnPostUpdate appends a post-update handler.
func (inv *Inventory) OnPostUpdate(h PostUpdateHandler) {
	if h != nil {
		inv.post = append(inv.post, h)
	}
}

// ClearHandlers removes all pre- and post-update handlers.
func (inv *Inventory) ClearHandlers() {
	inv.pre = nil
	inv.post = nil
}

// HasEventHandlers reports whether any update handler is registered.
func (inv *Inventory) HasEventHandlers() bool {
	return len(inv.pre) > 0 || len(inv.post) > 0
}

// AddObserver registers o. Observers are reference counted: o stays
// registered until RemoveObserver has been called as often as AddObserver.
func (inv *Inventory) AddObserver(o Observer) {
	for i := range inv.observers {
		if inv.observers[i].o == o {
			inv.observers[i].refs++
			return
		}
	}
	inv.observers = append(inv.observers, observerRef{o: o, refs: 1})
	if len(inv.observers) == 1 {
		if a, ok := inv.b.(attacher); ok {
			a.attach()
		}
	}
}

// RemoveObserver drops one registration of o.
func (inv *Inventory) RemoveObserver(o Observer) {
	for i := range inv.observers {
		if inv.observers[i].o != o {
			continue
		}
		inv.observers[i].refs--
		if inv.observers[i].refs > 0 {
			return
		}
		inv.observers = slices.Delete(inv.observers, i, i+1)
		if len(inv.observers) == 0 {
			if a, ok := inv.b.(attacher); ok {
				a.detach()
			}
		}
		return
	}
}

// ObserverCount returns the number of distinct registered observers.
func (inv *Inventory) ObserverCount() int {
	return len(inv.observers)
}

// notify tells every observer that slot changed.
func (inv *Inventory) notify(slot int) {
	if len(inv.observers) == 0 {
		return
	}
	for _, ref := range slices.Clone(inv.observers) {
		ref.o.InventoryChanged(inv, slot)
	}
}

func (inv *Inventory) shouldCallEvents(cause Cause) bool {
	return !cause.IsSuppressed() && inv.HasEventHandlers()
}

// callPreUpdate runs the pre-update handlers for a proposed write.
func (inv *Inventory) callPreUpdate(cause Cause, slot int, prev, next *item.Stack) *PreUpdateEvent {
	if cause.IsSuppressed() {
		panic("inventory: pre-update event raised for suppressed cause")
	}
	ev := &PreUpdateEvent{
		Inventory: inv,
		Cause:     cause,
		Slot:      slot,
		Previous:  prev,
		New:       next,
	}
	for i, h := range inv.pre {
		inv.runHandler("pre-update", i, cause, slot, func() { h(ev) })
	}
	return ev
}

// callPostUpdate runs the post-update handlers for a completed write.
func (inv *Inventory) callPostUpdate(cause Cause, slot int, prev, next *item.Stack) {
	if len(inv.post) == 0 {
		return
	}
	ev := &PostUpdateEvent{
		Inventory: inv,
		Cause:     cause,
		Slot:      slot,
		Previous:  prev,
		New:       next,
	}
	for i, h := range inv.post {
		inv.runHandler("post-update", i, cause, slot, func() { h(ev) })
	}
}

func (inv *Inventory) runHandler(kind string, index int, cause Cause, slot int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			inv.log().Error("update handler panicked",
				"handler", kind,
				"index", index,
				"cause", cause.String(),
				"slot", slot,
				"panic", r,
			)
		}
	}()
	fn()
}

// update runs the event contract for a single slot write.
//
// next must be a stack the inventory may own (a fresh clone or nil). It
// returns what was written and whether the write happened; a cancelled
// write changes nothing.
func (inv *Inventory) update(cause Cause, slot int, prev, next *item.Stack) (*item.Stack, bool) {
	next = item.TakeUnlessEmpty(next)
	if !inv.shouldCallEvents(cause) {
		inv.b.setDirect(slot, next)
		inv.b.changed(slot)
		return next, true
	}

	prevCopy := prev.Clone()
	ev := inv.callPreUpdate(cause, slot, prevCopy, next)
	if ev.Cancelled() {
		return nil, false
	}

	written := item.TakeUnlessEmpty(ev.New)
	inv.b.setClone(slot, written)
	inv.callPostUpdate(cause, slot, prevCopy, written.Clone())
	inv.b.changed(slot)
	return written, true
}
