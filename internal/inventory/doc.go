// Package inventory implements the stack-aware slot store backing grid cells.
//
// An *Inventory is an indexed array of optional item stacks, each slot with
// its own capacity. The effective capacity of a slot for an item is
// min(slot capacity, item max stack size). Every occupied slot holds
// 0 < amount <= effective capacity; empty slots hold nil.
//
// # Variants
//
//   - Virtual: owns its slots, has a UUID, can be resized and persisted.
//   - Composite: several inventories exposed as one contiguous index space.
//   - Masked: a subset of another inventory's slots.
//
// Composite and Masked only translate indices and delegate to the
// inventories they wrap.
//
// # Event contract
//
// Every mutation runs under a Cause. Unless the cause is Suppressed, each
// slot write is proposed to the pre-update handlers, which may cancel it or
// replace the proposed stack. Accepted writes store exactly the (possibly
// replaced) stack, notify observers and then fire post-update handlers.
// Cancellation is an ordinary outcome reported through return values.
//
// Handlers run in registration order. A panicking handler is recovered and
// logged; the mutation continues as if the handler had returned.
//
// # Copying
//
// Getters return clones and setters clone their input, so a caller can never
// observe or alter the stored stacks through a reference.
//
// # Concurrency
//
// Inventories are not safe for concurrent use. Hosts that mutate from more
// than one goroutine serialise all access, e.g. through engine.Engine.
package inventory
