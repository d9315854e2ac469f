// Package engine serialises mutations of inventories and grids.
//
// Inventories and grids are not safe for concurrent use: the two-phase add,
// the clone-and-replay simulation and the parent propagation walk would
// observe torn state under concurrent writers. The Engine runs every task
// in one goroutine, in submission order.
//
// Single-Writer Task Loop:
//  1. Tasks are submitted to a FIFO queue from any goroutine (Submit, Do).
//  2. Engine.Run dequeues them one at a time.
//  3. Each task is stamped with a seq from the engine's logical clock.
//  4. A task that fails or panics is logged and the loop continues.
//
// Do submits a task and waits for its result, so request handlers can use
// inventories without locking.
package engine
