// Package gui implements the slot element composition graph.
//
// A Grid is a width×height array of cells. Each cell is empty or holds one
// SlotElement:
//
//   - ItemElement shows a static Item, rendered per viewer.
//   - InventoryLink shows one slot of an inventory.Inventory.
//   - LinkedSlot forwards to a cell of another Grid.
//
// Grids live in a Graph, an arena addressed by generation-checked GridID
// handles. The Graph keeps the adjacency beside the arena:
//
//	parents  child grid -> parent grid -> number of forwarding cells
//	links    inventory  -> grid        -> number of linking cells
//	windows  grid       -> attached windows
//
// Neither grids nor inventories hold pointers to their observers, so
// dropping a Grid is an index-map update (Graph.Release) rather than a live
// object graph edit.
//
// PROPAGATION:
//
// Any change to a cell, or to an inventory slot a cell links to, starts a
// breadth-first walk over the parent graph. Every (grid, slot) pair reached
// is visited once per originating change; windows attached to a reached
// grid receive one HandleSlotUpdate per pair.
//
// Forwarding chains are bounded by the graph's max hops. A longer chain is
// reported as a *ConfigError with ErrCodeForwardCycle.
//
// Nothing in this package is safe for concurrent use. Hosts serialise all
// grid and inventory mutations, for example through engine.Engine.
package gui
