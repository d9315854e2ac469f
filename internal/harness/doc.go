// Package harness runs scripted inventory GUI scenarios.
//
// A scenario is a YAML file describing inventories, players and grids,
// a list of steps (clicks, drags, programmatic mutations, paging) and
// assertions on the final state:
//
//	name: shift_click_into_player
//	description: Shift click moves a chest stack to the player
//	layouts: layouts          # optional CUE directory, relative to the file
//	inventories:
//	  - name: chest
//	    size: 3
//	    items: [{slot: 0, material: stone, amount: 10}]
//	players:
//	  - name: alice
//	grids:
//	  - name: main
//	    width: 3
//	    height: 1
//	    cells:
//	      - {slot: 0, inventory: chest, inventory_slot: 0}
//	steps:
//	  - {action: open, player: alice, grid: main}
//	  - {action: click, player: alice, kind: shift_left, slot: 0}
//	assertions:
//	  - {type: slot, inventory: chest, slot: 0}
//	  - {type: slot, inventory: alice, slot: 0, expect: {material: stone, amount: 10}}
//
// Every step runs as one task on an engine.Engine, so the trace is stamped
// with the engine's logical clock. The trace records the pre and post
// update events of every named inventory and the cells each open view
// re-rendered after the step. Traces are compared against golden files
// with RunWithGolden.
package harness
