// Package layout compiles CUE structure definitions into grid contents.
//
// A structure is a block of rows, one character per cell, plus the
// ingredients the characters stand for:
//
//	structure: Chest: {
//		rows: [
//			"# # # # # # # # #",
//			"# x x x x x x x #",
//			"# < s s s s s > #",
//		]
//		ingredients: {
//			"#": item: {material: "black_stained_glass_pane", name: " "}
//			"x": marker: "content-horizontal"
//			"s": inventory: "storage"
//			"<": ref: "previous_page"
//			">": ref: "next_page"
//		}
//	}
//
// Spaces in rows are ignored and "." is always an empty cell. Ingredients:
//
//   - item: a static stack shown as a gui.ItemElement.
//   - inventory: the next unused slot of the inventory bound to that name,
//     with an optional background stack.
//   - ref: a gui.Item bound by name when the structure is applied.
//   - marker: a content slot for paged and scroll grids, ordered
//     row by row (content-horizontal) or column by column
//     (content-vertical).
package layout
