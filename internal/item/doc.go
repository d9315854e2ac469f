// Package item defines the item stack value stored in inventories and
// rendered into grid cells.
//
// A *Stack is a plain value with pointer identity: nil means "no item".
// Inventories never hand out their internal stacks; callers always receive
// clones, and every stack passed into an inventory is cloned before it is
// stored.
//
// Strings on a stack (display name, lore, tag values) are compared and
// encoded after Unicode NFC normalisation, so visually identical names
// produced by different hosts stack together.
package item
