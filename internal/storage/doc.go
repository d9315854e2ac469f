// Package storage persists virtual inventories in SQLite.
//
// Each inventory is stored as one row keyed by its UUID. The row's data is
// the inventory's binary serialisation (see inventory.Virtual.Serialize)
// compressed with zstd. Manager keeps loaded inventories in memory and
// writes them back on SaveAll.
package storage
