package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithDefaultCapacity sets the slot capacity of inventories created by
// GetOrCreate.
func WithDefaultCapacity(n int) ManagerOption {
	return func(m *Manager) { m.capacity = n }
}

// WithInventoryOptions passes opts to every inventory the manager creates
// or loads.
func WithInventoryOptions(opts ...inventory.Option) ManagerOption {
	return func(m *Manager) { m.invOpts = append(m.invOpts, opts...) }
}

// Manager caches virtual inventories loaded from a Store.
//
// Manager is not safe for concurrent use. Run it on the engine goroutine
// together with the inventories it hands out.
type Manager struct {
	store    *Store
	cache    map[uuid.UUID]*inventory.Virtual
	capacity int
	invOpts  []inventory.Option
	logger   *slog.Logger
}

// NewManager creates a manager backed by store.
func NewManager(store *Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		cache:    make(map[uuid.UUID]*inventory.Virtual),
		capacity: item.DefaultMaxStack,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying repository.
func (m *Manager) Store() *Store { return m.store }

// Get returns the inventory stored under id, loading it if needed.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*inventory.Virtual, error) {
	if v, ok := m.cache[id]; ok {
		return v, nil
	}
	data, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data, m.invOpts...)
	if err != nil {
		return nil, fmt.Errorf("load inventory %s: %w", id, err)
	}
	if v.UUID() != id {
		return nil, fmt.Errorf("load inventory %s: stored data has id %s", id, v.UUID())
	}
	m.applyCapacity(v, 0)
	m.cache[id] = v
	m.logger.Debug("inventory loaded", "id", id, "slots", v.Size())
	return v, nil
}

// GetOrCreate returns the inventory with the given id. A stored inventory
// smaller than size is grown; a missing one is created empty.
func (m *Manager) GetOrCreate(ctx context.Context, id uuid.UUID, size int) (*inventory.Virtual, error) {
	v, err := m.Get(ctx, id)
	switch {
	case err == nil:
		if old := v.Size(); old < size {
			if err := v.Resize(size); err != nil {
				return nil, err
			}
			m.applyCapacity(v, old)
		}
		return v, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	caps := make([]int, size)
	for i := range caps {
		caps[i] = m.capacity
	}
	v, err = inventory.NewVirtual(id, size, nil, caps, m.invOpts...)
	if err != nil {
		return nil, fmt.Errorf("create inventory %s: %w", id, err)
	}
	m.cache[v.UUID()] = v
	m.logger.Debug("inventory created", "id", v.UUID(), "slots", size)
	return v, nil
}

// applyCapacity sets the default capacity on slots from onward. Slots
// holding more than it allows keep their capacity.
func (m *Manager) applyCapacity(v *inventory.Virtual, from int) {
	for slot := from; slot < v.Size(); slot++ {
		if err := v.SetSlotCapacity(slot, m.capacity); err != nil {
			m.logger.Debug("slot capacity kept", "id", v.UUID(), "slot", slot, "error", err)
		}
	}
}

// Add puts v into the cache, replacing any inventory with the same id.
// It is written on the next SaveAll.
func (m *Manager) Add(v *inventory.Virtual) {
	m.cache[v.UUID()] = v
}

// Loaded returns the ids of cached inventories in sorted order.
func (m *Manager) Loaded() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.cache))
	for id := range m.cache {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

// Save writes one cached inventory.
func (m *Manager) Save(ctx context.Context, id uuid.UUID) error {
	v, ok := m.cache[id]
	if !ok {
		return fmt.Errorf("save inventory %s: %w", id, ErrNotFound)
	}
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("save inventory %s: %w", id, err)
	}
	return m.store.Put(ctx, id, v.Size(), data)
}

// SaveAll writes every cached inventory in one transaction.
func (m *Manager) SaveAll(ctx context.Context) error {
	ids := m.Loaded()
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		v := m.cache[id]
		data, err := Encode(v)
		if err != nil {
			return fmt.Errorf("save inventory %s: %w", id, err)
		}
		entries = append(entries, Entry{ID: id, Slots: v.Size(), Data: data})
	}
	if err := m.store.PutAll(ctx, entries); err != nil {
		return err
	}
	m.logger.Info("inventories saved", "count", len(entries))
	return nil
}

// Remove drops id from the cache and the store.
func (m *Manager) Remove(ctx context.Context, id uuid.UUID) error {
	delete(m.cache, id)
	return m.store.Delete(ctx, id)
}

// Encode serialises v and compresses the result.
func Encode(v *inventory.Virtual) ([]byte, error) {
	raw, err := v.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return Compress(raw)
}

// Decode reverses Encode. Uncompressed serialisations are accepted too.
func Decode(data []byte, opts ...inventory.Option) (*inventory.Virtual, error) {
	raw, err := MaybeDecompress(data)
	if err != nil {
		return nil, err
	}
	return inventory.UnmarshalVirtual(raw, opts...)
}

