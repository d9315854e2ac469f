package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgui/internal/item"
)

func TestComposite_Find(t *testing.T) {
	a := mustVirtual(t, []*item.Stack{item.New("A", 1), nil, item.New("A", 3)}, nil)
	b := mustVirtual(t, []*item.Stack{nil, item.New("B", 2), nil, nil, item.New("B", 5)}, nil)
	c := NewComposite([]*Inventory{a.Inventory, b.Inventory})

	inv, local, err := c.Find(4)
	require.NoError(t, err)
	assert.Same(t, b.Inventory, inv)
	assert.Equal(t, 1, local)

	_, _, err = c.Find(8)
	assert.True(t, IsIndexError(err))

	assert.Equal(t, 8, c.Size())
	assert.Equal(t, append(a.Items(), b.Items()...), c.Items())
	assert.Len(t, c.Capacities(), 8)
}

func TestComposite_WritesReachParts(t *testing.T) {
	a := NewSized(2)
	b := NewSized(2)
	c := NewComposite([]*Inventory{a.Inventory, b.Inventory})

	left := c.AddItem(PluginCause("test"), item.New("A", 64*3+5))
	assert.Equal(t, 0, left)
	assert.Equal(t, []int{64, 64}, amounts(a.Inventory))
	assert.Equal(t, []int{64, 5}, amounts(b.Inventory))
}

func TestComposite_HandlersAreOwn(t *testing.T) {
	a := NewSized(1)
	var partEvents int
	a.OnPreUpdate(func(*PreUpdateEvent) { partEvents++ })
	c := NewComposite([]*Inventory{a.Inventory})
	var ownEvents int
	c.OnPreUpdate(func(*PreUpdateEvent) { ownEvents++ })

	c.SetItem(PluginCause("test"), 0, item.New("A", 1))
	assert.Equal(t, 1, ownEvents)
	assert.Zero(t, partEvents)
}

func TestComposite_ForwardsNotifications(t *testing.T) {
	a := NewSized(2)
	b := NewSized(3)
	c := NewComposite([]*Inventory{a.Inventory, b.Inventory})
	obs := &recordingObserver{}
	c.AddObserver(obs)
	direct := &recordingObserver{}
	b.AddObserver(direct)

	b.SetItem(PluginCause("test"), 1, item.New("A", 1))
	c.SetItem(PluginCause("test"), 4, item.New("A", 1))
	require.NoError(t, b.Resize(4))

	assert.Equal(t, []int{3, 4, AllSlots}, obs.calls)
	assert.Equal(t, []int{1, 2, AllSlots}, direct.calls)

	c.RemoveObserver(obs)
	assert.Equal(t, 1, b.ObserverCount())
	assert.Zero(t, a.ObserverCount())
}

func TestMasked(t *testing.T) {
	src := mustVirtual(t, []*item.Stack{item.New("A", 1), item.New("B", 2), item.New("C", 3), item.New("D", 4)}, nil)
	m := NewObscured(src.Inventory, []int{1, 2})

	assert.Equal(t, 2, m.Size())
	assert.Equal(t, []int{0, 3}, m.SourceSlots())
	assert.Equal(t, "D", m.Item(1).Material)

	obs := &recordingObserver{}
	m.AddObserver(obs)
	m.SetItem(PluginCause("test"), 1, nil)
	src.SetItem(PluginCause("test"), 2, nil)
	src.SetItem(PluginCause("test"), 0, item.New("A", 9))

	assert.Nil(t, src.Item(3))
	assert.Equal(t, []int{1, 0}, obs.calls)

	m.RemoveObserver(obs)
	assert.Zero(t, src.ObserverCount())
}

func TestMasked_StaleAfterShrink(t *testing.T) {
	src := NewSized(4)
	m := NewMasked(src.Inventory, func(slot int) bool { return slot >= 2 })
	require.NoError(t, src.Resize(2))

	assert.Panics(t, func() { m.Item(0) })
}
