package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgui/internal/item"
)

var testID = uuid.MustParse("0190a4c2-7b3e-7000-8000-000000000001")

func TestAddItem_FillsPartialThenEmpty(t *testing.T) {
	v := mustVirtual(t, []*item.Stack{item.New("A", 40), nil}, []int{64, 64})

	left := v.AddItem(PluginCause("test"), item.New("A", 20))
	assert.Equal(t, 0, left)
	assert.Equal(t, []int{60, 0}, amounts(v.Inventory))

	left = v.AddItem(PluginCause("test"), item.New("A", 20))
	assert.Equal(t, 0, left)
	assert.Equal(t, []int{64, 16}, amounts(v.Inventory))
	requireInvariant(t, v.Inventory)
}

func TestAddItem_TwoPhaseOrder(t *testing.T) {
	// Empty slot comes first so a single-pass scan would pick it.
	v := mustVirtual(t, []*item.Stack{nil, item.New("A", 10)}, nil)

	left := v.AddItem(PluginCause("test"), item.New("A", 30))
	require.Equal(t, 0, left)
	assert.Nil(t, v.Item(0))
	assert.Equal(t, 40, v.Item(1).Amount)
}

func TestAddItem_SkipsDissimilarAndReturnsLeftover(t *testing.T) {
	v := mustVirtual(t, []*item.Stack{item.New("B", 1), nil}, []int{64, 10})

	left := v.AddItem(PluginCause("test"), item.New("A", 25))
	assert.Equal(t, 15, left)
	assert.Equal(t, "B", v.Item(0).Material)
	assert.Equal(t, 10, v.Item(1).Amount)
	requireInvariant(t, v.Inventory)
}

func TestAddItem_RespectsItemMaxStack(t *testing.T) {
	v := NewSized(3)
	pearl := &item.Stack{Material: "ender_pearl", Amount: 40, MaxStack: 16}

	left := v.AddItem(PluginCause("test"), pearl)
	assert.Equal(t, 0, left)
	assert.Equal(t, []int{16, 16, 8}, amounts(v.Inventory))
	requireInvariant(t, v.Inventory)
}

func TestPutItem(t *testing.T) {
	tests := []struct {
		name     string
		current  *item.Stack
		capacity int
		put      *item.Stack
		leftover int
		after    int
	}{
		{"empty slot", nil, 64, item.New("A", 10), 0, 10},
		{"merge", item.New("A", 10), 64, item.New("A", 10), 0, 20},
		{"overflow", item.New("A", 60), 64, item.New("A", 10), 6, 64},
		{"slot capacity", nil, 5, item.New("A", 10), 5, 5},
		{"dissimilar", item.New("B", 3), 64, item.New("A", 10), 10, 3},
		{"full", item.New("A", 64), 64, item.New("A", 1), 1, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustVirtual(t, []*item.Stack{tt.current}, []int{tt.capacity})
			assert.Equal(t, tt.leftover, v.PutItem(PluginCause("test"), 0, tt.put))
			assert.Equal(t, tt.after, item.Amount(v.Item(0)))
			requireInvariant(t, v.Inventory)
		})
	}
}

func TestPutItem_HandlerShrinksWrite(t *testing.T) {
	v := NewSized(1)
	v.OnPreUpdate(func(e *PreUpdateEvent) {
		e.New = e.New.WithAmount(3)
	})

	left := v.PutItem(PluginCause("test"), 0, item.New("A", 10))
	assert.Equal(t, 7, left)
	assert.Equal(t, 3, v.Item(0).Amount)
}

func TestCancellation_LeavesStoreUnchanged(t *testing.T) {
	initial := []*item.Stack{item.New("A", 10), nil, item.New("B", 5)}
	ops := map[string]func(*Virtual) (int, int){
		"put": func(v *Virtual) (int, int) {
			return 7, v.PutItem(PluginCause("test"), 0, item.New("A", 7))
		},
		"add": func(v *Virtual) (int, int) {
			return 30, v.AddItem(PluginCause("test"), item.New("A", 30))
		},
		"remove first": func(v *Virtual) (int, int) {
			return 0, v.RemoveFirstSimilar(PluginCause("test"), 4, item.New("A", 1))
		},
		"remove similar": func(v *Virtual) (int, int) {
			return 0, v.RemoveSimilar(PluginCause("test"), item.New("B", 1))
		},
		"collect": func(v *Virtual) (int, int) {
			return 1, v.CollectSimilar(PluginCause("test"), item.New("A", 1), 1)
		},
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			v := mustVirtual(t, initial, nil)
			v.OnPreUpdate(func(e *PreUpdateEvent) { e.Cancel() })
			var posts int
			v.OnPostUpdate(func(*PostUpdateEvent) { posts++ })
			obs := &recordingObserver{}
			v.AddObserver(obs)

			want, got := op(v)
			assert.Equal(t, want, got)
			assert.Equal(t, []int{10, 0, 5}, amounts(v.Inventory))
			assert.Zero(t, posts)
			assert.Empty(t, obs.calls)
		})
	}
}

func TestSuppressedCause_SkipsHandlers(t *testing.T) {
	v := NewSized(2)
	v.OnPreUpdate(func(e *PreUpdateEvent) { e.Cancel() })
	var posts int
	v.OnPostUpdate(func(*PostUpdateEvent) { posts++ })

	left := v.AddItem(Suppressed, item.New("A", 5))
	assert.Equal(t, 0, left)
	assert.Equal(t, 5, v.Item(0).Amount)
	assert.Zero(t, posts)
}

func TestEvents_CarryPreviousAndNew(t *testing.T) {
	v := mustVirtual(t, []*item.Stack{item.New("A", 10)}, nil)
	var pre *PreUpdateEvent
	var post *PostUpdateEvent
	v.OnPreUpdate(func(e *PreUpdateEvent) { pre = e })
	v.OnPostUpdate(func(e *PostUpdateEvent) { post = e })

	cause := PlayerCause("alice", "left")
	v.AddItemAmount(cause, 0, 5)

	require.NotNil(t, pre)
	require.NotNil(t, post)
	assert.Equal(t, cause, pre.Cause)
	assert.Equal(t, 10, pre.Previous.Amount)
	assert.Equal(t, 15, pre.New.Amount)
	assert.True(t, pre.IsAdd())
	assert.Equal(t, 5, pre.AddedAmount())
	assert.Equal(t, 15, post.New.Amount)
	assert.Equal(t, 0, post.Slot)
}

func TestHandlerOrderAndPanicRecovery(t *testing.T) {
	v := NewSized(1)
	var order []string
	v.OnPreUpdate(func(*PreUpdateEvent) { order = append(order, "first") })
	v.OnPreUpdate(func(*PreUpdateEvent) { panic("boom") })
	v.OnPreUpdate(func(*PreUpdateEvent) { order = append(order, "third") })
	v.OnPostUpdate(func(*PostUpdateEvent) { panic("post boom") })

	assert.NotPanics(t, func() {
		assert.True(t, v.SetItem(PluginCause("test"), 0, item.New("A", 3)))
	})
	assert.Equal(t, []string{"first", "third"}, order)
	assert.Equal(t, 3, v.Item(0).Amount)
}

func TestPostUpdateRunsBeforeObservers(t *testing.T) {
	v := NewSized(1)
	var order []string
	v.OnPostUpdate(func(*PostUpdateEvent) { order = append(order, "post") })
	obs := observerFunc(func(*Inventory, int) { order = append(order, "observer") })
	v.AddObserver(&obs)

	v.PutItem(PluginCause("test"), 0, item.New("A", 2))
	assert.Equal(t, []string{"post", "observer"}, order)
}

func TestCopySemantics(t *testing.T) {
	v := NewSized(1)
	s := item.New("A", 3)
	s.Lore = []string{"shiny"}
	require.True(t, v.SetItem(PluginCause("test"), 0, s))

	s.Amount = 50
	s.Lore[0] = "dull"
	got := v.Item(0)
	assert.Equal(t, 3, got.Amount)
	assert.Equal(t, []string{"shiny"}, got.Lore)

	got.Amount = 9
	assert.Equal(t, 3, v.Item(0).Amount)
}

func TestSetItem(t *testing.T) {
	v := mustVirtual(t, []*item.Stack{nil}, []int{10})

	assert.False(t, v.SetItem(PluginCause("test"), 0, item.New("A", 11)))
	assert.Nil(t, v.Item(0))

	assert.True(t, v.SetItem(PluginCause("test"), 0, item.New("A", 10)))
	assert.Equal(t, 10, v.Item(0).Amount)

	assert.True(t, v.SetItem(PluginCause("test"), 0, item.New("A", 0)))
	assert.Nil(t, v.Item(0))
}

func TestSetItemAmount(t *testing.T) {
	v := mustVirtual(t, []*item.Stack{item.New("A", 10), nil}, nil)

	assert.Equal(t, 64, v.SetItemAmount(PluginCause("test"), 0, 100))
	assert.Equal(t, -4, v.AddItemAmount(PluginCause("test"), 0, -4))
	assert.Equal(t, 60, v.Item(0).Amount)
	assert.Equal(t, 0, v.SetItemAmount(PluginCause("test"), 0, 0))
	assert.Nil(t, v.Item(0))
	assert.Equal(t, 0, v.SetItemAmount(PluginCause("test"), 1, 5))
	assert.Nil(t, v.Item(1))
}

func TestModifyItem(t *testing.T) {
	v := mustVirtual(t, []*item.Stack{item.New("A", 10)}, nil)

	ok := v.ModifyItem(PluginCause("test"), 0, func(s *item.Stack) *item.Stack {
		s.Name = "Renamed"
		return s
	})
	require.True(t, ok)
	assert.Equal(t, "Renamed", v.Item(0).Name)
}

func TestCollectSimilar(t *testing.T) {
	t.Run("partial before full", func(t *testing.T) {
		v := mustVirtual(t, []*item.Stack{item.New("B", 64), item.New("B", 5), nil}, nil)

		got := v.CollectSimilar(PlayerCause("alice", "double"), item.New("B", 10), 10)
		assert.Equal(t, 15, got)
		assert.Equal(t, []int{64, 0, 0}, amounts(v.Inventory))
	})

	t.Run("breaks full stack when no partial exists", func(t *testing.T) {
		v := mustVirtual(t, []*item.Stack{item.New("B", 64), item.New("C", 5)}, nil)

		got := v.CollectSimilar(PluginCause("test"), item.New("B", 10), 10)
		assert.Equal(t, 64, got)
		assert.Equal(t, []int{10, 5}, amounts(v.Inventory))
	})

	t.Run("slot at its capacity counts as full", func(t *testing.T) {
		v := mustVirtual(t, []*item.Stack{item.New("B", 10), item.New("B", 5)}, []int{10, 64})

		got := v.CollectSimilar(PluginCause("test"), item.New("B", 10), 10)
		assert.Equal(t, 15, got)
		assert.Equal(t, []int{10, 0}, amounts(v.Inventory))

		got = v.CollectSimilar(PluginCause("test"), item.New("B", 10), 10)
		assert.Equal(t, 20, got, "full slot is broken once no partial remains")
		assert.Equal(t, []int{0, 0}, amounts(v.Inventory))
	})

	t.Run("stops at target", func(t *testing.T) {
		v := mustVirtual(t, []*item.Stack{item.New("B", 30), item.New("B", 30)}, nil)

		got := v.CollectSimilar(PluginCause("test"), item.New("B", 1), 20)
		assert.Equal(t, 64, got)
		assert.Equal(t, []int{0, 16}, amounts(v.Inventory))
	})
}

func TestRemove(t *testing.T) {
	items := []*item.Stack{item.New("A", 10), item.New("B", 3), item.New("A", 7)}

	t.Run("remove if", func(t *testing.T) {
		v := mustVirtual(t, items, nil)
		removed := v.RemoveIf(PluginCause("test"), func(s *item.Stack) bool { return s.Material == "A" })
		assert.Equal(t, 17, removed)
		assert.Equal(t, []int{0, 3, 0}, amounts(v.Inventory))
	})

	t.Run("remove first spans slots", func(t *testing.T) {
		v := mustVirtual(t, items, nil)
		removed := v.RemoveFirstSimilar(PluginCause("test"), 12, item.New("A", 1))
		assert.Equal(t, 12, removed)
		assert.Equal(t, []int{0, 3, 5}, amounts(v.Inventory))
	})

	t.Run("remove first short", func(t *testing.T) {
		v := mustVirtual(t, items, nil)
		removed := v.RemoveFirstSimilar(PluginCause("test"), 100, item.New("A", 1))
		assert.Equal(t, 17, removed)
	})

	t.Run("remove first zero", func(t *testing.T) {
		v := mustVirtual(t, items, nil)
		called := false
		removed := v.RemoveFirst(PluginCause("test"), 0, func(*item.Stack) bool {
			called = true
			return true
		})
		assert.Zero(t, removed)
		assert.False(t, called)
	})
}

func TestQueries(t *testing.T) {
	v := mustVirtual(t, []*item.Stack{nil, item.New("A", 64), item.New("A", 3)}, []int{64, 64, 8})

	assert.False(t, v.IsEmpty())
	assert.False(t, v.IsFull())
	assert.Equal(t, 0, v.FirstEmptySlot())
	assert.Equal(t, 1, v.FirstNonEmptySlot())
	assert.True(t, v.ContainsSimilar(item.New("A", 1)))
	assert.False(t, v.ContainsSimilar(item.New("B", 1)))
	assert.Equal(t, 67, v.CountSimilar(item.New("A", 1)))
	assert.Equal(t, []int{64, 64, 8}, v.Capacities())
	assert.Equal(t, 8, v.MaxStackSize(2, nil))
	assert.Equal(t, 16, v.MaxStackSize(0, &item.Stack{Material: "egg", Amount: 1, MaxStack: 16}))
}

func TestOutOfBoundsPanics(t *testing.T) {
	v := NewSized(2)

	assert.PanicsWithError(t, "slot 2 out of range [0,2)", func() { v.Item(2) })
	assert.Panics(t, func() { v.PutItem(PluginCause("test"), -1, item.New("A", 1)) })
}

func TestObservers(t *testing.T) {
	v := NewSized(2)
	obs := &recordingObserver{}
	v.AddObserver(obs)
	v.AddObserver(obs)
	assert.Equal(t, 1, v.ObserverCount())

	v.AddItem(PluginCause("test"), item.New("A", 100))
	assert.Equal(t, []int{0, 1}, obs.calls)

	v.RemoveObserver(obs)
	assert.Equal(t, 1, v.ObserverCount())
	v.RemoveObserver(obs)
	assert.Zero(t, v.ObserverCount())

	v.SetItem(PluginCause("test"), 0, nil)
	assert.Equal(t, []int{0, 1}, obs.calls)
}
