package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

type clickFixture struct {
	graph  *Graph
	grid   *Grid
	inv    *inventory.Virtual
	player *fakePlayer
}

func newClickFixture(t *testing.T, items ...*item.Stack) *clickFixture {
	t.Helper()
	inv, err := inventory.NewVirtual(testInvID, len(items), items, nil)
	require.NoError(t, err)
	g := NewGraph()
	grid := newGrid(t, g, len(items), 1)
	for i := range items {
		grid.SetCell(i, InventoryLink{Inventory: inv.Inventory, Slot: i})
	}
	return &clickFixture{graph: g, grid: grid, inv: inv, player: newFakePlayer()}
}

func (f *clickFixture) click(t *testing.T, kind ClickKind, slot int) {
	t.Helper()
	require.NoError(t, f.grid.HandleClick(Click{Kind: kind, Player: f.player, Slot: slot}))
}

func TestClick_LeftPickUpAndPlace(t *testing.T) {
	f := newClickFixture(t, item.New("A", 10), nil)

	f.click(t, ClickLeft, 0)
	assert.Nil(t, f.inv.Item(0))
	assert.Equal(t, item.New("A", 10), f.player.cursor)

	f.click(t, ClickLeft, 1)
	assert.Equal(t, 10, f.inv.Item(1).Amount)
	assert.Nil(t, f.player.cursor)
}

func TestClick_LeftMergesAndKeepsOverflow(t *testing.T) {
	f := newClickFixture(t, item.New("A", 60))
	f.player.cursor = item.New("A", 10)

	f.click(t, ClickLeft, 0)
	assert.Equal(t, 64, f.inv.Item(0).Amount)
	assert.Equal(t, 6, f.player.cursor.Amount)
}

func TestClick_LeftSwaps(t *testing.T) {
	f := newClickFixture(t, item.New("A", 10))
	f.player.cursor = item.New("B", 3)

	f.click(t, ClickLeft, 0)
	assert.Equal(t, item.New("B", 3), f.inv.Item(0))
	assert.Equal(t, item.New("A", 10), f.player.cursor)
}

func TestClick_RightSplitsAndPlacesOne(t *testing.T) {
	f := newClickFixture(t, item.New("A", 9), nil)

	f.click(t, ClickRight, 0)
	assert.Equal(t, 4, f.inv.Item(0).Amount)
	assert.Equal(t, 5, f.player.cursor.Amount)

	f.click(t, ClickRight, 1)
	assert.Equal(t, 1, f.inv.Item(1).Amount)
	assert.Equal(t, 4, f.player.cursor.Amount)
}

func TestClick_ShiftMovesToPlayer(t *testing.T) {
	f := newClickFixture(t, item.New("A", 50))
	require.NoError(t, f.player.inv.Resize(1))
	f.player.inv.SetItem(inventory.Suppressed, 0, item.New("A", 30))

	f.click(t, ClickShiftLeft, 0)
	assert.Equal(t, 64, f.player.inv.Item(0).Amount)
	assert.Equal(t, 16, f.inv.Item(0).Amount)
	assert.Empty(t, f.player.dropped)
}

func TestClick_NumberKeySwaps(t *testing.T) {
	f := newClickFixture(t, item.New("A", 10))
	f.player.inv.SetItem(inventory.Suppressed, 3, item.New("B", 2))

	require.NoError(t, f.grid.HandleClick(Click{Kind: ClickNumberKey, Player: f.player, Slot: 0, Hotbar: 3}))
	assert.Equal(t, item.New("B", 2), f.inv.Item(0))
	assert.Equal(t, item.New("A", 10), f.player.inv.Item(3))
}

func TestClick_NumberKeyRevertsWhenPlayerSideCancelled(t *testing.T) {
	f := newClickFixture(t, item.New("A", 10))
	f.player.inv.OnPreUpdate(func(e *inventory.PreUpdateEvent) { e.Cancel() })

	f.click(t, ClickNumberKey, 0)
	assert.Equal(t, item.New("A", 10), f.inv.Item(0))
	assert.Nil(t, f.player.inv.Item(0))
}

func TestClick_Drop(t *testing.T) {
	f := newClickFixture(t, item.New("A", 10))

	f.click(t, ClickDrop, 0)
	assert.Equal(t, 9, f.inv.Item(0).Amount)

	f.click(t, ClickControlDrop, 0)
	assert.Nil(t, f.inv.Item(0))
	assert.Equal(t, []*item.Stack{item.New("A", 1), item.New("A", 9)}, f.player.dropped)
}

func TestClick_DoubleCollects(t *testing.T) {
	f := newClickFixture(t, nil, item.New("B", 5), item.New("B", 64))
	f.player.inv.SetItem(inventory.Suppressed, 0, item.New("B", 20))
	f.player.cursor = item.New("B", 10)

	f.click(t, ClickDouble, 0)
	assert.Equal(t, 35, f.player.cursor.Amount)
	assert.Nil(t, f.inv.Item(1))
	assert.Equal(t, 64, f.inv.Item(2).Amount)
	assert.Nil(t, f.player.inv.Item(0))
}

func TestClick_CarriesPlayerCause(t *testing.T) {
	f := newClickFixture(t, item.New("A", 10))
	var causes []inventory.Cause
	f.inv.OnPreUpdate(func(e *inventory.PreUpdateEvent) { causes = append(causes, e.Cause) })

	f.click(t, ClickRight, 0)
	assert.Equal(t, []inventory.Cause{inventory.PlayerCause("alice", "right")}, causes)
}

func TestClick_CancelledPickUpLeavesCursor(t *testing.T) {
	f := newClickFixture(t, item.New("A", 10))
	f.inv.OnPreUpdate(func(e *inventory.PreUpdateEvent) { e.Cancel() })

	f.click(t, ClickLeft, 0)
	assert.Equal(t, 10, f.inv.Item(0).Amount)
	assert.Nil(t, f.player.cursor)
}

func TestClick_ForwardsAndDispatchesToItems(t *testing.T) {
	f := newClickFixture(t, item.New("A", 10))
	top := newGrid(t, f.graph, 2, 1)
	top.SetCell(0, LinkedSlot{Grid: f.grid.ID(), Slot: 0})
	rec := &clickRecorder{}
	top.SetCell(1, ItemElement{Item: rec})

	require.NoError(t, top.HandleClick(Click{Kind: ClickLeft, Player: f.player, Slot: 0}))
	assert.Equal(t, 10, f.player.cursor.Amount)

	require.NoError(t, top.HandleClick(Click{Kind: ClickRight, Player: f.player, Slot: 1}))
	require.Len(t, rec.clicks, 1)
	assert.Equal(t, ClickRight, rec.clicks[0].Kind)
}

func TestDrag(t *testing.T) {
	t.Run("left splits evenly", func(t *testing.T) {
		f := newClickFixture(t, nil, item.New("A", 1), item.New("B", 1), nil)
		f.player.cursor = item.New("A", 11)

		require.NoError(t, f.grid.HandleDrag(Drag{Player: f.player, Slots: []int{0, 1, 2, 3}}))
		assert.Equal(t, 3, f.inv.Item(0).Amount)
		assert.Equal(t, 4, f.inv.Item(1).Amount)
		assert.Equal(t, "B", f.inv.Item(2).Material)
		assert.Equal(t, 3, f.inv.Item(3).Amount)
		assert.Equal(t, 2, f.player.cursor.Amount)
	})

	t.Run("right places one each", func(t *testing.T) {
		f := newClickFixture(t, nil, nil, nil)
		f.player.cursor = item.New("A", 2)

		require.NoError(t, f.grid.HandleDrag(Drag{Player: f.player, Slots: []int{0, 1, 2}, Right: true}))
		assert.Equal(t, []int{1, 1, 0}, []int{
			item.Amount(f.inv.Item(0)),
			item.Amount(f.inv.Item(1)),
			item.Amount(f.inv.Item(2)),
		})
		assert.Nil(t, f.player.cursor)
	})
}

func TestParseClickKind(t *testing.T) {
	for k := ClickLeft; k <= ClickDouble; k++ {
		got, err := ParseClickKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseClickKind("middle")
	assert.Error(t, err)
}
