package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/invgui/internal/gui"
	"github.com/roach88/invgui/internal/inventory"
	"github.com/roach88/invgui/internal/item"
)

func compileOne(t *testing.T, src string) *Structure {
	t.Helper()
	structures, err := CompileString(src, "test.cue")
	require.NoError(t, err)
	require.Len(t, structures, 1)
	return structures[0]
}

func TestCompile(t *testing.T) {
	s := compileOne(t, `
		structure: Shop: {
			rows: [
				"# x x #",
				"# x x .",
			]
			ingredients: {
				"#": item: {material: "stone", amount: 2, lore: ["a"]}
				"x": marker: "content-horizontal"
			}
		}
	`)

	assert.Equal(t, "Shop", s.Name)
	assert.Equal(t, 4, s.Width)
	assert.Equal(t, 2, s.Height)
	assert.Equal(t, []int{1, 2, 5, 6}, s.ContentSlots())
	assert.Equal(t, "#xx#\n#xx.\n", s.String())

	ing, ok := s.Ingredient(0)
	require.True(t, ok)
	assert.Equal(t, KindItem, ing.Kind)
	assert.Equal(t, &item.Stack{Material: "stone", Amount: 2, Lore: []string{"a"}}, ing.Item)

	_, ok = s.Ingredient(7)
	assert.False(t, ok)
}

func TestCompile_VerticalContent(t *testing.T) {
	s := compileOne(t, `
		structure: V: {
			rows: ["x x", "x x"]
			ingredients: "x": marker: "content-vertical"
		}
	`)
	assert.True(t, s.Vertical())
	assert.Equal(t, []int{0, 2, 1, 3}, s.ContentSlots())
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{
			name:  "missing rows",
			src:   `structure: A: ingredients: {}`,
			field: "rows",
		},
		{
			name:  "ragged rows",
			src:   `structure: A: {rows: ["..", "..."]}`,
			field: "rows[1]",
		},
		{
			name:  "undefined ingredient",
			src:   `structure: A: {rows: ["a"]}`,
			field: "rows[0]",
		},
		{
			name:  "two kinds",
			src:   `structure: A: {rows: ["a"], ingredients: a: {ref: "x", marker: "content-vertical"}}`,
			field: "ingredients.a",
		},
		{
			name:  "unknown marker",
			src:   `structure: A: {rows: ["a"], ingredients: a: marker: "diagonal"}`,
			field: "ingredients.a.marker",
		},
		{
			name:  "item without material",
			src:   `structure: A: {rows: ["a"], ingredients: a: item: {amount: 1}}`,
			field: "ingredients.a.item",
		},
		{
			name: "mixed markers",
			src: `structure: A: {rows: ["ab"], ingredients: {
				a: marker: "content-vertical"
				b: marker: "content-horizontal"
			}}`,
			field: "ingredients",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileString(tt.src, "test.cue")
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestLoadDir_AndApply(t *testing.T) {
	structures, err := LoadDir(filepath.Join("testdata", "chest"))
	require.NoError(t, err)
	require.Len(t, structures, 2)

	chest := Find(structures, "Chest")
	require.NotNil(t, chest)

	storage := inventory.NewSized(3)
	storage.SetItem(inventory.Suppressed, 1, item.New("diamond", 2))
	graph := gui.NewGraph()
	p, err := chest.NewPagedGrid(graph, Bindings{
		Inventories: map[string]*inventory.Inventory{"storage": storage.Inventory},
		Items: map[string]gui.Item{
			"previous_page": gui.StaticItem{Stack: item.New("arrow", 1)},
			"next_page":     gui.StaticItem{Stack: item.New("arrow", 1)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{12}, p.ContentSlots())
	assert.Equal(t, gui.InventoryLink{
		Inventory:  storage.Inventory,
		Slot:       2,
		Background: gui.StaticItem{Stack: item.New("light_gray_stained_glass_pane", 1)},
	}, p.Cell(8))

	got, err := p.Render(7, nil)
	require.NoError(t, err)
	assert.Equal(t, "diamond", got.Material)
	got, err = p.Render(6, nil)
	require.NoError(t, err)
	assert.Equal(t, "light_gray_stained_glass_pane", got.Material)
	got, err = p.Render(0, nil)
	require.NoError(t, err)
	assert.Equal(t, " ", got.Name)

	column := Find(structures, "Column")
	sg, err := column.NewScrollGrid(gui.NewGraph(), Bindings{})
	require.NoError(t, err)
	assert.Equal(t, 2, sg.LineLength())
}

func TestApply_Errors(t *testing.T) {
	s := compileOne(t, `
		structure: A: {
			rows: ["s s r"]
			ingredients: {
				s: inventory: "storage"
				r: ref: "button"
			}
		}
	`)
	graph := gui.NewGraph()

	_, err := s.NewGrid(graph, Bindings{})
	var ae *ApplyError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Message, `inventory "storage"`)

	small := inventory.NewSized(1)
	_, err = s.NewGrid(graph, Bindings{Inventories: map[string]*inventory.Inventory{"storage": small.Inventory}})
	require.ErrorAs(t, err, &ae)

	_, err = s.NewGrid(graph, Bindings{
		Inventories: map[string]*inventory.Inventory{"storage": inventory.NewSized(2).Inventory},
	})
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Message, `item "button"`)
	assert.Zero(t, graph.Len())

	wrong, err := graph.NewGrid(2, 1)
	require.NoError(t, err)
	require.ErrorAs(t, s.Apply(wrong, Bindings{}), &ae)
}
