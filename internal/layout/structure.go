package layout

import (
	"fmt"
	"strings"
	"unicode"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/invgui/internal/item"
)

// Kind identifies the type of an ingredient.
type Kind int

const (
	KindItem Kind = iota + 1
	KindInventory
	KindRef
	KindMarker
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindInventory:
		return "inventory"
	case KindRef:
		return "ref"
	case KindMarker:
		return "marker"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Marker orders content slots.
type Marker string

const (
	MarkerContentHorizontal Marker = "content-horizontal"
	MarkerContentVertical   Marker = "content-vertical"
)

// Ingredient is what one structure character stands for.
type Ingredient struct {
	Kind Kind

	// Item is set for KindItem.
	Item *item.Stack

	// Name is the inventory name for KindInventory and the binding name for
	// KindRef.
	Name string

	// Background is an optional stack shown in empty inventory slots.
	Background *item.Stack

	// Marker is set for KindMarker.
	Marker Marker
}

// Structure is a compiled structure definition.
type Structure struct {
	Name   string
	Width  int
	Height int

	// cells holds the ingredient key of every cell, 0 for empty.
	cells       []rune
	ingredients map[rune]Ingredient
	pos         token.Pos
}

// Compile parses a CUE structure value. The structure's name is the last
// label of the value's path.
func Compile(v cue.Value) (*Structure, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &Structure{pos: v.Pos(), ingredients: make(map[rune]Ingredient)}
	if sels := v.Path().Selectors(); len(sels) > 0 {
		s.Name = sels[len(sels)-1].String()
	}

	if err := s.parseIngredients(v); err != nil {
		return nil, err
	}
	if err := s.parseRows(v); err != nil {
		return nil, err
	}
	if err := s.checkMarkers(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Structure) parseRows(v cue.Value) error {
	rowsVal := v.LookupPath(cue.ParsePath("rows"))
	if !rowsVal.Exists() {
		return &CompileError{Field: "rows", Message: "rows are required", Pos: v.Pos()}
	}
	iter, err := rowsVal.List()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		row, err := iter.Value().String()
		if err != nil {
			return formatCUEError(err)
		}
		var cells []rune
		for _, r := range row {
			switch {
			case unicode.IsSpace(r):
				continue
			case r == '.':
				cells = append(cells, 0)
			default:
				if _, ok := s.ingredients[r]; !ok {
					return &CompileError{
						Field:   fmt.Sprintf("rows[%d]", s.Height),
						Message: fmt.Sprintf("undefined ingredient %q", r),
						Pos:     iter.Value().Pos(),
					}
				}
				cells = append(cells, r)
			}
		}
		if s.Height == 0 {
			s.Width = len(cells)
		}
		if len(cells) == 0 || len(cells) != s.Width {
			return &CompileError{
				Field:   fmt.Sprintf("rows[%d]", s.Height),
				Message: fmt.Sprintf("row has %d cells, want %d", len(cells), max(s.Width, 1)),
				Pos:     iter.Value().Pos(),
			}
		}
		s.cells = append(s.cells, cells...)
		s.Height++
	}
	if s.Height == 0 {
		return &CompileError{Field: "rows", Message: "at least one row is required", Pos: rowsVal.Pos()}
	}
	return nil
}

func (s *Structure) parseIngredients(v cue.Value) error {
	ingVal := v.LookupPath(cue.ParsePath("ingredients"))
	if !ingVal.Exists() {
		return nil
	}
	iter, err := ingVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		key := []rune(iter.Selector().Unquoted())
		field := "ingredients." + iter.Selector().String()
		if len(key) != 1 || key[0] == '.' || unicode.IsSpace(key[0]) {
			return &CompileError{Field: field, Message: "ingredient key must be a single non-space character other than '.'", Pos: iter.Value().Pos()}
		}
		ing, err := compileIngredient(field, iter.Value())
		if err != nil {
			return err
		}
		s.ingredients[key[0]] = ing
	}
	return nil
}

func compileIngredient(field string, v cue.Value) (Ingredient, error) {
	var found []Ingredient

	if iv := v.LookupPath(cue.ParsePath("item")); iv.Exists() {
		st, err := decodeStack(field+".item", iv)
		if err != nil {
			return Ingredient{}, err
		}
		found = append(found, Ingredient{Kind: KindItem, Item: st})
	}
	if nv := v.LookupPath(cue.ParsePath("inventory")); nv.Exists() {
		name, err := nv.String()
		if err != nil {
			return Ingredient{}, formatCUEError(err)
		}
		ing := Ingredient{Kind: KindInventory, Name: name}
		if bv := v.LookupPath(cue.ParsePath("background")); bv.Exists() {
			if ing.Background, err = decodeStack(field+".background", bv); err != nil {
				return Ingredient{}, err
			}
		}
		found = append(found, ing)
	}
	if rv := v.LookupPath(cue.ParsePath("ref")); rv.Exists() {
		name, err := rv.String()
		if err != nil {
			return Ingredient{}, formatCUEError(err)
		}
		found = append(found, Ingredient{Kind: KindRef, Name: name})
	}
	if mv := v.LookupPath(cue.ParsePath("marker")); mv.Exists() {
		m, err := mv.String()
		if err != nil {
			return Ingredient{}, formatCUEError(err)
		}
		switch Marker(m) {
		case MarkerContentHorizontal, MarkerContentVertical:
		default:
			return Ingredient{}, &CompileError{Field: field + ".marker", Message: fmt.Sprintf("unknown marker %q", m), Pos: mv.Pos()}
		}
		found = append(found, Ingredient{Kind: KindMarker, Marker: Marker(m)})
	}

	if len(found) != 1 {
		return Ingredient{}, &CompileError{
			Field:   field,
			Message: "exactly one of item, inventory, ref or marker is required",
			Pos:     v.Pos(),
		}
	}
	return found[0], nil
}

func decodeStack(field string, v cue.Value) (*item.Stack, error) {
	var st item.Stack
	if err := v.Decode(&st); err != nil {
		return nil, formatCUEError(err)
	}
	if st.Amount == 0 {
		st.Amount = 1
	}
	if item.Empty(&st) {
		return nil, &CompileError{Field: field, Message: "item must have a material and a positive amount", Pos: v.Pos()}
	}
	return &st, nil
}

func (s *Structure) checkMarkers() error {
	var marker Marker
	for _, r := range s.cells {
		ing, ok := s.ingredients[r]
		if !ok || ing.Kind != KindMarker {
			continue
		}
		if marker != "" && marker != ing.Marker {
			return &CompileError{Field: "ingredients", Message: "content-horizontal and content-vertical cannot be mixed", Pos: s.pos}
		}
		marker = ing.Marker
	}
	return nil
}

// Size returns the number of cells.
func (s *Structure) Size() int {
	return len(s.cells)
}

// Ingredient returns the ingredient in cell slot, if any.
func (s *Structure) Ingredient(slot int) (Ingredient, bool) {
	ing, ok := s.ingredients[s.cells[slot]]
	return ing, ok
}

// ContentSlots returns the marker cells, row by row for horizontal markers
// and column by column for vertical ones.
func (s *Structure) ContentSlots() []int {
	var out []int
	if !s.Vertical() {
		for i, r := range s.cells {
			if ing, ok := s.ingredients[r]; ok && ing.Kind == KindMarker {
				out = append(out, i)
			}
		}
		return out
	}
	for x := 0; x < s.Width; x++ {
		for y := 0; y < s.Height; y++ {
			i := y*s.Width + x
			if ing, ok := s.ingredients[s.cells[i]]; ok && ing.Kind == KindMarker {
				out = append(out, i)
			}
		}
	}
	return out
}

// Vertical reports whether content is ordered column by column.
func (s *Structure) Vertical() bool {
	for _, r := range s.cells {
		if ing, ok := s.ingredients[r]; ok && ing.Kind == KindMarker {
			return ing.Marker == MarkerContentVertical
		}
	}
	return false
}

// String renders the rows, one line per row.
func (s *Structure) String() string {
	var b strings.Builder
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			r := s.cells[y*s.Width+x]
			if r == 0 {
				r = '.'
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
