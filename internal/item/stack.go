package item

import (
	"maps"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxStack is the stack size used when a stack does not declare one,
// and the slot capacity inventories start with.
const DefaultMaxStack = 64

// Air is the material name hosts use for "nothing". Stacks of air are empty.
const Air = "air"

// Stack is an amount of one kind of item.
//
// Two stacks are of the same kind when every field except Amount matches
// (see IsSimilar).
type Stack struct {
	Material string            `json:"material"`
	Amount   int               `json:"amount"`
	MaxStack int               `json:"max_stack,omitempty"` // 0 means DefaultMaxStack
	Name     string            `json:"name,omitempty"`
	Lore     []string          `json:"lore,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// New returns a stack of amount items of the given material.
func New(material string, amount int) *Stack {
	return &Stack{Material: material, Amount: amount}
}

// Empty reports whether s represents no item at all.
func Empty(s *Stack) bool {
	return s == nil || s.Amount <= 0 || s.Material == "" || s.Material == Air
}

// TakeUnlessEmpty returns s, or nil when s is empty.
func TakeUnlessEmpty(s *Stack) *Stack {
	if Empty(s) {
		return nil
	}
	return s
}

// Amount returns the amount of s, treating nil as zero.
func Amount(s *Stack) int {
	if Empty(s) {
		return 0
	}
	return s.Amount
}

// MaxStackSize returns the largest amount a single stack of this kind may hold.
func (s *Stack) MaxStackSize() int {
	if s == nil || s.MaxStack <= 0 {
		return DefaultMaxStack
	}
	return s.MaxStack
}

// Clone returns a deep copy of s. Clone of nil is nil.
func (s *Stack) Clone() *Stack {
	if s == nil {
		return nil
	}
	c := *s
	c.Lore = slices.Clone(s.Lore)
	c.Tags = maps.Clone(s.Tags)
	return &c
}

// WithAmount returns a clone of s holding amount items.
func (s *Stack) WithAmount(amount int) *Stack {
	c := s.Clone()
	c.Amount = amount
	return c
}

// IsSimilar reports whether s and o are the same kind of item, ignoring amounts.
// A nil stack is similar to nothing.
func (s *Stack) IsSimilar(o *Stack) bool {
	if s == nil || o == nil {
		return false
	}
	if s.Material != o.Material || s.MaxStackSize() != o.MaxStackSize() {
		return false
	}
	if norm.NFC.String(s.Name) != norm.NFC.String(o.Name) {
		return false
	}
	if len(s.Lore) != len(o.Lore) {
		return false
	}
	for i := range s.Lore {
		if norm.NFC.String(s.Lore[i]) != norm.NFC.String(o.Lore[i]) {
			return false
		}
	}
	if len(s.Tags) != len(o.Tags) {
		return false
	}
	for k, v := range s.Tags {
		ov, ok := o.Tags[k]
		if !ok || norm.NFC.String(v) != norm.NFC.String(ov) {
			return false
		}
	}
	return true
}

// Equal reports whether s and o are similar and hold the same amount.
// Two nil stacks are equal.
func Equal(s, o *Stack) bool {
	if Empty(s) || Empty(o) {
		return Empty(s) && Empty(o)
	}
	return s.Amount == o.Amount && s.IsSimilar(o)
}
