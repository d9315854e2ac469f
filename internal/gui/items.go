package gui

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/roach88/invgui/internal/item"
)

// StaticItem renders the same stack for every viewer and ignores clicks.
type StaticItem struct {
	Stack *item.Stack
}

// Render returns a copy of the stack.
func (s StaticItem) Render(Viewer) *item.Stack {
	return s.Stack.Clone()
}

// HandleClick does nothing.
func (StaticItem) HandleClick(Click) {}

// LocalizedItem renders Base with a display name chosen by the viewer's
// locale.
type LocalizedItem struct {
	Base *item.Stack

	tags    []language.Tag
	names   []string
	matcher language.Matcher
}

// NewLocalizedItem creates a LocalizedItem. Base.Name is the fallback; it is
// used when no entry in names matches the viewer's locale.
func NewLocalizedItem(base *item.Stack, names map[language.Tag]string) *LocalizedItem {
	li := &LocalizedItem{
		Base:  base,
		tags:  []language.Tag{language.Und},
		names: []string{base.Name},
	}
	tags := make([]language.Tag, 0, len(names))
	for tag := range names {
		tags = append(tags, tag)
	}
	slices.SortFunc(tags, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})
	for _, tag := range tags {
		li.tags = append(li.tags, tag)
		li.names = append(li.names, names[tag])
	}
	li.matcher = language.NewMatcher(li.tags)
	return li
}

// Render returns a copy of Base carrying the best matching name.
func (li *LocalizedItem) Render(v Viewer) *item.Stack {
	s := li.Base.Clone()
	if s == nil || v == nil {
		return s
	}
	_, idx, conf := li.matcher.Match(v.Locale())
	if conf != language.No {
		s.Name = li.names[idx]
	}
	return s
}

// HandleClick does nothing.
func (*LocalizedItem) HandleClick(Click) {}
