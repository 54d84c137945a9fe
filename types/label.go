package types

import (
	"sort"
	"strings"
)

// Label is the set of atomic propositions true in an environment state
type Label map[string]bool

// NewLabel creates a label containing the propositions
func NewLabel(props ...string) Label {
	l := make(Label, len(props))
	for _, p := range props {
		l[p] = true
	}
	return l
}

// Has checks if the proposition is part of the label
func (l Label) Has(prop string) bool {
	return l[prop]
}

// Props returns the propositions in sorted order
func (l Label) Props() []string {
	props := make([]string, 0, len(l))
	for p, ok := range l {
		if ok {
			props = append(props, p)
		}
	}
	sort.Strings(props)
	return props
}

func (l Label) String() string {
	return "{" + strings.Join(l.Props(), ",") + "}"
}
