package ctrm

import "github.com/zeu5/ctrm-reach/types"

// Condition guards a transition of the reward machine.
// It is a predicate on the label of the environment state being left
type Condition func(types.Label) bool

// Prop is true when the proposition is part of the label
func Prop(prop string) Condition {
	return func(l types.Label) bool {
		return l.Has(prop)
	}
}

// Always is true for every label
func Always() Condition {
	return func(types.Label) bool {
		return true
	}
}

// Not operator on the Condition
func (c Condition) Not() Condition {
	return func(l types.Label) bool {
		return !c(l)
	}
}

// Or operator between Condition's
func (c Condition) Or(other Condition) Condition {
	return func(l types.Label) bool {
		return c(l) || other(l)
	}
}

// And operator between Condition's
func (c Condition) And(other Condition) Condition {
	return func(l types.Label) bool {
		return c(l) && other(l)
	}
}
