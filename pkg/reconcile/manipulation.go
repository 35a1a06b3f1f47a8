package reconcile

import (
	"fmt"

	"github.com/wuxler/ruasset/pkg/asset"
)

// State is the state a content version is reconciled to. Stronger states
// win when observations of the same content version conflict.
type State int

const (
	// Deleted removes the content, or protects it under the archive policy.
	Deleted State = iota + 1
	// Protected keeps the content out of the public partition.
	Protected
	// Public exposes the content in the public partition.
	Public
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Deleted:
		return "deleted"
	case Protected:
		return "protected"
	case Public:
		return "public"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Entry is one resolved manipulation.
type Entry struct {
	Ref   asset.Ref
	State State
}

// ManipulationList resolves the observations of one reconciliation pass to a
// single state per content version: Public beats Protected beats Deleted.
type ManipulationList struct {
	states map[asset.Ref]State
	order  []asset.Ref
}

// NewManipulationList returns an empty list.
func NewManipulationList() *ManipulationList {
	return &ManipulationList{states: map[asset.Ref]State{}}
}

// Observe merges one observation.
func (l *ManipulationList) Observe(ref asset.Ref, state State) {
	current, ok := l.states[ref]
	if !ok {
		l.order = append(l.order, ref)
	}
	if state > current {
		l.states[ref] = state
	}
}

// ObserveAll merges the same observation of every ref.
func (l *ManipulationList) ObserveAll(refs []asset.Ref, state State) {
	for _, ref := range refs {
		l.Observe(ref, state)
	}
}

// Merge merges every entry of other.
func (l *ManipulationList) Merge(other *ManipulationList) {
	for _, e := range other.Entries() {
		l.Observe(e.Ref, e.State)
	}
}

// State returns the resolved state of ref.
func (l *ManipulationList) State(ref asset.Ref) (State, bool) {
	s, ok := l.states[ref]
	return s, ok
}

// Len returns the number of content versions in the list.
func (l *ManipulationList) Len() int {
	return len(l.order)
}

// Entries returns the resolved entries in order of first observation.
func (l *ManipulationList) Entries() []Entry {
	entries := make([]Entry, 0, len(l.order))
	for _, ref := range l.order {
		entries = append(entries, Entry{Ref: ref, State: l.states[ref]})
	}
	return entries
}
