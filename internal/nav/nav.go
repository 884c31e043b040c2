// Package nav holds pure UI-navigation state for the outline: the selected
// node and the set of expanded container ids. It carries no content; content
// reactions (like lazy task loads) hang off the OnExpand callback.
package nav

import (
	"sync"

	"courseforge/internal/model"
)

type Selection struct {
	ID   string
	Kind model.NodeKind
}

type State struct {
	mu sync.Mutex

	selected *Selection
	expanded map[string]bool
	onExpand func(id string, kind model.NodeKind)
}

func New() *State {
	return &State{
		expanded: map[string]bool{},
	}
}

// SetOnExpand registers the callback fired whenever an id transitions from
// collapsed to expanded. Deduplication is the content layer's job: a load that
// already succeeded no-ops on its populated slot, and a load that failed gets
// retried by the next expansion.
func (s *State) SetOnExpand(fn func(id string, kind model.NodeKind)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpand = fn
}

func (s *State) Select(id string, kind model.NodeKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &Selection{ID: id, Kind: kind}
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *State) Selected() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return Selection{}, false
	}
	return *s.selected, true
}

// ToggleExpanded flips the id's expansion. Expanding a collapsed id fires the
// expand callback; collapsing never fires anything. Returns the new expanded
// state.
func (s *State) ToggleExpanded(id string, kind model.NodeKind) bool {
	s.mu.Lock()
	if s.expanded[id] {
		delete(s.expanded, id)
		s.mu.Unlock()
		return false
	}
	s.expanded[id] = true
	fn := s.onExpand
	s.mu.Unlock()

	if fn != nil {
		fn(id, kind)
	}
	return true
}

// Expand expands the id if it isn't already; expanding an expanded id is a
// no-op and fires nothing.
func (s *State) Expand(id string, kind model.NodeKind) {
	s.mu.Lock()
	if s.expanded[id] {
		s.mu.Unlock()
		return
	}
	s.expanded[id] = true
	fn := s.onExpand
	s.mu.Unlock()

	if fn != nil {
		fn(id, kind)
	}
}

// Collapse collapses the id; collapsing a collapsed id is a no-op.
func (s *State) Collapse(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expanded, id)
}

func (s *State) IsExpanded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[id]
}

func (s *State) ExpandedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.expanded))
	for id := range s.expanded {
		out = append(out, id)
	}
	return out
}

// Reset drops all navigation state (new course session).
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.expanded = map[string]bool{}
}
