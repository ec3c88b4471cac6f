// Package history records committed element mutations for undo and redo.
package history

import (
	"errors"
	"fmt"
	"log"

	"github.com/example/snapmark/internal/element"
)

var (
	// ErrNothingToUndo is returned by Step when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned by Step when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrCorrupt means a recorded index no longer fits the element store.
	ErrCorrupt = errors.New("history does not match element store")
)

// DefaultLimit is the number of undo entries kept.
const DefaultLimit = 50

// Kind is the mutation an Action records.
type Kind int

const (
	Add Kind = iota
	Remove
	Modify
)

func (k Kind) String() string {
	switch k {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Modify:
		return "modify"
	}
	return "unknown"
}

// Action is one committed mutation. Add uses After, Remove uses Before and
// Modify uses both.
type Action struct {
	Kind   Kind
	Index  int
	Before element.Element
	After  element.Element
}

// Added records e appearing at index.
func Added(index int, e element.Element) Action {
	return Action{Kind: Add, Index: index, After: e.Clone()}
}

// Removed records e disappearing from index.
func Removed(index int, e element.Element) Action {
	return Action{Kind: Remove, Index: index, Before: e.Clone()}
}

// Modified records the element at index changing from before to after.
func Modified(index int, before, after element.Element) Action {
	return Action{Kind: Modify, Index: index, Before: before.Clone(), After: after.Clone()}
}

// Target is the element container history replays against.
type Target interface {
	Insert(i int, e element.Element) bool
	Remove(i int) (element.Element, bool)
	Replace(i int, e element.Element) bool
	Len() int
}

// Stack is a bounded undo/redo history. It is not safe for concurrent use.
type Stack struct {
	undo  []Action
	redo  []Action
	limit int
}

// New returns a stack keeping at most limit entries. A limit below one uses
// DefaultLimit.
func New(limit int) *Stack {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push records a committed action, dropping the redo tail and the oldest
// entry once the limit is exceeded.
func (s *Stack) Push(a Action) {
	s.redo = s.redo[:0]
	s.undo = append(s.undo, a)
	if over := len(s.undo) - s.limit; over > 0 {
		s.undo = append(s.undo[:0], s.undo[over:]...)
	}
}

// Undo reverts the most recent action. It returns false when there is
// nothing to undo or the history turned out to be corrupt, in which case
// the history is discarded.
func (s *Stack) Undo(t Target) bool {
	return s.report(s.Step(t, true))
}

// Redo reapplies the most recently undone action.
func (s *Stack) Redo(t Target) bool {
	return s.report(s.Step(t, false))
}

func (s *Stack) report(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrCorrupt):
		log.Printf("history: %v; clearing", err)
		s.Clear()
	}
	return false
}

// Step performs one undo (back=true) or redo and reports why it could not.
func (s *Stack) Step(t Target, back bool) error {
	from, to := &s.undo, &s.redo
	empty := ErrNothingToUndo
	if !back {
		from, to = &s.redo, &s.undo
		empty = ErrNothingToRedo
	}
	if len(*from) == 0 {
		return empty
	}
	a := (*from)[len(*from)-1]
	if err := apply(t, a, back); err != nil {
		return err
	}
	*from = (*from)[:len(*from)-1]
	*to = append(*to, a)
	return nil
}

func apply(t Target, a Action, reverse bool) error {
	kind := a.Kind
	if reverse {
		switch kind {
		case Add:
			kind = Remove
		case Remove:
			kind = Add
		}
	}
	switch kind {
	case Add:
		e := a.After
		if reverse {
			e = a.Before
		}
		if !t.Insert(a.Index, e.Clone()) {
			return fmt.Errorf("%w: insert at %d of %d", ErrCorrupt, a.Index, t.Len())
		}
	case Remove:
		if _, ok := t.Remove(a.Index); !ok {
			return fmt.Errorf("%w: remove at %d of %d", ErrCorrupt, a.Index, t.Len())
		}
	case Modify:
		e := a.After
		if reverse {
			e = a.Before
		}
		if !t.Replace(a.Index, e.Clone()) {
			return fmt.Errorf("%w: replace at %d of %d", ErrCorrupt, a.Index, t.Len())
		}
	}
	return nil
}

// CanUndo reports whether Undo has anything to revert.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo has anything to reapply.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Len returns the number of undo entries.
func (s *Stack) Len() int { return len(s.undo) }

// Clear drops all history.
func (s *Stack) Clear() {
	s.undo = s.undo[:0]
	s.redo = s.redo[:0]
}
