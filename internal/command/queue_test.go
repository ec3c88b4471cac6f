package command

import (
	"errors"
	"testing"
)

func TestQueueFiltersNone(t *testing.T) {
	q := NewQueue(0)
	q.Push(None{}, nil, HideWindow{}, None{})
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1", q.Len())
	}
}

func TestQueueBreadthFirst(t *testing.T) {
	var order []string
	exec := ExecutorFunc(func(c Command) []Command {
		switch c := c.(type) {
		case ShowMessage:
			order = append(order, c.Title)
			switch c.Title {
			case "a":
				return []Command{ShowMessage{Title: "a1"}, ShowMessage{Title: "a2"}}
			case "b":
				return []Command{ShowMessage{Title: "b1"}}
			}
		}
		return nil
	})
	q := NewQueue(0)
	if err := q.Execute(exec, ShowMessage{Title: "a"}, ShowMessage{Title: "b"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"a", "b", "a1", "a2", "b1"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestQueueCycleStopsAtLimit(t *testing.T) {
	calls := 0
	exec := ExecutorFunc(func(c Command) []Command {
		calls++
		return []Command{c}
	})
	q := NewQueue(0)
	err := q.Execute(exec, ReloadSettings{})
	if !errors.Is(err, ErrIterationLimit) {
		t.Fatalf("err = %v, want ErrIterationLimit", err)
	}
	if calls != DefaultLimit {
		t.Fatalf("calls = %d, want %d", calls, DefaultLimit)
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be discarded, Len = %d", q.Len())
	}
}

func TestQueueUsableAfterLimit(t *testing.T) {
	q := NewQueue(3)
	loop := ExecutorFunc(func(c Command) []Command { return []Command{c} })
	if err := q.Execute(loop, HideWindow{}); err == nil {
		t.Fatal("expected limit error")
	}
	ran := 0
	once := ExecutorFunc(func(Command) []Command { ran++; return nil })
	if err := q.Execute(once, HideWindow{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ran != 1 {
		t.Fatalf("ran = %d", ran)
	}
}
