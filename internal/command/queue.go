package command

import (
	"errors"
	"fmt"
	"log"
)

// DefaultLimit bounds the number of commands one drain may execute.
const DefaultLimit = 1000

// ErrIterationLimit is returned when a drain hits its limit. The remaining
// commands are discarded.
var ErrIterationLimit = errors.New("command queue iteration limit reached")

// Executor performs a command and returns any follow-up commands.
type Executor interface {
	Execute(Command) []Command
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(Command) []Command

func (f ExecutorFunc) Execute(c Command) []Command { return f(c) }

// Queue drains commands breadth first. Follow-ups are appended behind
// already queued work so the executor never re-enters itself.
type Queue struct {
	pending []Command
	limit   int
}

// NewQueue returns a queue with the given iteration limit. A limit below
// one uses DefaultLimit.
func NewQueue(limit int) *Queue {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Queue{limit: limit}
}

// Push enqueues commands, dropping None and nil.
func (q *Queue) Push(cmds ...Command) {
	for _, c := range cmds {
		if c == nil {
			continue
		}
		if _, ok := c.(None); ok {
			continue
		}
		q.pending = append(q.pending, c)
	}
}

// Len returns the number of queued commands.
func (q *Queue) Len() int { return len(q.pending) }

// Clear discards queued commands.
func (q *Queue) Clear() { q.pending = q.pending[:0] }

// Execute queues initial and drains the queue through exec. It returns
// ErrIterationLimit if the cascade did not settle within the limit.
func (q *Queue) Execute(exec Executor, initial ...Command) error {
	q.Push(initial...)
	executed := 0
	for len(q.pending) > 0 {
		if executed >= q.limit {
			dropped := len(q.pending)
			log.Printf("command queue: limit of %d reached, dropping %d pending commands (next %T)", q.limit, dropped, q.pending[0])
			q.Clear()
			return fmt.Errorf("%w: %d executed, %d dropped", ErrIterationLimit, executed, dropped)
		}
		c := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		executed++
		q.Push(exec.Execute(c)...)
	}
	q.pending = q.pending[:0]
	return nil
}
