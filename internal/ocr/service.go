package ocr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single recognition.
const DefaultTimeout = 30 * time.Second

// Service is a fixed-size recognition pool with a one slot queue. Results are
// handed to deliver from a worker goroutine; the host is responsible for
// moving them onto its own thread.
type Service struct {
	rec     Recognizer
	timeout time.Duration
	deliver func(Result)

	jobs chan Job
	wg   sync.WaitGroup

	mu      sync.Mutex
	pending map[uuid.UUID]pending
	closed  bool
}

type pending struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService starts workers goroutines. workers below one uses one and a
// non-positive timeout uses DefaultTimeout.
func NewService(rec Recognizer, workers int, timeout time.Duration, deliver func(Result)) *Service {
	if workers < 1 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &Service{
		rec:     rec,
		timeout: timeout,
		deliver: deliver,
		jobs:    make(chan Job, 1),
		pending: make(map[uuid.UUID]pending),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.work()
	}
	return s
}

// Available reports whether the recognizer can run.
func (s *Service) Available() bool {
	return s != nil && s.rec != nil && s.rec.Available()
}

// Submit queues job without blocking.
func (s *Service) Submit(job Job) error {
	if !s.Available() {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.pending[job.ID] = pending{ctx: ctx, cancel: cancel}
	select {
	case s.jobs <- job:
		return nil
	default:
		delete(s.pending, job.ID)
		cancel()
		return ErrBusy
	}
}

// Cancel abandons a queued or running job. Its result is never delivered.
func (s *Service) Cancel(id uuid.UUID) {
	s.finish(id)
}

func (s *Service) lookup(id uuid.UUID) (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	return p.ctx, ok
}

// finish forgets id and reports whether it was still pending.
func (s *Service) finish(id uuid.UUID) bool {
	s.mu.Lock()
	p, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if ok {
		p.cancel()
	}
	return ok
}

func (s *Service) work() {
	defer s.wg.Done()
	for job := range s.jobs {
		parent, ok := s.lookup(job.ID)
		if !ok {
			continue
		}
		start := time.Now()
		ctx, cancel := context.WithTimeout(parent, s.timeout)
		text, blocks, err := s.rec.Recognize(ctx, job.Image)
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %v: %w", s.timeout, ctx.Err())
		}
		cancel()
		if !s.finish(job.ID) {
			log.Printf("ocr: job %s cancelled after %v", job.ID, time.Since(start))
			continue
		}
		s.deliver(Result{Job: job.ID, Text: text, Blocks: blocks, Err: err})
	}
}

// Close stops accepting jobs and waits for running work to finish. Pending
// jobs are cancelled.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, p := range s.pending {
		p.cancel()
		delete(s.pending, id)
	}
	close(s.jobs)
	s.mu.Unlock()
	s.wg.Wait()
}
