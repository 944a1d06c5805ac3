package cloud

import (
	"context"
	"sync"
	"time"
)

// Scheduler is the host's continuous-animation primitive: Schedule runs fn once on
// the next frame, with the seconds elapsed since the previous frame. cancel drops
// the callback if it has not run yet.
type Scheduler interface {
	Schedule(fn func(elapsed float64)) (cancel func())
}

// TickerScheduler drives frames from a time.Ticker. Frame callbacks and posted
// events all run on the goroutine calling Run, so an engine driven by it never sees
// concurrent calls.
type TickerScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	pending func(elapsed float64)
	seq     uint64

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once
}

var _ Scheduler = &TickerScheduler{}

// NewTickerScheduler returns a scheduler running fps frames per second.
// fps <= 0 falls back to 60.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{
		interval: time.Second / time.Duration(fps),
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

func (s *TickerScheduler) Schedule(fn func(elapsed float64)) (cancel func()) {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.pending = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq == id {
			s.pending = nil
		}
	}
}

// Post queues fn to run on the scheduler goroutine between frames.
// It returns false once Run has returned.
func (s *TickerScheduler) Post(fn func()) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case <-s.done:
		return false
	case s.events <- fn:
		return true
	}
}

// Run executes frames and posted events until ctx is done.
func (s *TickerScheduler) Run(ctx context.Context) error {
	defer s.closeOnce.Do(func() { close(s.done) })

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case fn := <-s.events:
			fn()

		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now

			s.mu.Lock()
			fn := s.pending
			s.pending = nil
			s.mu.Unlock()

			if fn != nil {
				fn(elapsed)
			}
		}
	}
}

// Done is closed when Run returns.
func (s *TickerScheduler) Done() <-chan struct{} {
	return s.done
}
