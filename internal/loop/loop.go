// Package loop provides the single cooperative event loop that page sessions
// run on. Every scroll sample, intersection report, timer firing and user
// action of one session executes on the same goroutine, one callback at a time.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. Once Stop returns on the loop goroutine the
	// callback is guaranteed not to run. It reports whether the call stopped
	// a pending callback.
	Stop() bool
}

// Scheduler schedules callbacks onto a single logical thread.
type Scheduler interface {
	Post(fn func())
	AfterFunc(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Loop is a Scheduler backed by one goroutine draining a task queue.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	closed atomic.Bool
	once   sync.Once
}

// New creates a loop whose queue holds up to buffer pending tasks.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run executes queued tasks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Close stops the loop. Tasks still queued are discarded.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Done is closed once the loop stops accepting work.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn. Posting to a closed loop is a no-op.
func (l *Loop) Post(fn func()) {
	if l.closed.Load() {
		return
	}
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc runs fn on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return t
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.t.Stop()
	// The firing may already sit in the queue; the flag keeps it from running.
	return !t.stopped.Swap(true)
}

type repeating struct {
	s        Scheduler
	interval time.Duration
	fn       func()
	current  Timer
	stopped  bool
}

// Every runs fn every interval until the returned timer is stopped. It must
// be called and stopped from the loop goroutine.
func Every(s Scheduler, interval time.Duration, fn func()) Timer {
	r := &repeating{s: s, interval: interval, fn: fn}
	r.arm()
	return r
}

func (r *repeating) arm() {
	r.current = r.s.AfterFunc(r.interval, func() {
		if r.stopped {
			return
		}
		r.arm()
		r.fn()
	})
}

func (r *repeating) Stop() bool {
	if r.stopped {
		return false
	}
	r.stopped = true
	r.current.Stop()
	return true
}
