package loop

import (
	"container/heap"
	"time"
)

// Manual is a Scheduler driven by virtual time. Callbacks only run inside
// Advance or Flush, on the caller's goroutine, ordered by deadline and then
// by scheduling order.
type Manual struct {
	now   time.Time
	seq   uint64
	queue timerHeap
}

// NewManual returns a manual scheduler starting at a fixed instant.
func NewManual() *Manual {
	return &Manual{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) Post(fn func()) {
	m.AfterFunc(0, fn)
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{at: m.now.Add(d), seq: m.seq, fn: fn}
	heap.Push(&m.queue, t)
	return t
}

// Advance moves virtual time forward by d, running every callback that
// becomes due, including callbacks scheduled by callbacks.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for m.queue.Len() > 0 {
		next := m.queue[0]
		if next.at.After(target) {
			break
		}
		heap.Pop(&m.queue)
		if next.stopped {
			continue
		}
		m.now = next.at
		next.stopped = true
		next.fn()
	}
	m.now = target
}

// Flush runs callbacks that are due now.
func (m *Manual) Flush() {
	m.Advance(0)
}

// Pending counts scheduled callbacks that have not run or been stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.queue {
		if !t.stopped {
			n++
		}
	}
	return n
}

type manualTimer struct {
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
	index   int
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type timerHeap []*manualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
