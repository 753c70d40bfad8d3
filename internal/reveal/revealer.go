// Package reveal types text out one character at a time on a scheduler.
package reveal

import (
	"time"

	"github.com/Zachkp/neon-portfolio/internal/loop"
)

const DefaultInterval = 100 * time.Millisecond

// Options configure a Revealer.
type Options struct {
	Interval   time.Duration
	StartDelay time.Duration
}

// Revealer emits growing prefixes of a target string. At most one schedule
// runs at a time; Start and Stop cancel the previous one. It must be used from
// the scheduler's goroutine.
type Revealer struct {
	sched      loop.Scheduler
	opts       Options
	onText     func(string)
	onComplete func()

	text    []rune
	shown   int
	done    bool
	pending loop.Timer
}

// New creates an idle revealer. onText receives every prefix, onComplete is
// called once per schedule when the full text has been emitted.
func New(sched loop.Scheduler, opts Options, onText func(string), onComplete func()) *Revealer {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Revealer{
		sched:      sched,
		opts:       opts,
		onText:     onText,
		onComplete: onComplete,
	}
}

// Start cancels any pending schedule and reveals text from an empty prefix.
// An empty text resets the revealer and leaves it idle.
func (r *Revealer) Start(text string) {
	r.Stop()
	r.text = []rune(text)
	r.shown = 0
	r.done = false
	r.emit("")
	if len(r.text) == 0 {
		return
	}
	r.pending = r.sched.AfterFunc(r.opts.StartDelay, r.begin)
}

// Stop cancels the schedule. Nothing is emitted after Stop returns.
func (r *Revealer) Stop() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

// Text returns the prefix emitted so far.
func (r *Revealer) Text() string {
	return string(r.text[:r.shown])
}

// Complete reports whether the current text has been fully revealed.
func (r *Revealer) Complete() bool {
	return r.done
}

// Running reports whether a schedule is pending.
func (r *Revealer) Running() bool {
	return r.pending != nil
}

func (r *Revealer) begin() {
	r.pending = loop.Every(r.sched, r.opts.Interval, r.tick)
}

func (r *Revealer) tick() {
	if r.shown < len(r.text) {
		r.shown++
		r.emit(string(r.text[:r.shown]))
	}
	if r.shown < len(r.text) {
		return
	}
	r.Stop()
	r.done = true
	if r.onComplete != nil {
		r.onComplete()
	}
}

func (r *Revealer) emit(s string) {
	if r.onText != nil {
		r.onText(s)
	}
}
