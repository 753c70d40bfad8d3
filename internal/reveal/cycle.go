package reveal

import (
	"time"

	"github.com/Zachkp/neon-portfolio/internal/loop"
)

// Frame is what a Cycle shows at one moment.
type Frame struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Complete bool   `json:"complete"`
}

// Cycle types a list of lines one after another, holding each finished line
// for Pause before starting the next. With Loop set it starts over after the
// last line.
type Cycle struct {
	sched   loop.Scheduler
	lines   []string
	pause   time.Duration
	repeat  bool
	onFrame func(Frame)

	rev   *Revealer
	index int
	hold  loop.Timer
}

type CycleOptions struct {
	Options
	Pause time.Duration
	Loop  bool
}

func NewCycle(sched loop.Scheduler, lines []string, opts CycleOptions, onFrame func(Frame)) *Cycle {
	c := &Cycle{
		sched:   sched,
		lines:   lines,
		pause:   opts.Pause,
		repeat:  opts.Loop,
		onFrame: onFrame,
	}
	c.rev = New(sched, opts.Options, c.text, c.complete)
	return c
}

// Start types the first line.
func (c *Cycle) Start() {
	c.Stop()
	if len(c.lines) == 0 {
		return
	}
	c.index = 0
	c.rev.Start(c.lines[0])
}

// Stop cancels typing and any pending pause.
func (c *Cycle) Stop() {
	c.rev.Stop()
	if c.hold != nil {
		c.hold.Stop()
		c.hold = nil
	}
}

// Index is the line currently shown.
func (c *Cycle) Index() int { return c.index }

func (c *Cycle) text(s string) {
	c.frame(Frame{Index: c.index, Text: s})
}

func (c *Cycle) complete() {
	c.frame(Frame{Index: c.index, Text: c.lines[c.index], Complete: true})

	next := c.index + 1
	if next >= len(c.lines) {
		if !c.repeat {
			return
		}
		next = 0
	}
	c.hold = c.sched.AfterFunc(c.pause, func() {
		c.hold = nil
		c.index = next
		c.rev.Start(c.lines[next])
	})
}

func (c *Cycle) frame(f Frame) {
	if c.onFrame != nil {
		c.onFrame(f)
	}
}
