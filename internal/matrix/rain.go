// Package matrix simulates the falling-character background.
package matrix

import (
	"math/rand"
	"time"

	"github.com/Zachkp/neon-portfolio/internal/loop"
)

const (
	Glyphs        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@#$%^&*"
	FontSize      = 12
	FrameInterval = 35 * time.Millisecond

	resetChance = 0.025
)

// Glyph is one character drawn at a column and row.
type Glyph struct {
	Col  int    `json:"c"`
	Row  int    `json:"r"`
	Char string `json:"ch"`
}

// Rain holds one drop per column.
type Rain struct {
	width, height int
	drops         []int
	rng           *rand.Rand
}

func NewRain(rng *rand.Rand) *Rain {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Rain{rng: rng}
}

// Resize resets the drops for a canvas of the given pixel size.
func (r *Rain) Resize(width, height int) {
	r.width, r.height = max(width, 0), max(height, 0)
	r.drops = make([]int, r.width/FontSize)
	for i := range r.drops {
		r.drops[i] = 1
	}
}

// Columns is the number of drops.
func (r *Rain) Columns() int { return len(r.drops) }

// Step draws one glyph per column and advances every drop. A drop that has
// left the canvas restarts at the top with a small probability.
func (r *Rain) Step() []Glyph {
	frame := make([]Glyph, 0, len(r.drops))
	for i, row := range r.drops {
		frame = append(frame, Glyph{
			Col:  i,
			Row:  row,
			Char: string(Glyphs[r.rng.Intn(len(Glyphs))]),
		})
		if row*FontSize > r.height && r.rng.Float64() > 1-resetChance {
			row = 0
		}
		r.drops[i] = row + 1
	}
	return frame
}

// Runner steps a Rain on a scheduler.
type Runner struct {
	sched    loop.Scheduler
	rain     *Rain
	interval time.Duration
	onFrame  func([]Glyph)
	ticker   loop.Timer
}

func NewRunner(sched loop.Scheduler, rain *Rain, interval time.Duration, onFrame func([]Glyph)) *Runner {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &Runner{sched: sched, rain: rain, interval: interval, onFrame: onFrame}
}

// Start begins emitting frames. Calling Start again restarts the ticker.
func (r *Runner) Start() {
	r.Stop()
	r.ticker = loop.Every(r.sched, r.interval, func() {
		if r.rain.Columns() == 0 {
			return
		}
		frame := r.rain.Step()
		if r.onFrame != nil {
			r.onFrame(frame)
		}
	})
}

// Resize forwards to the underlying rain.
func (r *Runner) Resize(width, height int) {
	r.rain.Resize(width, height)
}

// Running reports whether frames are being produced.
func (r *Runner) Running() bool { return r.ticker != nil }

func (r *Runner) Stop() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}
