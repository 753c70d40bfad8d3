package loading

import (
	"math/rand"
	"time"

	"github.com/Zachkp/neon-portfolio/internal/loop"
	"github.com/Zachkp/neon-portfolio/internal/store"
)

const (
	ProgressInterval = 200 * time.Millisecond
	MessageInterval  = 600 * time.Millisecond
	HideDelay        = 500 * time.Millisecond

	maxStep       = 15.0
	pendingCap    = 95.0
	completeValue = 100.0
)

// Screen is what the loading overlay shows.
type Screen struct {
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
	Visible bool    `json:"visible"`
}

// Subscriber is the part of the store the progress screen needs.
type Subscriber interface {
	State() store.UIState
	Subscribe(func(store.UIState)) func()
}

// Progress simulates a progress bar while the store is loading. Progress
// never passes 95 until the load has completed.
type Progress struct {
	sched    loop.Scheduler
	store    Subscriber
	messages []string
	rng      *rand.Rand
	onScreen func(Screen)

	screen      Screen
	msgIndex    int
	bar         loop.Timer
	rotate      loop.Timer
	hide        loop.Timer
	unsubscribe func()
}

func NewProgress(sched loop.Scheduler, s Subscriber, messages []string, rng *rand.Rand, onScreen func(Screen)) *Progress {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Progress{
		sched:    sched,
		store:    s,
		messages: messages,
		rng:      rng,
		onScreen: onScreen,
	}
}

// Start shows the screen and follows the store's loading flag.
func (p *Progress) Start() {
	p.Stop()
	p.screen = Screen{Visible: true, Message: p.message(0)}
	p.msgIndex = 0
	p.unsubscribe = p.store.Subscribe(func(s store.UIState) {
		if !s.Loading {
			p.finish()
		}
	})
	if !p.store.State().Loading {
		p.finish()
		return
	}
	p.emit()

	p.bar = loop.Every(p.sched, ProgressInterval, func() {
		next := p.screen.Percent + p.rng.Float64()*maxStep
		p.screen.Percent = min(next, pendingCap)
		p.emit()
	})
	p.rotate = loop.Every(p.sched, MessageInterval, func() {
		if len(p.messages) == 0 {
			return
		}
		p.msgIndex = (p.msgIndex + 1) % len(p.messages)
		p.screen.Message = p.messages[p.msgIndex]
		p.emit()
	})
}

// Stop cancels every timer and the store subscription.
func (p *Progress) Stop() {
	p.stopTimers()
	if p.hide != nil {
		p.hide.Stop()
		p.hide = nil
	}
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// Screen returns the last emitted screen.
func (p *Progress) Screen() Screen { return p.screen }

func (p *Progress) finish() {
	if p.hide != nil || !p.screen.Visible {
		return
	}
	p.stopTimers()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.screen.Percent = completeValue
	p.emit()
	p.hide = p.sched.AfterFunc(HideDelay, func() {
		p.hide = nil
		p.screen.Visible = false
		p.emit()
	})
}

func (p *Progress) stopTimers() {
	if p.bar != nil {
		p.bar.Stop()
		p.bar = nil
	}
	if p.rotate != nil {
		p.rotate.Stop()
		p.rotate = nil
	}
}

func (p *Progress) message(i int) string {
	if len(p.messages) == 0 {
		return ""
	}
	return p.messages[i%len(p.messages)]
}

func (p *Progress) emit() {
	if p.onScreen != nil {
		p.onScreen(p.screen)
	}
}
