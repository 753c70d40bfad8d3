// Package loading runs the simulated content load that gates the first
// render, and the progress screen shown while it is pending.
package loading

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/loop"
	"github.com/Zachkp/neon-portfolio/internal/store"
)

const DefaultDelay = 1500 * time.Millisecond

// Phase of the loading sequence. Loaded is terminal.
type Phase int

const (
	NotStarted Phase = iota
	Loading
	Loaded
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Dispatcher is the part of the store the controller needs.
type Dispatcher interface {
	Dispatch(store.Transition) error
}

type Config struct {
	// Delay before each load attempt.
	Delay time.Duration
	// Retries is how many extra attempts a failing source gets before the
	// load completes with empty content.
	Retries int
}

// Controller moves a store from loading to loaded exactly once.
type Controller struct {
	sched  loop.Scheduler
	store  Dispatcher
	source content.Source
	cfg    Config
	log    *zap.Logger

	phase    Phase
	attempts int
	pending  loop.Timer
	ctx      context.Context
}

func NewController(sched loop.Scheduler, s Dispatcher, source content.Source, cfg Config, log *zap.Logger) *Controller {
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		sched:  sched,
		store:  s,
		source: source,
		cfg:    cfg,
		log:    log,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Start begins loading. It only has an effect the first time.
func (c *Controller) Start(ctx context.Context) error {
	if c.phase != NotStarted {
		return nil
	}
	if err := c.store.Dispatch(store.BeginLoad{}); err != nil {
		return err
	}
	c.ctx = ctx
	c.phase = Loading
	c.schedule()
	return nil
}

// Stop cancels a pending attempt. A stopped controller stays in its phase.
func (c *Controller) Stop() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) schedule() {
	c.pending = c.sched.AfterFunc(c.cfg.Delay, c.attempt)
}

func (c *Controller) attempt() {
	c.pending = nil
	c.attempts++

	loaded, err := c.source.Load(c.ctx)
	if err != nil {
		if c.attempts <= c.cfg.Retries && c.ctx.Err() == nil {
			c.log.Warn("content load failed, retrying",
				zap.Int("attempt", c.attempts),
				zap.Error(err),
			)
			c.schedule()
			return
		}
		c.log.Error("content load failed, continuing with empty content",
			zap.Int("attempts", c.attempts),
			zap.Error(err),
		)
		loaded = content.Content{}
	}

	if err := c.store.Dispatch(store.CompleteLoad{Content: loaded}); err != nil {
		c.log.Error("complete load rejected", zap.Error(err))
		return
	}
	c.phase = Loaded
}
