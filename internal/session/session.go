// Package session runs one live page: it owns the UI store and every
// timer-driven component for a single browser connection, all on one
// scheduler.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/loading"
	"github.com/Zachkp/neon-portfolio/internal/loop"
	"github.com/Zachkp/neon-portfolio/internal/matrix"
	"github.com/Zachkp/neon-portfolio/internal/region"
	"github.com/Zachkp/neon-portfolio/internal/reveal"
	"github.com/Zachkp/neon-portfolio/internal/scroll"
	"github.com/Zachkp/neon-portfolio/internal/store"
	"github.com/Zachkp/neon-portfolio/internal/visibility"
)

var (
	ErrClosed         = errors.New("session closed")
	ErrUnknownMessage = errors.New("unknown message type")
)

type Config struct {
	Loading         loading.Config
	ActivationLine  float64
	ScrollThreshold float64
	Visibility      visibility.Options
	Typing          reveal.CycleOptions
	// Commands are typed in the hero terminal. The hero description is shown
	// once the last one completes.
	Commands []string
	// Render turns the loaded content into the HTML sent in the content
	// message. Without it the message carries no markup.
	Render func(content.Content) (string, error)
	// Messages rotate on the loading screen.
	Messages      []string
	Matrix        bool
	FrameInterval time.Duration
	// Seed feeds the progress and rain generators. Zero picks a time-based
	// seed.
	Seed int64
}

// DefaultConfig matches the behaviour of the live site.
func DefaultConfig() Config {
	return Config{
		Loading:         loading.Config{Delay: loading.DefaultDelay, Retries: 2},
		ActivationLine:  scroll.DefaultActivationLine,
		ScrollThreshold: scroll.DefaultThreshold,
		Visibility:      visibility.DefaultOptions(),
		Typing: reveal.CycleOptions{
			Options: reveal.Options{Interval: reveal.DefaultInterval, StartDelay: 2 * time.Second},
			Pause:   2 * time.Second,
		},
		Commands:      []string{content.HeroCommand},
		Messages:      content.LoadingMessages,
		Matrix:        true,
		FrameInterval: matrix.FrameInterval,
	}
}

// Session is not safe for concurrent use. Start, Handle and Close must run on
// the scheduler's goroutine, e.g. through loop.Loop.Post.
type Session struct {
	id     string
	ctx    context.Context
	sched  loop.Scheduler
	emit   func(Outbound)
	render func(content.Content) (string, error)
	log    *zap.Logger

	store     *store.Store
	tracker   *scroll.Tracker
	root      *visibility.Root
	observers map[region.ID]*visibility.Observer
	terminal  *reveal.Cycle
	loader    *loading.Controller
	progress  *loading.Progress
	rain      *matrix.Runner

	scrolled    bool
	loaded      bool
	closed      bool
	unsubscribe func()
}

// New wires a session. Nothing runs until Start. emit receives every
// outbound message on the scheduler goroutine.
func New(ctx context.Context, sched loop.Scheduler, source content.Source, cfg Config, emit func(Outbound), log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	log = log.With(zap.String("session", id))

	st := store.New(log.Named("store"))
	s := &Session{
		id:        id,
		ctx:       store.WithStore(ctx, st),
		sched:     sched,
		emit:      emit,
		render:    cfg.Render,
		log:       log,
		store:     st,
		root:      visibility.NewRoot(),
		observers: make(map[region.ID]*visibility.Observer, len(region.Table)),
	}

	s.tracker = scroll.NewTracker(st,
		scroll.WithActivationLine(cfg.ActivationLine),
		scroll.WithThreshold(cfg.ScrollThreshold),
	)
	for _, d := range region.Table {
		rid := d.ID
		s.observers[rid] = visibility.NewObserver(cfg.Visibility, func() {
			s.send(TypeVisible, VisiblePayload{Region: rid})
		})
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s.terminal = reveal.NewCycle(sched, cfg.Commands, cfg.Typing, func(f reveal.Frame) {
		s.send(TypeTerminal, f)
	})
	s.loader = loading.NewController(sched, st, source, cfg.Loading, log.Named("loading"))
	s.progress = loading.NewProgress(sched, st, cfg.Messages, rng, func(sc loading.Screen) {
		s.send(TypeProgress, sc)
	})
	if cfg.Matrix {
		s.rain = matrix.NewRunner(sched, matrix.NewRain(rng), cfg.FrameInterval, func(g []matrix.Glyph) {
			s.send(TypeRain, g)
		})
	}
	return s
}

// ID identifies the session in logs and in the hello message.
func (s *Session) ID() string { return s.id }

// Store exposes the session's store.
func (s *Session) Store() *store.Store { return s.store }

// Start greets the client, begins loading and arms every observer.
func (s *Session) Start() error {
	if s.closed {
		return ErrClosed
	}
	s.send(TypeHello, HelloPayload{Session: s.id})
	s.unsubscribe = s.store.Subscribe(s.onState)
	s.send(TypeState, viewOf(s.store.State()))

	for _, d := range region.Table {
		s.observers[d.ID].Arm(s.root, string(d.ID))
	}
	s.progress.Start()
	if s.rain != nil {
		s.rain.Start()
	}
	if err := s.loader.Start(s.ctx); err != nil {
		return fmt.Errorf("starting load: %w", err)
	}
	return nil
}

// Handle routes one inbound message. Failures are also reported to the
// client as an error message.
func (s *Session) Handle(raw []byte) error {
	if s.closed {
		return ErrClosed
	}
	err := s.route(raw)
	if err != nil {
		s.log.Warn("message rejected", zap.Error(err))
		s.send(TypeError, ErrorPayload{Message: err.Error()})
	}
	return err
}

func (s *Session) route(raw []byte) error {
	var msg Inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	st, err := store.FromContext(s.ctx)
	if err != nil {
		return err
	}

	switch msg.Type {
	case TypeScroll:
		var p ScrollPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		res, err := s.tracker.Observe(p.Offset, p.Rects)
		if err != nil {
			return err
		}
		if res.Scrolled != s.scrolled {
			s.scrolled = res.Scrolled
			s.send(TypeScrolled, ScrolledPayload{Scrolled: res.Scrolled})
		}
		return nil

	case TypeIntersect:
		var p IntersectPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if !region.Valid(p.Region) {
			return fmt.Errorf("%w: %q", store.ErrUnknownRegion, p.Region)
		}
		s.root.Report(string(p.Region), visibility.Entry{
			Top:            p.Top,
			Bottom:         p.Bottom,
			ViewportHeight: p.Viewport,
		})
		return nil

	case TypeNavigate:
		var p NavigatePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return st.Dispatch(store.SelectRegion{Region: p.Region})

	case TypeMenu:
		var p MenuPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return st.Dispatch(store.SetMobileMenu{Open: p.Open})

	case TypeMenuToggle:
		return st.Dispatch(store.ToggleMobileMenu{})

	case TypeResize:
		var p ResizePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if s.rain != nil {
			s.rain.Resize(p.Width, p.Height)
		}
		return nil

	case TypeDispatch:
		var p DispatchPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		t, err := store.DecodeTransition(p.Transition, p.Payload)
		if err != nil {
			return err
		}
		return st.Dispatch(t)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

// Close stops every timer and releases every registration. It is
// idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.loader.Stop()
	s.progress.Stop()
	s.terminal.Stop()
	if s.rain != nil {
		s.rain.Stop()
	}
	for _, o := range s.observers {
		o.Release()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.log.Debug("session closed")
}

func (s *Session) onState(st store.UIState) {
	first := !st.Loading && !s.loaded
	if first {
		// sections must be in the page before the state reveals them
		s.loaded = true
		s.sendContent(st.Content)
	}
	s.send(TypeState, viewOf(st))
	if first {
		s.terminal.Start()
	}
}

func (s *Session) sendContent(c content.Content) {
	p := ContentPayload{Empty: c.Empty()}
	if s.render != nil {
		html, err := s.render(c)
		if err != nil {
			s.log.Error("rendering content", zap.Error(err))
			s.send(TypeError, ErrorPayload{Message: err.Error()})
			return
		}
		p.HTML = html
	}
	s.send(TypeContent, p)
}

func (s *Session) send(typ string, data any) {
	if s.closed || s.emit == nil {
		return
	}
	s.emit(Outbound{Type: typ, Data: data})
}

func decode(msg Inbound, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}
