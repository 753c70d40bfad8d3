// Package store is the shared UI state container. State only changes through
// Dispatch with one of the known transitions; every change is broadcast to
// subscribers before Dispatch returns.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/region"
)

var (
	// ErrUnknownTransition signals a transition the store does not know.
	ErrUnknownTransition = errors.New("unknown transition")
	// ErrUnknownRegion signals a region id outside the region table.
	ErrUnknownRegion = errors.New("unknown region")
	// ErrNoProvider is returned when no store was attached to a context.
	ErrNoProvider = errors.New("no UI store in context")
)

// UIState is an immutable snapshot.
type UIState struct {
	Loading        bool            `json:"loading"`
	ActiveRegion   region.ID       `json:"activeRegion"`
	MobileMenuOpen bool            `json:"mobileMenuOpen"`
	Content        content.Content `json:"content"`
	// Version counts applied transitions.
	Version uint64 `json:"version"`
}

// Initial is the state at session start.
func Initial() UIState {
	return UIState{
		Loading:      true,
		ActiveRegion: region.Default,
	}
}

// Reduce applies t to s. It is pure: on error the returned state is s.
func Reduce(s UIState, t Transition) (UIState, error) {
	next := s
	switch t := t.(type) {
	case BeginLoad:
		// Loading never goes back to true once content has arrived.
		if !s.Loading {
			return s, nil
		}
	case CompleteLoad:
		if !s.Loading {
			return s, nil
		}
		next.Content = t.Content
		next.Loading = false
	case SetActiveRegion:
		if !region.Valid(t.Region) {
			return s, fmt.Errorf("%w: %q", ErrUnknownRegion, t.Region)
		}
		next.ActiveRegion = t.Region
	case SelectRegion:
		if !region.Valid(t.Region) {
			return s, fmt.Errorf("%w: %q", ErrUnknownRegion, t.Region)
		}
		next.ActiveRegion = t.Region
		next.MobileMenuOpen = false
	case SetMobileMenu:
		next.MobileMenuOpen = t.Open
	case ToggleMobileMenu:
		next.MobileMenuOpen = !s.MobileMenuOpen
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownTransition, t)
	}
	next.Version = s.Version + 1
	return next, nil
}

type subscriber struct {
	id uint64
	fn func(UIState)
}

// Store owns one UIState.
type Store struct {
	mu     sync.Mutex
	state  UIState
	subs   []subscriber
	nextID uint64
	log    *zap.Logger

	// notifying is set while subscribers run; transitions dispatched in
	// the meantime wait in queued.
	notifying bool
	queued    []Transition
}

// New creates a store holding the initial state.
func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{state: Initial(), log: log}
}

// State returns the current snapshot.
func (s *Store) State() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies t and notifies subscribers. A rejected transition leaves
// the state untouched and notifies nobody, and so does a transition that
// changes nothing.
//
// A transition dispatched by a subscriber is queued and applied once the
// current broadcast has reached every subscriber, so each subscriber sees
// snapshots in version order. It is still applied before the outer Dispatch
// returns.
func (s *Store) Dispatch(t Transition) error {
	s.mu.Lock()
	next, err := Reduce(s.state, t)
	if err != nil {
		s.mu.Unlock()
		s.log.Error("transition rejected", zap.Error(err))
		return err
	}
	if s.notifying {
		s.queued = append(s.queued, t)
		s.mu.Unlock()
		return nil
	}
	s.notifying = true
	defer func() {
		s.mu.Lock()
		s.notifying = false
		s.queued = nil
		s.mu.Unlock()
	}()

	for {
		changed := next.Version != s.state.Version
		s.state = next
		subs := make([]subscriber, len(s.subs))
		copy(subs, s.subs)
		s.mu.Unlock()

		if changed {
			s.log.Debug("transition applied",
				zap.String("transition", t.Name()),
				zap.Uint64("version", next.Version),
			)
			for _, sub := range subs {
				sub.fn(next)
			}
		}

		s.mu.Lock()
		if len(s.queued) == 0 {
			s.mu.Unlock()
			return nil
		}
		t, s.queued = s.queued[0], s.queued[1:]
		next, err = Reduce(s.state, t)
		if err != nil {
			s.log.Error("queued transition rejected", zap.Error(err))
			next = s.state
		}
	}
}

// Subscribe registers fn for every state replacement. The returned function
// removes the subscription and must be called when the subscriber goes away.
func (s *Store) Subscribe(fn func(UIState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

type ctxKey struct{}

// WithStore attaches s to ctx.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store attached to ctx, or ErrNoProvider.
func FromContext(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoProvider
	}
	return s, nil
}
