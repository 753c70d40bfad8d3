// Package scroll derives the active navigation region from scroll samples.
package scroll

import (
	"github.com/Zachkp/neon-portfolio/internal/region"
	"github.com/Zachkp/neon-portfolio/internal/store"
)

const (
	// DefaultActivationLine is the viewport offset a region must straddle to
	// become active.
	DefaultActivationLine = 100
	// DefaultThreshold is the scroll offset past which the page counts as
	// scrolled.
	DefaultThreshold = 50
)

// Bounds is a region's extent relative to the top of the viewport.
type Bounds struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Layout reports where regions currently sit.
type Layout interface {
	Bounds(id region.ID) (Bounds, bool)
}

// Rects is a Layout backed by a map.
type Rects map[region.ID]Bounds

func (r Rects) Bounds(id region.ID) (Bounds, bool) {
	b, ok := r[id]
	return b, ok
}

// Dispatcher is the part of the store the tracker needs.
type Dispatcher interface {
	State() store.UIState
	Dispatch(store.Transition) error
}

// Result describes one processed sample.
type Result struct {
	Scrolled bool
	Region   region.ID
	Changed  bool
}

// Tracker turns scroll samples into active-region transitions.
type Tracker struct {
	regions   []region.Descriptor
	store     Dispatcher
	line      float64
	threshold float64
}

type Option func(*Tracker)

func WithActivationLine(line float64) Option {
	return func(t *Tracker) { t.line = line }
}

func WithThreshold(threshold float64) Option {
	return func(t *Tracker) { t.threshold = threshold }
}

// WithRegions overrides the region table.
func WithRegions(regions []region.Descriptor) Option {
	return func(t *Tracker) { t.regions = regions }
}

func NewTracker(s Dispatcher, opts ...Option) *Tracker {
	t := &Tracker{
		regions:   region.Table,
		store:     s,
		line:      DefaultActivationLine,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Observe processes one scroll sample. The first region in display order
// straddling the activation line wins. With no candidate the active region
// is kept, and an unchanged candidate dispatches nothing.
func (t *Tracker) Observe(offset float64, layout Layout) (Result, error) {
	res := Result{Scrolled: offset > t.threshold}

	candidate, ok := t.candidate(layout)
	current := t.store.State().ActiveRegion
	res.Region = current
	if !ok || candidate == current {
		return res, nil
	}

	if err := t.store.Dispatch(store.SetActiveRegion{Region: candidate}); err != nil {
		return res, err
	}
	res.Region = candidate
	res.Changed = true
	return res, nil
}

func (t *Tracker) candidate(layout Layout) (region.ID, bool) {
	if layout == nil {
		return "", false
	}
	for _, d := range t.regions {
		b, ok := layout.Bounds(d.ID)
		if !ok {
			continue
		}
		if b.Top <= t.line && b.Bottom >= t.line {
			return d.ID, true
		}
	}
	return "", false
}
