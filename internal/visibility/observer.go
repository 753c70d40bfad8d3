// Package visibility signals, once, that a region scrolled into view.
package visibility

import (
	"sync"
)

const (
	// DefaultThreshold is the visible fraction of the target that counts as
	// in view.
	DefaultThreshold = 0.1
	// DefaultMargin shrinks the viewport on each edge before intersecting.
	DefaultMargin = 100
)

// Entry is one intersection sample: the target's extent relative to the top
// of the viewport, and the viewport height.
type Entry struct {
	Top            float64 `json:"top"`
	Bottom         float64 `json:"bottom"`
	ViewportHeight float64 `json:"viewport"`
}

// Ratio is the fraction of the target inside the viewport after shrinking
// the viewport by margin at the top and bottom.
func Ratio(e Entry, margin float64) float64 {
	height := e.Bottom - e.Top
	if height <= 0 {
		return 0
	}
	rootTop, rootBottom := margin, e.ViewportHeight-margin
	if rootBottom <= rootTop {
		return 0
	}
	visible := min(e.Bottom, rootBottom) - max(e.Top, rootTop)
	if visible <= 0 {
		return 0
	}
	return visible / height
}

// Phase is an observer's lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Armed
	Fired
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

// Options tune when an observer fires.
type Options struct {
	Threshold float64
	Margin    float64
}

// DefaultOptions matches the page's entrance animations.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Margin: DefaultMargin}
}

// Observer fires its callback the first time its target is visible enough,
// then detaches from the root. Observers are not safe for concurrent use;
// they live on the session loop.
type Observer struct {
	opts      Options
	onVisible func()
	phase     Phase
	reg       *Registration
}

func NewObserver(opts Options, onVisible func()) *Observer {
	return &Observer{opts: opts, onVisible: onVisible}
}

// Phase returns the current phase.
func (o *Observer) Phase() Phase { return o.phase }

// Visible reports whether the observer has fired.
func (o *Observer) Visible() bool { return o.phase == Fired }

// Arm registers the observer with root for key. Arming a fired observer is a
// no-op.
func (o *Observer) Arm(root *Root, key string) {
	if o.phase != Idle {
		return
	}
	o.reg = root.Observe(key, o)
	o.phase = Armed
}

// Observe handles one sample and reports whether it fired the observer.
func (o *Observer) Observe(e Entry) bool {
	if o.phase != Armed {
		return false
	}
	ratio := Ratio(e, o.opts.Margin)
	if ratio <= 0 || ratio < o.opts.Threshold {
		return false
	}
	o.phase = Fired
	o.detach()
	if o.onVisible != nil {
		o.onVisible()
	}
	return true
}

// Release detaches an armed observer without firing. Call it on teardown.
func (o *Observer) Release() {
	o.detach()
	if o.phase == Armed {
		o.phase = Idle
	}
}

func (o *Observer) detach() {
	if o.reg != nil {
		o.reg.Release()
		o.reg = nil
	}
}

// Root routes intersection samples to registered observers.
type Root struct {
	mu      sync.Mutex
	targets map[string][]*Registration
}

func NewRoot() *Root {
	return &Root{targets: map[string][]*Registration{}}
}

// Registration ties one observer to one target key.
type Registration struct {
	root     *Root
	key      string
	observer *Observer
	released bool
}

// Observe registers observer for samples about key.
func (r *Root) Observe(key string, observer *Observer) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg := &Registration{root: r, key: key, observer: observer}
	r.targets[key] = append(r.targets[key], reg)
	return reg
}

// Report delivers a sample to every observer of key.
func (r *Root) Report(key string, e Entry) {
	r.mu.Lock()
	regs := append([]*Registration(nil), r.targets[key]...)
	r.mu.Unlock()

	for _, reg := range regs {
		reg.observer.Observe(e)
	}
}

// Len counts live registrations.
func (r *Root) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, regs := range r.targets {
		n += len(regs)
	}
	return n
}

// Release removes the registration. It is safe to call more than once.
func (reg *Registration) Release() {
	r := reg.root
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg.released {
		return
	}
	reg.released = true
	regs := r.targets[reg.key]
	for i, other := range regs {
		if other == reg {
			regs = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(regs) == 0 {
		delete(r.targets, reg.key)
	} else {
		r.targets[reg.key] = regs
	}
}
