package session

import (
	"encoding/json"

	"github.com/Zachkp/neon-portfolio/internal/region"
	"github.com/Zachkp/neon-portfolio/internal/scroll"
	"github.com/Zachkp/neon-portfolio/internal/store"
)

// Inbound message types.
const (
	TypeScroll     = "scroll"
	TypeIntersect  = "intersect"
	TypeNavigate   = "navigate"
	TypeMenu       = "menu"
	TypeMenuToggle = "menu_toggle"
	TypeResize     = "resize"
	TypeDispatch   = "dispatch"
)

// Outbound message types.
const (
	TypeHello    = "hello"
	TypeState    = "state"
	TypeContent  = "content"
	TypeScrolled = "scrolled"
	TypeVisible  = "visible"
	TypeTerminal = "terminal"
	TypeProgress = "progress"
	TypeRain     = "rain"
	TypeError    = "error"
)

// Inbound is a message from the browser.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound is a message to the browser.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type ScrollPayload struct {
	Offset float64      `json:"offset"`
	Rects  scroll.Rects `json:"rects"`
}

type IntersectPayload struct {
	Region   region.ID `json:"region"`
	Top      float64   `json:"top"`
	Bottom   float64   `json:"bottom"`
	Viewport float64   `json:"viewport"`
}

type NavigatePayload struct {
	Region region.ID `json:"region"`
}

type MenuPayload struct {
	Open bool `json:"open"`
}

type ResizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type DispatchPayload struct {
	Transition string          `json:"transition"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type HelloPayload struct {
	Session string `json:"session"`
}

type ScrolledPayload struct {
	Scrolled bool `json:"scrolled"`
}

type VisiblePayload struct {
	Region region.ID `json:"region"`
}

// ContentPayload carries the rendered content regions. Empty is set when the
// load produced nothing, e.g. because the source failed.
type ContentPayload struct {
	HTML  string `json:"html"`
	Empty bool   `json:"empty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// View is the state snapshot sent to the browser. Loaded content travels
// once, in the content message, so only the flags are repeated here.
type View struct {
	Loading        bool          `json:"loading"`
	ActiveRegion   region.ID     `json:"activeRegion"`
	MobileMenuOpen bool          `json:"mobileMenuOpen"`
	Version        uint64        `json:"version"`
	Nav            []region.Item `json:"nav"`
}

func viewOf(s store.UIState) View {
	return View{
		Loading:        s.Loading,
		ActiveRegion:   s.ActiveRegion,
		MobileMenuOpen: s.MobileMenuOpen,
		Version:        s.Version,
		Nav:            region.Build(s.ActiveRegion),
	}
}
