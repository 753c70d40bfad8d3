package store

import (
	"encoding/json"
	"fmt"

	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/region"
)

// Transition is a named state change accepted by the store.
type Transition interface {
	Name() string
}

// Wire tags for the known transitions.
const (
	TagBeginLoad        = "begin_load"
	TagCompleteLoad     = "complete_load"
	TagSetActiveRegion  = "set_active_region"
	TagSetMobileMenu    = "set_mobile_menu"
	TagToggleMobileMenu = "toggle_mobile_menu"
	TagSelectRegion     = "select_region"
)

type BeginLoad struct{}

type CompleteLoad struct {
	Content content.Content
}

type SetActiveRegion struct {
	Region region.ID
}

type SetMobileMenu struct {
	Open bool
}

type ToggleMobileMenu struct{}

// SelectRegion is a navigation choice: it activates the region and closes
// the mobile menu in one step.
type SelectRegion struct {
	Region region.ID
}

func (BeginLoad) Name() string        { return TagBeginLoad }
func (CompleteLoad) Name() string     { return TagCompleteLoad }
func (SetActiveRegion) Name() string  { return TagSetActiveRegion }
func (SetMobileMenu) Name() string    { return TagSetMobileMenu }
func (ToggleMobileMenu) Name() string { return TagToggleMobileMenu }
func (SelectRegion) Name() string     { return TagSelectRegion }

// DecodeTransition builds a transition from its wire tag and JSON payload.
// CompleteLoad is not accepted from the wire.
func DecodeTransition(tag string, payload json.RawMessage) (Transition, error) {
	switch tag {
	case TagBeginLoad:
		return BeginLoad{}, nil
	case TagToggleMobileMenu:
		return ToggleMobileMenu{}, nil
	case TagSetActiveRegion, TagSelectRegion:
		var p struct {
			Region region.ID `json:"region"`
		}
		if err := decodePayload(payload, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		if tag == TagSelectRegion {
			return SelectRegion{Region: p.Region}, nil
		}
		return SetActiveRegion{Region: p.Region}, nil
	case TagSetMobileMenu:
		var p struct {
			Open bool `json:"open"`
		}
		if err := decodePayload(payload, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		return SetMobileMenu{Open: p.Open}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransition, tag)
	}
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing payload")
	}
	return json.Unmarshal(payload, v)
}
