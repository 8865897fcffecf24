// Package detect defines the uniform detector capability interface the fusion
// engine consumes, the candidate types detectors emit, and the concurrent
// runner that joins detector outputs under a bounded wait. The four reference
// adapters (text, icon, object, tier) live here as well; each one is
// replaceable by anything that satisfies Detector.
package detect

import (
	"context"
	"image"
	"time"

	"github.com/DoyleJ11/tft-coach-backend/internal/state"
)

// Capability names one recognition method.
type Capability string

const (
	// CapabilityText reads fixed-layout HUD numerals and the stage label.
	CapabilityText Capability = "text"
	// CapabilityIcon matches fixed-position shop cards and inventory items
	// against reference images.
	CapabilityIcon Capability = "icon"
	// CapabilityObject locates board and bench units via the learned
	// detection sidecar.
	CapabilityObject Capability = "object"
	// CapabilityTier classifies star badges by color.
	CapabilityTier Capability = "tier"
)

// Field identifies a scalar snapshot field a HUD candidate populates.
type Field string

const (
	FieldGold   Field = "gold"
	FieldHealth Field = "health"
	FieldLevel  Field = "level"
	FieldXP     Field = "xp"
	FieldStage  Field = "stage"
)

// Kind discriminates what a candidate claims to have seen.
type Kind string

const (
	KindHUD       Kind = "hud"        // numeric or stage field
	KindUnit      Kind = "unit"       // board or bench champion
	KindShopOffer Kind = "shop_offer" // one shop card
	KindItem      Kind = "item"       // inventory item
	KindStar      Kind = "star"       // star-level refinement at a location
)

// Candidate is one confidence-scored claim from a detector. Which fields are
// meaningful depends on Kind; Confidence is always in [0,1].
type Candidate struct {
	Kind       Kind
	Confidence float64

	// KindHUD
	Field Field
	Value int
	Text  string // raw stage text for FieldStage

	// KindUnit / KindShopOffer / KindItem
	Key string

	// Location: units and stars carry a hex or a bench slot, offers a shop slot.
	Hex      *state.Hex
	Bench    *int
	ShopSlot *int

	// KindStar
	Star int
}

// Frame is one immutable captured frame, cropped into named zones by the
// capture collaborator. Detectors only read from it, so a frame may be shared
// by all detectors of a cycle without synchronization.
type Frame struct {
	Captured time.Time
	Regions  map[string]image.Image
}

// Region returns the named zone crop, if the capture produced one.
func (f Frame) Region(name string) (image.Image, bool) {
	img, ok := f.Regions[name]
	return img, ok
}

// Detector is one recognition method: scan a frame, return candidates.
// Scan must honor ctx cancellation; the runner budgets each call.
type Detector interface {
	Capability() Capability
	Scan(ctx context.Context, frame Frame) ([]Candidate, error)
}

// Results is the joined output of one detector fan-out.
type Results struct {
	Captured   time.Time
	Candidates map[Capability][]Candidate
	// Available is false for detectors that errored, timed out, or were not
	// requested this cycle.
	Available map[Capability]bool
}

// All flattens every candidate list; order follows capability name order and
// is deterministic for equal inputs.
func (r Results) All() []Candidate {
	var out []Candidate
	for _, cap := range []Capability{CapabilityText, CapabilityIcon, CapabilityObject, CapabilityTier} {
		out = append(out, r.Candidates[cap]...)
	}
	return out
}
