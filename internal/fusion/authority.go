package fusion

import "github.com/DoyleJ11/tft-coach-backend/internal/detect"

// Mode is the per-cycle latency/completeness trade-off.
type Mode string

const (
	// ModeFast skips the learned-object detector; board and bench come back
	// unknown rather than stale.
	ModeFast Mode = "fast"
	// ModeFull runs every detector.
	ModeFull Mode = "full"
)

// Wants lists the capabilities a mode asks the runner for.
func (m Mode) Wants() map[detect.Capability]bool {
	want := map[detect.Capability]bool{
		detect.CapabilityText: true,
		detect.CapabilityIcon: true,
		detect.CapabilityTier: true,
	}
	if m != ModeFast {
		want[detect.CapabilityObject] = true
	}
	return want
}

// The per-field authority policy is fixed data, not per-detector branching:
// a new detector plugs in by appearing in these tables.
//
// Text owns the HUD numerics and stage because the layout is fixed and the
// values precise. Icon owns shop and inventory identities (fixed positions,
// stable reference art). Object owns unit identity and location (positions
// vary continuously). Tier only refines star levels on top of whichever
// identity source won the cell.
var (
	hudAuthority = map[detect.Field][]detect.Capability{
		detect.FieldGold:   {detect.CapabilityText},
		detect.FieldHealth: {detect.CapabilityText},
		detect.FieldLevel:  {detect.CapabilityText},
		detect.FieldXP:     {detect.CapabilityText},
		detect.FieldStage:  {detect.CapabilityText},
	}

	listAuthority = map[detect.Kind][]detect.Capability{
		detect.KindUnit:      {detect.CapabilityObject},
		detect.KindShopOffer: {detect.CapabilityIcon},
		detect.KindItem:      {detect.CapabilityIcon},
		detect.KindStar:      {detect.CapabilityTier},
	}
)

// hudFields fixes the reduction order so Build output is deterministic.
var hudFields = []detect.Field{
	detect.FieldGold,
	detect.FieldHealth,
	detect.FieldLevel,
	detect.FieldXP,
	detect.FieldStage,
}
