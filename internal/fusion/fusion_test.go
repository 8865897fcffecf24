package fusion

import (
	"testing"
	"time"

	"github.com/DoyleJ11/tft-coach-backend/internal/catalog"
	"github.com/DoyleJ11/tft-coach-backend/internal/detect"
	"github.com/DoyleJ11/tft-coach-backend/internal/state"
	"go.uber.org/zap"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(`
champions:
  - {key: garen, name: Garen, cost: 1, traits: [defender]}
  - {key: poppy, name: Poppy, cost: 1, traits: [defender]}
  - {key: swain, name: Swain, cost: 3, traits: [arcanist]}
traits:
  - {name: defender, thresholds: [2, 4], tiers: [bronze, gold]}
  - {name: arcanist, thresholds: [2], tiers: [bronze]}
items:
  - bf_sword
`))
	if err != nil {
		t.Fatalf("test catalog: %v", err)
	}
	return cat
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(testCatalog(t), DefaultConfidenceFloor, zap.NewNop())
}

func results(avail map[detect.Capability]bool, cands map[detect.Capability][]detect.Candidate) detect.Results {
	return detect.Results{Captured: time.Now(), Available: avail, Candidates: cands}
}

func allAvailable() map[detect.Capability]bool {
	return map[detect.Capability]bool{
		detect.CapabilityText:   true,
		detect.CapabilityIcon:   true,
		detect.CapabilityObject: true,
		detect.CapabilityTier:   true,
	}
}

// With every detector down, Build must still return a usable snapshot: only
// the timestamp set, everything else absent, and no panic anywhere.
func TestBuildAllDetectorsUnavailable(t *testing.T) {
	e := testEngine(t)
	avail := map[detect.Capability]bool{
		detect.CapabilityText:   false,
		detect.CapabilityIcon:   false,
		detect.CapabilityObject: false,
		detect.CapabilityTier:   false,
	}

	snap, changes, st := e.Build(results(avail, nil), nil)

	if snap.Timestamp.IsZero() {
		t.Error("timestamp must always be set")
	}
	if snap.Gold != nil || snap.Stage != nil || snap.Board != nil || snap.Shop != nil {
		t.Errorf("fields should be absent, got %+v", snap)
	}
	for cap, ok := range st.Capabilities {
		if ok {
			t.Errorf("capability %s should be false", cap)
		}
	}
	if len(changes) != 0 {
		t.Errorf("no populated fields, no changes; got %+v", changes)
	}
}

func TestBuildHUDTakesHighestConfidence(t *testing.T) {
	e := testEngine(t)
	res := results(allAvailable(), map[detect.Capability][]detect.Candidate{
		detect.CapabilityText: {
			{Kind: detect.KindHUD, Field: detect.FieldGold, Value: 38, Confidence: 0.60},
			{Kind: detect.KindHUD, Field: detect.FieldGold, Value: 30, Confidence: 0.95},
			{Kind: detect.KindHUD, Field: detect.FieldStage, Text: "3-2", Confidence: 0.95},
			// Below the floor: must be discarded and counted, not used.
			{Kind: detect.KindHUD, Field: detect.FieldHealth, Value: 64, Confidence: 0.30},
		},
	})

	snap, _, st := e.Build(res, nil)

	if snap.Gold == nil || *snap.Gold != 30 {
		t.Errorf("gold = %v, want 30 from the higher-confidence candidate", snap.Gold)
	}
	if snap.Stage == nil || *snap.Stage != "3-2" {
		t.Errorf("stage = %v, want 3-2", snap.Stage)
	}
	if snap.Health != nil {
		t.Errorf("sub-floor health must stay absent, got %v", *snap.Health)
	}
	if st.LowConfidence != 1 {
		t.Errorf("LowConfidence = %d, want 1", st.LowConfidence)
	}
}

func TestBuildBoardConflictKeepsHigherConfidence(t *testing.T) {
	e := testEngine(t)
	hex := state.Hex{Row: 0, Col: 3}
	res := results(allAvailable(), map[detect.Capability][]detect.Candidate{
		detect.CapabilityObject: {
			{Kind: detect.KindUnit, Key: "garen", Hex: &hex, Confidence: 0.70},
			{Kind: detect.KindUnit, Key: "swain", Hex: &hex, Confidence: 0.90},
		},
	})

	snap, _, st := e.Build(res, nil)

	if len(snap.Board) != 1 {
		t.Fatalf("board = %+v, want exactly one unit on the contested cell", snap.Board)
	}
	if snap.Board[0].Key != "swain" {
		t.Errorf("kept %s, want the higher-confidence swain", snap.Board[0].Key)
	}
	if st.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", st.Conflicts)
	}
}

func TestBuildBenchConflictKeepsHigherConfidence(t *testing.T) {
	e := testEngine(t)
	slot := 4
	slotAgain := 4
	res := results(allAvailable(), map[detect.Capability][]detect.Candidate{
		detect.CapabilityObject: {
			{Kind: detect.KindUnit, Key: "swain", Bench: &slot, Confidence: 0.85},
			{Kind: detect.KindUnit, Key: "garen", Bench: &slotAgain, Confidence: 0.65},
		},
	})

	snap, _, st := e.Build(res, nil)

	if len(snap.Bench) != 1 {
		t.Fatalf("bench = %+v, want exactly one unit on the contested slot", snap.Bench)
	}
	if snap.Bench[0].Key != "swain" || *snap.Bench[0].Slot != 4 {
		t.Errorf("kept %+v, want the higher-confidence swain at slot 4", snap.Bench[0])
	}
	if st.Conflicts != 1 {
		t.Errorf("Conflicts = %d, want 1", st.Conflicts)
	}
}

func TestBuildCatalogMismatchDiscards(t *testing.T) {
	e := testEngine(t)
	hex := state.Hex{Row: 1, Col: 1}
	res := results(allAvailable(), map[detect.Capability][]detect.Candidate{
		detect.CapabilityObject: {
			{Kind: detect.KindUnit, Key: "not_a_champion", Hex: &hex, Confidence: 0.99},
		},
		detect.CapabilityIcon: {
			{Kind: detect.KindItem, Key: "not_an_item", Confidence: 0.99},
			{Kind: detect.KindItem, Key: "bf_sword", Confidence: 0.99},
		},
	})

	snap, _, st := e.Build(res, nil)

	if len(snap.Board) != 0 {
		t.Errorf("unknown identity must not reach the board: %+v", snap.Board)
	}
	if len(snap.Items) != 1 || snap.Items[0] != "bf_sword" {
		t.Errorf("items = %v, want only the catalog-valid one", snap.Items)
	}
	if st.CatalogMismatch != 2 {
		t.Errorf("CatalogMismatch = %d, want 2", st.CatalogMismatch)
	}
	// Object ran and saw an empty (post-filter) board: known-empty, not absent.
	if snap.Board == nil {
		t.Error("board should be known-empty, not absent")
	}
}

func TestBuildStarRefinement(t *testing.T) {
	e := testEngine(t)
	hex := state.Hex{Row: 0, Col: 0}
	benchSlot := 2
	res := results(allAvailable(), map[detect.Capability][]detect.Candidate{
		detect.CapabilityObject: {
			{Kind: detect.KindUnit, Key: "garen", Hex: &hex, Confidence: 0.9},
			{Kind: detect.KindUnit, Key: "poppy", Bench: &benchSlot, Confidence: 0.9},
		},
		detect.CapabilityTier: {
			{Kind: detect.KindStar, Star: 2, Hex: &hex, Confidence: 0.8},
			{Kind: detect.KindStar, Star: 3, Bench: &benchSlot, Confidence: 0.8},
			// Sub-floor refinement is ignored.
			{Kind: detect.KindStar, Star: 3, Hex: &state.Hex{Row: 2, Col: 2}, Confidence: 0.2},
		},
	})

	snap, _, _ := e.Build(res, nil)

	if len(snap.Board) != 1 || snap.Board[0].Star != 2 {
		t.Errorf("board star = %+v, want garen at 2-star", snap.Board)
	}
	if len(snap.Bench) != 1 || snap.Bench[0].Star != 3 {
		t.Errorf("bench star = %+v, want poppy at 3-star", snap.Bench)
	}
}

func TestBuildShopAndSynergies(t *testing.T) {
	e := testEngine(t)
	s0, s1 := 0, 1
	hexA, hexB := state.Hex{Row: 0, Col: 0}, state.Hex{Row: 0, Col: 1}
	res := results(allAvailable(), map[detect.Capability][]detect.Candidate{
		detect.CapabilityIcon: {
			{Kind: detect.KindShopOffer, Key: "swain", ShopSlot: &s1, Confidence: 0.9},
			{Kind: detect.KindShopOffer, Key: "garen", ShopSlot: &s0, Confidence: 0.9},
		},
		detect.CapabilityObject: {
			{Kind: detect.KindUnit, Key: "garen", Hex: &hexA, Confidence: 0.9},
			{Kind: detect.KindUnit, Key: "poppy", Hex: &hexB, Confidence: 0.9},
		},
	})

	snap, _, _ := e.Build(res, nil)

	if len(snap.Shop) != 2 || snap.Shop[0].Slot != 0 || snap.Shop[0].Key != "garen" {
		t.Errorf("shop = %+v, want slot-sorted garen,swain", snap.Shop)
	}
	if snap.Shop[1].Cost != 3 {
		t.Errorf("swain offer cost = %d, want catalog cost 3", snap.Shop[1].Cost)
	}
	// Two distinct defenders activate the bronze tier.
	if len(snap.Synergies) != 1 || snap.Synergies[0].Trait != "defender" ||
		snap.Synergies[0].Count != 2 || snap.Synergies[0].Tier != "bronze" {
		t.Errorf("synergies = %+v, want defender x2 bronze", snap.Synergies)
	}
}

// Duplicate keys on the board must count once toward a trait.
func TestSynergiesCountDistinctKeys(t *testing.T) {
	e := testEngine(t)
	hexA, hexB := state.Hex{Row: 0, Col: 0}, state.Hex{Row: 0, Col: 1}
	res := results(allAvailable(), map[detect.Capability][]detect.Candidate{
		detect.CapabilityObject: {
			{Kind: detect.KindUnit, Key: "garen", Hex: &hexA, Confidence: 0.9},
			{Kind: detect.KindUnit, Key: "garen", Hex: &hexB, Confidence: 0.9},
		},
	})

	snap, _, _ := e.Build(res, nil)

	if len(snap.Synergies) != 0 {
		t.Errorf("one distinct defender activates nothing, got %+v", snap.Synergies)
	}
}

func TestModeWants(t *testing.T) {
	full := ModeFull.Wants()
	if !full[detect.CapabilityObject] {
		t.Error("full mode must request the object capability")
	}
	fast := ModeFast.Wants()
	if fast[detect.CapabilityObject] {
		t.Error("fast mode must skip the object capability")
	}
	if !fast[detect.CapabilityText] || !fast[detect.CapabilityIcon] || !fast[detect.CapabilityTier] {
		t.Errorf("fast mode should keep the cheap capabilities: %+v", fast)
	}
}
