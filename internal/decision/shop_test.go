package decision

import (
	"strings"
	"testing"

	"github.com/DoyleJ11/tft-coach-backend/internal/state"
)

func TestAnalyzeShopBandPrecedence(t *testing.T) {
	cat := testCatalog(t)
	slot := 0
	snap := state.Snapshot{
		Board: []state.Unit{
			{Key: "garen", Cost: 1, Star: 1, Hex: hexAt(0, 0)},
			{Key: "swain", Cost: 3, Star: 1, Hex: hexAt(0, 1)},
		},
		Bench: []state.Unit{
			{Key: "garen", Cost: 1, Star: 1, Slot: &slot},
		},
		Synergies: []state.Synergy{{Trait: "defender", Count: 2, Tier: "bronze"}},
		Shop: []state.ShopOffer{
			{Slot: 0, Key: "ksante", Cost: 5}, // no copies, fits active defender
			{Slot: 1, Key: "garen", Cost: 1},  // third copy: completes 2-star
			{Slot: 2, Key: "swain", Cost: 3},  // second copy: pair progress
			{Slot: 3, Key: "aatrox", Cost: 4}, // nothing: plain value
		},
	}

	ranked := analyzeShop(snap, cat, 0.8, nil)
	if len(ranked) != 4 {
		t.Fatalf("ranked %d offers, want 4", len(ranked))
	}

	wantOrder := []struct {
		key  string
		band OfferBand
	}{
		{"garen", OfferCompletesUpgrade},
		{"swain", OfferFormsPair},
		{"ksante", OfferFitsComp},
		{"aatrox", OfferValue},
	}
	for i, want := range wantOrder {
		if ranked[i].Offer.Key != want.key || ranked[i].Band != want.band {
			t.Errorf("ranked[%d] = %s band %d, want %s band %d",
				i, ranked[i].Offer.Key, ranked[i].Band, want.key, want.band)
		}
		if ranked[i].Reason == "" {
			t.Errorf("ranked[%d] has no reason", i)
		}
	}
}

func TestAnalyzeShopAbsentShop(t *testing.T) {
	if got := analyzeShop(state.Snapshot{}, testCatalog(t), 1.0, nil); got != nil {
		t.Errorf("absent shop must rank nothing, got %+v", got)
	}
}

// A 2-starred pair plus one more copy on offer completes the 3-star.
func TestAnalyzeShopThreeStarCompletion(t *testing.T) {
	cat := testCatalog(t)
	slot := 0
	// Two 2-stars plus a lone copy: 7 equivalent copies, 9 needed.
	snap := state.Snapshot{
		Board: []state.Unit{
			{Key: "garen", Cost: 1, Star: 2, Hex: hexAt(0, 0)},
			{Key: "garen", Cost: 1, Star: 2, Hex: hexAt(0, 1)},
		},
		Bench: []state.Unit{
			{Key: "garen", Cost: 1, Star: 1, Slot: &slot},
		},
		Shop: []state.ShopOffer{{Slot: 0, Key: "garen", Cost: 1}},
	}

	ranked := analyzeShop(snap, cat, 1.0, nil)
	if ranked[0].Score >= 200 {
		t.Errorf("7 copies + 1 must not read as 3-star completion: %+v", ranked[0])
	}

	// One more copy makes 8: the offer is now the ninth.
	snap.Board = append(snap.Board, state.Unit{Key: "garen", Cost: 1, Star: 1, Hex: hexAt(0, 2)})
	ranked = analyzeShop(snap, cat, 1.0, nil)
	if ranked[0].Band != OfferCompletesUpgrade || ranked[0].Score < 200 {
		t.Errorf("8 copies + 1 should complete 3-star: %+v", ranked[0])
	}
}

// A declared composition key qualifies for the composition band even with no
// copies owned and no matching active trait.
func TestAnalyzeShopDeclaredComposition(t *testing.T) {
	cat := testCatalog(t)
	snap := state.Snapshot{
		Board: []state.Unit{},
		Shop:  []state.ShopOffer{{Slot: 0, Key: "aatrox", Cost: 4}},
	}

	undeclared := analyzeShop(snap, cat, 1.0, nil)
	if undeclared[0].Band != OfferValue {
		t.Fatalf("undeclared aatrox should be a value buy: %+v", undeclared[0])
	}

	declared := analyzeShop(snap, cat, 1.0, []string{"aatrox"})
	if declared[0].Band != OfferFitsComp {
		t.Errorf("declared aatrox should rank in the composition band: %+v", declared[0])
	}
	if declared[0].Reason == undeclared[0].Reason {
		t.Errorf("declaration must change the justification: %q", declared[0].Reason)
	}
}

// The declared key outranks a trait-only fit inside the composition band.
func TestAnalyzeShopDeclaredBeatsTraitFit(t *testing.T) {
	cat := testCatalog(t)
	snap := state.Snapshot{
		Board:     []state.Unit{},
		Synergies: []state.Synergy{{Trait: "defender", Count: 2, Tier: "bronze"}},
		Shop: []state.ShopOffer{
			{Slot: 0, Key: "ksante", Cost: 5}, // fits active defender only
			{Slot: 1, Key: "aatrox", Cost: 4}, // declared
		},
	}

	ranked := analyzeShop(snap, cat, 1.0, []string{"aatrox"})
	if ranked[0].Offer.Key != "aatrox" || ranked[0].Band != OfferFitsComp {
		t.Errorf("declared key should lead the composition band: %+v", ranked)
	}
	if ranked[1].Offer.Key != "ksante" || ranked[1].Band != OfferFitsComp {
		t.Errorf("trait fit should still rank in the band: %+v", ranked)
	}
}

// A unit already 2-starred must not be justified as "toward 2-star".
func TestAnalyzeShopPastPairReason(t *testing.T) {
	cat := testCatalog(t)
	snap := state.Snapshot{
		Board: []state.Unit{
			{Key: "garen", Cost: 1, Star: 2, Hex: hexAt(0, 0)}, // 3 copies held
		},
		Shop: []state.ShopOffer{{Slot: 0, Key: "garen", Cost: 1}},
	}

	ranked := analyzeShop(snap, cat, 1.0, nil)
	if ranked[0].Band != OfferFormsPair {
		t.Fatalf("band = %d, want pair progress", ranked[0].Band)
	}
	if !strings.Contains(ranked[0].Reason, "3-star") || !strings.Contains(ranked[0].Reason, "3/9") {
		t.Errorf("reason %q should describe 3-star progress", ranked[0].Reason)
	}
	if strings.Contains(ranked[0].Reason, "2-star") {
		t.Errorf("reason %q claims 2-star progress for a 2-starred unit", ranked[0].Reason)
	}
}
