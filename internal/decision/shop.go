package decision

import (
	"fmt"
	"sort"

	"github.com/DoyleJ11/tft-coach-backend/internal/catalog"
	"github.com/DoyleJ11/tft-coach-backend/internal/state"
)

// OfferBand is the strict precedence class of a shop offer. Lower outranks
// higher: an upgrade completion always beats a tempo buy, whatever the
// scores say.
type OfferBand int

const (
	OfferCompletesUpgrade OfferBand = iota
	OfferFormsPair
	OfferFitsComp
	OfferValue
)

// RankedOffer is one scored shop card.
type RankedOffer struct {
	Offer  state.ShopOffer
	Band   OfferBand
	Score  float64 // tie-break within a band, higher is better
	Reason string
}

// analyzeShop scores every offer under the strict precedence
// completes-an-upgrade > forms-a-new-pair > fits-declared-composition >
// cost-adjusted value, and returns them ranked. Declared composition keys
// qualify for the composition band directly; with none declared, the active
// synergies stand in.
func analyzeShop(snap state.Snapshot, cat *catalog.Catalog, upgradeWeight float64, composition []string) []RankedOffer {
	if snap.Shop == nil {
		return nil
	}
	owned := snap.OwnedCopies()

	declared := make(map[string]bool, len(composition))
	for _, key := range composition {
		declared[key] = true
	}
	activeTraits := make(map[string]bool, len(snap.Synergies))
	for _, syn := range snap.Synergies {
		activeTraits[syn.Trait] = true
	}

	ranked := make([]RankedOffer, 0, len(snap.Shop))
	for _, offer := range snap.Shop {
		entry, ok := cat.Lookup(offer.Key)
		if !ok {
			continue
		}
		ro := RankedOffer{Offer: offer, Band: OfferValue}
		copies := owned[offer.Key]

		switch {
		case copies >= entry.StarUp[0] && copies+1 >= entry.StarUp[1]:
			ro.Band = OfferCompletesUpgrade
			ro.Score = 200 * upgradeWeight
			ro.Reason = fmt.Sprintf("completes %s 3-star", entry.Name)
		case copies+1 >= entry.StarUp[0] && copies < entry.StarUp[0]:
			ro.Band = OfferCompletesUpgrade
			ro.Score = 100 * upgradeWeight
			ro.Reason = fmt.Sprintf("completes %s 2-star", entry.Name)
		case copies >= entry.StarUp[0]:
			// Already 2-starred; further copies chase the 3-star.
			ro.Band = OfferFormsPair
			ro.Score = 30*upgradeWeight + float64(copies)
			ro.Reason = fmt.Sprintf("another copy toward %s 3-star (%d/%d held)", entry.Name, copies, entry.StarUp[1])
		case copies >= 1:
			ro.Band = OfferFormsPair
			ro.Score = 30*upgradeWeight + float64(copies)
			ro.Reason = fmt.Sprintf("second copy toward %s 2-star (%d/%d held)", entry.Name, copies, entry.StarUp[0])
		default:
			if declared[offer.Key] {
				ro.Band = OfferFitsComp
				ro.Score = 25 + costPower[entry.Cost]/10
				ro.Reason = fmt.Sprintf("%s is part of the declared composition", entry.Name)
			} else if matches := matchingTraits(entry, activeTraits); len(matches) > 0 {
				ro.Band = OfferFitsComp
				ro.Score = 15 * float64(len(matches))
				ro.Reason = fmt.Sprintf("%s fits the active %s core", entry.Name, matches[0])
			} else {
				ro.Score = costPower[entry.Cost] / float64(entry.Cost)
				ro.Reason = fmt.Sprintf("%s, plain value at %dg", entry.Name, offer.Cost)
			}
		}
		ranked = append(ranked, ro)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Band != ranked[j].Band {
			return ranked[i].Band < ranked[j].Band
		}
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Offer.Slot < ranked[j].Offer.Slot
	})
	return ranked
}

func matchingTraits(entry catalog.Entry, active map[string]bool) []string {
	var out []string
	for _, t := range entry.Traits {
		if active[t] {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
