// Package decision turns a fused snapshot into ranked, justified action
// recommendations. Decide is pure: identical snapshot and memory inputs
// always produce identical output, which is what makes the engine testable
// without a live game.
package decision

import (
	"fmt"
	"sort"

	"github.com/DoyleJ11/tft-coach-backend/internal/catalog"
	"github.com/DoyleJ11/tft-coach-backend/internal/state"
)

// Action enumerates what a recommendation asks the player to do.
type Action string

const (
	ActionAcquire      Action = "acquire"
	ActionLiquidate    Action = "liquidate"
	ActionAdvanceLevel Action = "advance_level"
	ActionRefresh      Action = "refresh_offers"
	ActionReposition   Action = "reposition"
	ActionEquipItem    Action = "equip_item"
	ActionHold         Action = "hold"
)

// Alternative is a briefly justified action the player could take instead.
type Alternative struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// Recommendation is one ranked, justified action. Reason and Alternatives
// are part of the contract: a recommendation the player cannot interrogate
// is worthless.
type Recommendation struct {
	Action       Action        `json:"action"`
	Target       string        `json:"target"`
	Priority     int           `json:"priority"` // lower = more urgent
	Reason       string        `json:"reason"`
	Alternatives []Alternative `json:"alternatives"`
}

type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// Decide analyzes the snapshot under the session memory and returns the
// ranked recommendation list plus the updated memory.
func (e *Engine) Decide(snap state.Snapshot, mem Memory) ([]Recommendation, Memory) {
	stageMajor, stageKnown := snap.StageNumber()
	if snap.Gold == nil || !stageKnown {
		// Critical inputs unreadable: downgrade to hold, never guess.
		return []Recommendation{holdIncomplete(snap)}, mem
	}
	gold := *snap.Gold

	health, healthKnown := 0, snap.Health != nil
	if healthKnown {
		health = *snap.Health
	}
	level, levelKnown := 0, snap.Level != nil
	if levelKnown {
		level = *snap.Level
	}

	eco := analyzeEconomy(gold, health, healthKnown, level, levelKnown, stageMajor)
	board := analyzeBoard(snap, e.catalog)

	mem = advanceStrategy(mem, desiredStrategy(health, healthKnown, level, stageMajor, board.Tier, gold))
	params := strategyParams[mem.Active]

	offers := analyzeShop(snap, e.catalog, params.UpgradeWeight, mem.Composition)

	g := generator{}

	// Band: complete-upgrade.
	for _, ro := range offers {
		if ro.Band != OfferCompletesUpgrade || ro.Offer.Cost > gold {
			continue
		}
		alts := []Alternative{holdAlternative(eco)}
		if eco.ShouldAdvanceLevel {
			alts = append(alts, Alternative{
				Action: ActionAdvanceLevel,
				Reason: fmt.Sprintf("level %d is the standard timing for stage %d", level+1, stageMajor),
			})
		}
		g.add(bandCompleteUpgrade, Recommendation{
			Action:       ActionAcquire,
			Target:       offerTarget(ro.Offer),
			Reason:       ro.Reason,
			Alternatives: alts,
		})
	}

	// Band: advance level when due.
	if eco.ShouldAdvanceLevel && levelKnown && level < params.TargetLevel {
		alts := []Alternative{holdAlternative(eco)}
		if len(offers) > 0 && offers[0].Band <= OfferFormsPair {
			alts = append(alts, Alternative{
				Action: ActionAcquire,
				Reason: offers[0].Reason,
			})
		}
		g.add(bandAdvanceLevel, Recommendation{
			Action: ActionAdvanceLevel,
			Target: fmt.Sprintf("level %d", level+1),
			Reason: fmt.Sprintf("stage %d timing calls for level %d and you can pay %dg with economy to spare",
				stageMajor, stageTargetLevel[stageMajor], levelCost[level+1]),
			Alternatives: alts,
		})
	}

	// Band: form a pair.
	for _, ro := range offers {
		if ro.Band != OfferFormsPair || ro.Offer.Cost > gold {
			continue
		}
		g.add(bandFormPair, Recommendation{
			Action:       ActionAcquire,
			Target:       offerTarget(ro.Offer),
			Reason:       ro.Reason,
			Alternatives: []Alternative{holdAlternative(eco)},
		})
	}

	// Band: acquire a composition-defining unit.
	for _, ro := range offers {
		if ro.Band != OfferFitsComp || ro.Offer.Cost > gold {
			continue
		}
		g.add(bandAcquireComp, Recommendation{
			Action:       ActionAcquire,
			Target:       offerTarget(ro.Offer),
			Reason:       ro.Reason,
			Alternatives: []Alternative{holdAlternative(eco)},
		})
	}

	// Band: refresh the shop.
	if gold >= refreshCost && (eco.ShouldRefresh || gold >= params.SpendThreshold) && !hasBand(offers, OfferCompletesUpgrade) {
		alts := []Alternative{holdAlternative(eco)}
		if eco.ShouldAdvanceLevel {
			alts = append(alts, Alternative{
				Action: ActionAdvanceLevel,
				Reason: fmt.Sprintf("leveling to %d unlocks higher-cost odds instead", level+1),
			})
		}
		reason := fmt.Sprintf("%s strategy spends above %dg and nothing on offer completes an upgrade", mem.Active, params.SpendThreshold)
		if eco.ShouldRefresh {
			reason = eco.Reason + "; nothing on offer completes an upgrade"
		}
		g.add(bandRefreshShop, Recommendation{
			Action:       ActionRefresh,
			Target:       fmt.Sprintf("refresh shop (%dg)", refreshCost),
			Reason:       reason,
			Alternatives: alts,
		})
	}

	// Band: equip a loose item.
	if len(snap.Items) > 0 && board.EquipTarget != "" {
		g.add(bandEquipItem, Recommendation{
			Action: ActionEquipItem,
			Target: fmt.Sprintf("%s -> %s", snap.Items[0], board.EquipTarget),
			Reason: fmt.Sprintf("%s is the strongest holder with a free slot; items on the bench fight for nobody", board.EquipTarget),
			Alternatives: []Alternative{{
				Action: ActionHold,
				Reason: "keep components unspent if a better holder is one shop away",
			}},
		})
	}

	// Band: liquidate dead units under bench pressure.
	if len(board.Liquidatable) > 0 && len(snap.Bench) >= benchPressure {
		g.add(bandLiquidate, Recommendation{
			Action: ActionLiquidate,
			Target: board.Liquidatable[0],
			Reason: fmt.Sprintf("bench is full and %s is a lone copy going nowhere", board.Liquidatable[0]),
			Alternatives: []Alternative{{
				Action: ActionHold,
				Reason: "keep it only if you intend to pivot through it",
			}},
		})
	}

	// Band: hold. Always present so the list is never empty.
	g.add(bandHold, holdRecommendation(eco, levelKnown, level))

	recs := g.finish()
	return recs, mem
}

// generator numbers recommendations band + in-band rank, so ties inside a
// band keep their expected-value order and bands never interleave.
type generator struct {
	recs     []Recommendation
	bandSeen map[int]int
}

func (g *generator) add(band int, rec Recommendation) {
	if g.bandSeen == nil {
		g.bandSeen = make(map[int]int)
	}
	rec.Priority = band + g.bandSeen[band]
	g.bandSeen[band]++
	if len(rec.Alternatives) > 2 {
		rec.Alternatives = rec.Alternatives[:2]
	}
	g.recs = append(g.recs, rec)
}

func (g *generator) finish() []Recommendation {
	sort.SliceStable(g.recs, func(i, j int) bool {
		return g.recs[i].Priority < g.recs[j].Priority
	})
	return g.recs
}

func hasBand(offers []RankedOffer, band OfferBand) bool {
	for _, ro := range offers {
		if ro.Band == band {
			return true
		}
	}
	return false
}

func offerTarget(o state.ShopOffer) string {
	return fmt.Sprintf("%s (shop slot %d, %dg)", o.Key, o.Slot+1, o.Cost)
}

func holdAlternative(eco EconomyReport) Alternative {
	if eco.GoldToNext > 0 {
		return Alternative{
			Action: ActionHold,
			Reason: fmt.Sprintf("banking %dg more reaches the next interest band", eco.GoldToNext),
		}
	}
	return Alternative{
		Action: ActionHold,
		Reason: "hold at max interest and wait for a better shop",
	}
}

func holdRecommendation(eco EconomyReport, levelKnown bool, level int) Recommendation {
	rec := Recommendation{
		Action: ActionHold,
		Target: "save gold",
		Reason: eco.Reason,
	}
	if eco.Gold >= refreshCost {
		rec.Alternatives = append(rec.Alternatives, Alternative{
			Action: ActionRefresh,
			Reason: "a refresh could surface an upgrade, at the cost of economy",
		})
	}
	if levelKnown && level < 9 {
		rec.Alternatives = append(rec.Alternatives, Alternative{
			Action: ActionAdvanceLevel,
			Reason: fmt.Sprintf("buying XP toward level %d is the other use for spare gold", level+1),
		})
	}
	if len(rec.Alternatives) == 0 {
		rec.Alternatives = []Alternative{{
			Action: ActionHold,
			Reason: "nothing actionable until more gold arrives",
		}}
	}
	return rec
}

// holdIncomplete is the downgrade path when gold or stage could not be read:
// the engine refuses to spend imaginary money.
func holdIncomplete(snap state.Snapshot) Recommendation {
	missing := "gold"
	if snap.Gold != nil {
		missing = "stage"
	} else if snap.Stage == nil {
		missing = "gold and stage"
	}
	return Recommendation{
		Action:   ActionHold,
		Target:   "wait for readable state",
		Priority: bandHold,
		Reason:   fmt.Sprintf("could not read %s this cycle; advising spends on guessed numbers is worse than waiting", missing),
		Alternatives: []Alternative{{
			Action: ActionHold,
			Reason: "trigger a full analysis once the HUD is unobstructed",
		}},
	}
}
