package decision

import (
	"sort"

	"github.com/DoyleJ11/tft-coach-backend/internal/catalog"
	"github.com/DoyleJ11/tft-coach-backend/internal/state"
)

// BoardTier buckets the 0-100 board score.
type BoardTier string

const (
	TierWeak     BoardTier = "weak"
	TierAverage  BoardTier = "average"
	TierStrong   BoardTier = "strong"
	TierDominant BoardTier = "dominant"
)

// Upgrade is a star-up in progress: Owned equivalent copies held, Need more
// to reach ToStar.
type Upgrade struct {
	Key    string
	Owned  int
	Need   int
	ToStar int
}

// BoardReport is the board analyzer's read of one snapshot.
type BoardReport struct {
	Known     bool // false when board state was not extracted this cycle
	Score     float64
	Tier      BoardTier
	UnitCount int
	Upgrades  []Upgrade // sorted: fewest copies needed first
	// Liquidatable lists bench-only keys held as a single 1-star copy with
	// no upgrade in progress.
	Liquidatable []string
	// EquipTarget is the strongest board unit with a free item slot.
	EquipTarget string
}

// analyzeBoard scores the board as a weighted sum of unit power, active
// synergy tiers, and equipped items, then buckets it by the fixed cutoffs.
func analyzeBoard(snap state.Snapshot, cat *catalog.Catalog) BoardReport {
	r := BoardReport{Tier: TierWeak}
	if snap.Board == nil {
		return r
	}
	r.Known = true
	r.UnitCount = len(snap.Board)

	var raw float64
	bestPower, bestKey := 0.0, ""
	for _, u := range snap.Board {
		p := unitPower(u)
		raw += p
		if len(u.Items) < 3 && p > bestPower {
			bestPower, bestKey = p, u.Key
		}
	}
	for _, syn := range snap.Synergies {
		raw += synergyTierBonus[syn.Tier]
	}
	r.EquipTarget = bestKey

	r.Score = raw / boardScoreScale
	if r.Score > 100 {
		r.Score = 100
	}
	switch {
	case r.Score >= tierDominantCutoff:
		r.Tier = TierDominant
	case r.Score >= tierStrongCutoff:
		r.Tier = TierStrong
	case r.Score >= tierAverageCutoff:
		r.Tier = TierAverage
	}

	r.Upgrades, r.Liquidatable = upgradeProgress(snap, cat)
	return r
}

// unitPower is cost power times the star multiplier plus a flat item credit.
func unitPower(u state.Unit) float64 {
	mult, ok := starMultiplier[u.Star]
	if !ok {
		mult = 1.0
	}
	return costPower[u.Cost]*mult + itemPower*float64(len(u.Items))
}

// upgradeProgress walks owned copy counts against the catalog star
// thresholds. A key held as one lone 1-star copy on the bench only is a
// liquidation candidate.
func upgradeProgress(snap state.Snapshot, cat *catalog.Catalog) ([]Upgrade, []string) {
	owned := snap.OwnedCopies()

	onBoard := make(map[string]bool, len(snap.Board))
	for _, u := range snap.Board {
		onBoard[u.Key] = true
	}

	var ups []Upgrade
	var dead []string
	keys := make([]string, 0, len(owned))
	for k := range owned {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry, ok := cat.Lookup(key)
		if !ok {
			continue
		}
		copies := owned[key]
		switch {
		case copies >= entry.StarUp[1]:
			// maxed out
		case copies >= entry.StarUp[0]:
			ups = append(ups, Upgrade{Key: key, Owned: copies, Need: entry.StarUp[1] - copies, ToStar: 3})
		case copies >= 1:
			ups = append(ups, Upgrade{Key: key, Owned: copies, Need: entry.StarUp[0] - copies, ToStar: 2})
		}
		if copies == 1 && !onBoard[key] {
			dead = append(dead, key)
		}
	}
	sort.SliceStable(ups, func(i, j int) bool { return ups[i].Need < ups[j].Need })
	return ups, dead
}
