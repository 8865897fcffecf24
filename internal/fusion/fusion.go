// Package fusion reconciles the detectors' candidate lists into one canonical
// snapshot per cycle. It is a pure reducer over confidence-scored candidates,
// keyed by the declarative authority tables in authority.go; it never returns
// an error and never panics, it only degrades.
package fusion

import (
	"sort"
	"time"

	"github.com/DoyleJ11/tft-coach-backend/internal/catalog"
	"github.com/DoyleJ11/tft-coach-backend/internal/detect"
	"github.com/DoyleJ11/tft-coach-backend/internal/state"
	"go.uber.org/zap"
)

// DefaultConfidenceFloor is the noise cutoff applied before conflict
// resolution. The boundary between "fall back" and "discard" is not sharply
// defined by any detector; 0.5 is a deliberate configuration choice, not an
// inferred constant, and COACH_CONFIDENCE_FLOOR overrides it.
const DefaultConfidenceFloor = 0.5

// Status reports extraction health for one cycle: which capabilities
// contributed and how many candidates were discarded on the way. Operators
// read this through /status instead of grepping logs.
type Status struct {
	Capabilities    map[detect.Capability]bool `json:"capabilities"`
	LowConfidence   int                        `json:"low_confidence"`
	CatalogMismatch int                        `json:"catalog_mismatch"`
	Conflicts       int                        `json:"conflicts"`
}

type Engine struct {
	catalog *catalog.Catalog
	floor   float64
	log     *zap.Logger
}

func NewEngine(cat *catalog.Catalog, floor float64, log *zap.Logger) *Engine {
	if floor <= 0 || floor >= 1 {
		floor = DefaultConfidenceFloor
	}
	return &Engine{catalog: cat, floor: floor, log: log}
}

// Build reduces one cycle's candidate lists into a snapshot and diffs it
// against the previous one. With every detector unavailable it returns a
// snapshot holding only its timestamp, a full change-set against prev, and a
// status with every capability false.
func (e *Engine) Build(res detect.Results, prev *state.Snapshot) (state.Snapshot, []Change, Status) {
	ts := res.Captured
	if ts.IsZero() {
		ts = time.Now()
	}
	snap := state.Snapshot{
		Timestamp:    ts,
		Capabilities: capabilityNames(res.Available),
	}
	st := Status{Capabilities: res.Available}

	e.reduceHUD(&snap, &st, res)
	e.reduceUnits(&snap, &st, res)
	e.reduceShop(&snap, &st, res)
	e.reduceItems(&snap, &st, res)
	e.deriveSynergies(&snap)

	return snap, Diff(prev, snap), st
}

// reduceHUD fills the scalar fields. Per field: walk the authority list,
// take the surviving candidates of the first available capability, keep the
// highest confidence.
func (e *Engine) reduceHUD(snap *state.Snapshot, st *Status, res detect.Results) {
	for _, field := range hudFields {
		best, ok := e.bestHUD(st, res, field)
		if !ok {
			continue
		}
		switch field {
		case detect.FieldGold:
			snap.Gold = state.Int(best.Value)
		case detect.FieldHealth:
			snap.Health = state.Int(best.Value)
		case detect.FieldLevel:
			snap.Level = state.Int(best.Value)
		case detect.FieldXP:
			snap.XP = state.Int(best.Value)
		case detect.FieldStage:
			snap.Stage = state.Str(best.Text)
		}
	}
}

func (e *Engine) bestHUD(st *Status, res detect.Results, field detect.Field) (detect.Candidate, bool) {
	for _, cap := range hudAuthority[field] {
		if !res.Available[cap] {
			continue
		}
		var best detect.Candidate
		found := false
		for _, c := range res.Candidates[cap] {
			if c.Kind != detect.KindHUD || c.Field != field {
				continue
			}
			if c.Confidence < e.floor {
				st.LowConfidence++
				continue
			}
			if !found || c.Confidence > best.Confidence {
				best, found = c, true
			}
		}
		if found {
			return best, true
		}
	}
	return detect.Candidate{}, false
}

// reduceUnits builds the board and bench lists: floor filter, catalog
// validation, then location conflict resolution (higher confidence keeps the
// cell), then star refinement from the tier capability.
func (e *Engine) reduceUnits(snap *state.Snapshot, st *Status, res detect.Results) {
	cap, ok := availableAuthority(res, detect.KindUnit)
	if !ok {
		return // board and bench stay unknown
	}

	type claim struct {
		unit state.Unit
		conf float64
	}
	boardClaims := make(map[state.Hex]claim)
	benchClaims := make(map[int]claim)

	for _, c := range res.Candidates[cap] {
		if c.Kind != detect.KindUnit {
			continue
		}
		if c.Confidence < e.floor {
			st.LowConfidence++
			continue
		}
		entry, known := e.catalog.Lookup(c.Key)
		if !known {
			st.CatalogMismatch++
			e.log.Debug("catalog mismatch", zap.String("key", c.Key))
			continue
		}
		u := state.Unit{Key: c.Key, Cost: entry.Cost, Star: 1}
		switch {
		case c.Hex != nil:
			hex := *c.Hex
			u.Hex = &hex
			if prev, taken := boardClaims[hex]; taken {
				st.Conflicts++
				e.log.Debug("board cell conflict",
					zap.String("kept", pickKey(prev.conf, prev.unit.Key, c.Confidence, c.Key)),
					zap.Int("row", hex.Row), zap.Int("col", hex.Col))
				if c.Confidence <= prev.conf {
					continue
				}
			}
			boardClaims[hex] = claim{unit: u, conf: c.Confidence}
		case c.Bench != nil:
			slot := *c.Bench
			u.Slot = &slot
			if prev, taken := benchClaims[slot]; taken {
				st.Conflicts++
				if c.Confidence <= prev.conf {
					continue
				}
			}
			benchClaims[slot] = claim{unit: u, conf: c.Confidence}
		}
	}

	stars := e.starRefinements(st, res)

	snap.Board = make([]state.Unit, 0, len(boardClaims))
	for hex, cl := range boardClaims {
		if s, ok := stars[starKey{hex: hex, onBoard: true}]; ok {
			cl.unit.Star = s
		}
		snap.Board = append(snap.Board, cl.unit)
	}
	sort.Slice(snap.Board, func(i, j int) bool {
		a, b := snap.Board[i].Hex, snap.Board[j].Hex
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})

	snap.Bench = make([]state.Unit, 0, len(benchClaims))
	for slot, cl := range benchClaims {
		if s, ok := stars[starKey{slot: slot}]; ok {
			cl.unit.Star = s
		}
		snap.Bench = append(snap.Bench, cl.unit)
	}
	sort.Slice(snap.Bench, func(i, j int) bool {
		return *snap.Bench[i].Slot < *snap.Bench[j].Slot
	})
}

type starKey struct {
	hex     state.Hex
	onBoard bool
	slot    int
}

// starRefinements collects the winning star claim per location. Ties on the
// same location keep the higher confidence, as everywhere else.
func (e *Engine) starRefinements(st *Status, res detect.Results) map[starKey]int {
	cap, ok := availableAuthority(res, detect.KindStar)
	if !ok {
		return nil
	}
	type starClaim struct {
		star int
		conf float64
	}
	claims := make(map[starKey]starClaim)
	for _, c := range res.Candidates[cap] {
		if c.Kind != detect.KindStar || c.Star < 1 || c.Star > 3 {
			continue
		}
		if c.Confidence < e.floor {
			st.LowConfidence++
			continue
		}
		var k starKey
		switch {
		case c.Hex != nil:
			k = starKey{hex: *c.Hex, onBoard: true}
		case c.Bench != nil:
			k = starKey{slot: *c.Bench}
		default:
			continue
		}
		if prev, taken := claims[k]; taken && prev.conf >= c.Confidence {
			continue
		}
		claims[k] = starClaim{star: c.Star, conf: c.Confidence}
	}
	out := make(map[starKey]int, len(claims))
	for k, v := range claims {
		out[k] = v.star
	}
	return out
}

func (e *Engine) reduceShop(snap *state.Snapshot, st *Status, res detect.Results) {
	cap, ok := availableAuthority(res, detect.KindShopOffer)
	if !ok {
		return
	}
	type claim struct {
		offer state.ShopOffer
		conf  float64
	}
	claims := make(map[int]claim)
	for _, c := range res.Candidates[cap] {
		if c.Kind != detect.KindShopOffer || c.ShopSlot == nil {
			continue
		}
		if c.Confidence < e.floor {
			st.LowConfidence++
			continue
		}
		entry, known := e.catalog.Lookup(c.Key)
		if !known {
			st.CatalogMismatch++
			continue
		}
		slot := *c.ShopSlot
		if prev, taken := claims[slot]; taken {
			st.Conflicts++
			if c.Confidence <= prev.conf {
				continue
			}
		}
		claims[slot] = claim{
			offer: state.ShopOffer{Slot: slot, Key: c.Key, Cost: entry.Cost},
			conf:  c.Confidence,
		}
	}
	snap.Shop = make([]state.ShopOffer, 0, len(claims))
	for _, cl := range claims {
		snap.Shop = append(snap.Shop, cl.offer)
	}
	sort.Slice(snap.Shop, func(i, j int) bool { return snap.Shop[i].Slot < snap.Shop[j].Slot })
}

func (e *Engine) reduceItems(snap *state.Snapshot, st *Status, res detect.Results) {
	cap, ok := availableAuthority(res, detect.KindItem)
	if !ok {
		return
	}
	items := make([]string, 0, 4)
	for _, c := range res.Candidates[cap] {
		if c.Kind != detect.KindItem {
			continue
		}
		if c.Confidence < e.floor {
			st.LowConfidence++
			continue
		}
		if !e.catalog.HasItem(c.Key) {
			st.CatalogMismatch++
			continue
		}
		items = append(items, c.Key)
	}
	sort.Strings(items)
	snap.Items = items
}

// deriveSynergies recomputes active trait tiers from the fused board. Only
// distinct champion keys count toward a trait.
func (e *Engine) deriveSynergies(snap *state.Snapshot) {
	if snap.Board == nil {
		return
	}
	seen := make(map[string]bool)
	counts := make(map[string]int)
	for _, u := range snap.Board {
		if seen[u.Key] {
			continue
		}
		seen[u.Key] = true
		entry, ok := e.catalog.Lookup(u.Key)
		if !ok {
			continue
		}
		for _, t := range entry.Traits {
			counts[t]++
		}
	}
	syns := make([]state.Synergy, 0, len(counts))
	for trait, n := range counts {
		if tier, active := e.catalog.TraitTier(trait, n); active {
			syns = append(syns, state.Synergy{Trait: trait, Count: n, Tier: tier})
		}
	}
	sort.Slice(syns, func(i, j int) bool { return syns[i].Trait < syns[j].Trait })
	snap.Synergies = syns
}

// availableAuthority returns the first available capability from the
// authority list for a candidate kind.
func availableAuthority(res detect.Results, kind detect.Kind) (detect.Capability, bool) {
	for _, cap := range listAuthority[kind] {
		if res.Available[cap] {
			return cap, true
		}
	}
	return "", false
}

func capabilityNames(avail map[detect.Capability]bool) map[string]bool {
	if len(avail) == 0 {
		return nil
	}
	out := make(map[string]bool, len(avail))
	for cap, ok := range avail {
		out[string(cap)] = ok
	}
	return out
}

func pickKey(confA float64, keyA string, confB float64, keyB string) string {
	if confB > confA {
		return keyB
	}
	return keyA
}
