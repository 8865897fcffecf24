package fusion

import (
	"fmt"
	"reflect"

	"github.com/DoyleJ11/tft-coach-backend/internal/state"
)

// Change records one snapshot field that differs from the previous cycle.
// Paths are stable strings ("player.gold", "board", "shop[2]") so downstream
// consumers can react incrementally without re-diffing.
type Change struct {
	Path string `json:"path"`
	From any    `json:"from,omitempty"`
	To   any    `json:"to,omitempty"`
}

// Diff compares two snapshots field by field with per-type equality: exact
// for counts, identities and stage, slot/position equality for unit and shop
// lists. A nil prev yields a change for every populated field of next.
func Diff(prev *state.Snapshot, next state.Snapshot) []Change {
	if prev == nil {
		prev = &state.Snapshot{}
	}
	var changes []Change

	add := func(path string, from, to any) {
		changes = append(changes, Change{Path: path, From: from, To: to})
	}

	diffInt := func(path string, a, b *int) {
		if !intPtrEq(a, b) {
			add(path, deref(a), deref(b))
		}
	}
	diffInt("player.gold", prev.Gold, next.Gold)
	diffInt("player.health", prev.Health, next.Health)
	diffInt("player.level", prev.Level, next.Level)
	diffInt("player.xp", prev.XP, next.XP)

	if !strPtrEq(prev.Stage, next.Stage) {
		add("stage", deref(prev.Stage), deref(next.Stage))
	}

	if !unitsEqual(prev.Board, next.Board) {
		add("board", summarizeUnits(prev.Board), summarizeUnits(next.Board))
	}
	if !unitsEqual(prev.Bench, next.Bench) {
		add("bench", summarizeUnits(prev.Bench), summarizeUnits(next.Bench))
	}

	diffShop(&changes, prev.Shop, next.Shop)

	if !reflect.DeepEqual(prev.Items, next.Items) {
		add("items", prev.Items, next.Items)
	}
	if !reflect.DeepEqual(prev.Synergies, next.Synergies) {
		add("synergies", prev.Synergies, next.Synergies)
	}
	return changes
}

// diffShop compares per slot so a single refreshed card reports as shop[N]
// rather than a whole-list change.
func diffShop(changes *[]Change, prev, next []state.ShopOffer) {
	if prev == nil && next == nil {
		return
	}
	if prev == nil || next == nil {
		*changes = append(*changes, Change{Path: "shop", From: prev, To: next})
		return
	}
	prevBySlot := make(map[int]state.ShopOffer, len(prev))
	for _, o := range prev {
		prevBySlot[o.Slot] = o
	}
	nextBySlot := make(map[int]state.ShopOffer, len(next))
	for _, o := range next {
		nextBySlot[o.Slot] = o
	}
	for slot := 0; slot < shopSlotSpan(prevBySlot, nextBySlot); slot++ {
		p, pok := prevBySlot[slot]
		n, nok := nextBySlot[slot]
		if pok == nok && p == n {
			continue
		}
		var from, to any
		if pok {
			from = p
		}
		if nok {
			to = n
		}
		*changes = append(*changes, Change{Path: fmt.Sprintf("shop[%d]", slot), From: from, To: to})
	}
}

func shopSlotSpan(a, b map[int]state.ShopOffer) int {
	max := 0
	for slot := range a {
		if slot+1 > max {
			max = slot + 1
		}
	}
	for slot := range b {
		if slot+1 > max {
			max = slot + 1
		}
	}
	return max
}

func unitsEqual(a, b []state.Unit) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || a[i].Star != b[i].Star || a[i].Cost != b[i].Cost {
			return false
		}
		if !hexPtrEq(a[i].Hex, b[i].Hex) || !intPtrEq(a[i].Slot, b[i].Slot) {
			return false
		}
		if !reflect.DeepEqual(a[i].Items, b[i].Items) {
			return false
		}
	}
	return true
}

// summarizeUnits keeps change payloads small: key@location per unit.
func summarizeUnits(units []state.Unit) []string {
	if units == nil {
		return nil
	}
	out := make([]string, 0, len(units))
	for _, u := range units {
		switch {
		case u.Hex != nil:
			out = append(out, fmt.Sprintf("%s@%d,%d", u.Key, u.Hex.Row, u.Hex.Col))
		case u.Slot != nil:
			out = append(out, fmt.Sprintf("%s@bench%d", u.Key, *u.Slot))
		default:
			out = append(out, u.Key)
		}
	}
	return out
}

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func hexPtrEq(a, b *state.Hex) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
