package state

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// An absent field must disappear from the wire entirely, while a known-empty
// list must survive a round trip as [] rather than collapsing to absent.
func TestSnapshotAbsentVsEmpty(t *testing.T) {
	snap := Snapshot{
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Gold:      Int(0),
		Board:     []Unit{}, // read successfully, genuinely empty
		// Health, Stage, Bench, Shop: unread this cycle
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	if !strings.Contains(s, `"gold":0`) {
		t.Errorf("zero gold should serialize, got %s", s)
	}
	if !strings.Contains(s, `"board":[]`) {
		t.Errorf("known-empty board should serialize as [], got %s", s)
	}
	for _, absent := range []string{`"health"`, `"stage"`, `"bench"`, `"shop"`} {
		if strings.Contains(s, absent) {
			t.Errorf("absent field %s leaked into %s", absent, s)
		}
	}

	var back Snapshot
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Gold == nil || *back.Gold != 0 {
		t.Errorf("gold lost in round trip: %+v", back.Gold)
	}
	if back.Board == nil || len(back.Board) != 0 {
		t.Errorf("empty board became absent: %+v", back.Board)
	}
	if back.Health != nil || back.Stage != nil || back.Bench != nil {
		t.Errorf("absent fields materialized: %+v", back)
	}
}

func TestStageNumber(t *testing.T) {
	cases := []struct {
		stage  *string
		want   int
		wantOK bool
	}{
		{Str("3-2"), 3, true},
		{Str("1-1"), 1, true},
		{Str("12-4"), 12, true},
		{Str("-2"), 0, false},
		{Str("32"), 0, false},
		{Str("x-2"), 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		snap := Snapshot{Stage: tc.stage}
		got, ok := snap.StageNumber()
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("StageNumber(%v) = %d,%v; want %d,%v", tc.stage, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestOwnedCopiesCountsStarsAsCopies(t *testing.T) {
	snap := Snapshot{
		Board: []Unit{
			{Key: "garen", Star: 2},
			{Key: "lulu", Star: 1},
		},
		Bench: []Unit{
			{Key: "garen", Star: 1},
			{Key: "swain", Star: 3},
		},
	}
	owned := snap.OwnedCopies()
	if owned["garen"] != 4 { // 2-star (3) + single copy
		t.Errorf("garen copies = %d, want 4", owned["garen"])
	}
	if owned["lulu"] != 1 {
		t.Errorf("lulu copies = %d, want 1", owned["lulu"])
	}
	if owned["swain"] != 9 {
		t.Errorf("swain copies = %d, want 9", owned["swain"])
	}
}
