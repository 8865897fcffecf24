package state

import "time"

// Snapshot is the canonical game state for one capture cycle. It is rebuilt
// from scratch every cycle and immutable once produced.
//
// Every field except Timestamp may be absent when no detector could read it.
// Absent is a nil pointer or nil slice, never a zero value: a missing gold
// count must not be confused with an empty pocket. A non-nil empty slice means
// "read successfully, genuinely empty".
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	Stage  *string `json:"stage,omitzero"` // e.g. "3-2"
	Gold   *int    `json:"gold,omitzero"`
	Health *int    `json:"health,omitzero"`
	Level  *int    `json:"level,omitzero"`
	XP     *int    `json:"xp,omitzero"`

	Board     []Unit      `json:"board,omitzero"`
	Bench     []Unit      `json:"bench,omitzero"`
	Shop      []ShopOffer `json:"shop,omitzero"`
	Items     []string    `json:"items,omitzero"`
	Synergies []Synergy   `json:"synergies,omitzero"`

	// Capabilities records which detectors contributed this cycle,
	// keyed by capability name.
	Capabilities map[string]bool `json:"capabilities,omitzero"`
}

// Hex is a board position: Row 0 is the row closest to the player.
type Hex struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Unit is a champion on the board or bench. Exactly one of Hex (board) and
// Slot (bench) is set; Snapshot keeps board and bench units in separate lists.
type Unit struct {
	Key   string   `json:"key"`
	Cost  int      `json:"cost"`
	Star  int      `json:"star"` // 1..3
	Items []string `json:"items,omitzero"`
	Hex   *Hex     `json:"hex,omitzero"`
	Slot  *int     `json:"slot,omitzero"`
}

// ShopOffer is one purchasable card in the shop row.
type ShopOffer struct {
	Slot int    `json:"slot"` // 0..4, unique within a snapshot
	Key  string `json:"key"`
	Cost int    `json:"cost"`
}

// Synergy is an active trait with the count of distinct contributing units.
type Synergy struct {
	Trait string `json:"trait"`
	Count int    `json:"count"`
	Tier  string `json:"tier"` // bronze | silver | gold | prismatic
}

// Int returns a pointer to v, for populating optional snapshot fields.
func Int(v int) *int { return &v }

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// StageNumber parses the stage identifier ("3-2") and returns the major stage
// number. ok is false when the stage is absent or malformed.
func (s *Snapshot) StageNumber() (int, bool) {
	if s.Stage == nil {
		return 0, false
	}
	return parseStageMajor(*s.Stage)
}

func parseStageMajor(stage string) (int, bool) {
	major := 0
	for i := 0; i < len(stage); i++ {
		c := stage[i]
		if c == '-' {
			if i == 0 {
				return 0, false
			}
			return major, true
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		major = major*10 + int(c-'0')
	}
	return 0, false
}

// OwnedCopies counts equivalent single copies of each unit key across board
// and bench: a 2-star counts as three copies, a 3-star as nine.
func (s *Snapshot) OwnedCopies() map[string]int {
	counts := make(map[string]int)
	for _, u := range s.Board {
		counts[u.Key] += copiesForStar(u.Star)
	}
	for _, u := range s.Bench {
		counts[u.Key] += copiesForStar(u.Star)
	}
	return counts
}

func copiesForStar(star int) int {
	switch star {
	case 2:
		return 3
	case 3:
		return 9
	default:
		return 1
	}
}
