package decision

// Strategy is a named parameter set steering which recommendation categories
// are favored.
type Strategy string

const (
	StrategyConserve        Strategy = "conserve"
	StrategyControlledSpend Strategy = "controlled_spend"
	StrategyRushLevel       Strategy = "rush_level"
	StrategyAllIn           Strategy = "all_in"
)

// Params are the knobs a strategy hands to action generation.
type Params struct {
	TargetLevel    int
	SpendThreshold int
	UpgradeWeight  float64
}

// Memory is the only state retained across Decide calls. It is threaded
// explicitly; the engine holds nothing ambient.
type Memory struct {
	Active  Strategy `json:"active"`
	Pending Strategy `json:"pending,omitzero"`
	Streak  int      `json:"streak,omitzero"`
	// Composition is the declared set of keys the player is building around;
	// empty means none declared and the active synergies stand in.
	Composition []string `json:"composition,omitzero"`
}

// NewMemory returns the session-start memory: conserving, no pending switch.
func NewMemory() Memory {
	return Memory{Active: StrategyConserve}
}

// desiredStrategy is the transition function of the strategy state machine,
// keyed by health, level, and board strength. Critical health forces all-in;
// otherwise the stage timing table drives the default.
func desiredStrategy(health int, healthKnown bool, level int, stageMajor int, tier BoardTier, gold int) Strategy {
	if healthKnown && health <= criticalHealth {
		return StrategyAllIn
	}
	if stageMajor >= 5 && level >= 7 {
		return StrategyRushLevel
	}
	if stageMajor >= 3 && tier == TierWeak && gold >= maxInterestGold {
		return StrategyControlledSpend
	}
	return StrategyConserve
}

// advanceStrategy applies hysteresis: a switch happens only after the same
// desired strategy has been observed on two consecutive calls. A single
// noisy cycle can nominate a switch but never commit one.
func advanceStrategy(mem Memory, desired Strategy) Memory {
	if desired == mem.Active {
		mem.Pending = ""
		mem.Streak = 0
		return mem
	}
	if desired == mem.Pending {
		mem.Streak++
		if mem.Streak >= 2 {
			mem.Active = desired
			mem.Pending = ""
			mem.Streak = 0
		}
		return mem
	}
	mem.Pending = desired
	mem.Streak = 1
	return mem
}
