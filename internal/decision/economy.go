package decision

import "fmt"

// EconomyReport is the economy analyzer's read of one snapshot.
type EconomyReport struct {
	Gold         int
	Interest     int
	GoldToNext   int // gold needed to reach the next interest band, 0 at cap
	HealthStatus string
	TargetLevel  int // standard timing for the current stage

	ShouldConserve     bool
	ShouldAdvanceLevel bool
	ShouldRefresh      bool

	Reason string
}

// analyzeEconomy derives the interest band and the conserve/level/refresh
// signals from the fixed banding and the stage target table. levelKnown and
// healthKnown gate the advice that depends on those fields; absent inputs
// never default to zero.
func analyzeEconomy(gold int, health int, healthKnown bool, level int, levelKnown bool, stageMajor int) EconomyReport {
	r := EconomyReport{Gold: gold}

	r.Interest = gold / interestStep
	if r.Interest > interestCap {
		r.Interest = interestCap
	}
	if gold < maxInterestGold {
		r.GoldToNext = (gold/interestStep+1)*interestStep - gold
	}

	r.HealthStatus = "unknown"
	if healthKnown {
		switch {
		case health <= healthDesperate:
			r.HealthStatus = "desperate"
		case health <= healthCritical:
			r.HealthStatus = "critical"
		case health <= healthStable:
			r.HealthStatus = "stable"
		default:
			r.HealthStatus = "healthy"
		}
	}

	if t, ok := stageTargetLevel[stageMajor]; ok {
		r.TargetLevel = t
	} else if levelKnown {
		r.TargetLevel = level
	}

	if levelKnown && level < r.TargetLevel {
		cost := levelCost[level+1]
		if cost == 0 {
			cost = 100
		}
		// Level when affordable with a cushion left for economy.
		if gold >= cost+interestStep {
			r.ShouldAdvanceLevel = true
		}
	}

	if gold < maxInterestGold && r.GoldToNext <= 5 && r.HealthStatus != "desperate" {
		r.ShouldConserve = true
	}

	switch {
	case r.HealthStatus == "desperate":
		r.ShouldRefresh = true
		r.ShouldConserve = false
		r.Reason = "health is desperate, spend to stabilize"
	case r.HealthStatus == "critical" && gold >= 30:
		r.ShouldRefresh = true
		r.Reason = "low health, spend gold to find upgrades"
	case levelKnown && level >= r.TargetLevel && gold >= maxInterestGold && stageMajor >= 4:
		r.ShouldRefresh = true
		r.Reason = "at level timing with excess gold, roll for upgrades"
	}

	if r.Reason == "" {
		if r.ShouldConserve {
			r.Reason = fmt.Sprintf("bank %dg to reach the %dg interest band", r.GoldToNext, gold+r.GoldToNext)
		} else {
			r.Reason = "standard economy phase"
		}
	}
	return r
}
