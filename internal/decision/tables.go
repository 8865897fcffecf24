package decision

// Heuristic tables. These are data on purpose: tuning a timing or a weight
// must never require touching control flow, and every table is unit-testable
// in isolation.

// Interest banding: one bonus gold per full interestStep held, capped.
const (
	interestStep = 10
	interestCap  = 5
)

// maxInterestGold is the holding at which interest stops growing; banking
// past it has no economic payoff.
const maxInterestGold = interestStep * interestCap

// Health below this forces the all-in strategy regardless of everything else.
const criticalHealth = 20

// Health banding for the economy report.
const (
	healthDesperate = 20
	healthCritical  = 40
	healthStable    = 60
)

// stageTargetLevel is the standard level timing per major stage.
var stageTargetLevel = map[int]int{
	1: 3,
	2: 5,
	3: 6,
	4: 7,
	5: 8,
	6: 9,
}

// levelCost is the XP gold cost to reach each level.
var levelCost = map[int]int{
	4: 6,
	5: 10,
	6: 20,
	7: 36,
	8: 56,
	9: 80,
}

// costPower is the base power of a unit by its cost tier.
var costPower = map[int]float64{
	1: 10,
	2: 20,
	3: 35,
	4: 55,
	5: 80,
}

// starMultiplier scales unit power by star level.
var starMultiplier = map[int]float64{
	1: 1.0,
	2: 1.8,
	3: 3.0,
}

// itemPower is the flat power credit per equipped item.
const itemPower = 15.0

// synergyTierBonus is the board-score credit per active synergy tier.
var synergyTierBonus = map[string]float64{
	"bronze":    5,
	"silver":    12,
	"gold":      25,
	"prismatic": 40,
}

// boardScoreScale maps raw power onto the 0-100 score; a full late-game
// board of upgraded four-costs with items lands near 100.
const boardScoreScale = 8.0

// Board tier cutoffs on the 0-100 score.
const (
	tierAverageCutoff  = 40.0
	tierStrongCutoff   = 60.0
	tierDominantCutoff = 80.0
)

// Priority bands. Recommendations get band + in-band rank, so everything in
// an earlier band outranks everything in a later one.
const (
	bandCompleteUpgrade = 10
	bandAdvanceLevel    = 20
	bandFormPair        = 30
	bandAcquireComp     = 40
	bandRefreshShop     = 50
	bandEquipItem       = 60
	bandLiquidate       = 70
	bandHold            = 90
)

const refreshCost = 2

// benchPressure is the bench fill level at which liquidating dead units
// becomes worth recommending.
const benchPressure = 7

// Strategy parameter sets. SpendThreshold is the gold level above which the
// strategy is willing to refresh; UpgradeWeight biases shop scoring toward
// upgrade completion over tempo buys.
var strategyParams = map[Strategy]Params{
	StrategyConserve:        {TargetLevel: 8, SpendThreshold: 60, UpgradeWeight: 0.5},
	StrategyControlledSpend: {TargetLevel: 6, SpendThreshold: 50, UpgradeWeight: 0.8},
	StrategyRushLevel:       {TargetLevel: 8, SpendThreshold: 30, UpgradeWeight: 0.3},
	StrategyAllIn:           {TargetLevel: 9, SpendThreshold: 0, UpgradeWeight: 1.0},
}
