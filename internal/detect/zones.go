package detect

// Canonical zone names produced by the capture collaborator. The capture
// process owns pixel coordinates; the core only addresses crops by name.
const (
	ZoneGold   = "gold"
	ZoneHealth = "health"
	ZoneLevel  = "level"
	ZoneXP     = "xp"
	ZoneStage  = "stage"
	ZoneBoard  = "board"
	ZoneBench  = "bench"
	ZoneShop   = "shop"
	ZoneItems  = "items"
)

// Fixed board geometry: 4 rows of 7 hexes on the player half, 9 bench slots,
// 5 shop cards, up to 10 inventory tray slots.
const (
	BoardRows  = 4
	BoardCols  = 7
	BenchSlots = 9
	ShopSlots  = 5
	ItemSlots  = 10
)
