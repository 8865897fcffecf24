package types

// CycleResult:
//   id: string (uuid)
//   snapshot:
//     timestamp: RFC3339 string (always present)
//     stage: "3-2" | absent
//     gold | health | level | xp: number | absent (absent means unread, NOT zero)
//     board: [{key, cost, star, items[], hex: {row, col}}] | absent
//     bench: [{key, cost, star, items[], slot}] | absent
//     shop:  [{slot, key, cost}] | absent
//     items: [string] | absent
//     synergies: [{trait, count, tier}] | absent
//     capabilities: { text|icon|object|tier: bool }
//   changes: [{path, from, to}] // "player.gold", "board", "shop[2]", ...
//   status: { capabilities, low_confidence, catalog_mismatch, conflicts }
//   strategy: "conserve" | "controlled_spend" | "rush_level" | "all_in"
//   recommendations: [
//     { action, target, priority, reason, alternatives: [{action, reason}] }
//   ] // sorted by priority ascending, lower = more urgent
