package types

import "github.com/DoyleJ11/tft-coach-backend/internal/coach"

type ClientMessage struct {
	Type string `json:"type"`           // "Analyze"
	Mode string `json:"mode,omitempty"` // "fast" | "full", default full
}

type ServerMessage struct {
	Type  string             `json:"type"` // "CycleResult" | "Error"
	Cycle *coach.CycleResult `json:"cycle,omitempty"`
	Error string             `json:"error,omitempty"`
}
