package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DoyleJ11/tft-coach-backend/internal/coach"
	"github.com/DoyleJ11/tft-coach-backend/internal/fusion"
	"github.com/DoyleJ11/tft-coach-backend/internal/types"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Handler streams every completed cycle to the connected client and accepts
// Analyze messages to trigger on-demand cycles.
func Handler(s *coach.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan coach.CycleResult, 8)
		clientID := uuid.NewString()

		s.Inbox() <- coach.Join{ClientID: clientID, Outbox: out}
		defer func() { s.Inbox() <- coach.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for res := range out {
				res := res
				msg := types.ServerMessage{Type: "CycleResult", Cycle: &res}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (coach.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			switch cm.Type {
			case "Analyze":
				s.Inbox() <- coach.Trigger{Mode: ParseMode(cm.Mode)}
			default:
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
			}
		}
	}
}

// ParseMode maps the wire mode string onto a fusion mode; anything
// unrecognized gets the full path.
func ParseMode(mode string) fusion.Mode {
	if mode == string(fusion.ModeFast) {
		return fusion.ModeFast
	}
	return fusion.ModeFull
}
