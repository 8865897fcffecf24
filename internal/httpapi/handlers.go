package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/DoyleJ11/tft-coach-backend/internal/coach"
	"github.com/DoyleJ11/tft-coach-backend/internal/ws"
)

// Analyze triggers one on-demand cycle and returns its result. The session
// actor serializes cycles, so concurrent calls queue rather than interleave.
func Analyze(s *coach.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := ws.ParseMode(r.URL.Query().Get("mode"))

		reply := make(chan *coach.CycleResult, 1)
		s.Inbox() <- coach.Trigger{Mode: mode, Reply: reply}

		select {
		case res := <-reply:
			if res == nil {
				http.Error(w, "no frame available", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, http.StatusOK, res)
		case <-r.Context().Done():
			// Client gave up; the cycle still ran, history has it.
		}
	}
}

func Status(s *coach.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan coach.StatusView, 1)
		s.Inbox() <- coach.GetStatus{Reply: reply}
		writeJSON(w, http.StatusOK, <-reply)
	}
}

func Latest(s *coach.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []coach.CycleResult, 1)
		s.Inbox() <- coach.GetHistory{Limit: 1, Reply: reply}
		history := <-reply
		if len(history) == 0 {
			http.Error(w, "no cycles yet", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, history[len(history)-1])
	}
}

func History(s *coach.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		reply := make(chan []coach.CycleResult, 1)
		s.Inbox() <- coach.GetHistory{Limit: limit, Reply: reply}
		writeJSON(w, http.StatusOK, <-reply)
	}
}

// Composition declares (or clears, with an empty list) the champion keys the
// player is building around.
func Composition(s *coach.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Composition []string `json:"composition"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s.Inbox() <- coach.SetComposition{Keys: body.Composition}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
