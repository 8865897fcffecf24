package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/tft-coach-backend/internal/coach"
	"github.com/DoyleJ11/tft-coach-backend/internal/ws"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(s *coach.Session) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/analyze", Analyze(s))
	r.Post("/composition", Composition(s))
	r.Get("/status", Status(s))
	r.Get("/latest", Latest(s))
	r.Get("/history", History(s))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(s))
	return r
}
