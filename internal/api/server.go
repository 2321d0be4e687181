package api

import (
	"net/http"

	"github.com/futig/interview-backend/internal/api/docs"
	interviewapi "github.com/futig/interview-backend/internal/api/interview"
	"github.com/futig/interview-backend/internal/api/middleware"
	"github.com/futig/interview-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// SessionCounter reports how many interview sessions are live
type SessionCounter interface {
	ActiveSessions() int
}

type healthDTO struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

// SetupRouter mounts the interview API, the live stream and the docs
func SetupRouter(interviewHandler *interviewapi.Handler, sessions SessionCounter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, healthDTO{
			Status:         "healthy",
			ActiveSessions: sessions.ActiveSessions(),
		})
	})

	docs.RegisterRoutes(r)
	interviewapi.RegisterRoutes(r, interviewHandler)

	return r
}
