package interview

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 60 * time.Second

// RegisterRoutes registers interview session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/interview-sessions", func(r chi.Router) {
		// the live stream outlives any request timeout
		r.Get("/{id}/stream", h.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(requestTimeout))

			r.Post("/", h.CreateSession)
			r.Get("/{id}", h.GetSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Post("/{id}/personalize", h.Personalize)
			r.Post("/{id}/start", h.StartInterview)
			r.Post("/{id}/camera", h.CameraReady)
			r.Post("/{id}/speech-ended", h.SpeechEnded)
			r.Post("/{id}/transcript", h.UpdateTranscript)
			r.Post("/{id}/answer", h.SubmitTextAnswer)
			r.Post("/{id}/answer/audio", h.SubmitAudioAnswer)
			r.Post("/{id}/skip", h.Skip)
			r.Post("/{id}/end", h.EndEarly)
			r.Post("/{id}/restart", h.Restart)
			r.Get("/{id}/report", h.GetReport)
		})
	})

	r.With(chimiddleware.Timeout(requestTimeout)).Get("/progress", h.ListProgress)
}
