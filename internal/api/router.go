package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/blaisecz/puppy-tracker/docs"
	"github.com/blaisecz/puppy-tracker/internal/api/handler"
	"github.com/blaisecz/puppy-tracker/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Router struct {
	puppyHandler    *handler.PuppyHandler
	eventHandler    *handler.EventHandler
	careHandler     *handler.CareHandler
	insightsHandler *handler.InsightsHandler
	logger          *zap.Logger
}

func NewRouter(
	puppyHandler *handler.PuppyHandler,
	eventHandler *handler.EventHandler,
	careHandler *handler.CareHandler,
	insightsHandler *handler.InsightsHandler,
	logger *zap.Logger,
) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		puppyHandler:    puppyHandler,
		eventHandler:    eventHandler,
		careHandler:     careHandler,
		insightsHandler: insightsHandler,
		logger:          logger,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Route("/puppies", func(r chi.Router) {
			r.Post("/", rt.puppyHandler.Create)

			r.Route("/{puppyId}", func(r chi.Router) {
				r.Get("/", rt.puppyHandler.GetByID)
				r.Put("/walk-schedule", rt.puppyHandler.UpdateWalkSchedule)
				r.Post("/assumed-sleep/dismiss", rt.puppyHandler.DismissAssumedSleep)

				// Events
				r.Route("/events", func(r chi.Router) {
					r.Post("/", rt.eventHandler.Create)
					r.Get("/", rt.eventHandler.List)
					r.Delete("/{eventId}", rt.eventHandler.Delete)
				})
				r.Post("/coverage-gaps/end", rt.eventHandler.EndCoverageGap)

				// Derived views
				r.Get("/status", rt.careHandler.Status)
				r.Get("/timeline", rt.careHandler.Timeline)
				r.Get("/walks", rt.careHandler.Walks)
				r.Get("/stats", rt.careHandler.Stats)

				// Insights
				r.Get("/insights", rt.insightsHandler.GetInsights)
				r.Post("/insights/feedback", rt.insightsHandler.PostFeedback)
			})
		})
	})

	return r
}
