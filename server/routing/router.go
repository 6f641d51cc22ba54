// Package routing wires the relay's HTTP surface: the generation endpoints,
// the chat endpoint for the embedded client, health, metrics, and the static
// chat page itself.
package routing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/glintlabs/glint/errors"
	"github.com/glintlabs/glint/server/handlers"
	"github.com/glintlabs/glint/server/metrics"
	"github.com/glintlabs/glint/server/middleware"
	"github.com/glintlabs/glint/static"
	"go.uber.org/zap"
)

// Router is the http.Handler for the whole relay.
type Router struct {
	router  chi.Router
	handler *handlers.Handler
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRouter creates the router with the global middleware stack and all
// routes configured.
func NewRouter(h *handlers.Handler, m *metrics.Metrics, logger *zap.Logger) *Router {
	r := &Router{
		router:  chi.NewRouter(),
		handler: h,
		metrics: m,
		logger:  logger,
	}

	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RequestTimer)
	r.router.Use(middleware.PanicRecovery)
	r.router.Use(middleware.CORS)
	r.router.Use(middleware.Logging(logger))
	r.router.Use(middleware.PrometheusMetrics(m))
	r.router.Use(errors.ErrorHandler(logger))

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.router.Post("/generate-text", r.handler.GenerateText)
	r.router.Post("/generate-from-image", r.handler.GenerateFromImage)
	r.router.Post("/generate-from-document", r.handler.GenerateFromDocument)
	r.router.Post("/generate-from-audio", r.handler.GenerateFromAudio)
	r.router.Post("/api/chat", r.handler.Chat)

	r.router.Get("/health", r.healthHandler)
	r.router.Handle("/metrics", r.metrics.Handler())

	// The embedded chat client lives at the root path only; everything else
	// is a JSON 404 so API consumers never get HTML back.
	r.router.Get("/", r.indexHandler)
	r.router.NotFound(r.notFoundHandler)
}

func (r *Router) healthHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		r.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

func (r *Router) indexHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(static.Index()); err != nil {
		r.logger.Error("Failed to write chat page", zap.Error(err))
	}
}

func (r *Router) notFoundHandler(w http.ResponseWriter, req *http.Request) {
	requestID := middleware.GetRequestID(req.Context())
	errors.WriteError(w, errors.NewNotFoundError(requestID, "no such route: "+req.URL.Path))
}

// ServeHTTP implements the http.Handler interface.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
