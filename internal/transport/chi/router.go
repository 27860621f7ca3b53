package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/supportqa/internal/metrics"
)

// NewRouter mounts the API routes behind the standard middleware stack.
// An empty apiKeys disables authentication.
func NewRouter(s *Server, apiKeys []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Post("/chat", s.Chat)
	r.Get("/documents", s.ListDocuments)
	r.Delete("/documents", s.DeleteDocuments)
	r.Post("/upload-knowledge", s.UploadKnowledge)
	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
