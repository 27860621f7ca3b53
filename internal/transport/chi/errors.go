package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/supportqa/internal/domain"
	"github.com/kailas-cloud/supportqa/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// errorHandlers is evaluated in order. A malformed CSV row carries both ErrParse and the
// record's ErrValidation and reports as a parse error. Rate limiting wins over the
// upstream kinds it is joined with.
var errorHandlers = []errorHandler{
	sentinelHandler(domain.ErrParse, http.StatusBadRequest, CodeParseError),
	sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrNoKnowledge, http.StatusNotFound, CodeNoKnowledge),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
	sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeUpstreamError),
	sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, CodeUpstreamError),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation and parse errors carry user input problems and are returned in full.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrParse) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrNoKnowledge,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
