package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/supportqa/internal/domain"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	healthuc "github.com/kailas-cloud/supportqa/internal/usecase/health"
)

const (
	// DefaultMaxUploadMB caps the knowledge upload request body.
	DefaultMaxUploadMB = 10

	uploadField   = "file"
	uploadMessage = "ファイルが正常にアップロードされました"
)

// Server serves the support QA HTTP API.
type Server struct {
	chat           ChatService
	knowledge      KnowledgeService
	health         HealthService
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewServer creates an HTTP API server. maxUploadMB <= 0 uses DefaultMaxUploadMB.
func NewServer(
	chat ChatService,
	knowledge KnowledgeService,
	health HealthService,
	maxUploadMB int,
	logger *zap.Logger,
) *Server {
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadMB
	}
	return &Server{
		chat:           chat,
		knowledge:      knowledge,
		health:         health,
		logger:         logger,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	answer, err := s.chat.Ask(ctx, req.Query)
	setEmbeddingHeaders(w, usage)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponseFromAnswer(answer))
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	recs, err := s.knowledge.List(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	docs := make([]Document, len(recs))
	for i, rec := range recs {
		docs[i] = documentFromRecord(rec)
	}
	writeJSON(w, http.StatusOK, DocumentsResponse{Documents: docs})
}

// DeleteDocuments handles DELETE /documents?chunk_type=&parent_id=.
func (s *Server) DeleteDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domknow.Filter{ParentID: strings.TrimSpace(q.Get("parent_id"))}
	if raw := strings.TrimSpace(q.Get("chunk_type")); raw != "" {
		ct, err := domknow.ParseChunkType(raw)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		f.ChunkType = ct
	}

	n, err := s.knowledge.Delete(r.Context(), f)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteDocumentsResponse{Deleted: n})
}

// UploadKnowledge handles POST /upload-knowledge (multipart, field "file").
func (s *Server) UploadKnowledge(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
				"upload exceeds "+strconv.FormatInt(mbe.Limit>>20, 10)+" MB")
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "ファイルが見つかりません")
		default:
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart body: "+err.Error())
		}
		return
	}
	defer func() { _ = file.Close() }()

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.knowledge.Upload(ctx, header.Filename, file)
	setEmbeddingHeaders(w, usage)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success:     true,
		Message:     uploadMessage,
		RecordCount: res.RecordCount,
		UploadID:    res.UploadID,
	})
}

// Health handles GET /health. Anything but a healthy report answers 503.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

// setEmbeddingHeaders reports embedding token usage of the request, if any.
func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	tokens, used := usage.Snapshot()
	if !used {
		return
	}
	w.Header().Set("X-Embedding-Tokens", strconv.Itoa(tokens))
}
