package knowledge

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/supportqa/internal/domain"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/ingest/csvload"
	"github.com/kailas-cloud/supportqa/internal/logger"
	"github.com/kailas-cloud/supportqa/internal/metrics"
)

// UploadResult describes an accepted knowledge upload.
type UploadResult struct {
	UploadID    string
	RecordCount int
}

// Service owns the knowledge base: loading, listing, deleting and searching records.
type Service struct {
	repo          Repository
	docEmbedder   Embedder
	queryEmbedder Embedder
	vectorDim     int

	// serializes full reloads so two uploads never interleave drop and write
	loadMu sync.Mutex
}

// New creates a knowledge service. vectorDim of 0 disables the dimension check.
func New(repo Repository, docEmbedder, queryEmbedder Embedder, vectorDim int) *Service {
	return &Service{
		repo:          repo,
		docEmbedder:   docEmbedder,
		queryEmbedder: queryEmbedder,
		vectorDim:     vectorDim,
	}
}

// Load replaces the whole knowledge base with records.
// Every record is embedded before anything is written; an embedding failure leaves the old data intact.
func (s *Service) Load(ctx context.Context, records []domknow.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no knowledge records to load: %w", domain.ErrValidation)
	}

	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].Content()
	}

	var (
		res domain.BatchEmbeddingResult
		err error
	)
	if be, ok := s.docEmbedder.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, texts)
	} else {
		res, err = domain.BatchFallback(ctx, s.docEmbedder, texts)
	}
	if err != nil {
		return fmt.Errorf("vectorize records: %w", err)
	}
	if len(res.Embeddings) != len(records) {
		return fmt.Errorf("vectorize records: got %d vectors for %d records: %w",
			len(res.Embeddings), len(records), domain.ErrEmbeddingProviderError)
	}
	for i, v := range res.Embeddings {
		if s.vectorDim > 0 && len(v) != s.vectorDim {
			return fmt.Errorf("record %s: vector dimension %d, want %d: %w",
				records[i].ID(), len(v), s.vectorDim, domain.ErrEmbeddingProviderError)
		}
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if err := s.repo.ReplaceAll(ctx, records, res.Embeddings); err != nil {
		return fmt.Errorf("store records: %w", err)
	}
	metrics.KnowledgeRecords.Set(float64(len(records)))

	logger.FromContext(ctx).Info("knowledge base loaded",
		zap.Int("records", len(records)),
		zap.Int("embedding_tokens", res.TotalTokens),
	)
	return nil
}

// Upload parses a knowledge CSV and replaces the knowledge base with it.
// A parse error writes nothing.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return UploadResult{}, fmt.Errorf("file %q is not a .csv file: %w", filename, domain.ErrValidation)
	}

	records, err := csvload.Parse(r)
	if err != nil {
		return UploadResult{}, fmt.Errorf("parse %s: %w", filename, err)
	}
	if err := s.Load(ctx, records); err != nil {
		return UploadResult{}, err
	}

	id := uuid.NewString()
	logger.FromContext(ctx).Info("knowledge uploaded",
		zap.String("upload_id", id),
		zap.String("filename", filename),
		zap.Int("records", len(records)),
	)
	return UploadResult{UploadID: id, RecordCount: len(records)}, nil
}

// LoadIfEmpty loads the CSV at path when the knowledge base holds no records.
// Returns the number of records loaded, 0 when the store was already populated.
func (s *Service) LoadIfEmpty(ctx context.Context, path string) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	records, err := csvload.ParseFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.Load(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// List returns every stored record sorted by id.
func (s *Service) List(ctx context.Context) ([]domknow.Record, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}

// Delete removes records matching f and returns how many were removed.
func (s *Service) Delete(ctx context.Context, f domknow.Filter) (int, error) {
	n, err := s.repo.DeleteWhere(ctx, f)
	if err != nil {
		return n, fmt.Errorf("delete records: %w", err)
	}
	return n, nil
}

// Search embeds query and returns up to k nearest records, best first.
// Hits repeating an earlier question or missing question or answer are dropped.
func (s *Service) Search(ctx context.Context, query string, k int) ([]domknow.Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrValidation)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive: %w", domain.ErrValidation)
	}

	emb, err := s.queryEmbedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.repo.Search(ctx, emb.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}

	out := hits[:0]
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		q := h.Record.Question()
		if q == "" || h.Record.Answer() == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, h)
	}
	return out, nil
}
