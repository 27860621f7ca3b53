package related

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
	"github.com/kailas-cloud/supportqa/internal/logger"
	"github.com/kailas-cloud/supportqa/internal/metrics"
)

// DefaultCandidates is the similarity-search depth used to gather candidates.
const DefaultCandidates = 7

// Service finds follow-up questions for a record by searching near its question.
type Service struct {
	search       Searcher
	adj          Adjacency
	candidates   int
	maxQuestions int
}

// New creates a related-question service. Non-positive limits fall back to defaults.
func New(search Searcher, adj Adjacency, candidates, maxQuestions int) *Service {
	if candidates <= 0 {
		candidates = DefaultCandidates
	}
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	return &Service{search: search, adj: adj, candidates: candidates, maxQuestions: maxQuestions}
}

// Related searches for neighbors of question and keeps those whose tags relate to tags in sctx.
func (s *Service) Related(
	ctx context.Context, question string, tags []string, sctx searchctx.Context,
) ([]string, error) {
	hits, err := s.search.Search(ctx, question, s.candidates)
	if err != nil {
		return nil, fmt.Errorf("related search: %w", err)
	}

	out := SelectRelated(s.adj, question, tags, sctx, domknow.Records(hits), s.maxQuestions)
	metrics.RelatedQuestions.Observe(float64(len(out)))

	logger.FromContext(ctx).Debug("related questions selected",
		zap.String("context", string(sctx)),
		zap.Int("candidates", len(hits)),
		zap.Int("selected", len(out)),
	)
	return out, nil
}
