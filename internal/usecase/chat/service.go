package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/supportqa/internal/domain"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
	"github.com/kailas-cloud/supportqa/internal/logger"
	"github.com/kailas-cloud/supportqa/internal/metrics"
)

// Defaults for Config fields left at zero.
const (
	DefaultTopK          = 6
	DefaultContextDocs   = 4
	DefaultMaxQueryRunes = 1000
	maxSuggestions       = 3
)

// Config tunes retrieval for a chat request.
type Config struct {
	TopK           int
	ContextDocs    int
	MaxQueryRunes  int
	LLMSuggestions bool
}

func (c *Config) applyDefaults() {
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.ContextDocs <= 0 {
		c.ContextDocs = DefaultContextDocs
	}
	if c.ContextDocs > c.TopK {
		c.ContextDocs = c.TopK
	}
	if c.MaxQueryRunes <= 0 {
		c.MaxQueryRunes = DefaultMaxQueryRunes
	}
}

// Answer is the outcome of a chat request.
type Answer struct {
	Text             string
	Sources          []domknow.Record
	RelatedQuestions []string
	Context          searchctx.Context
}

// Service answers support questions from the knowledge base.
type Service struct {
	search  Searcher
	gen     domain.Generator
	related RelatedFinder
	cfg     Config
}

// New creates a chat service.
func New(search Searcher, gen domain.Generator, related RelatedFinder, cfg Config) *Service {
	cfg.applyDefaults()
	return &Service{search: search, gen: gen, related: related, cfg: cfg}
}

// Ask answers query. The answer and the related questions are produced concurrently;
// a failure of either fails the request.
func (s *Service) Ask(ctx context.Context, query string) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, fmt.Errorf("query is required: %w", domain.ErrValidation)
	}
	if utf8.RuneCountInString(query) > s.cfg.MaxQueryRunes {
		return Answer{}, fmt.Errorf("query exceeds %d characters: %w", s.cfg.MaxQueryRunes, domain.ErrValidation)
	}

	log := logger.FromContext(ctx)

	searchQuery := RewriteCarQuery(query)
	if searchQuery != query {
		log.Debug("car query rewritten", zap.String("search_query", searchQuery))
	}

	hits, err := s.search.Search(ctx, searchQuery, s.cfg.TopK)
	if err != nil {
		return Answer{}, fmt.Errorf("search knowledge: %w", err)
	}
	if len(hits) == 0 {
		return Answer{}, domain.ErrNoKnowledge
	}

	top := hits[0].Record
	sctx := searchctx.Classify(top.Tags())
	metrics.ContextClassificationsTotal.WithLabelValues(string(sctx)).Inc()
	ctx = logger.With(ctx, zap.String("context", string(sctx)))
	log = logger.FromContext(ctx)

	docs := contextDocs(hits, sctx, s.cfg.ContextDocs)
	block := contextBlock(docs)

	var (
		text    string
		related []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.gen.Generate(gctx, answerSystemPrompt(block), query)
		if err != nil {
			return fmt.Errorf("generate answer: %w", err)
		}
		text = res.Text
		return nil
	})
	g.Go(func() error {
		qs, err := s.related.Related(gctx, top.Question(), top.Tags(), sctx)
		if err != nil {
			return fmt.Errorf("related questions: %w", err)
		}
		if len(qs) == 0 && s.cfg.LLMSuggestions {
			qs, err = s.suggest(gctx, contextBlock(domknow.Records(hits)), query)
			if err != nil {
				return fmt.Errorf("suggest questions: %w", err)
			}
		}
		related = qs
		return nil
	})
	if err := g.Wait(); err != nil {
		return Answer{}, err
	}

	log.Debug("chat answered",
		zap.String("top_id", top.ID()),
		zap.Int("hits", len(hits)),
		zap.Int("context_docs", len(docs)),
		zap.Int("related", len(related)),
	)

	return Answer{
		Text:             text,
		Sources:          docs,
		RelatedQuestions: related,
		Context:          sctx,
	}, nil
}

// suggest asks the model for follow-up questions. Output that is not a JSON
// string array yields an empty list; only a failed call is an error.
func (s *Service) suggest(ctx context.Context, block, query string) ([]string, error) {
	res, err := s.gen.Generate(ctx, suggestSystemPrompt(block, query), suggestUserPrompt)
	if err != nil {
		return nil, err
	}
	qs, perr := parseSuggestions(res.Text)
	if perr != nil {
		logger.FromContext(ctx).Warn("unparseable suggested questions",
			zap.String("raw", res.Text),
			zap.Error(perr),
		)
		return []string{}, nil
	}
	return qs, nil
}

func parseSuggestions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var parsed []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	out := make([]string, 0, maxSuggestions)
	seen := make(map[string]struct{}, len(parsed))
	for _, q := range parsed {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

// contextDocs returns the top hit followed by hits among the first limit that share its context.
func contextDocs(hits []domknow.Hit, sctx searchctx.Context, limit int) []domknow.Record {
	limit = min(limit, len(hits))
	out := make([]domknow.Record, 0, limit)
	out = append(out, hits[0].Record)
	for i := 1; i < limit; i++ {
		if searchctx.Classify(hits[i].Record.Tags()) == sctx {
			out = append(out, hits[i].Record)
		}
	}
	return out
}
