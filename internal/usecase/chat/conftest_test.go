package chat

import (
	"context"
	"testing"

	"github.com/kailas-cloud/supportqa/internal/domain"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
)

type mockSearcher struct {
	searchFn func(ctx context.Context, query string, k int) ([]domknow.Hit, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string, k int) ([]domknow.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, k)
	}
	return nil, nil
}

type mockGenerator struct {
	generateFn func(ctx context.Context, systemPrompt, userPrompt string) (domain.GenerationResult, error)
}

func (m *mockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (domain.GenerationResult, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, systemPrompt, userPrompt)
	}
	return domain.GenerationResult{Text: "answer"}, nil
}

type mockRelated struct {
	relatedFn func(ctx context.Context, question string, tags []string, sctx searchctx.Context) ([]string, error)
}

func (m *mockRelated) Related(
	ctx context.Context, question string, tags []string, sctx searchctx.Context,
) ([]string, error) {
	if m.relatedFn != nil {
		return m.relatedFn(ctx, question, tags, sctx)
	}
	return []string{}, nil
}

func rec(t *testing.T, id, question, answer string, tags ...string) domknow.Record {
	t.Helper()
	r, err := domknow.New(domknow.Fields{ID: id, Question: question, Answer: answer, Tags: tags})
	if err != nil {
		t.Fatalf("knowledge.New: %v", err)
	}
	return r
}

func hitsOf(recs ...domknow.Record) []domknow.Hit {
	out := make([]domknow.Hit, len(recs))
	for i, r := range recs {
		out[i] = domknow.Hit{Record: r, Score: 0.9 - float64(i)/20}
	}
	return out
}
