package knowledge

import (
	"context"
	"testing"

	"github.com/kailas-cloud/supportqa/internal/domain"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
)

type mockRepo struct {
	searchFn      func(ctx context.Context, vector []float32, k int) ([]domknow.Hit, error)
	replaceAllFn  func(ctx context.Context, records []domknow.Record, vectors [][]float32) error
	listFn        func(ctx context.Context) ([]domknow.Record, error)
	countFn       func(ctx context.Context) (int, error)
	deleteWhereFn func(ctx context.Context, f domknow.Filter) (int, error)
}

func (m *mockRepo) Search(ctx context.Context, vector []float32, k int) ([]domknow.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, vector, k)
	}
	return nil, nil
}

func (m *mockRepo) ReplaceAll(ctx context.Context, records []domknow.Record, vectors [][]float32) error {
	if m.replaceAllFn != nil {
		return m.replaceAllFn(ctx, records, vectors)
	}
	return nil
}

func (m *mockRepo) List(ctx context.Context) ([]domknow.Record, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockRepo) DeleteWhere(ctx context.Context, f domknow.Filter) (int, error) {
	if m.deleteWhereFn != nil {
		return m.deleteWhereFn(ctx, f)
	}
	return 0, nil
}

// mockEmbedder embeds every text into a fixed-size vector and counts calls.
type mockEmbedder struct {
	dim        int
	err        error
	embedCalls int
	lastText   string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.embedCalls++
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: make([]float32, m.dim), TotalTokens: 1}, nil
}

// mockBatchEmbedder adds a native batch endpoint.
type mockBatchEmbedder struct {
	mockEmbedder
	batchCalls int
	batchTexts []string
}

func (m *mockBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchTexts = texts
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, m.dim)
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

func rec(t *testing.T, id, question, answer string, tags ...string) domknow.Record {
	t.Helper()
	r, err := domknow.New(domknow.Fields{ID: id, Question: question, Answer: answer, Tags: tags})
	if err != nil {
		t.Fatalf("knowledge.New: %v", err)
	}
	return r
}
