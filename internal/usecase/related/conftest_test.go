package related

import (
	"context"
	"testing"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
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

func rec(t *testing.T, id, question string, tags ...string) domknow.Record {
	t.Helper()
	r, err := domknow.New(domknow.Fields{ID: id, Question: question, Answer: "a-" + id, Tags: tags})
	if err != nil {
		t.Fatalf("knowledge.New: %v", err)
	}
	return r
}

func hits(recs ...domknow.Record) []domknow.Hit {
	out := make([]domknow.Hit, len(recs))
	for i, r := range recs {
		out[i] = domknow.Hit{Record: r, Score: 1 - float64(i)/10}
	}
	return out
}
