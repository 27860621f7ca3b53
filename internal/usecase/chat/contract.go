package chat

import (
	"context"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
)

// Searcher runs a similarity search over the knowledge store.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]domknow.Hit, error)
}

// RelatedFinder selects follow-up questions for a record.
type RelatedFinder interface {
	Related(ctx context.Context, question string, tags []string, sctx searchctx.Context) ([]string, error)
}
