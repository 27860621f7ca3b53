package related

import (
	"context"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
)

// Searcher runs a similarity search over the knowledge store.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]domknow.Hit, error)
}

// Adjacency decides whether two tags are related within a context.
type Adjacency interface {
	AreRelated(a, b string, ctx searchctx.Context) bool
}
