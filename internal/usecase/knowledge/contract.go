package knowledge

import (
	"context"

	"github.com/kailas-cloud/supportqa/internal/domain"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
)

// Repository defines the storage contract for knowledge records.
type Repository interface {
	Search(ctx context.Context, vector []float32, k int) ([]domknow.Hit, error)
	ReplaceAll(ctx context.Context, records []domknow.Record, vectors [][]float32) error
	List(ctx context.Context) ([]domknow.Record, error)
	Count(ctx context.Context) (int, error)
	DeleteWhere(ctx context.Context, f domknow.Filter) (int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
