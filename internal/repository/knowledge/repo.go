package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/supportqa/internal/db"
	"github.com/kailas-cloud/supportqa/internal/domain"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
)

const (
	writeBatchSize = 500
	pageSize       = 500
)

// store is the consumer interface for the knowledge index (ISP).
//
//nolint:interfacebloat // repo owns both the documents and their index
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) (int, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, filters []db.TagFilter) (int, error)
}

// IndexConfig holds vector index parameters.
type IndexConfig struct {
	VectorDim   int
	Algorithm   db.VectorAlgorithm
	M           int
	EFConstruct int
}

// Repo stores knowledge records as hashes under one collection and searches them by vector.
type Repo struct {
	store      store
	collection string
	index      IndexConfig

	ready atomic.Bool
	group singleflight.Group
}

// New creates a knowledge repository for the given collection name.
func New(s store, collection string, cfg IndexConfig) *Repo {
	if cfg.Algorithm == "" {
		cfg.Algorithm = db.VectorHNSW
	}
	return &Repo{store: s, collection: collection, index: cfg}
}

// EnsureIndex makes sure the FT index exists. Concurrent first callers share one
// FT.INFO/FT.CREATE round trip; later calls return immediately.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	if r.ready.Load() {
		return nil
	}
	_, err, _ := r.group.Do("ensure", func() (any, error) {
		if r.ready.Load() {
			return nil, nil
		}
		exists, err := r.store.IndexExists(ctx, r.indexName())
		if err != nil {
			return nil, fmt.Errorf("check index: %w", err)
		}
		if !exists {
			if err := r.createIndex(ctx); err != nil {
				return nil, err
			}
		}
		r.ready.Store(true)
		return nil, nil
	})
	return err
}

// createIndex issues FT.CREATE. An index that already exists is not an error.
func (r *Repo) createIndex(ctx context.Context) error {
	def, err := r.buildIndex()
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Reset forgets the ready state so the next call re-checks the index.
func (r *Repo) Reset() {
	r.ready.Store(false)
}

// Search returns the k nearest records to vector, best first.
func (r *Repo) Search(ctx context.Context, vector []float32, k int) ([]domknow.Hit, error) {
	if err := r.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName(),
		VectorField:  fieldVector,
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", r.collection, err)
	}

	hits := make([]domknow.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		hits = append(hits, domknow.Hit{
			Record: parseHashFields(r.extractID(e.Key), e.Fields),
			Score:  e.Score,
		})
	}
	return hits, nil
}

// ReplaceAll drops the index and every stored record, then writes records with their vectors.
// vectors[i] belongs to records[i].
func (r *Repo) ReplaceAll(ctx context.Context, records []domknow.Record, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("replace: %d records but %d vectors: %w", len(records), len(vectors), domain.ErrValidation)
	}

	r.Reset()
	if err := r.store.DropIndex(ctx, r.indexName()); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index: %w", err)
	}

	keys, err := r.store.Scan(ctx, r.keyPrefix()+"*")
	if err != nil {
		return fmt.Errorf("scan %s: %w", r.collection, err)
	}
	for start := 0; start < len(keys); start += writeBatchSize {
		end := min(start+writeBatchSize, len(keys))
		if _, err := r.store.Del(ctx, keys[start:end]...); err != nil {
			return fmt.Errorf("delete old records: %w", err)
		}
	}

	// An EnsureIndex that raced the drop may already have marked the index ready,
	// so the index is recreated here regardless of that flag.
	if err := r.createIndex(ctx); err != nil {
		return err
	}
	r.ready.Store(true)

	for start := 0; start < len(records); start += writeBatchSize {
		end := min(start+writeBatchSize, len(records))
		items := make([]db.HashSetItem, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, db.HashSetItem{
				Key:    r.docKey(records[i].ID()),
				Fields: buildHashFields(&records[i], vectors[i]),
			})
		}
		if err := r.store.HSetMulti(ctx, items); err != nil {
			return fmt.Errorf("write records: %w", err)
		}
	}
	return nil
}

// List returns every stored record sorted by id.
func (r *Repo) List(ctx context.Context) ([]domknow.Record, error) {
	if err := r.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	var out []domknow.Record
	for offset := 0; ; offset += pageSize {
		res, err := r.store.SearchList(ctx, &db.ListQuery{
			IndexName:    r.indexName(),
			Offset:       offset,
			Limit:        pageSize,
			ReturnFields: returnFields,
		})
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", r.collection, err)
		}
		for _, e := range res.Entries {
			out = append(out, parseHashFields(r.extractID(e.Key), e.Fields))
		}
		if len(res.Entries) < pageSize || offset+pageSize >= res.Total {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// Count returns the number of indexed records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	if err := r.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	n, err := r.store.SearchCount(ctx, r.indexName(), nil)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.collection, err)
	}
	return n, nil
}

// DeleteWhere removes records matching the filter and returns how many were deleted.
// An empty filter is rejected; full wipes go through ReplaceAll.
func (r *Repo) DeleteWhere(ctx context.Context, f domknow.Filter) (int, error) {
	if f.IsEmpty() {
		return 0, fmt.Errorf("delete filter is empty: %w", domain.ErrValidation)
	}
	if err := r.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	filters := toTagFilters(f)
	deleted := 0
	for {
		res, err := r.store.SearchList(ctx, &db.ListQuery{
			IndexName:    r.indexName(),
			Filters:      filters,
			Limit:        pageSize,
			ReturnFields: []string{fieldChunkType},
		})
		if err != nil {
			return deleted, fmt.Errorf("find records to delete: %w", err)
		}
		if len(res.Entries) == 0 {
			return deleted, nil
		}
		keys := make([]string, len(res.Entries))
		for i, e := range res.Entries {
			keys[i] = e.Key
		}
		n, err := r.store.Del(ctx, keys...)
		if err != nil {
			return deleted, fmt.Errorf("delete records: %w", err)
		}
		deleted += n
		if n == 0 {
			// index lags behind the keyspace; stop instead of spinning
			return deleted, nil
		}
	}
}

func toTagFilters(f domknow.Filter) []db.TagFilter {
	var out []db.TagFilter
	if f.ChunkType != "" {
		out = append(out, db.TagFilter{Field: fieldChunkType, Value: string(f.ChunkType)})
	}
	if f.ParentID != "" {
		out = append(out, db.TagFilter{Field: fieldParentID, Value: f.ParentID})
	}
	return out
}

func (r *Repo) buildIndex() (*db.IndexDefinition, error) {
	b := db.NewIndex(r.indexName()).
		Prefix(r.keyPrefix()).
		Text(fieldQuestion).
		Text(fieldAnswer).
		TagWithOpts(fieldTags, tagSeparator, true).
		Tag(fieldChunkType).
		Tag(fieldParentID)
	if r.index.Algorithm == db.VectorFlat {
		b = b.VectorFlat(fieldVector, r.index.VectorDim, db.DistanceCosine)
	} else {
		b = b.VectorHNSW(fieldVector, r.index.VectorDim, db.DistanceCosine, r.index.M, r.index.EFConstruct)
	}
	return b.Build()
}

func (r *Repo) keyPrefix() string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, r.collection)
}

func (r *Repo) docKey(id string) string {
	return r.keyPrefix() + id
}

func (r *Repo) indexName() string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, r.collection)
}

func (r *Repo) extractID(key string) string {
	return strings.TrimPrefix(key, r.keyPrefix())
}
