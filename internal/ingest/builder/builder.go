// Package builder assembles knowledge.csv from per-category base and detail files.
package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/ingest/csvload"
)

// Categories lists the knowledge directories in output order.
var Categories = []string{
	"reservation_rules",
	"reservation_change_rules",
	"international_ng",
	"vehicles_ng",
	"usage_process",
	"operation_rules",
	"baggage_rules",
	"capacity_rules",
	"transportation_plans_knowledge",
	"group_usage",
	"fee_rules",
	"peak_season",
	"full_parking_responses",
	"navigation_and_access",
	"other",
}

const (
	baseFile    = "base.csv"
	detailsFile = "details.csv"
)

// Builder reads <root>/<category>/{base,details}.csv.
type Builder struct {
	root       string
	categories []string
	logger     *zap.Logger
}

// New creates a builder over root using the default category list.
func New(root string, logger *zap.Logger) *Builder {
	return &Builder{root: root, categories: Categories, logger: logger}
}

// Build returns the merged records with sequential ids starting at 1.
// Base rows become parents; detail rows become children of the category's last parent.
func (b *Builder) Build() ([]domknow.Record, error) {
	var out []domknow.Record
	nextID := 1

	for _, category := range b.categories {
		dir := filepath.Join(b.root, category)
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			b.logger.Debug("skipping missing category", zap.String("category", category))
			continue
		}

		var parentID string

		baseRows, err := readRows(filepath.Join(dir, baseFile))
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", category, baseFile, err)
		}
		for _, row := range baseRows {
			tags := row.Get(csvload.ColTags)
			if tags == "" {
				tags = category
			}
			id := strconv.Itoa(nextID)
			rec, err := newRecord(row, id, "", tags, domknow.ChunkParent)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", category, baseFile, err)
			}
			out = append(out, rec)
			parentID = id
			nextID++
		}

		detailRows, err := readRows(filepath.Join(dir, detailsFile))
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", category, detailsFile, err)
		}
		if detailRows == nil {
			continue
		}
		if parentID == "" {
			b.logger.Warn("details without a parent, skipping", zap.String("category", category))
			continue
		}
		if len(detailRows) == 0 {
			b.logger.Warn("empty details file", zap.String("category", category))
			continue
		}
		for _, row := range detailRows {
			tags := row.Get(csvload.ColTags)
			if !strings.HasPrefix(tags, category) {
				tags = strings.TrimSuffix(category+","+tags, ",")
			}
			rec, err := newRecord(row, strconv.Itoa(nextID), parentID, tags, domknow.ChunkChild)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", category, detailsFile, err)
			}
			out = append(out, rec)
			nextID++
		}

		b.logger.Debug("category built",
			zap.String("category", category),
			zap.Int("base", len(baseRows)),
			zap.Int("details", len(detailRows)),
		)
	}
	return out, nil
}

// BuildFile builds the records and writes them to out.
func (b *Builder) BuildFile(out string) (int, error) {
	records, err := b.Build()
	if err != nil {
		return 0, err
	}

	f, err := os.Create(out)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", out, err)
	}
	if err := csvload.Write(f, records); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", out, err)
	}
	return len(records), nil
}

// readRows returns nil, nil when path does not exist.
func readRows(path string) ([]csvload.Row, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csvload.ReadTable(f, csvload.ColQuestion, csvload.ColAnswer)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []csvload.Row{}
	}
	return rows, nil
}

func newRecord(row csvload.Row, id, parentID, tags string, ct domknow.ChunkType) (domknow.Record, error) {
	rec, err := domknow.New(domknow.Fields{
		ID:        id,
		Question:  row.Get(csvload.ColQuestion),
		Answer:    row.Get(csvload.ColAnswer),
		ParentID:  parentID,
		Tags:      domknow.SplitTags(tags),
		Priority:  row.Get(csvload.ColPriority),
		Purpose:   row.Get(csvload.ColPurpose),
		ChunkType: string(ct),
	})
	if err != nil {
		return domknow.Record{}, &csvload.RowError{Line: row.Line, Err: err}
	}
	return rec, nil
}
