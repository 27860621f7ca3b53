package csvload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
)

// Column names of the knowledge CSV.
const (
	ColID        = "id"
	ColQuestion  = "question"
	ColAnswer    = "answer"
	ColParentID  = "parent_id"
	ColTags      = "tags"
	ColPriority  = "priority"
	ColPurpose   = "purpose"
	ColChunkType = "chunk_type"
)

// Header is the canonical column order written by Write.
var Header = []string{ColID, ColQuestion, ColAnswer, ColParentID, ColTags, ColPriority, ColPurpose, ColChunkType}

// Parse reads knowledge records. The first malformed row aborts the whole read
// with a *RowError; nothing is returned for the rows before it.
func Parse(r io.Reader) ([]domknow.Record, error) {
	rows, err := ReadTable(r, ColQuestion, ColAnswer, ColTags)
	if err != nil {
		return nil, err
	}

	records := make([]domknow.Record, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		id := row.Get(ColID)
		if id == "" {
			id = "row-" + strconv.Itoa(i+1)
		}
		if prev, dup := seen[id]; dup {
			return nil, &RowError{Line: row.Line, Err: fmt.Errorf("duplicate id %q (first on line %d)", id, prev)}
		}
		seen[id] = row.Line

		rec, err := domknow.New(domknow.Fields{
			ID:        id,
			Question:  row.Get(ColQuestion),
			Answer:    row.Get(ColAnswer),
			ParentID:  row.Get(ColParentID),
			Tags:      domknow.SplitTags(row.Get(ColTags)),
			Priority:  row.Get(ColPriority),
			Purpose:   row.Get(ColPurpose),
			ChunkType: row.Get(ColChunkType),
		})
		if err != nil {
			return nil, &RowError{Line: row.Line, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) ([]domknow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// Write emits records in the canonical format. Answer newlines are escaped as `\n`
// so that Parse(Write(x)) restores the same answers.
func Write(w io.Writer, records []domknow.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		r := &records[i]
		row := []string{
			r.ID(),
			r.Question(),
			strings.ReplaceAll(r.Answer(), "\n", `\n`),
			r.ParentID(),
			strings.Join(r.Tags(), ","),
			r.Priority(),
			r.Purpose(),
			string(r.ChunkType()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
