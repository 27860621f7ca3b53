package knowledge

import (
	"encoding/binary"
	"math"
	"strings"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
)

// Hash field names. tags, chunk_type and parent_id are TAG fields in the index.
const (
	fieldQuestion  = "question"
	fieldAnswer    = "answer"
	fieldParentID  = "parent_id"
	fieldTags      = "tags"
	fieldPriority  = "priority"
	fieldPurpose   = "purpose"
	fieldChunkType = "chunk_type"
	fieldVector    = "__vector"

	tagSeparator = ","
)

// returnFields is everything but the vector.
var returnFields = []string{
	fieldQuestion, fieldAnswer, fieldParentID, fieldTags, fieldPriority, fieldPurpose, fieldChunkType,
}

// buildHashFields converts a record and its embedding into a flat map for HSET.
func buildHashFields(rec *domknow.Record, vector []float32) map[string]string {
	return map[string]string{
		fieldQuestion:  rec.Question(),
		fieldAnswer:    rec.Answer(),
		fieldParentID:  rec.ParentID(),
		fieldTags:      strings.Join(rec.Tags(), tagSeparator),
		fieldPriority:  rec.Priority(),
		fieldPurpose:   rec.Purpose(),
		fieldChunkType: string(rec.ChunkType()),
		fieldVector:    vectorToBytes(vector),
	}
}

// parseHashFields converts a flat hash map back into a record.
func parseHashFields(id string, m map[string]string) domknow.Record {
	var tags []string
	if raw := m[fieldTags]; raw != "" {
		tags = strings.Split(raw, tagSeparator)
	}
	ct := domknow.ChunkType(m[fieldChunkType])
	if ct == "" {
		ct = domknow.ChunkParent
	}
	return domknow.Reconstruct(
		id, m[fieldQuestion], m[fieldAnswer], m[fieldParentID], tags,
		m[fieldPriority], m[fieldPurpose], ct,
	)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
