package knowledge

// Hit is a single similarity-search result: a record and its cosine similarity.
type Hit struct {
	Record Record
	Score  float64
}

// Records extracts the records from hits, preserving order.
func Records(hits []Hit) []Record {
	out := make([]Record, len(hits))
	for i := range hits {
		out[i] = hits[i].Record
	}
	return out
}

// Filter selects records by hierarchy attributes. Zero fields match anything.
type Filter struct {
	ChunkType ChunkType
	ParentID  string
}

// IsEmpty reports whether the filter would match every record.
func (f Filter) IsEmpty() bool {
	return f.ChunkType == "" && f.ParentID == ""
}
