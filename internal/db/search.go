package db

// TagFilter restricts a query to documents whose TAG field holds Value.
type TagFilter struct {
	Field string
	Value string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string // defaults to "__vector"
	Filters      []TagFilter
	Vector       []float32
	K            int
	ReturnFields []string
}

// ListQuery is the input for a paginated filter-only search.
type ListQuery struct {
	IndexName    string
	Filters      []TagFilter
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
