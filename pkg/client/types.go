package client

// SourceMetadata carries the stored record fields of a source.
type SourceMetadata struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Tags      []string `json:"tags"`
	ParentID  string   `json:"parentId,omitempty"`
	ChunkType string   `json:"chunkType"`
	Priority  string   `json:"priority,omitempty"`
	Purpose   string   `json:"purpose,omitempty"`
}

// Source is a knowledge record an answer was built from.
type Source struct {
	PageContent string         `json:"pageContent"`
	Metadata    SourceMetadata `json:"metadata"`
}

// ChatResponse is the answer to a support question.
type ChatResponse struct {
	Answer           string   `json:"answer"`
	Sources          []Source `json:"sources"`
	RelatedQuestions []string `json:"relatedQuestions"`
	Context          string   `json:"context"`
}

// Document is a stored knowledge record.
type Document struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Tags      []string `json:"tags"`
	ParentID  string   `json:"parentId,omitempty"`
	ChunkType string   `json:"chunkType"`
	Priority  string   `json:"priority,omitempty"`
	Purpose   string   `json:"purpose,omitempty"`
}

// UploadResult describes an accepted knowledge upload.
type UploadResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RecordCount int    `json:"recordCount"`
	UploadID    string `json:"uploadId"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}
