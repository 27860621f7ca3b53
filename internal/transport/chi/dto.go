package chi

import (
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	chatuc "github.com/kailas-cloud/supportqa/internal/usecase/chat"
)

// ErrorCode is a machine-readable error kind returned to clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeParseError       ErrorCode = "parse_error"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeNoKnowledge      ErrorCode = "no_knowledge"
	CodePayloadTooLarge  ErrorCode = "payload_too_large"
	CodeRateLimited      ErrorCode = "rate_limited"
	CodeUpstreamError    ErrorCode = "upstream_error"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query string `json:"query"`
}

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

// Source is a knowledge record the answer was built from.
type Source struct {
	PageContent string         `json:"pageContent"`
	Metadata    SourceMetadata `json:"metadata"`
}

// ChatResponse is the body of a successful POST /chat.
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

// DocumentsResponse is the body of GET /documents.
type DocumentsResponse struct {
	Documents []Document `json:"documents"`
}

// DeleteDocumentsResponse is the body of DELETE /documents.
type DeleteDocumentsResponse struct {
	Deleted int `json:"deleted"`
}

// UploadResponse is the body of a successful POST /upload-knowledge.
type UploadResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RecordCount int    `json:"recordCount"`
	UploadID    string `json:"uploadId"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func sourceFromRecord(r domknow.Record) Source {
	return Source{
		PageContent: r.Content(),
		Metadata: SourceMetadata{
			ID:        r.ID(),
			Question:  r.Question(),
			Tags:      tagsOrEmpty(r.Tags()),
			ParentID:  r.ParentID(),
			ChunkType: string(r.ChunkType()),
			Priority:  r.Priority(),
			Purpose:   r.Purpose(),
		},
	}
}

func documentFromRecord(r domknow.Record) Document {
	return Document{
		ID:        r.ID(),
		Question:  r.Question(),
		Answer:    r.Answer(),
		Tags:      tagsOrEmpty(r.Tags()),
		ParentID:  r.ParentID(),
		ChunkType: string(r.ChunkType()),
		Priority:  r.Priority(),
		Purpose:   r.Purpose(),
	}
}

func chatResponseFromAnswer(a chatuc.Answer) ChatResponse {
	sources := make([]Source, len(a.Sources))
	for i, r := range a.Sources {
		sources[i] = sourceFromRecord(r)
	}
	related := a.RelatedQuestions
	if related == nil {
		related = []string{}
	}
	return ChatResponse{
		Answer:           a.Text,
		Sources:          sources,
		RelatedQuestions: related,
		Context:          string(a.Context),
	}
}
