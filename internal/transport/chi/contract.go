package chi

import (
	"context"
	"io"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	chatuc "github.com/kailas-cloud/supportqa/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/supportqa/internal/usecase/health"
	knowledgeuc "github.com/kailas-cloud/supportqa/internal/usecase/knowledge"
)

// ChatService answers user questions.
type ChatService interface {
	Ask(ctx context.Context, query string) (chatuc.Answer, error)
}

// KnowledgeService manages the stored knowledge base.
type KnowledgeService interface {
	List(ctx context.Context) ([]domknow.Record, error)
	Upload(ctx context.Context, filename string, r io.Reader) (knowledgeuc.UploadResult, error)
	Delete(ctx context.Context, f domknow.Filter) (int, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
