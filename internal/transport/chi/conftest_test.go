package chi

import (
	"context"
	"io"
	"testing"

	"go.uber.org/zap"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	chatuc "github.com/kailas-cloud/supportqa/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/supportqa/internal/usecase/health"
	knowledgeuc "github.com/kailas-cloud/supportqa/internal/usecase/knowledge"
)

type mockChat struct {
	askFn func(ctx context.Context, query string) (chatuc.Answer, error)
}

func (m *mockChat) Ask(ctx context.Context, query string) (chatuc.Answer, error) {
	return m.askFn(ctx, query)
}

type mockKnowledge struct {
	listFn   func(ctx context.Context) ([]domknow.Record, error)
	uploadFn func(ctx context.Context, filename string, r io.Reader) (knowledgeuc.UploadResult, error)
	deleteFn func(ctx context.Context, f domknow.Filter) (int, error)
}

func (m *mockKnowledge) List(ctx context.Context) ([]domknow.Record, error) {
	return m.listFn(ctx)
}

func (m *mockKnowledge) Upload(ctx context.Context, filename string, r io.Reader) (knowledgeuc.UploadResult, error) {
	return m.uploadFn(ctx, filename, r)
}

func (m *mockKnowledge) Delete(ctx context.Context, f domknow.Filter) (int, error) {
	return m.deleteFn(ctx, f)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func rec(t *testing.T, id, question, answer string, tags ...string) domknow.Record {
	t.Helper()
	r, err := domknow.New(domknow.Fields{ID: id, Question: question, Answer: answer, Tags: tags})
	if err != nil {
		t.Fatalf("record %s: %v", id, err)
	}
	return r
}

// newTestServer wires the given mocks behind the full middleware stack without auth.
func newTestServer(chat ChatService, know KnowledgeService, health HealthService) *Server {
	if chat == nil {
		chat = &mockChat{}
	}
	if know == nil {
		know = &mockKnowledge{}
	}
	if health == nil {
		health = &mockHealth{}
	}
	return NewServer(chat, know, health, 1, zap.NewNop())
}
