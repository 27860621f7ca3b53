package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/supportqa/internal/domain"
	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
	"github.com/kailas-cloud/supportqa/internal/ingest/csvload"
	chatuc "github.com/kailas-cloud/supportqa/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/supportqa/internal/usecase/health"
	knowledgeuc "github.com/kailas-cloud/supportqa/internal/usecase/knowledge"
)

func serve(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	NewRouter(s, nil, zap.NewNop()).ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestChat_Success(t *testing.T) {
	chat := &mockChat{askFn: func(ctx context.Context, query string) (chatuc.Answer, error) {
		if query != "予約方法は？" {
			t.Errorf("query: got %q", query)
		}
		domain.UsageFromContext(ctx).AddTokens(12)
		return chatuc.Answer{
			Text:             "回答です",
			Sources:          []domknow.Record{rec(t, "1", "予約方法", "Webから予約", "予約")},
			RelatedQuestions: []string{"キャンセルは？"},
			Context:          searchctx.Default,
		}, nil
	}}
	s := newTestServer(chat, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"予約方法は？"}`))
	rr := serve(t, s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Embedding-Tokens"); got != "12" {
		t.Errorf("X-Embedding-Tokens: got %q, want 12", got)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	var resp ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "回答です" || resp.Context != "default" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Metadata.ID != "1" {
		t.Fatalf("sources: %+v", resp.Sources)
	}
	if resp.Sources[0].PageContent != "質問: 予約方法\n回答: Webから予約" {
		t.Errorf("pageContent: got %q", resp.Sources[0].PageContent)
	}
	if len(resp.RelatedQuestions) != 1 || resp.RelatedQuestions[0] != "キャンセルは？" {
		t.Errorf("relatedQuestions: %v", resp.RelatedQuestions)
	}
}

func TestChat_EmptyRelatedIsArray(t *testing.T) {
	chat := &mockChat{askFn: func(context.Context, string) (chatuc.Answer, error) {
		return chatuc.Answer{Text: "a", Context: searchctx.Other}, nil
	}}
	rr := serve(t, newTestServer(chat, nil, nil),
		httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"q"}`)))

	if !strings.Contains(rr.Body.String(), `"relatedQuestions":[]`) {
		t.Errorf("expected empty array, got %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"sources":[]`) {
		t.Errorf("expected empty sources, got %s", rr.Body.String())
	}
	if rr.Header().Get("X-Embedding-Tokens") != "" {
		t.Error("no embedding header expected when embedding was not used")
	}
}

func TestChat_InvalidBody(t *testing.T) {
	rr := serve(t, newTestServer(nil, nil, nil),
		httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeBadRequest {
		t.Errorf("code: got %s", resp.Code)
	}
}

func TestChat_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
		wantMsg    string
	}{
		{"validation", fmt.Errorf("query is required: %w", domain.ErrValidation),
			http.StatusBadRequest, CodeValidationFailed, "query is required: validation failed"},
		{"no knowledge", fmt.Errorf("search: %w", domain.ErrNoKnowledge),
			http.StatusNotFound, CodeNoKnowledge, "knowledge base is empty"},
		{"rate limited", fmt.Errorf("generate answer: %w",
			errors.Join(domain.ErrGenerationProviderError, domain.ErrRateLimited)),
			http.StatusTooManyRequests, CodeRateLimited, "rate limited"},
		{"embedding upstream", fmt.Errorf("embed: secret detail: %w", domain.ErrEmbeddingProviderError),
			http.StatusBadGateway, CodeUpstreamError, "embedding provider error"},
		{"generation upstream", fmt.Errorf("generate: %w", domain.ErrGenerationProviderError),
			http.StatusBadGateway, CodeUpstreamError, "generation provider error"},
		{"internal", errors.New("redis down at 10.0.0.1"),
			http.StatusInternalServerError, CodeInternalError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &mockChat{askFn: func(context.Context, string) (chatuc.Answer, error) {
				return chatuc.Answer{}, tt.err
			}}
			rr := serve(t, newTestServer(chat, nil, nil),
				httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"q"}`)))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.wantCode {
				t.Errorf("code: got %s, want %s", resp.Code, tt.wantCode)
			}
			if resp.Error != tt.wantMsg {
				t.Errorf("message: got %q, want %q", resp.Error, tt.wantMsg)
			}
		})
	}
}

func TestListDocuments(t *testing.T) {
	know := &mockKnowledge{listFn: func(context.Context) ([]domknow.Record, error) {
		return []domknow.Record{
			rec(t, "1", "q1", "a1", "予約"),
			rec(t, "2", "q2", "a2"),
		}, nil
	}}
	rr := serve(t, newTestServer(nil, know, nil), httptest.NewRequest(http.MethodGet, "/documents", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp DocumentsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("documents: got %d", len(resp.Documents))
	}
	if resp.Documents[0].Answer != "a1" || resp.Documents[0].Tags[0] != "予約" {
		t.Errorf("document 0: %+v", resp.Documents[0])
	}
	if resp.Documents[1].Tags == nil || resp.Documents[1].ChunkType != "parent" {
		t.Errorf("document 1: %+v", resp.Documents[1])
	}
}

func TestDeleteDocuments(t *testing.T) {
	know := &mockKnowledge{deleteFn: func(_ context.Context, f domknow.Filter) (int, error) {
		if f.ChunkType != domknow.ChunkChild || f.ParentID != "3" {
			t.Errorf("filter: %+v", f)
		}
		return 4, nil
	}}
	rr := serve(t, newTestServer(nil, know, nil),
		httptest.NewRequest(http.MethodDelete, "/documents?chunk_type=child&parent_id=3", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var resp DeleteDocumentsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Deleted != 4 {
		t.Errorf("deleted: got %d", resp.Deleted)
	}
}

func TestDeleteDocuments_BadChunkType(t *testing.T) {
	rr := serve(t, newTestServer(nil, nil, nil),
		httptest.NewRequest(http.MethodDelete, "/documents?chunk_type=grandchild", http.NoBody))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rr.Code)
	}
}

func TestUploadKnowledge_Success(t *testing.T) {
	know := &mockKnowledge{uploadFn: func(_ context.Context, filename string, r io.Reader) (knowledgeuc.UploadResult, error) {
		if filename != "faq.csv" {
			t.Errorf("filename: got %q", filename)
		}
		data, _ := io.ReadAll(r)
		if !strings.HasPrefix(string(data), "id,question") {
			t.Errorf("content: got %q", data)
		}
		return knowledgeuc.UploadResult{UploadID: "u-1", RecordCount: 2}, nil
	}}
	body, ct := multipartBody(t, "file", "faq.csv", "id,question,answer,tags\n")
	req := httptest.NewRequest(http.MethodPost, "/upload-knowledge", body)
	req.Header.Set("Content-Type", ct)

	rr := serve(t, newTestServer(nil, know, nil), req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var resp UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.RecordCount != 2 || resp.UploadID != "u-1" || resp.Message != uploadMessage {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestUploadKnowledge_ParseError(t *testing.T) {
	know := &mockKnowledge{uploadFn: func(context.Context, string, io.Reader) (knowledgeuc.UploadResult, error) {
		return knowledgeuc.UploadResult{}, fmt.Errorf("parse faq.csv: %w", &csvload.RowError{Line: 3, Err: errors.New("answer is required")})
	}}
	body, ct := multipartBody(t, "file", "faq.csv", "x")
	req := httptest.NewRequest(http.MethodPost, "/upload-knowledge", body)
	req.Header.Set("Content-Type", ct)

	rr := serve(t, newTestServer(nil, know, nil), req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeError(t, rr)
	if resp.Code != CodeParseError {
		t.Errorf("code: got %s", resp.Code)
	}
	if !strings.Contains(resp.Error, "line 3") {
		t.Errorf("message should name the line: %q", resp.Error)
	}
}

func TestUploadKnowledge_InvalidRowIsParseError(t *testing.T) {
	know := &mockKnowledge{uploadFn: func(context.Context, string, io.Reader) (knowledgeuc.UploadResult, error) {
		cause := fmt.Errorf("record row-2: answer is required: %w", domain.ErrValidation)
		return knowledgeuc.UploadResult{}, fmt.Errorf("parse faq.csv: %w", &csvload.RowError{Line: 2, Err: cause})
	}}
	body, ct := multipartBody(t, "file", "faq.csv", "x")
	req := httptest.NewRequest(http.MethodPost, "/upload-knowledge", body)
	req.Header.Set("Content-Type", ct)

	rr := serve(t, newTestServer(nil, know, nil), req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeParseError {
		t.Errorf("code: got %s, want %s", resp.Code, CodeParseError)
	}
}

func TestUploadKnowledge_MissingFile(t *testing.T) {
	body, ct := multipartBody(t, "other", "faq.csv", "x")
	req := httptest.NewRequest(http.MethodPost, "/upload-knowledge", body)
	req.Header.Set("Content-Type", ct)

	rr := serve(t, newTestServer(nil, nil, nil), req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeValidationFailed {
		t.Errorf("code: got %s", resp.Code)
	}
}

func TestUploadKnowledge_TooLarge(t *testing.T) {
	body, ct := multipartBody(t, "file", "faq.csv", strings.Repeat("a", 2<<20))
	req := httptest.NewRequest(http.MethodPost, "/upload-knowledge", body)
	req.Header.Set("Content-Type", ct)

	rr := serve(t, newTestServer(nil, nil, nil), req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodePayloadTooLarge {
		t.Errorf("code: got %s", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		report     healthuc.Report
		wantStatus int
	}{
		{"healthy", healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{
			healthuc.ComponentDatabase: healthuc.CheckOK,
		}}, http.StatusOK},
		{"degraded", healthuc.Report{Status: healthuc.Degraded, Checks: map[string]healthuc.CheckResult{
			healthuc.ComponentDatabase:   healthuc.CheckOK,
			healthuc.ComponentGeneration: healthuc.CheckError,
		}}, http.StatusServiceUnavailable},
		{"unhealthy", healthuc.Report{Status: healthuc.Unhealthy, Checks: map[string]healthuc.CheckResult{
			healthuc.ComponentDatabase: healthuc.CheckError,
		}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(nil, nil, &mockHealth{report: tt.report})
			rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != string(tt.report.Status) {
				t.Errorf("status field: got %q", resp.Status)
			}
			if len(resp.Checks) != len(tt.report.Checks) {
				t.Errorf("checks: got %v", resp.Checks)
			}
		})
	}
}

func TestRouter_AuthAndExemptions(t *testing.T) {
	s := newTestServer(nil, nil, &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}})
	h := NewRouter(s, []string{"secret"}, zap.NewNop())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/documents", http.NoBody))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("documents without token: got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Errorf("health without token: got %d", rr.Code)
	}
}

func TestRouter_NotFound(t *testing.T) {
	rr := serve(t, newTestServer(nil, nil, nil), httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeNotFound {
		t.Errorf("code: got %s", resp.Code)
	}
}

func TestRouter_RecoversPanic(t *testing.T) {
	chat := &mockChat{askFn: func(context.Context, string) (chatuc.Answer, error) {
		panic("boom")
	}}
	rr := serve(t, newTestServer(chat, nil, nil),
		httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"q"}`)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != CodeInternalError {
		t.Errorf("code: got %s", resp.Code)
	}
}
