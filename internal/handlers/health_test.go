package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"rne-assistant/internal/corpus"
	"rne-assistant/internal/handlers"
	vsmocks "rne-assistant/internal/vectorstore/mocks"
)

func testCorpus(n int) *corpus.Store {
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = corpus.Document{ID: string(rune('A'+i)) + "_fr", Language: "fr"}
	}
	return corpus.NewStore(docs)
}

func getHealth(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthHandlerHealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)
	vectorStore.EXPECT().Count(gomock.Any(), "rne_documents").Return(292, nil)

	handler := handlers.NewHealthHandler(vectorStore, testCorpus(3), "rne_documents")
	rec := getHealth(t, handler)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp handlers.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Checks["corpus"] != "ok" || resp.Checks["vector_store"] != "ok" {
		t.Errorf("checks = %v", resp.Checks)
	}
	if len(resp.Issues) != 0 {
		t.Errorf("issues = %v, want none", resp.Issues)
	}
}

func TestHealthHandlerUnhealthy(t *testing.T) {
	tests := []struct {
		name      string
		corpusLen int
		count     int
		countErr  error
		wantIssue string
	}{
		{
			name:      "empty corpus",
			corpusLen: 0,
			count:     292,
			wantIssue: "corpus_empty",
		},
		{
			name:      "empty collection",
			corpusLen: 3,
			count:     0,
			wantIssue: "vector_store_unavailable",
		},
		{
			name:      "vector store unreachable",
			corpusLen: 3,
			countErr:  errors.New("connection refused"),
			wantIssue: "vector_store_unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			vectorStore := vsmocks.NewMockVectorStore(ctrl)
			vectorStore.EXPECT().Count(gomock.Any(), "rne_documents").Return(tt.count, tt.countErr)

			handler := handlers.NewHealthHandler(vectorStore, testCorpus(tt.corpusLen), "rne_documents")
			rec := getHealth(t, handler)

			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want 503", rec.Code)
			}

			var resp handlers.HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != "unhealthy" {
				t.Errorf("status = %q, want unhealthy", resp.Status)
			}

			found := false
			for _, issue := range resp.Issues {
				if issue == tt.wantIssue {
					found = true
				}
			}
			if !found {
				t.Errorf("issues = %v, want %q", resp.Issues, tt.wantIssue)
			}
		})
	}
}

func TestHealthHandlerMethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)

	handler := handlers.NewHealthHandler(vectorStore, testCorpus(1), "rne_documents")

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
