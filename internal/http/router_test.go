package http_test

import (
	"bytes"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"rne-assistant/internal/corpus"
	apphttp "rne-assistant/internal/http"
	"rne-assistant/internal/service"
	svcmocks "rne-assistant/internal/service/mocks"
	vsmocks "rne-assistant/internal/vectorstore/mocks"
)

func newTestRouter(t *testing.T) (nethttp.Handler, *svcmocks.MockChatService, *vsmocks.MockVectorStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	chatService := svcmocks.NewMockChatService(ctrl)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)

	router := apphttp.NewRouter(&apphttp.Deps{
		ChatService:    chatService,
		VectorStore:    vectorStore,
		Corpus:         corpus.NewStore([]corpus.Document{{ID: "A_fr", Language: "fr"}}),
		CollectionName: "rne_documents",
	})
	return router, chatService, vectorStore
}

func TestRouterRoutes(t *testing.T) {
	router, chatService, vectorStore := newTestRouter(t)

	chatService.EXPECT().
		ProcessTurn(gomock.Any(), gomock.Any()).
		Return(service.TurnResponse{Type: service.TypeDirectAnswer, Language: "fr", Text: "Réponse."}, nil)
	vectorStore.EXPECT().
		Count(gomock.Any(), "rne_documents").
		Return(10, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "chat",
			method:     nethttp.MethodPost,
			path:       "/api/chat",
			body:       `{"message":"Quels documents?","session_id":"s1"}`,
			wantStatus: nethttp.StatusOK,
		},
		{
			name:       "health",
			method:     nethttp.MethodGet,
			path:       "/api/health",
			wantStatus: nethttp.StatusOK,
		},
		{
			name:       "unknown path",
			method:     nethttp.MethodGet,
			path:       "/api/unknown",
			wantStatus: nethttp.StatusNotFound,
		},
		{
			name:       "chat with wrong method",
			method:     nethttp.MethodGet,
			path:       "/api/chat",
			wantStatus: nethttp.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouterAppliesCORS(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://registre.example.tn")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://registre.example.tn" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
