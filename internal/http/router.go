package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rne-assistant/internal/corpus"
	"rne-assistant/internal/handlers"
	"rne-assistant/internal/service"
	"rne-assistant/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService    service.ChatService
	VectorStore    vectorstore.VectorStore
	Corpus         *corpus.Store
	CollectionName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Corpus, deps.CollectionName)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
