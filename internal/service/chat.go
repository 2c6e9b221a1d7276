package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retriever.go -package=mocks rne-assistant/internal/service Retriever
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_generator.go -package=mocks rne-assistant/internal/service Generator
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService rne-assistant/internal/service ChatService

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"rne-assistant/internal/answer"
	"rne-assistant/internal/contextutil"
	"rne-assistant/internal/dialogue"
	"rne-assistant/internal/lang"
	"rne-assistant/internal/llm"
	"rne-assistant/internal/retrieval"
)

// Response type discriminators, mirrored verbatim on the wire.
const (
	TypeDirectAnswer        = "direct_answer"
	TypeClarificationNeeded = "clarification_needed"
)

// Retriever ranks corpus documents for a turn's sub-questions.
// This interface is defined from the service layer's perspective (consumer-first).
type Retriever interface {
	Retrieve(ctx context.Context, subQuestions []string, language string) ([]retrieval.Result, error)
}

// Generator produces a grounded answer from the formatted retrieval context.
type Generator interface {
	GenerateAnswer(ctx context.Context, language, contextText, question string) (string, error)
}

// TurnRequest represents one user turn in the domain layer.
type TurnRequest struct {
	Message   string `validate:"required"`
	Language  string
	SessionID string `validate:"required"`
}

// TurnResponse is either a direct answer (Text plus References) or a
// clarification request (MainResponse, FollowUpQuestion, Options), selected
// by Type.
type TurnResponse struct {
	Type             string
	Language         string
	Text             string
	References       []answer.Reference
	MainResponse     string
	FollowUpQuestion string
	Options          []string
}

// ChatService processes chat turns.
type ChatService interface {
	// ProcessTurn runs one turn through the full pipeline: language
	// detection, pending-clarification resolution, segmentation, retrieval,
	// ambiguity evaluation and answer generation.
	ProcessTurn(ctx context.Context, req TurnRequest) (TurnResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	processor  *lang.Processor
	retriever  Retriever
	generator  Generator
	controller *dialogue.Controller
	sessions   dialogue.SessionStore
	validate   *validator.Validate
}

// NewChatService creates a new ChatService.
func NewChatService(processor *lang.Processor, retriever Retriever, generator Generator, controller *dialogue.Controller, sessions dialogue.SessionStore) ChatService {
	return &chatService{
		processor:  processor,
		retriever:  retriever,
		generator:  generator,
		controller: controller,
		sessions:   sessions,
		validate:   validator.New(),
	}
}

// ProcessTurn processes one user turn.
func (s *chatService) ProcessTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Message = strings.TrimSpace(req.Message)
	if err := s.validate.Struct(req); err != nil {
		logger.WarnContext(ctx, "invalid turn request", "error", err)
		return TurnResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	// The corpus holds only French and Arabic documents, so both the client
	// hint and the detected language normalize to one of those.
	language := req.Language
	if language == "" {
		language = s.processor.Detect(req.Message)
	}
	language = lang.Supported(language)

	pending, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return TurnResponse{}, WrapError(err, "failed to load session state")
	}

	if pending != nil {
		option, matched := s.controller.Resolve(pending, req.Message)

		// The pending round is consumed either way: resolved, or superseded
		// by a new query.
		if err := s.sessions.Clear(ctx, req.SessionID); err != nil {
			return TurnResponse{}, WrapError(err, "failed to clear session state")
		}

		if matched {
			// A bare option reply carries no language signal of its own, so
			// the original question's language wins over detection.
			if pending.Language != "" {
				language = pending.Language
			}
			logger.InfoContext(ctx, "clarification resolved", "session_id", req.SessionID, "option", option.Label)
			return s.answerDirect(ctx, []string{option.RefinedQuery}, option.RefinedQuery, language)
		}
		logger.InfoContext(ctx, "pending clarification superseded by new query", "session_id", req.SessionID)
	}

	subQuestions := lang.SegmentQuestions(req.Message)

	// A multi-question turn always answers directly: a clarification round
	// could not attribute the user's choice back to one sub-question.
	if len(subQuestions) == 1 {
		results, err := s.retriever.Retrieve(ctx, subQuestions, language)
		if err != nil {
			return s.retrievalFailure(ctx, err, language)
		}

		if clarification := s.controller.Evaluate(req.Message, results, language); clarification != nil {
			if err := s.sessions.Put(ctx, req.SessionID, &dialogue.PendingClarification{
				OriginalQuery: req.Message,
				Language:      language,
				Options:       clarification.Options,
			}); err != nil {
				return TurnResponse{}, WrapError(err, "failed to store session state")
			}

			labels := make([]string, 0, len(clarification.Options))
			for _, opt := range clarification.Options {
				labels = append(labels, opt.Label)
			}

			logger.InfoContext(ctx, "clarification requested", "session_id", req.SessionID, "options", len(labels))
			return TurnResponse{
				Type:             TypeClarificationNeeded,
				Language:         language,
				MainResponse:     clarification.MainResponse,
				FollowUpQuestion: clarification.FollowUpQuestion,
				Options:          labels,
			}, nil
		}

		return s.generateDirect(ctx, results, req.Message, language)
	}

	return s.answerDirect(ctx, subQuestions, req.Message, language)
}

// answerDirect retrieves for the given sub-questions and generates a direct
// answer, bypassing ambiguity evaluation.
func (s *chatService) answerDirect(ctx context.Context, subQuestions []string, question, language string) (TurnResponse, error) {
	results, err := s.retriever.Retrieve(ctx, subQuestions, language)
	if err != nil {
		return s.retrievalFailure(ctx, err, language)
	}
	return s.generateDirect(ctx, results, question, language)
}

// generateDirect assembles the context block and calls the generation
// provider. An empty block skips the provider entirely; a provider failure
// degrades to the localized apology.
func (s *chatService) generateDirect(ctx context.Context, results []retrieval.Result, question, language string) (TurnResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	block := answer.Assemble(results, language)
	if block.Empty {
		logger.InfoContext(ctx, "no corpus match, skipping generation", "language", language)
		return TurnResponse{
			Type:     TypeDirectAnswer,
			Language: language,
			Text:     answer.NoResultsResponse(language),
		}, nil
	}

	reply, err := s.generator.GenerateAnswer(ctx, language, block.Text, question)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			logger.ErrorContext(ctx, "generation provider unavailable", "error", err)
			return TurnResponse{
				Type:     TypeDirectAnswer,
				Language: language,
				Text:     answer.ApologyResponse(language),
			}, nil
		}
		return TurnResponse{}, ExternalError(err, "failed to generate answer")
	}

	refs := answer.References(results)
	logger.InfoContext(ctx, "turn processed", "language", language, "documents_found", len(results), "references", len(refs))
	return TurnResponse{
		Type:       TypeDirectAnswer,
		Language:   language,
		Text:       answer.AppendReferences(reply, refs, language),
		References: refs,
	}, nil
}

// retrievalFailure maps a retrieval error: provider exhaustion degrades to
// the localized apology, anything else propagates.
func (s *chatService) retrievalFailure(ctx context.Context, err error, language string) (TurnResponse, error) {
	if errors.Is(err, llm.ErrUnavailable) {
		logger := contextutil.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "embedding provider unavailable", "error", err)
		return TurnResponse{
			Type:     TypeDirectAnswer,
			Language: language,
			Text:     answer.ApologyResponse(language),
		}, nil
	}
	return TurnResponse{}, ExternalError(err, "retrieval failed")
}
