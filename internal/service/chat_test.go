package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"rne-assistant/internal/answer"
	"rne-assistant/internal/corpus"
	"rne-assistant/internal/dialogue"
	"rne-assistant/internal/lang"
	"rne-assistant/internal/llm"
	"rne-assistant/internal/retrieval"
	"rne-assistant/internal/service"
	"rne-assistant/internal/service/mocks"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testContext() context.Context {
	return context.Background()
}

func newTestService(t *testing.T) (service.ChatService, *mocks.MockRetriever, *mocks.MockGenerator, dialogue.SessionStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	retriever := mocks.NewMockRetriever(ctrl)
	generator := mocks.NewMockGenerator(ctrl)
	sessions := dialogue.NewMemoryStore()

	processor := lang.NewProcessor(lang.NewDetector(), lang.BuiltinFilter{})
	controller := dialogue.NewController(0.1)

	svc := service.NewChatService(processor, retriever, generator, controller, sessions)
	return svc, retriever, generator, sessions
}

func singleGroupResults() []retrieval.Result {
	return []retrieval.Result{
		{
			Document: &corpus.Document{
				ID: "A_fr", Code: "M 004.37", Language: "fr",
				EntrepriseType: "SARL", Procedure: "Immatriculation",
				PDFLink: "https://example.tn/a.pdf",
				Extras:  []corpus.Extra{{Key: "Frais", Value: "10 DT"}},
			},
			FusedScore: 0.9,
		},
	}
}

func twoGroupResults() []retrieval.Result {
	return []retrieval.Result{
		{
			Document: &corpus.Document{
				ID: "A_fr", Code: "A", Language: "fr",
				EntrepriseType: "SARL", Procedure: "Immatriculation",
				Extras: []corpus.Extra{{Key: "Frais", Value: "10 DT"}},
			},
			FusedScore: 0.91,
		},
		{
			Document: &corpus.Document{
				ID: "B_fr", Code: "B", Language: "fr",
				EntrepriseType: "SA", Procedure: "Immatriculation",
				Extras: []corpus.Extra{{Key: "Frais", Value: "25 DT"}},
			},
			FusedScore: 0.85,
		},
	}
}

func TestProcessTurnValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	for _, message := range []string{"", "   ", "\n\t"} {
		_, err := svc.ProcessTurn(testContext(), service.TurnRequest{Message: message, SessionID: "s1"})
		if err == nil {
			t.Errorf("ProcessTurn(%q) should fail validation", message)
			continue
		}
		var validationErr *service.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("ProcessTurn(%q) error = %v, want ValidationError", message, err)
		}
	}
}

func TestProcessTurnDirectAnswer(t *testing.T) {
	svc, retriever, generator, _ := newTestService(t)

	question := "Quels documents pour une SARL?"
	retriever.EXPECT().
		Retrieve(gomock.Any(), []string{question}, "fr").
		Return(singleGroupResults(), nil)
	generator.EXPECT().
		GenerateAnswer(gomock.Any(), "fr", gomock.Any(), question).
		Return("Les documents requis sont les statuts.", nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   question,
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}

	if resp.Type != service.TypeDirectAnswer {
		t.Errorf("Type = %q, want direct_answer", resp.Type)
	}
	if !strings.Contains(resp.Text, "Les documents requis sont les statuts.") {
		t.Errorf("Text = %q, want generated answer", resp.Text)
	}
	if !strings.Contains(resp.Text, "**Références:**") {
		t.Errorf("Text = %q, want appended references", resp.Text)
	}
	if len(resp.References) != 1 || resp.References[0].Code != "M 004.37" {
		t.Errorf("References = %+v", resp.References)
	}
}

func TestProcessTurnNoResultsSkipsGenerator(t *testing.T) {
	svc, retriever, _, _ := newTestService(t)

	// The generator mock has no expectations: calling it would fail the test.
	retriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), "fr").
		Return(nil, nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "Question sans correspondance?",
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Type != service.TypeDirectAnswer {
		t.Errorf("Type = %q, want direct_answer", resp.Type)
	}
	if resp.Text != answer.NoResultsResponse("fr") {
		t.Errorf("Text = %q, want the no-results response", resp.Text)
	}
	if len(resp.References) != 0 {
		t.Errorf("References = %+v, want none", resp.References)
	}
}

func TestProcessTurnGeneratorUnavailable(t *testing.T) {
	svc, retriever, generator, _ := newTestService(t)

	retriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), "fr").
		Return(singleGroupResults(), nil)
	generator.EXPECT().
		GenerateAnswer(gomock.Any(), "fr", gomock.Any(), gomock.Any()).
		Return("", llm.ErrUnavailable)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "Quels documents pour une SARL?",
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v, want graceful degradation", err)
	}
	if resp.Type != service.TypeDirectAnswer || resp.Text != answer.ApologyResponse("fr") {
		t.Errorf("ProcessTurn() = %+v, want apology direct answer", resp)
	}
}

func TestProcessTurnGeneratorFailureIsExternal(t *testing.T) {
	svc, retriever, generator, _ := newTestService(t)

	retriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), "fr").
		Return(singleGroupResults(), nil)
	generator.EXPECT().
		GenerateAnswer(gomock.Any(), "fr", gomock.Any(), gomock.Any()).
		Return("", errors.New("malformed completion payload"))

	_, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "Quels documents pour une SARL?",
		Language:  "fr",
		SessionID: "s1",
	})
	if err == nil {
		t.Fatal("ProcessTurn() should propagate non-transient generator failures")
	}
	if !errors.Is(err, service.ErrExternalService) {
		t.Errorf("ProcessTurn() error = %v, want ErrExternalService tag", err)
	}
}

func TestProcessTurnRetrieverFailureIsExternal(t *testing.T) {
	svc, retriever, _, _ := newTestService(t)

	retriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), "fr").
		Return(nil, errors.New("collection missing"))

	_, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "Quels documents pour une SARL?",
		Language:  "fr",
		SessionID: "s1",
	})
	if err == nil {
		t.Fatal("ProcessTurn() should propagate non-transient retrieval failures")
	}
	if !errors.Is(err, service.ErrExternalService) {
		t.Errorf("ProcessTurn() error = %v, want ErrExternalService tag", err)
	}
}

func TestProcessTurnRetrieverUnavailable(t *testing.T) {
	svc, retriever, _, _ := newTestService(t)

	retriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), "fr").
		Return(nil, llm.ErrUnavailable)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "Quels documents pour une SARL?",
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v, want graceful degradation", err)
	}
	if resp.Text != answer.ApologyResponse("fr") {
		t.Errorf("Text = %q, want apology", resp.Text)
	}
}

func TestProcessTurnClarificationRoundTrip(t *testing.T) {
	svc, retriever, generator, sessions := newTestService(t)

	question := "Quel est le coût?"

	// First turn: two close groups trigger a clarification.
	retriever.EXPECT().
		Retrieve(gomock.Any(), []string{question}, "fr").
		Return(twoGroupResults(), nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   question,
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Type != service.TypeClarificationNeeded {
		t.Fatalf("Type = %q, want clarification_needed", resp.Type)
	}
	if len(resp.Options) != 2 {
		t.Fatalf("Options = %v, want 2", resp.Options)
	}
	if resp.MainResponse == "" || resp.FollowUpQuestion == "" {
		t.Error("clarification response must carry dialogue texts")
	}

	pending, err := sessions.Get(testContext(), "s1")
	if err != nil || pending == nil {
		t.Fatalf("pending clarification not stored: %v", err)
	}

	// Second turn: the first option is selected by ordinal. Retrieval
	// re-runs with the refined query only, and the answer is direct.
	refined := pending.Options[0].RefinedQuery
	retriever.EXPECT().
		Retrieve(gomock.Any(), []string{refined}, "fr").
		Return(singleGroupResults(), nil)
	generator.EXPECT().
		GenerateAnswer(gomock.Any(), "fr", gomock.Any(), refined).
		Return("Le coût est de 10 DT.", nil)

	resp, err = svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "1",
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Type != service.TypeDirectAnswer {
		t.Errorf("Type = %q, want direct_answer", resp.Type)
	}
	if !strings.Contains(resp.Text, "Le coût est de 10 DT.") {
		t.Errorf("Text = %q", resp.Text)
	}

	// The pending round is consumed.
	if pending, _ := sessions.Get(testContext(), "s1"); pending != nil {
		t.Errorf("pending clarification should be cleared, got %+v", pending)
	}
}

func TestProcessTurnClarificationKeepsOriginalLanguage(t *testing.T) {
	svc, retriever, generator, sessions := newTestService(t)

	question := "قداش تكلفة التسجيل؟"
	results := []retrieval.Result{
		{
			Document: &corpus.Document{
				ID: "A_ar", Code: "A", Language: "ar",
				EntrepriseType: "SARL", Procedure: "تسجيل",
			},
			FusedScore: 0.91,
		},
		{
			Document: &corpus.Document{
				ID: "B_ar", Code: "B", Language: "ar",
				EntrepriseType: "SA", Procedure: "تسجيل",
			},
			FusedScore: 0.85,
		},
	}

	retriever.EXPECT().
		Retrieve(gomock.Any(), []string{question}, "ar").
		Return(results, nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   question,
		Language:  "ar",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Type != service.TypeClarificationNeeded {
		t.Fatalf("Type = %q, want clarification_needed", resp.Type)
	}

	pending, err := sessions.Get(testContext(), "s1")
	if err != nil || pending == nil {
		t.Fatalf("pending clarification not stored: %v", err)
	}
	if pending.Language != "ar" {
		t.Fatalf("pending Language = %q, want ar", pending.Language)
	}

	// The bare ordinal reply carries no detectable language; retrieval and
	// localization follow the stored one.
	refined := pending.Options[0].RefinedQuery
	retriever.EXPECT().
		Retrieve(gomock.Any(), []string{refined}, "ar").
		Return(results[:1], nil)
	generator.EXPECT().
		GenerateAnswer(gomock.Any(), "ar", gomock.Any(), refined).
		Return("التكلفة 10 دنانير.", nil)

	resp, err = svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "1",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Language != "ar" {
		t.Errorf("Language = %q, want the original turn's ar", resp.Language)
	}
	if resp.Type != service.TypeDirectAnswer {
		t.Errorf("Type = %q, want direct_answer", resp.Type)
	}
}

func TestProcessTurnUnrelatedInputClearsPending(t *testing.T) {
	svc, retriever, generator, sessions := newTestService(t)

	err := sessions.Put(testContext(), "s1", &dialogue.PendingClarification{
		OriginalQuery: "Quel est le coût?",
		Options:       []dialogue.Option{{Label: "SARL", RefinedQuery: "Quel est le coût? - SARL"}},
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// The unrelated message is processed as a brand-new query.
	newQuestion := "Quels documents pour une association?"
	retriever.EXPECT().
		Retrieve(gomock.Any(), []string{newQuestion}, "fr").
		Return(singleGroupResults(), nil)
	generator.EXPECT().
		GenerateAnswer(gomock.Any(), "fr", gomock.Any(), newQuestion).
		Return("Réponse.", nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   newQuestion,
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Type != service.TypeDirectAnswer {
		t.Errorf("Type = %q, want direct_answer", resp.Type)
	}

	if pending, _ := sessions.Get(testContext(), "s1"); pending != nil {
		t.Errorf("pending clarification should be discarded, got %+v", pending)
	}

	// A former option text now has no matching effect: it is just another
	// new query.
	retriever.EXPECT().
		Retrieve(gomock.Any(), []string{"SARL?"}, "fr").
		Return(nil, nil)

	resp, err = svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "SARL",
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Type != service.TypeDirectAnswer {
		t.Errorf("Type = %q, want direct_answer for stale option text", resp.Type)
	}
}

func TestProcessTurnMultiQuestionForcesDirect(t *testing.T) {
	svc, retriever, generator, sessions := newTestService(t)

	message := "Quels documents pour une SARL? Quel délai pour les états financiers?"
	wantSubQuestions := []string{
		"Quels documents pour une SARL?",
		"Quel délai pour les états financiers?",
	}

	// Even with two close groups, a multi-question turn answers directly.
	retriever.EXPECT().
		Retrieve(gomock.Any(), wantSubQuestions, "fr").
		Return(twoGroupResults(), nil)
	generator.EXPECT().
		GenerateAnswer(gomock.Any(), "fr", gomock.Any(), message).
		Return("Réponse combinée.", nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   message,
		Language:  "fr",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Type != service.TypeDirectAnswer {
		t.Errorf("Type = %q, want direct_answer", resp.Type)
	}
	if pending, _ := sessions.Get(testContext(), "s1"); pending != nil {
		t.Errorf("multi-question turns must not store a clarification, got %+v", pending)
	}
}

func TestProcessTurnEnglishFallsBackToFrench(t *testing.T) {
	svc, retriever, generator, _ := newTestService(t)

	question := "What documents are required to register a company in Tunisia?"
	retriever.EXPECT().
		Retrieve(gomock.Any(), []string{question}, "fr").
		Return(singleGroupResults(), nil)
	generator.EXPECT().
		GenerateAnswer(gomock.Any(), "fr", gomock.Any(), question).
		Return("Les statuts et le registre.", nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   question,
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Language != "fr" {
		t.Errorf("Language = %q, want the french fallback", resp.Language)
	}
	if resp.Type != service.TypeDirectAnswer {
		t.Errorf("Type = %q, want direct_answer", resp.Type)
	}
}

func TestProcessTurnNormalizesLanguageHint(t *testing.T) {
	svc, retriever, _, _ := newTestService(t)

	// An explicit "en" hint still searches the french corpus partition.
	retriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), "fr").
		Return(nil, nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "What is the registration fee?",
		Language:  "en",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Language != "fr" {
		t.Errorf("Language = %q, want fr", resp.Language)
	}
}

func TestProcessTurnDetectsLanguage(t *testing.T) {
	svc, retriever, _, _ := newTestService(t)

	retriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), "ar").
		Return(nil, nil)

	resp, err := svc.ProcessTurn(testContext(), service.TurnRequest{
		Message:   "ما هي الوثائق المطلوبة لتسجيل شركة؟",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if resp.Language != "ar" {
		t.Errorf("Language = %q, want detected ar", resp.Language)
	}
	if resp.Text != answer.NoResultsResponse("ar") {
		t.Errorf("Text = %q, want arabic no-results response", resp.Text)
	}
}
