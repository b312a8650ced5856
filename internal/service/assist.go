package service

import (
	"context"
	"strings"

	"github.com/murlisonii/NiveshSaathi/internal/advisor"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/learn"
	"github.com/murlisonii/NiveshSaathi/internal/risk"
	"github.com/murlisonii/NiveshSaathi/internal/store"
)

// Generator is the generation-service boundary as seen by the assist
// service. *advisor.Advisor implements it; tests substitute a stub.
type Generator interface {
	Chat(ctx context.Context, query string) (string, error)
	AnalyzeDocument(ctx context.Context, req advisor.DocumentRequest) (string, error)
	Suggestions(ctx context.Context, req advisor.SuggestionRequest) ([]string, error)
	TranslateAndSummarize(ctx context.Context, text, language string) (advisor.Translation, error)
	GenerateQuiz(ctx context.Context, topicTitle, topicContent string) ([]advisor.QuizQuestion, error)
	Synthesize(ctx context.Context, text string) (string, error)
}

// AssistService orchestrates the AI-backed features: chat, document
// analysis, personalized suggestions, translation, quiz generation,
// and speech. It reads ledger state but never writes it. A nil
// generator (no credentials at startup) makes every call fail with the
// corresponding external-boundary error instead of crashing.
type AssistService struct {
	gen      Generator
	sessions *store.SessionStore
}

// NewAssistService creates a new AssistService. gen may be nil.
func NewAssistService(gen Generator, sessions *store.SessionStore) *AssistService {
	return &AssistService{
		gen:      gen,
		sessions: sessions,
	}
}

// Chat answers a free-text investor query.
func (s *AssistService) Chat(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", &domain.ValidationError{Message: "query must not be empty"}
	}
	if s.gen == nil {
		return "", domain.ErrGenerationFailed
	}
	return s.gen.Chat(ctx, query)
}

// AnalyzeDocument answers a question about a supplied document.
func (s *AssistService) AnalyzeDocument(ctx context.Context, req advisor.DocumentRequest) (string, error) {
	if strings.TrimSpace(req.Question) == "" {
		return "", &domain.ValidationError{Message: "question must not be empty"}
	}
	if strings.TrimSpace(req.DocumentContent) == "" && req.Image == nil {
		return "", &domain.ValidationError{Message: "document_content or image is required"}
	}
	if req.Image != nil && !strings.HasPrefix(req.Image.MIMEType, "image/") {
		return "", &domain.ValidationError{Message: "image mime type must be image/*"}
	}
	if s.gen == nil {
		return "", domain.ErrGenerationFailed
	}
	return s.gen.AnalyzeDocument(ctx, req)
}

// Suggestions assembles a consistent snapshot of the session's ledger
// and risk profile into a suggestions payload and forwards it. There
// is no feedback into the ledger.
func (s *AssistService) Suggestions(ctx context.Context, sessionID string) ([]string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, domain.ErrGenerationFailed
	}

	snap := sess.Ledger.Snapshot()
	req := advisor.SuggestionRequest{
		RiskCategory: string(risk.CategoryForScore(snap.RiskScore)),
		Holdings:     make([]advisor.HoldingInsight, len(snap.Holdings)),
	}
	for i, h := range snap.Holdings {
		req.Holdings[i] = advisor.HoldingInsight{
			Symbol:       h.Symbol,
			Shares:       h.Shares,
			AvgPrice:     h.AvgPrice.InexactFloat64(),
			CurrentPrice: h.CurrentPrice.InexactFloat64(),
		}
	}
	return s.gen.Suggestions(ctx, req)
}

// TranslateAndSummarize translates a financial text and summarizes it.
func (s *AssistService) TranslateAndSummarize(ctx context.Context, text, language string) (advisor.Translation, error) {
	if strings.TrimSpace(text) == "" {
		return advisor.Translation{}, &domain.ValidationError{Message: "text must not be empty"}
	}
	if strings.TrimSpace(language) == "" {
		return advisor.Translation{}, &domain.ValidationError{Message: "language must not be empty"}
	}
	if s.gen == nil {
		return advisor.Translation{}, domain.ErrGenerationFailed
	}
	return s.gen.TranslateAndSummarize(ctx, text, language)
}

// GenerateQuiz produces a fresh quiz question for a learning module.
func (s *AssistService) GenerateQuiz(ctx context.Context, slug string) ([]advisor.QuizQuestion, error) {
	module, err := learn.Get(slug)
	if err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, domain.ErrGenerationFailed
	}
	return s.gen.GenerateQuiz(ctx, module.Title, module.Content)
}

// Speak synthesizes speech for the given text.
func (s *AssistService) Speak(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &domain.ValidationError{Message: "text must not be empty"}
	}
	if s.gen == nil {
		return "", domain.ErrSynthesisFailed
	}
	return s.gen.Synthesize(ctx, text)
}
