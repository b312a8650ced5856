package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/murlisonii/NiveshSaathi/internal/advisor"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/service"
	"github.com/murlisonii/NiveshSaathi/internal/store"
	"github.com/murlisonii/NiveshSaathi/internal/stream"
	"github.com/shopspring/decimal"
)

// stubGenerator answers every assist call with canned content.
type stubGenerator struct {
	failWith error
}

func (g *stubGenerator) Chat(ctx context.Context, query string) (string, error) {
	if g.failWith != nil {
		return "", g.failWith
	}
	return "Investing is a long game.", nil
}

func (g *stubGenerator) AnalyzeDocument(ctx context.Context, req advisor.DocumentRequest) (string, error) {
	if g.failWith != nil {
		return "", g.failWith
	}
	return "This document describes a mutual fund.", nil
}

func (g *stubGenerator) Suggestions(ctx context.Context, req advisor.SuggestionRequest) ([]string, error) {
	if g.failWith != nil {
		return nil, g.failWith
	}
	return []string{"Consider index funds.", "Keep an emergency fund.", "Review your risk profile yearly."}, nil
}

func (g *stubGenerator) TranslateAndSummarize(ctx context.Context, text, language string) (advisor.Translation, error) {
	if g.failWith != nil {
		return advisor.Translation{}, g.failWith
	}
	return advisor.Translation{TranslatedText: "translated", Summary: "summary"}, nil
}

func (g *stubGenerator) GenerateQuiz(ctx context.Context, topicTitle, topicContent string) ([]advisor.QuizQuestion, error) {
	if g.failWith != nil {
		return nil, g.failWith
	}
	return []advisor.QuizQuestion{
		{
			Question:      "What is diversification?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "C",
		},
		{
			Question:      "What does a stock represent?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
		},
		{
			Question:      "What is a mutual fund?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "B",
		},
	}, nil
}

func (g *stubGenerator) Synthesize(ctx context.Context, text string) (string, error) {
	if g.failWith != nil {
		return "", g.failWith
	}
	return "data:audio/wav;base64,UklGRg==", nil
}

// testEnv bundles all dependencies for handler integration tests.
type testEnv struct {
	router http.Handler
	gen    *stubGenerator
	hub    *stream.Hub
}

func newTestEnv() *testEnv {
	quotes := store.NewQuoteStore([]domain.Instrument{
		{Symbol: "RELIANCE", Name: "Reliance Industries", Price: decimal.RequireFromString("2850.75")},
		{Symbol: "HDFCBANK", Name: "HDFC Bank", Price: decimal.RequireFromString("1650.00")},
		{Symbol: "TCS", Name: "Tata Consultancy Services", Price: decimal.RequireFromString("3900.00")},
	})
	seed := []domain.Holding{
		{Symbol: "RELIANCE", Shares: 2, AvgPrice: decimal.RequireFromString("2800.00")},
		{Symbol: "HDFCBANK", Shares: 4, AvgPrice: decimal.RequireFromString("1600.00")},
	}
	sessions := store.NewSessionStore(decimal.RequireFromString("1000000"), seed)

	gen := &stubGenerator{}
	portfolioSvc := service.NewPortfolioService(sessions, quotes)
	marketSvc := service.NewMarketService(quotes)
	riskSvc := service.NewRiskService(sessions)
	assistSvc := service.NewAssistService(gen, sessions)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := stream.NewHub(logger)
	router := NewRouter(portfolioSvc, marketSvc, riskSvc, assistSvc, hub, logger)

	return &testEnv{router: router, gen: gen, hub: hub}
}

// doJSON sends a JSON request and returns the recorder.
func (env *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// doRaw sends a raw request with optional content-type override.
func (env *testEnv) doRaw(t *testing.T, method, path, contentType, rawBody string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(rawBody))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// decodeJSON decodes the response body into v.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
}

// createSession is a helper that creates a session via the API and
// returns its id.
func (env *testEnv) createSession(t *testing.T) string {
	t.Helper()
	rr := env.doJSON(t, "POST", "/sessions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]any
	decodeJSON(t, rr, &resp)
	id, _ := resp["session_id"].(string)
	if id == "" {
		t.Fatalf("create session: missing session_id in %v", resp)
	}
	return id
}

// trade is a helper that submits a trade via the API.
func (env *testEnv) trade(t *testing.T, sessionID, side, symbol string, shares int64) *httptest.ResponseRecorder {
	t.Helper()
	return env.doJSON(t, "POST", "/sessions/"+sessionID+"/trades", map[string]any{
		"side":   side,
		"symbol": symbol,
		"shares": shares,
	})
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()
	rr := env.doJSON(t, "GET", "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestCreateSession_ReturnsSeededPortfolio(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/sessions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		SessionID string `json:"session_id"`
		Portfolio struct {
			CashBalance float64 `json:"cash_balance"`
			RiskScore   int     `json:"risk_score"`
			Holdings    []struct {
				Symbol string `json:"symbol"`
				Shares int64  `json:"shares"`
			} `json:"holdings"`
		} `json:"portfolio"`
	}
	decodeJSON(t, rr, &resp)

	if resp.SessionID == "" {
		t.Fatal("expected non-empty session_id")
	}
	if resp.Portfolio.CashBalance != 1000000 {
		t.Errorf("expected cash 1000000, got %v", resp.Portfolio.CashBalance)
	}
	if resp.Portfolio.RiskScore != 50 {
		t.Errorf("expected risk score 50, got %d", resp.Portfolio.RiskScore)
	}
	if len(resp.Portfolio.Holdings) != 2 {
		t.Fatalf("expected 2 seeded holdings, got %d", len(resp.Portfolio.Holdings))
	}
}

func TestGetPortfolio_UnknownSession(t *testing.T) {
	env := newTestEnv()
	rr := env.doJSON(t, "GET", "/sessions/nope/portfolio", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestTrade_BuyAndSell(t *testing.T) {
	env := newTestEnv()
	id := env.createSession(t)

	rr := env.trade(t, id, "buy", "TCS", 2)
	if rr.Code != http.StatusOK {
		t.Fatalf("buy: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		CashBalance float64 `json:"cash_balance"`
		Holdings    []struct {
			Symbol   string  `json:"symbol"`
			Shares   int64   `json:"shares"`
			AvgPrice float64 `json:"avg_price"`
		} `json:"holdings"`
	}
	decodeJSON(t, rr, &resp)
	// 1000000 - 2*3900 = 992200
	if resp.CashBalance != 992200 {
		t.Errorf("expected cash 992200, got %v", resp.CashBalance)
	}

	rr = env.trade(t, id, "sell", "TCS", 2)
	if rr.Code != http.StatusOK {
		t.Fatalf("sell: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	decodeJSON(t, rr, &resp)
	if resp.CashBalance != 1000000 {
		t.Errorf("expected cash restored to 1000000, got %v", resp.CashBalance)
	}
}

func TestTrade_ErrorMapping(t *testing.T) {
	env := newTestEnv()
	id := env.createSession(t)

	tests := []struct {
		name   string
		side   string
		symbol string
		shares int64
		status int
		code   string
	}{
		{"bad side", "short", "TCS", 1, http.StatusBadRequest, "validation_error"},
		{"bad symbol", "buy", "tcs", 1, http.StatusBadRequest, "validation_error"},
		{"zero shares", "buy", "TCS", 0, http.StatusBadRequest, "validation_error"},
		{"unknown symbol", "buy", "WIPRO", 1, http.StatusNotFound, "unknown_symbol"},
		{"insufficient funds", "buy", "TCS", 1000000, http.StatusConflict, "insufficient_funds"},
		{"no such holding", "sell", "TCS", 1, http.StatusConflict, "no_such_holding"},
		{"insufficient shares", "sell", "RELIANCE", 100, http.StatusConflict, "insufficient_shares"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.trade(t, id, tt.side, tt.symbol, tt.shares)
			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			var errResp struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			}
			decodeJSON(t, rr, &errResp)
			if errResp.Error != tt.code {
				t.Errorf("expected error code %q, got %q", tt.code, errResp.Error)
			}
		})
	}
}

func TestTrade_UnknownSession(t *testing.T) {
	env := newTestEnv()
	rr := env.trade(t, "nope", "buy", "TCS", 1)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestTrade_RejectsNonJSONContentType(t *testing.T) {
	env := newTestEnv()
	id := env.createSession(t)

	rr := env.doRaw(t, "POST", "/sessions/"+id+"/trades", "text/plain", `{"side":"buy","symbol":"TCS","shares":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMarket_Quotes(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "GET", "/market/quotes", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var list []struct {
		Symbol string  `json:"symbol"`
		Price  float64 `json:"price"`
	}
	decodeJSON(t, rr, &list)
	if len(list) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(list))
	}

	rr = env.doJSON(t, "GET", "/market/quotes/RELIANCE", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = env.doJSON(t, "GET", "/market/quotes/NOPE", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRiskProfile_FullFlow(t *testing.T) {
	env := newTestEnv()
	id := env.createSession(t)
	base := "/sessions/" + id + "/risk-profile"

	rr := env.doJSON(t, "GET", base, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var state struct {
		QuestionIndex int  `json:"question_index"`
		QuestionCount int  `json:"question_count"`
		Complete      bool `json:"complete"`
		Question      *struct {
			Text    string `json:"text"`
			Options []struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"options"`
		} `json:"question"`
		Profile *struct {
			Category string `json:"category"`
			Score    int    `json:"score"`
		} `json:"profile"`
	}
	decodeJSON(t, rr, &state)
	if state.QuestionIndex != 0 || state.Complete || state.Question == nil {
		t.Fatalf("fresh state wrong: %+v", state)
	}
	if state.QuestionCount != 4 {
		t.Fatalf("expected 4 questions, got %d", state.QuestionCount)
	}

	for i := 0; i < state.QuestionCount; i++ {
		rr = env.doJSON(t, "POST", base+"/answers", map[string]any{"answer": 3})
		if rr.Code != http.StatusOK {
			t.Fatalf("answer %d: expected 200, got %d: %s", i, rr.Code, rr.Body.String())
		}
	}
	decodeJSON(t, rr, &state)
	if !state.Complete || state.Profile == nil {
		t.Fatalf("expected completed profile, got %+v", state)
	}
	if state.Profile.Category != "Aggressive" || state.Profile.Score != 85 {
		t.Errorf("expected Aggressive/85, got %s/%d", state.Profile.Category, state.Profile.Score)
	}

	// Completing the questionnaire feeds the ledger's risk score.
	rr = env.doJSON(t, "GET", "/sessions/"+id+"/portfolio", nil)
	var portfolio struct {
		RiskScore int `json:"risk_score"`
	}
	decodeJSON(t, rr, &portfolio)
	if portfolio.RiskScore != 85 {
		t.Errorf("expected portfolio risk score 85, got %d", portfolio.RiskScore)
	}

	// Answering after completion conflicts.
	rr = env.doJSON(t, "POST", base+"/answers", map[string]any{"answer": 2})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 after completion, got %d", rr.Code)
	}

	// Restart goes back to the first question.
	rr = env.doJSON(t, "POST", base+"/restart", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("restart: expected 200, got %d", rr.Code)
	}
	decodeJSON(t, rr, &state)
	if state.Complete || state.QuestionIndex != 0 {
		t.Fatalf("after restart: %+v", state)
	}
}

func TestRiskProfile_InvalidAnswer(t *testing.T) {
	env := newTestEnv()
	id := env.createSession(t)

	rr := env.doJSON(t, "POST", "/sessions/"+id+"/risk-profile/answers", map[string]any{"answer": 7})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestLearn_Modules(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "GET", "/learn/modules", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var list []struct {
		Slug  string `json:"slug"`
		Title string `json:"title"`
	}
	decodeJSON(t, rr, &list)
	if len(list) != 6 {
		t.Fatalf("expected 6 modules, got %d", len(list))
	}

	rr = env.doJSON(t, "GET", "/learn/modules/stock-market-basics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var module struct {
		Slug    string `json:"slug"`
		Content string `json:"content"`
		Quiz    []struct {
			Question string `json:"question"`
		} `json:"quiz"`
	}
	decodeJSON(t, rr, &module)
	if module.Content == "" || len(module.Quiz) == 0 {
		t.Errorf("expected full module detail, got %+v", module)
	}

	rr = env.doJSON(t, "GET", "/learn/modules/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAssist_Chat(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/assist/chat", map[string]any{"query": "What is SIP?"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Response string `json:"response"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Response == "" {
		t.Error("expected non-empty response")
	}

	rr = env.doJSON(t, "POST", "/assist/chat", map[string]any{"query": "  "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank query, got %d", rr.Code)
	}
}

func TestAssist_ChatGenerationFailure(t *testing.T) {
	env := newTestEnv()
	env.gen.failWith = domain.ErrGenerationFailed

	rr := env.doJSON(t, "POST", "/assist/chat", map[string]any{"query": "hello"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAssist_Document(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/assist/document", map[string]any{
		"document_content": "A mutual fund factsheet.",
		"question":         "What is the expense ratio?",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// Invalid base64 image payload.
	rr = env.doJSON(t, "POST", "/assist/document", map[string]any{
		"question":        "What is this?",
		"image_data":      "!!!not-base64!!!",
		"image_mime_type": "image/png",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad base64, got %d", rr.Code)
	}
}

func TestAssist_Suggestions(t *testing.T) {
	env := newTestEnv()
	id := env.createSession(t)

	rr := env.doJSON(t, "POST", "/sessions/"+id+"/suggestions", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(resp.Suggestions))
	}

	rr = env.doJSON(t, "POST", "/sessions/nope/suggestions", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAssist_Translate(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/assist/translate", map[string]any{
		"text":     "Compound interest grows your money.",
		"language": "Hindi",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		TranslatedText string `json:"translated_text"`
		Summary        string `json:"summary"`
	}
	decodeJSON(t, rr, &resp)
	if resp.TranslatedText == "" || resp.Summary == "" {
		t.Errorf("expected translation and summary, got %+v", resp)
	}

	rr = env.doJSON(t, "POST", "/assist/translate", map[string]any{"text": "hi", "language": ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing language, got %d", rr.Code)
	}
}

func TestAssist_GenerateQuiz(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/learn/modules/stock-market-basics/quiz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Questions []struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer string   `json:"correct_answer"`
		} `json:"questions"`
	}
	decodeJSON(t, rr, &resp)
	// The generator returns a set of three questions per call.
	if len(resp.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(resp.Questions))
	}
	for i, q := range resp.Questions {
		if q.Question == "" || len(q.Options) != 4 || q.CorrectAnswer == "" {
			t.Errorf("question %d malformed: %+v", i, q)
		}
	}

	rr = env.doJSON(t, "POST", "/learn/modules/nope/quiz", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAssist_Speech(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, "POST", "/assist/speech", map[string]any{"text": "Welcome to investing."})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		AudioDataURI string `json:"audio_data_uri"`
	}
	decodeJSON(t, rr, &resp)
	if !strings.HasPrefix(resp.AudioDataURI, "data:audio/") {
		t.Errorf("expected audio data URI, got %q", resp.AudioDataURI)
	}
}

func TestMarketStream_SubscribeThroughRouter(t *testing.T) {
	env := newTestEnv()

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/market/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// The priming frame carries the full board immediately.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Type   string `json:"type"`
		Quotes []struct {
			Symbol string  `json:"symbol"`
			Price  float64 `json:"price"`
		} `json:"quotes"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read priming frame: %v", err)
	}
	if frame.Type != "quotes" {
		t.Errorf("expected frame type quotes, got %q", frame.Type)
	}
	if len(frame.Quotes) != 3 {
		t.Fatalf("expected 3 quotes in priming frame, got %d", len(frame.Quotes))
	}

	// After registration, a tick broadcast reaches the subscriber too.
	deadline := time.Now().Add(time.Second)
	for env.hub.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if env.hub.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", env.hub.SubscriberCount())
	}
	env.hub.OnTick([]domain.Instrument{
		{Symbol: "RELIANCE", Name: "Reliance Industries", Price: decimal.RequireFromString("2900.00")},
	})
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read tick frame: %v", err)
	}
	if len(frame.Quotes) != 1 || frame.Quotes[0].Price != 2900.00 {
		t.Errorf("unexpected tick frame: %+v", frame)
	}
}

func TestAssist_SpeechSynthesisFailure(t *testing.T) {
	env := newTestEnv()
	env.gen.failWith = domain.ErrSynthesisFailed

	rr := env.doJSON(t, "POST", "/assist/speech", map[string]any{"text": "hello"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rr.Code, rr.Body.String())
	}
}
