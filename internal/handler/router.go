package handler

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/murlisonii/NiveshSaathi/internal/service"
	"github.com/murlisonii/NiveshSaathi/internal/stream"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and Content-Type validation middleware.
func NewRouter(
	portfolioSvc *service.PortfolioService,
	marketSvc *service.MarketService,
	riskSvc *service.RiskService,
	assistSvc *service.AssistService,
	hub *stream.Hub,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	portfolioH := NewPortfolioHandler(portfolioSvc)
	marketH := NewMarketHandler(marketSvc)
	riskH := NewRiskHandler(riskSvc)
	learnH := NewLearnHandler()
	assistH := NewAssistHandler(assistSvc)
	streamH := NewStreamHandler(hub, marketSvc, logger)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Session + portfolio routes.
	r.Post("/sessions", portfolioH.CreateSession)
	r.Get("/sessions/{session_id}/portfolio", portfolioH.GetPortfolio)
	r.Post("/sessions/{session_id}/trades", portfolioH.Trade)

	// Risk questionnaire routes.
	r.Get("/sessions/{session_id}/risk-profile", riskH.State)
	r.Post("/sessions/{session_id}/risk-profile/answers", riskH.SubmitAnswer)
	r.Post("/sessions/{session_id}/risk-profile/restart", riskH.Restart)

	// Personalized suggestions read the session's ledger snapshot.
	r.Post("/sessions/{session_id}/suggestions", assistH.Suggestions)

	// Market routes.
	r.Get("/market/quotes", marketH.ListQuotes)
	r.Get("/market/quotes/{symbol}", marketH.GetQuote)
	r.Get("/market/stream", streamH.Subscribe)

	// Learning hub routes.
	r.Get("/learn/modules", learnH.ListModules)
	r.Get("/learn/modules/{slug}", learnH.GetModule)
	r.Post("/learn/modules/{slug}/quiz", assistH.GenerateQuiz)

	// Assist routes.
	r.Post("/assist/chat", assistH.Chat)
	r.Post("/assist/document", assistH.AnalyzeDocument)
	r.Post("/assist/translate", assistH.Translate)
	r.Post("/assist/speech", assistH.Speak)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Hijack exposes the underlying connection so websocket upgrades work
// through the logging middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT,
// and PATCH requests carrying a body. If the Content-Type header doesn't
// start with "application/json", it returns 400 Bad Request before the
// handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength != 0 {
				ct := r.Header.Get("Content-Type")
				if ct == "" || !strings.HasPrefix(ct, "application/json") {
					WriteError(w, http.StatusBadRequest, "invalid_request",
						"Content-Type must be application/json")
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
