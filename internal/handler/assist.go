package handler

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/murlisonii/NiveshSaathi/internal/advisor"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/service"
)

// AssistHandler handles HTTP requests for the AI-backed endpoints.
type AssistHandler struct {
	assistSvc *service.AssistService
}

// NewAssistHandler creates a new AssistHandler.
func NewAssistHandler(assistSvc *service.AssistService) *AssistHandler {
	return &AssistHandler{assistSvc: assistSvc}
}

// chatRequest is the JSON request body for POST /assist/chat.
type chatRequest struct {
	Query string `json:"query"`
}

// chatResponse is the JSON response for POST /assist/chat.
type chatResponse struct {
	Response string `json:"response"`
}

// Chat handles POST /assist/chat.
func (h *AssistHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	answer, err := h.assistSvc.Chat(r.Context(), req.Query)
	if err != nil {
		mapAssistError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, chatResponse{Response: answer})
}

// documentRequest is the JSON request body for POST /assist/document.
// Image data, when present, is base64-encoded.
type documentRequest struct {
	DocumentContent string `json:"document_content"`
	ImageData       string `json:"image_data,omitempty"`
	ImageMIMEType   string `json:"image_mime_type,omitempty"`
	Question        string `json:"question"`
}

// documentResponse is the JSON response for POST /assist/document.
type documentResponse struct {
	Answer string `json:"answer"`
}

// AnalyzeDocument handles POST /assist/document.
func (h *AssistHandler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	docReq := advisor.DocumentRequest{
		DocumentContent: req.DocumentContent,
		Question:        req.Question,
	}
	if req.ImageData != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "image_data must be valid base64")
			return
		}
		docReq.Image = &advisor.Image{MIMEType: req.ImageMIMEType, Data: data}
	}

	answer, err := h.assistSvc.AnalyzeDocument(r.Context(), docReq)
	if err != nil {
		mapAssistError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, documentResponse{Answer: answer})
}

// suggestionsResponse is the JSON response for POST /sessions/{id}/suggestions.
type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Suggestions handles POST /sessions/{session_id}/suggestions.
func (h *AssistHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	suggestions, err := h.assistSvc.Suggestions(r.Context(), sessionID)
	if err != nil {
		mapAssistError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

// translateRequest is the JSON request body for POST /assist/translate.
type translateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// translateResponse is the JSON response for POST /assist/translate.
type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	Summary        string `json:"summary"`
}

// Translate handles POST /assist/translate.
func (h *AssistHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.assistSvc.TranslateAndSummarize(r.Context(), req.Text, req.Language)
	if err != nil {
		mapAssistError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, translateResponse{
		TranslatedText: result.TranslatedText,
		Summary:        result.Summary,
	})
}

// generatedQuizResponse is the JSON response for POST /learn/modules/{slug}/quiz.
type generatedQuizResponse struct {
	Questions []quizQuestionResponse `json:"questions"`
}

// GenerateQuiz handles POST /learn/modules/{slug}/quiz.
func (h *AssistHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	questions, err := h.assistSvc.GenerateQuiz(r.Context(), slug)
	if err != nil {
		mapAssistError(w, err)
		return
	}

	resp := generatedQuizResponse{Questions: make([]quizQuestionResponse, len(questions))}
	for i, q := range questions {
		resp.Questions[i] = quizQuestionResponse{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Scenario:      q.Scenario,
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// speechRequest is the JSON request body for POST /assist/speech.
type speechRequest struct {
	Text string `json:"text"`
}

// speechResponse is the JSON response for POST /assist/speech.
type speechResponse struct {
	AudioDataURI string `json:"audio_data_uri"`
}

// Speak handles POST /assist/speech.
func (h *AssistHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	audio, err := h.assistSvc.Speak(r.Context(), req.Text)
	if err != nil {
		mapAssistError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, speechResponse{AudioDataURI: audio})
}

// mapAssistError maps domain errors to HTTP responses for AI-backed
// endpoints. External-boundary failures surface as 502 so the UI can
// show a retry affordance; they never crash the session.
func mapAssistError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, domain.ErrModuleNotFound):
		WriteError(w, http.StatusNotFound, "module_not_found", err.Error())
	case errors.Is(err, domain.ErrGenerationFailed):
		WriteError(w, http.StatusBadGateway, "generation_failed", "The assistant could not produce a response. Please try again.")
	case errors.Is(err, domain.ErrSynthesisFailed):
		WriteError(w, http.StatusBadGateway, "synthesis_failed", "Speech synthesis failed. Please try again.")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
