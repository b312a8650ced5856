package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/service"
)

// RiskHandler handles HTTP requests for the risk questionnaire.
type RiskHandler struct {
	riskSvc *service.RiskService
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskSvc *service.RiskService) *RiskHandler {
	return &RiskHandler{riskSvc: riskSvc}
}

// optionResponse is one selectable answer in a question.
type optionResponse struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// questionResponse is the current question while answering.
type questionResponse struct {
	Text    string           `json:"text"`
	Options []optionResponse `json:"options"`
}

// profileResponse is the derived risk profile once complete.
type profileResponse struct {
	Category    string `json:"category"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// questionnaireResponse is the JSON shape of the questionnaire state.
type questionnaireResponse struct {
	QuestionIndex int               `json:"question_index"`
	QuestionCount int               `json:"question_count"`
	Question      *questionResponse `json:"question,omitempty"`
	Complete      bool              `json:"complete"`
	Profile       *profileResponse  `json:"profile,omitempty"`
}

// answerRequest is the JSON request body for submitting an answer.
type answerRequest struct {
	Answer int `json:"answer"`
}

// State handles GET /sessions/{session_id}/risk-profile.
func (h *RiskHandler) State(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	state, err := h.riskSvc.State(sessionID)
	if err != nil {
		mapRiskError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildQuestionnaireResponse(state))
}

// SubmitAnswer handles POST /sessions/{session_id}/risk-profile/answers.
func (h *RiskHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	var req answerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	state, err := h.riskSvc.SubmitAnswer(sessionID, req.Answer)
	if err != nil {
		mapRiskError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildQuestionnaireResponse(state))
}

// Restart handles POST /sessions/{session_id}/risk-profile/restart.
func (h *RiskHandler) Restart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	state, err := h.riskSvc.Restart(sessionID)
	if err != nil {
		mapRiskError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildQuestionnaireResponse(state))
}

func buildQuestionnaireResponse(state service.QuestionnaireState) questionnaireResponse {
	resp := questionnaireResponse{
		QuestionIndex: state.QuestionIndex,
		QuestionCount: state.QuestionCount,
		Complete:      state.Complete,
	}
	if state.Question != nil {
		q := questionResponse{Text: state.Question.Text}
		for _, o := range state.Question.Options {
			q.Options = append(q.Options, optionResponse{Text: o.Text, Value: o.Value})
		}
		resp.Question = &q
	}
	if state.Profile != nil {
		resp.Profile = &profileResponse{
			Category:    string(state.Profile.Category),
			Score:       state.Profile.Score,
			Description: state.Profile.Description,
		}
	}
	return resp
}

// mapRiskError maps domain errors to HTTP responses for questionnaire
// endpoints.
func mapRiskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, domain.ErrIncompleteQuestionnaire):
		WriteError(w, http.StatusConflict, "incomplete_questionnaire", "answer must be one of 1, 2, 3")
	case errors.Is(err, domain.ErrQuestionnaireComplete):
		WriteError(w, http.StatusConflict, "questionnaire_complete", "questionnaire already complete; restart to retake")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
