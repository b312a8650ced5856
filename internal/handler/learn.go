package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/learn"
)

// LearnHandler serves the learning-hub modules. The content is static
// in-process data, so no service layer sits in between.
type LearnHandler struct{}

// NewLearnHandler creates a new LearnHandler.
func NewLearnHandler() *LearnHandler {
	return &LearnHandler{}
}

// moduleSummaryResponse is one module in the listing.
type moduleSummaryResponse struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Category    string `json:"category"`
}

// quizQuestionResponse is one question of a module's quiz bank.
type quizQuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Scenario      string   `json:"scenario,omitempty"`
}

// moduleResponse is the full module detail.
type moduleResponse struct {
	moduleSummaryResponse
	Content string                 `json:"content"`
	Quiz    []quizQuestionResponse `json:"quiz"`
}

// ListModules handles GET /learn/modules.
func (h *LearnHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules := learn.List()
	resp := make([]moduleSummaryResponse, len(modules))
	for i, m := range modules {
		resp[i] = buildModuleSummary(m)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetModule handles GET /learn/modules/{slug}.
func (h *LearnHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	m, err := learn.Get(slug)
	if err != nil {
		if errors.Is(err, domain.ErrModuleNotFound) {
			WriteError(w, http.StatusNotFound, "module_not_found", err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	resp := moduleResponse{
		moduleSummaryResponse: buildModuleSummary(m),
		Content:               m.Content,
		Quiz:                  make([]quizQuestionResponse, len(m.Quiz)),
	}
	for i, q := range m.Quiz {
		resp.Quiz[i] = quizQuestionResponse{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Scenario:      q.Scenario,
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

func buildModuleSummary(m learn.Module) moduleSummaryResponse {
	return moduleSummaryResponse{
		Slug:        m.Slug,
		Title:       m.Title,
		Description: m.Description,
		Level:       m.Level,
		Category:    m.Category,
	}
}
