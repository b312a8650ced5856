package service

import (
	"github.com/murlisonii/NiveshSaathi/internal/risk"
	"github.com/murlisonii/NiveshSaathi/internal/store"
)

// QuestionnaireState describes where a session is in the risk
// questionnaire: the current question while answering, or the derived
// profile once complete.
type QuestionnaireState struct {
	QuestionIndex int
	QuestionCount int
	Question      *risk.Question
	Complete      bool
	Profile       *risk.Profile
}

// RiskService drives the per-session risk questionnaire and feeds the
// resulting score into the session's ledger.
type RiskService struct {
	sessions *store.SessionStore
}

// NewRiskService creates a new RiskService.
func NewRiskService(sessions *store.SessionStore) *RiskService {
	return &RiskService{sessions: sessions}
}

// State reports the session's questionnaire progress.
func (s *RiskService) State(sessionID string) (QuestionnaireState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return QuestionnaireState{}, err
	}
	return questionnaireState(sess), nil
}

// SubmitAnswer records one answer. Completing the final question
// scores the questionnaire and stores the profile's score in the
// session's ledger.
func (s *RiskService) SubmitAnswer(sessionID string, answer int) (QuestionnaireState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return QuestionnaireState{}, err
	}

	profile, err := sess.Questionnaire.Answer(answer)
	if err != nil {
		return QuestionnaireState{}, err
	}
	if profile != nil {
		sess.Ledger.SetRiskScore(profile.Score)
	}
	return questionnaireState(sess), nil
}

// Restart discards the session's answers and profile, returning to the
// first question. The ledger's stored risk score is left as is until a
// new run completes.
func (s *RiskService) Restart(sessionID string) (QuestionnaireState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return QuestionnaireState{}, err
	}
	sess.Questionnaire.Restart()
	return questionnaireState(sess), nil
}

func questionnaireState(sess *store.Session) QuestionnaireState {
	index, complete, profile := sess.Questionnaire.State()
	state := QuestionnaireState{
		QuestionIndex: index,
		QuestionCount: len(risk.Questions),
		Complete:      complete,
		Profile:       profile,
	}
	if !complete {
		q := risk.Questions[index]
		state.Question = &q
	}
	return state
}
