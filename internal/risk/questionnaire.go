package risk

import (
	"sync"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
)

// Question is one questionnaire step with its answer options. Option
// values are the answer integers 1..3.
type Question struct {
	Text    string
	Options []Option
}

// Option is a single selectable answer.
type Option struct {
	Text  string
	Value int
}

// Questions is the fixed questionnaire presented to every session.
var Questions = []Question{
	{
		Text: "What is your primary goal for this investment?",
		Options: []Option{
			{Text: "Capital Preservation: I want to protect my initial investment.", Value: 1},
			{Text: "Steady Growth: I'm looking for balanced growth with moderate risk.", Value: 2},
			{Text: "High Returns: I'm aiming for maximum returns, and I'm comfortable with high risk.", Value: 3},
		},
	},
	{
		Text: "How would you react to a sudden 20% drop in your portfolio's value?",
		Options: []Option{
			{Text: "Sell everything to prevent further loss.", Value: 1},
			{Text: "Wait and see, but feel very anxious.", Value: 2},
			{Text: "See it as a buying opportunity and invest more.", Value: 3},
		},
	},
	{
		Text: "How long is your investment horizon?",
		Options: []Option{
			{Text: "Short-term (Less than 3 years)", Value: 1},
			{Text: "Medium-term (3-7 years)", Value: 2},
			{Text: "Long-term (More than 7 years)", Value: 3},
		},
	},
	{
		Text: "Which of these investment options are you most comfortable with?",
		Options: []Option{
			{Text: "Fixed Deposits and Government Bonds", Value: 1},
			{Text: "A mix of Large-Cap Stocks and Mutual Funds", Value: 2},
			{Text: "Small-Cap Stocks, Derivatives, and Algo-Trading", Value: 3},
		},
	},
}

// Questionnaire tracks one session's progress through the questions.
// States are "answering question i" for i in [0, len(Questions)) and a
// terminal "complete" state that only an explicit Restart leaves.
type Questionnaire struct {
	mu      sync.Mutex
	answers []int
	profile *Profile
}

// NewQuestionnaire starts at the first question with no answers.
func NewQuestionnaire() *Questionnaire {
	return &Questionnaire{}
}

// Answer records the answer for the current question and advances. On
// the final question it scores the full sequence and transitions to
// the complete state, returning the resulting profile. Answers outside
// {1,2,3} fail with domain.ErrIncompleteQuestionnaire; answering after
// completion fails with domain.ErrQuestionnaireComplete.
func (q *Questionnaire) Answer(value int) (*Profile, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.profile != nil {
		return nil, domain.ErrQuestionnaireComplete
	}
	if value < 1 || value > 3 {
		return nil, domain.ErrIncompleteQuestionnaire
	}

	q.answers = append(q.answers, value)
	if len(q.answers) < len(Questions) {
		return nil, nil
	}

	profile, err := Score(q.answers)
	if err != nil {
		// Undo the append; every stored answer was validated, so
		// this only fires if Questions changes underneath us.
		q.answers = q.answers[:len(q.answers)-1]
		return nil, err
	}
	q.profile = &profile
	return &profile, nil
}

// Restart discards all answers and any computed profile, returning to
// the first question.
func (q *Questionnaire) Restart() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.answers = nil
	q.profile = nil
}

// State reports the current question index, whether the questionnaire
// is complete, and the profile once complete.
func (q *Questionnaire) State() (index int, complete bool, profile *Profile) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.profile != nil {
		p := *q.profile
		return len(Questions), true, &p
	}
	return len(q.answers), false, nil
}
