package risk

import (
	"errors"
	"testing"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
)

func TestQuestionnaire_FullFlow(t *testing.T) {
	q := NewQuestionnaire()

	index, complete, profile := q.State()
	if index != 0 || complete || profile != nil {
		t.Fatalf("fresh questionnaire: index=%d complete=%v profile=%v", index, complete, profile)
	}

	answers := []int{3, 3, 3, 3}
	for i, a := range answers {
		p, err := q.Answer(a)
		if err != nil {
			t.Fatalf("answer %d failed: %v", i, err)
		}
		if i < len(answers)-1 {
			if p != nil {
				t.Fatalf("answer %d: expected no profile yet, got %+v", i, p)
			}
			index, complete, _ := q.State()
			if index != i+1 || complete {
				t.Fatalf("after answer %d: index=%d complete=%v", i, index, complete)
			}
		} else {
			if p == nil {
				t.Fatal("final answer should return the profile")
			}
			if p.Category != CategoryAggressive || p.Score != 85 {
				t.Errorf("expected Aggressive/85, got %s/%d", p.Category, p.Score)
			}
		}
	}

	index, complete, profile = q.State()
	if index != len(Questions) || !complete || profile == nil {
		t.Fatalf("completed questionnaire: index=%d complete=%v profile=%v", index, complete, profile)
	}
}

func TestQuestionnaire_AnswerAfterComplete(t *testing.T) {
	q := NewQuestionnaire()
	for range Questions {
		if _, err := q.Answer(2); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
	}
	if _, err := q.Answer(2); !errors.Is(err, domain.ErrQuestionnaireComplete) {
		t.Fatalf("expected ErrQuestionnaireComplete, got %v", err)
	}
}

func TestQuestionnaire_RejectsOutOfRange(t *testing.T) {
	q := NewQuestionnaire()
	for _, v := range []int{0, 4, -1} {
		if _, err := q.Answer(v); !errors.Is(err, domain.ErrIncompleteQuestionnaire) {
			t.Errorf("answer %d: expected ErrIncompleteQuestionnaire, got %v", v, err)
		}
	}
	// Rejected answers must not advance the questionnaire.
	if index, _, _ := q.State(); index != 0 {
		t.Errorf("expected index 0 after rejected answers, got %d", index)
	}
}

func TestQuestionnaire_Restart(t *testing.T) {
	q := NewQuestionnaire()
	for range Questions {
		if _, err := q.Answer(1); err != nil {
			t.Fatalf("answer failed: %v", err)
		}
	}

	q.Restart()

	index, complete, profile := q.State()
	if index != 0 || complete || profile != nil {
		t.Fatalf("after restart: index=%d complete=%v profile=%v", index, complete, profile)
	}
	// A fresh run after restart scores independently.
	for range Questions {
		if _, err := q.Answer(3); err != nil {
			t.Fatalf("answer after restart failed: %v", err)
		}
	}
	_, _, profile = q.State()
	if profile == nil || profile.Category != CategoryAggressive {
		t.Errorf("expected Aggressive after restart run, got %+v", profile)
	}
}

func TestQuestions_Shape(t *testing.T) {
	if len(Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(Questions))
	}
	for i, q := range Questions {
		if q.Text == "" {
			t.Errorf("question %d has empty text", i)
		}
		if len(q.Options) != 3 {
			t.Fatalf("question %d: expected 3 options, got %d", i, len(q.Options))
		}
		for j, opt := range q.Options {
			if opt.Value != j+1 {
				t.Errorf("question %d option %d: expected value %d, got %d", i, j, j+1, opt.Value)
			}
		}
	}
}
