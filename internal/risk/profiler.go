// Package risk converts questionnaire answers into a risk category and
// numeric score, and tracks per-session questionnaire progress.
package risk

import (
	"github.com/murlisonii/NiveshSaathi/internal/domain"
)

// Category is the investor risk category derived from the questionnaire.
type Category string

const (
	CategoryConservative Category = "Conservative"
	CategoryModerate     Category = "Moderate"
	CategoryAggressive   Category = "Aggressive"
)

// Fixed scores per category. These feed the ledger's risk score and
// the advisor's suggestion payloads.
const (
	scoreConservative = 35
	scoreModerate     = 68
	scoreAggressive   = 85
)

// Profile is the result of scoring a completed questionnaire.
type Profile struct {
	Category    Category
	Score       int
	Description string
}

var descriptions = map[Category]string{
	CategoryConservative: "You prioritize capital protection over high returns. You are best suited for low-risk investments like bonds, fixed deposits, and large-cap mutual funds.",
	CategoryModerate:     "You seek a balance between risk and return. A diversified portfolio of equities, mutual funds, and some debt instruments would be a good fit for you.",
	CategoryAggressive:   "You are comfortable with high risk for the potential of high returns. You might explore small-cap stocks, derivatives, and advanced trading strategies.",
}

// Score derives a profile from a full answer sequence. It fails with
// domain.ErrIncompleteQuestionnaire unless exactly one answer in
// {1,2,3} is given per question. Pure function; callers feed the
// resulting score into the ledger.
func Score(answers []int) (Profile, error) {
	if len(answers) != len(Questions) {
		return Profile{}, domain.ErrIncompleteQuestionnaire
	}
	sum := 0
	for _, a := range answers {
		if a < 1 || a > 3 {
			return Profile{}, domain.ErrIncompleteQuestionnaire
		}
		sum += a
	}

	// Thresholds over the average answer: <=1.5 conservative,
	// <=2.5 moderate, else aggressive. Compared as sum vs count to
	// stay in integer arithmetic: avg <= x  <=>  2*sum <= 2*x*count.
	count := len(answers)
	var category Category
	switch {
	case 2*sum <= 3*count: // avg <= 1.5
		category = CategoryConservative
	case 2*sum <= 5*count: // avg <= 2.5
		category = CategoryModerate
	default:
		category = CategoryAggressive
	}

	score := scoreModerate
	switch category {
	case CategoryConservative:
		score = scoreConservative
	case CategoryAggressive:
		score = scoreAggressive
	}

	return Profile{
		Category:    category,
		Score:       score,
		Description: descriptions[category],
	}, nil
}

// CategoryForScore maps a stored ledger risk score back onto a
// category, used when assembling advisor payloads.
func CategoryForScore(score int) Category {
	switch {
	case score < 50:
		return CategoryConservative
	case score < 75:
		return CategoryModerate
	default:
		return CategoryAggressive
	}
}
