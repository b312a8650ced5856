// Package learn holds the learning-hub content: static modules with a
// built-in quiz bank. The content is data, not logic; the AI quiz
// generator uses a module's content as its source material.
package learn

import (
	"sort"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
)

// QuizQuestion is one multiple-choice question with exactly four
// options, one of which is the correct answer.
type QuizQuestion struct {
	Question      string
	Options       []string
	CorrectAnswer string
	Scenario      string
}

// Module is one learning-hub topic.
type Module struct {
	Slug        string
	Title       string
	Description string
	Level       string
	Category    string
	Content     string
	Quiz        []QuizQuestion
}

var modules = map[string]Module{
	"stock-market-basics": {
		Slug:        "stock-market-basics",
		Title:       "Stock Market Basics",
		Description: "Understand what stocks are, how the market works, and key terminology.",
		Level:       "Beginner",
		Category:    "Fundamentals",
		Content:     "The stock market is a collection of markets where you can buy and sell shares of publicly listed companies. It's a way for companies to raise money and for investors to own a piece of those companies, potentially growing their wealth. Key concepts include stocks (equity), bonds (debt), indices (like Nifty 50 or Sensex), and exchanges (like NSE and BSE). Understanding these fundamentals is the first step towards making informed investment decisions.",
		Quiz: []QuizQuestion{
			{
				Question:      "What does 'stock' represent?",
				Options:       []string{"A loan to a company", "Ownership in a company", "A government bond", "A type of currency"},
				CorrectAnswer: "Ownership in a company",
				Scenario:      "You buy one stock of 'Reliance Industries'.",
			},
		},
	},
	"risk-assessment": {
		Slug:        "risk-assessment",
		Title:       "Risk Assessment Techniques",
		Description: "Learn to evaluate investment risks and manage your risk tolerance.",
		Level:       "Beginner",
		Category:    "Analysis",
		Content:     "Every investment carries some level of risk. Risk assessment is the process of identifying and evaluating these risks. Key metrics include standard deviation (volatility), beta (market risk), and the Sharpe ratio (risk-adjusted return). A diversified portfolio can help mitigate risk, but it's crucial to align your investments with your personal risk tolerance—how much you're willing to potentially lose in pursuit of gains.",
		Quiz: []QuizQuestion{
			{
				Question:      "What would you do if a stock you own drops 10%?",
				Options:       []string{"Sell immediately", "Buy more (average down)", "Hold and wait", "Re-evaluate the company's fundamentals"},
				CorrectAnswer: "Re-evaluate the company's fundamentals",
				Scenario:      "Your portfolio is down for the day.",
			},
		},
	},
	"portfolio-diversification": {
		Slug:        "portfolio-diversification",
		Title:       "Portfolio Diversification",
		Description: "Discover why diversification is key to a healthy investment portfolio.",
		Level:       "Intermediate",
		Category:    "Strategy",
		Content:     "Diversification means not putting all your eggs in one basket. By spreading investments across various asset classes (stocks, bonds, gold), sectors (IT, banking, pharma), and geographies, you can reduce the impact of poor performance in any single area. A well-diversified portfolio is designed to smooth out returns and lower overall volatility over the long term.",
		Quiz: []QuizQuestion{
			{
				Question:      "Which portfolio is the most diversified?",
				Options:       []string{"100% in Tech stocks", "50% Tech, 50% Banking stocks", "Stocks, Bonds, and Gold", "Only Indian stocks"},
				CorrectAnswer: "Stocks, Bonds, and Gold",
				Scenario:      "You have ₹1,00,000 to invest.",
			},
		},
	},
	"algo-trading": {
		Slug:        "algo-trading",
		Title:       "Intro to Algorithmic Trading",
		Description: "Get a high-level overview of automated trading systems and HFT.",
		Level:       "Advanced",
		Category:    "Technology",
		Content:     "Algorithmic trading uses computer programs to execute trades at high speeds based on pre-defined criteria. High-Frequency Trading (HFT) is a type of algo trading that involves executing a large number of orders in fractions of a second. These strategies often rely on complex mathematical models and can capitalize on small, short-term market inefficiencies.",
		Quiz: []QuizQuestion{
			{
				Question:      "What is the primary advantage of algorithmic trading?",
				Options:       []string{"Emotion-free decision making", "High-speed execution", "Ability to backtest strategies", "All of the above"},
				CorrectAnswer: "All of the above",
			},
		},
	},
	"behavioral-finance": {
		Slug:        "behavioral-finance",
		Title:       "Behavioral Finance",
		Description: "Explore the psychological biases that affect investment decisions.",
		Level:       "Intermediate",
		Category:    "Psychology",
		Content:     "Behavioral finance studies how psychology influences the behavior of investors and markets. Common biases include loss aversion (feeling losses more strongly than equivalent gains), herd mentality (following the crowd into or out of positions), and overconfidence (overestimating one's ability to pick winners). Recognizing these biases in your own decisions is the first defense against them.",
		Quiz: []QuizQuestion{
			{
				Question:      "Selling a winning stock too early while holding on to losers is an example of which bias?",
				Options:       []string{"Herd mentality", "Loss aversion", "Anchoring", "Confirmation bias"},
				CorrectAnswer: "Loss aversion",
			},
		},
	},
	"mutual-funds": {
		Slug:        "mutual-funds",
		Title:       "Understanding Mutual Funds",
		Description: "A deep dive into mutual funds, ETFs, and other investment vehicles.",
		Level:       "Beginner",
		Category:    "Products",
		Content:     "A mutual fund pools money from many investors and invests it in a portfolio of stocks, bonds, or other assets, managed by a professional fund manager. Exchange-Traded Funds (ETFs) are similar but trade on exchanges like individual stocks. Both offer instant diversification at low entry amounts, making them popular first investments. Key things to compare are the expense ratio, the fund's mandate, and its long-term track record.",
		Quiz: []QuizQuestion{
			{
				Question:      "What is the main benefit of a mutual fund for a small investor?",
				Options:       []string{"Guaranteed returns", "Instant diversification with a small amount", "No fees", "Direct control over every holding"},
				CorrectAnswer: "Instant diversification with a small amount",
			},
		},
	},
}

// List returns all modules sorted by title.
func List() []Module {
	out := make([]Module, 0, len(modules))
	for _, m := range modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// Get retrieves a module by slug. It returns domain.ErrModuleNotFound
// if no such module exists.
func Get(slug string) (Module, error) {
	m, ok := modules[slug]
	if !ok {
		return Module{}, domain.ErrModuleNotFound
	}
	return m, nil
}
