// Package advisor is the boundary to the external generation service.
// Each requestor assembles a typed payload, sends one prompt-based
// generation call, and parses the structured response. The service is
// a black box: any failure surfaces as domain.ErrGenerationFailed (or
// domain.ErrSynthesisFailed for speech) and never mutates the ledger.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"google.golang.org/genai"
)

// Advisor holds the Gemini client and model configuration shared by
// all requestors.
type Advisor struct {
	client   *genai.Client
	model    string
	ttsModel string
	ttsVoice string
}

// New initializes the Gemini client. Credentials are resolved by the
// SDK from the environment.
func New(ctx context.Context, model, ttsModel, ttsVoice string) (*Advisor, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing generation client: %w", err)
	}
	return &Advisor{
		client:   client,
		model:    model,
		ttsModel: ttsModel,
		ttsVoice: ttsVoice,
	}, nil
}

const chatSystemPrompt = `You are Nivesh Saathi, an expert AI financial advisor specializing in the stock market and investments. Your goal is to provide insightful, data-driven, and clear answers to users in their local language.

When a user asks a question: analyze the intent, give a clear and accurate answer, and explain complex topics simply. If asked for a prediction, you may give a probabilistic view based on market indicators, but you MUST include a disclaimer that this is not financial advice and is for educational purposes only. Always be helpful, professional, and encouraging. Your name is Nivesh Saathi.`

// Chat answers a free-text investor query in the user's language.
func (a *Advisor) Chat(ctx context.Context, query string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: chatSystemPrompt}}},
	}
	return a.generateText(ctx, cfg, &genai.Part{Text: query})
}

// Image is an inline image attachment for document analysis.
type Image struct {
	MIMEType string
	Data     []byte
}

// DocumentRequest is the payload for document analysis: the document
// text, an optional chart or table image, and the user's question.
type DocumentRequest struct {
	DocumentContent string
	Image           *Image
	Question        string
}

const documentSystemPrompt = `You are an expert financial analyst. Analyze the provided financial document content and an optional image (like a chart or graph) to answer the user's question based only on the information given. Do not use any external knowledge. If the answer cannot be found in the provided materials, state that clearly.`

// AnalyzeDocument answers a question about a financial document,
// grounded only in the supplied material.
func (a *Advisor) AnalyzeDocument(ctx context.Context, req DocumentRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: documentSystemPrompt}}},
	}

	parts := []*genai.Part{
		{Text: fmt.Sprintf("User's Question:\n%q\n\nDocument Content:\n---\n%s\n---\n\nProvide your answer now.", req.Question, req.DocumentContent)},
	}
	if req.Image != nil {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: req.Image.MIMEType,
			Data:     req.Image.Data,
		}})
	}
	return a.generateText(ctx, cfg, parts...)
}

// HoldingInsight is one portfolio line in a suggestions payload.
type HoldingInsight struct {
	Symbol       string  `json:"symbol"`
	Shares       int64   `json:"shares"`
	AvgPrice     float64 `json:"avgPrice"`
	CurrentPrice float64 `json:"currentPrice"`
}

// SuggestionRequest is the payload for personalized suggestions: the
// user's risk category and a snapshot of their holdings.
type SuggestionRequest struct {
	RiskCategory string           `json:"riskProfile"`
	Holdings     []HoldingInsight `json:"portfolio"`
}

const suggestionsSystemPrompt = `You are a personalized financial advisor AI. Analyze the user's investment portfolio and risk tolerance and provide 3-5 clear, concise, actionable suggestions. The suggestions can be about potential risks, diversification opportunities, or interesting market observations relevant to their holdings.`

// Suggestions returns 3-5 personalized observations for the given
// risk category and holdings snapshot.
func (a *Advisor) Suggestions(ctx context.Context, req SuggestionRequest) ([]string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: suggestionsSystemPrompt}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"suggestions": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "A list of personalized suggestions, predictions, or observations.",
				},
			},
			Required: []string{"suggestions"},
		},
	}

	text, err := a.generateText(ctx, cfg,
		&genai.Part{Text: fmt.Sprintf("User's risk profile and portfolio:\n%s\n\nGenerate your personalized suggestions now.", payload)})
	if err != nil {
		return nil, err
	}

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("%w: malformed suggestions response: %v", domain.ErrGenerationFailed, err)
	}
	return out.Suggestions, nil
}

// Translation is the result of translating and summarizing a text.
type Translation struct {
	TranslatedText string `json:"translatedText"`
	Summary        string `json:"summary"`
}

const translateSystemPrompt = `You are an AI assistant that translates and summarizes financial texts. Translate the given text into the target language and provide a summary of the translated text.`

// TranslateAndSummarize translates a financial text into the target
// language and summarizes it.
func (a *Advisor) TranslateAndSummarize(ctx context.Context, text, language string) (Translation, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: translateSystemPrompt}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"translatedText": {Type: genai.TypeString, Description: "The translated text."},
				"summary":        {Type: genai.TypeString, Description: "A summary of the translated text."},
			},
			Required: []string{"translatedText", "summary"},
		},
	}

	raw, err := a.generateText(ctx, cfg,
		&genai.Part{Text: fmt.Sprintf("Target language: %s\n\nText:\n%s", language, text)})
	if err != nil {
		return Translation{}, err
	}

	var out Translation
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Translation{}, fmt.Errorf("%w: malformed translation response: %v", domain.ErrGenerationFailed, err)
	}
	return out, nil
}

// QuizQuestion is one generated multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Scenario      string   `json:"scenario,omitempty"`
}

const quizSystemPrompt = `You are an expert in creating educational content for finance. Generate three high-quality multiple-choice quiz questions based on the provided financial topic and content. Each question should test understanding of a key concept from the text. Provide exactly four options per question; one must be the correct answer. If relevant, add a short, practical scenario for context.`

// GenerateQuiz produces a set of three quiz questions for a learning topic.
func (a *Advisor) GenerateQuiz(ctx context.Context, topicTitle, topicContent string) ([]QuizQuestion, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: quizSystemPrompt}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"questions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"question":      {Type: genai.TypeString, Description: "The quiz question."},
							"options":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "A list of 4 multiple-choice options."},
							"correctAnswer": {Type: genai.TypeString, Description: "The correct answer from the options."},
							"scenario":      {Type: genai.TypeString, Description: "An optional real-world scenario to provide context."},
						},
						Required: []string{"question", "options", "correctAnswer"},
					},
				},
			},
			Required: []string{"questions"},
		},
	}

	raw, err := a.generateText(ctx, cfg,
		&genai.Part{Text: fmt.Sprintf("Topic Title: %s\nTopic Content:\n%s\n\nGenerate three quiz questions now.", topicTitle, topicContent)})
	if err != nil {
		return nil, err
	}

	var out struct {
		Questions []QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: malformed quiz response: %v", domain.ErrGenerationFailed, err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("%w: empty quiz response", domain.ErrGenerationFailed)
	}
	return out.Questions, nil
}

// generateText runs one generation call and returns the response text.
func (a *Advisor) generateText(ctx context.Context, cfg *genai.GenerateContentConfig, parts ...*genai.Part) (string, error) {
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrGenerationFailed)
	}
	return text, nil
}
