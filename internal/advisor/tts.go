package advisor

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"google.golang.org/genai"
)

// Synthesize converts text to speech and returns a playable audio data
// URI. Failures surface as domain.ErrSynthesisFailed.
func (a *Advisor) Synthesize(ctx context.Context, text string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: a.ttsVoice},
			},
		},
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: text}}}}
	resp, err := a.client.Models.GenerateContent(ctx, a.ttsModel, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSynthesisFailed, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", domain.ErrSynthesisFailed)
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "audio/pcm"
			}
			return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(part.InlineData.Data)), nil
		}
	}
	return "", fmt.Errorf("%w: no audio in response", domain.ErrSynthesisFailed)
}
