package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/profile"
)

// Grade is a correctness judgment from the content service.
type Grade struct {
	Correct  bool   `json:"is_correct"`
	Feedback string `json:"feedback"`
}

// GradeFreeText judges a written composition against its theme.
func (o *Oracle) GradeFreeText(ctx context.Context, submission, prompt string, tier profile.Tier) (Grade, error) {
	ctx = llm.WithPurpose(ctx, PurposeGradeText)

	return o.grade(ctx, "grade writing", llm.Message{
		Role:    llm.RoleUser,
		Content: buildGradeTextMessage(submission, prompt, string(tier)),
	})
}

// GradeSpeech judges a recorded sample against the expected phrase. The
// audio travels as an inline attachment, so only providers with audio
// input can serve it.
func (o *Oracle) GradeSpeech(ctx context.Context, audio llm.Audio, expected string) (Grade, error) {
	ctx = llm.WithPurpose(ctx, PurposeGradeSpeech)

	if len(audio.Data) == 0 {
		return Grade{}, unavailable("grade speech", fmt.Errorf("empty recording"))
	}

	return o.grade(ctx, "grade speech", llm.Message{
		Role:    llm.RoleUser,
		Content: buildGradeSpeechMessage(expected),
		Attachments: []llm.Attachment{
			{MIMEType: audio.MIMEType, Data: audio.Data},
		},
	})
}

func (o *Oracle) grade(ctx context.Context, call string, msg llm.Message) (Grade, error) {
	resp, err := o.provider.Generate(ctx, llm.Request{
		System:    gradeSystemPrompt,
		Messages:  []llm.Message{msg},
		Schema:    GradeSchema,
		MaxTokens: o.config.MaxTokens,
	})
	if err != nil {
		return Grade{}, unavailable(call, err)
	}

	var g Grade
	if err := json.Unmarshal(resp.Content, &g); err != nil {
		return Grade{}, unavailable(call, fmt.Errorf("parse response: %w", err))
	}
	return g, nil
}
