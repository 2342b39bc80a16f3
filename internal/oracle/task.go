package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/tasks"
)

var _ tasks.Generator = (*Oracle)(nil)

// InvalidTaskError reports a structurally incomplete task from the
// content service.
type InvalidTaskError struct {
	Field  string
	Reason string
}

func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("invalid task: %s %s", e.Field, e.Reason)
}

// taskOutput is the raw response before validation.
type taskOutput struct {
	TaskID         string   `json:"task_id"`
	Type           string   `json:"type"`
	Instruction    string   `json:"instruction"`
	Content        string   `json:"content"`
	ReadingPassage string   `json:"reading_passage"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correct_answer"`
	Explanation    string   `json:"explanation"`
}

// GenerateTask asks the content service for one exercise. The result is
// only returned once every required field is present; otherwise the error
// wraps both ErrUnavailable and *InvalidTaskError.
func (o *Oracle) GenerateTask(ctx context.Context, req tasks.Request) (*tasks.Task, error) {
	ctx = llm.WithPurpose(ctx, PurposeTaskGen)

	resp, err := o.provider.Generate(ctx, llm.Request{
		System: taskSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTaskMessage(req)},
		},
		Schema:      TaskSchema,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
	})
	if err != nil {
		return nil, unavailable("generate task", err)
	}

	var raw taskOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, unavailable("generate task", fmt.Errorf("parse response: %w", err))
	}

	if err := validateTask(raw, req.Type); err != nil {
		return nil, unavailable("generate task", err)
	}

	return &tasks.Task{
		ID:            raw.TaskID,
		Type:          req.Type,
		Instruction:   strings.TrimSpace(raw.Instruction),
		Content:       strings.TrimSpace(raw.Content),
		Passage:       strings.TrimSpace(raw.ReadingPassage),
		Options:       raw.Options,
		CorrectAnswer: strings.TrimSpace(raw.CorrectAnswer),
		Explanation:   strings.TrimSpace(raw.Explanation),
	}, nil
}

func validateTask(raw taskOutput, typ tasks.Type) error {
	required := []struct {
		field string
		value string
	}{
		{"task_id", raw.TaskID},
		{"instruction", raw.Instruction},
		{"content", raw.Content},
		{"correct_answer", raw.CorrectAnswer},
		{"explanation", raw.Explanation},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &InvalidTaskError{Field: r.field, Reason: "is empty"}
		}
	}

	if typ.OptionBased() {
		if len(raw.Options) < 2 {
			return &InvalidTaskError{Field: "options", Reason: "needs at least 2 entries"}
		}
		answer := strings.TrimSpace(raw.CorrectAnswer)
		if !slices.ContainsFunc(raw.Options, func(o string) bool { return strings.TrimSpace(o) == answer }) {
			return &InvalidTaskError{Field: "correct_answer", Reason: "is not one of the options"}
		}
	}
	return nil
}
