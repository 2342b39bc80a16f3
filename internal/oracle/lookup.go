package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/lingua/internal/llm"
)

// Definition is a bilingual dictionary entry.
type Definition struct {
	Word        string   `json:"-"`
	Definition  string   `json:"definition"`
	Phonetics   string   `json:"phonetics"`
	Translation string   `json:"translation"`
	Synonyms    []string `json:"synonyms"`
	Examples    []string `json:"examples"`
}

// LookupWord explains word for a learner going from native to target.
func (o *Oracle) LookupWord(ctx context.Context, word, native, target string) (*Definition, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, fmt.Errorf("lookup: empty word")
	}

	ctx = llm.WithPurpose(ctx, PurposeLookup)

	resp, err := o.provider.Generate(ctx, llm.Request{
		System: lookupSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLookupMessage(word, native, target)},
		},
		Schema:    DefinitionSchema,
		MaxTokens: o.config.MaxTokens,
	})
	if err != nil {
		return nil, unavailable("lookup word", err)
	}

	var d Definition
	if err := json.Unmarshal(resp.Content, &d); err != nil {
		return nil, unavailable("lookup word", fmt.Errorf("parse response: %w", err))
	}
	d.Word = word
	return &d, nil
}
