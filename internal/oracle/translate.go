package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/abhisek/lingua/internal/llm"
)

type translationOutput struct {
	Entries []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"entries"`
}

// TranslateStrings translates every value of table into language. The
// result only contains keys present in table; keys the service dropped are
// simply absent and the caller keeps its defaults for them.
func (o *Oracle) TranslateStrings(ctx context.Context, table map[string]string, language string) (map[string]string, error) {
	ctx = llm.WithPurpose(ctx, PurposeTranslate)

	resp, err := o.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTranslateMessage(table, language)},
		},
		Schema:    TranslationSchema,
		MaxTokens: 4096,
	})
	if err != nil {
		return nil, unavailable("translate strings", err)
	}

	var raw translationOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, unavailable("translate strings", fmt.Errorf("parse response: %w", err))
	}

	out := make(map[string]string, len(raw.Entries))
	for _, e := range raw.Entries {
		if _, known := table[e.Key]; known && e.Value != "" {
			out[e.Key] = e.Value
		}
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
