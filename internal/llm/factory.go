package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration.
// The result is wrapped with timeout and event logging middleware and
// always satisfies Synthesizer; providers without speech support report
// *ErrUnsupported from Synthesize.
func NewProvider(ctx context.Context, cfg Config, recorder RequestRecorder) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → logging → base
	logged := WithLogging(base, recorder)
	return WithTimeout(logged, cfg.Timeout), nil
}

// synthesize forwards to p when it can speak.
func synthesize(ctx context.Context, p Provider, req SpeechRequest) (*Audio, error) {
	s, ok := p.(Synthesizer)
	if !ok {
		return nil, &ErrUnsupported{Provider: p.ModelID(), Capability: "speech synthesis"}
	}
	return s.Synthesize(ctx, req)
}
