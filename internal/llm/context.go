package llm

import "context"

// UnknownPurpose labels calls made without WithPurpose.
const UnknownPurpose = "unknown"

type purposeKey struct{}

// WithPurpose tags ctx with the oracle operation it serves, such as
// "task-gen" or "dictionary". The tag ends up on the recorded LLM event
// and in schema validation errors.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or UnknownPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return UnknownPurpose
}
