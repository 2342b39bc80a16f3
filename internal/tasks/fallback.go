package tasks

import "fmt"

// Neutral content used when the content service cannot produce a task.
const (
	FallbackInstruction = "Linguistic node active."
	FallbackContent     = "Neural link established."
	FallbackExplanation = "Fallback content synced."
)

// Fallback returns the deterministic placeholder task for typ at node and
// position. The answer equals the content so the learner can always pass.
func Fallback(typ Type, node, position int) Task {
	t := Task{
		ID:            fmt.Sprintf("fallback-%d-%d", node, position),
		Type:          typ,
		Instruction:   FallbackInstruction,
		Content:       FallbackContent,
		CorrectAnswer: FallbackContent,
		Explanation:   FallbackExplanation,
	}
	if typ.OptionBased() {
		t.Options = []string{FallbackContent}
	}
	return t
}
