package oracle

import (
	"fmt"
	"strings"

	"github.com/abhisek/lingua/internal/tasks"
)

const taskSystemPrompt = `You are a linguistics professor writing exercises for a language-learning app.

Rules:
- Produce exactly one exercise of the requested type for the requested target language.
- Match the difficulty descriptor closely; do not drift harder or easier.
- listening: "content" and "correct_answer" are the same short sentence of 3 to 8 words in the target language. The learner hears it and rebuilds it from shuffled words.
- reading_comprehension: put a short passage in "reading_passage", a question in "content", and 3 or 4 options.
- grammar and vocabulary: give 3 or 4 options; exactly one is correct and "correct_answer" is its exact text.
- writing_composition: "content" is a theme to write about; "correct_answer" is a short model answer.
- speaking: "content" and "correct_answer" are the phrase the learner must say aloud.
- The explanation is one or two sentences, written for the learner.`

const gradeSystemPrompt = `You grade a language learner's answer. Be fair and encouraging.
Accept answers that fulfil the task with minor mistakes appropriate to the learner's level.
Reject answers that are off-topic, empty, or in the wrong language.`

const lookupSystemPrompt = `You are a bilingual dictionary. Answer only about the word or phrase given.`

func buildTaskMessage(req tasks.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level: %d\n", req.Node)
	fmt.Fprintf(&b, "Task type: %s\n", req.Type)
	fmt.Fprintf(&b, "Target language: %s\n", req.TargetLanguage)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	return b.String()
}

func buildGradeTextMessage(submission, prompt, tier string) string {
	return fmt.Sprintf("Theme: %q\nLearner proficiency: %s\nLearner answer: %q", prompt, tier, submission)
}

func buildGradeSpeechMessage(expected string) string {
	return fmt.Sprintf("Evaluate the pronunciation in the attached recording. The learner was asked to say: %q", expected)
}

func buildTranslateMessage(table map[string]string, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate every value below into %s. Keep each key unchanged and keep the tone short and punchy.\n\n", language)
	for _, k := range sortedKeys(table) {
		fmt.Fprintf(&b, "%s: %s\n", k, table[k])
	}
	return b.String()
}

func buildLookupMessage(word, native, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze %q.\n", word)
	fmt.Fprintf(&b, "The learner speaks %s and is learning %s.\n", native, target)
	fmt.Fprintf(&b, "1. Detect whether the input is %s or %s.\n", native, target)
	b.WriteString("2. Give the translation into the other language.\n")
	fmt.Fprintf(&b, "3. Give a clear definition in %s.\n", target)
	fmt.Fprintf(&b, "4. List 4-5 synonyms in %s.\n", target)
	fmt.Fprintf(&b, "5. Give the phonetic transcription of the %s form.\n", target)
	b.WriteString("6. Give 2 usage examples.\n")
	return b.String()
}
