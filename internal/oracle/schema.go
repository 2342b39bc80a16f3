package oracle

import "github.com/abhisek/lingua/internal/llm"

// TaskSchema is the response shape for one generated exercise.
var TaskSchema = &llm.Schema{
	Name:        "lesson-task",
	Description: "A single language-learning exercise with its answer and explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_id": map[string]any{
				"type":        "string",
				"description": "A short unique identifier for the task",
			},
			"type": map[string]any{
				"type":        "string",
				"description": "The exercise type that was requested",
			},
			"instruction": map[string]any{
				"type":        "string",
				"description": "What the learner must do, in one sentence",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The sentence, question or theme the exercise is about",
			},
			"reading_passage": map[string]any{
				"type":        "string",
				"description": "The passage to read for reading comprehension; empty otherwise",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Answer options for grammar, vocabulary and reading; empty otherwise",
			},
			"correct_answer": map[string]any{
				"type":        "string",
				"description": "The exact correct answer. For option tasks, the text of the correct option.",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the answer is correct, shown after the learner answers",
			},
		},
		"required":             []any{"task_id", "type", "instruction", "content", "correct_answer", "explanation"},
		"additionalProperties": false,
	},
}

// GradeSchema is the response shape for free-text and speech grading.
var GradeSchema = &llm.Schema{
	Name:        "answer-grade",
	Description: "A correctness judgment with short feedback for the learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer is acceptable",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One or two sentences of feedback addressed to the learner",
			},
		},
		"required":             []any{"is_correct", "feedback"},
		"additionalProperties": false,
	},
}

// TranslationSchema carries a translated string table as key/value pairs.
var TranslationSchema = &llm.Schema{
	Name:        "ui-strings",
	Description: "Translated user interface strings keyed by their identifiers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"entries": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"key":   map[string]any{"type": "string"},
						"value": map[string]any{"type": "string"},
					},
					"required":             []any{"key", "value"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"entries"},
		"additionalProperties": false,
	},
}

// DefinitionSchema is the response shape for a dictionary lookup.
var DefinitionSchema = &llm.Schema{
	Name:        "dictionary-entry",
	Description: "A bilingual dictionary entry for one word or phrase",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"definition":  map[string]any{"type": "string"},
			"phonetics":   map[string]any{"type": "string"},
			"translation": map[string]any{"type": "string"},
			"synonyms": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"examples": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"definition", "phonetics", "translation", "synonyms", "examples"},
		"additionalProperties": false,
	},
}
