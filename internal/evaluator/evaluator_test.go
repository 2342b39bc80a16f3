package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/oracle"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/tasks"
)

type stubGrader struct {
	grade     oracle.Grade
	err       error
	textCalls int
	audioSeen []llm.Audio
	tierSeen  profile.Tier
}

func (s *stubGrader) GradeFreeText(_ context.Context, _, _ string, tier profile.Tier) (oracle.Grade, error) {
	s.textCalls++
	s.tierSeen = tier
	return s.grade, s.err
}

func (s *stubGrader) GradeSpeech(_ context.Context, audio llm.Audio, _ string) (oracle.Grade, error) {
	s.audioSeen = append(s.audioSeen, audio)
	return s.grade, s.err
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"The cat sleeps.", "the cat sleeps"},
		{"  ¿Dónde está?  ", "¿dónde está"},
		{"Hello, world!", "hello world"},
		{";yes;", "yes"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEvaluate_WordReassembly(t *testing.T) {
	task := tasks.Task{Type: tasks.Listening, CorrectAnswer: "The cat sleeps.", Explanation: "Subject then verb."}
	e := New(nil, nil)

	orders := []struct {
		sentence string
		want     bool
	}{
		{"the cat sleeps", true},
		{"cat the sleeps", false},
		{"sleeps cat the", false},
		{"the sleeps cat", false},
		{"cat sleeps the", false},
		{"sleeps the cat", false},
	}
	for _, o := range orders {
		res := e.Evaluate(context.Background(), task, Submission{Text: o.sentence}, profile.TierBeginner)
		if res.Correct != o.want {
			t.Errorf("%q: correct = %v, want %v", o.sentence, res.Correct, o.want)
		}
		if res.Feedback != task.Explanation || res.Graded != SourceLocal {
			t.Errorf("%q: unexpected result %+v", o.sentence, res)
		}
	}
}

func TestEvaluate_OptionTasks(t *testing.T) {
	e := New(nil, nil)
	for _, typ := range []tasks.Type{tasks.Grammar, tasks.Vocabulary, tasks.ReadingComprehension} {
		task := tasks.Task{Type: typ, Options: []string{"El", "La"}, CorrectAnswer: "El", Explanation: "Masculine."}

		if !e.Evaluate(context.Background(), task, Submission{Text: "el"}, profile.TierBeginner).Correct {
			t.Errorf("%s: case-insensitive match should pass", typ)
		}
		if e.Evaluate(context.Background(), task, Submission{Text: "La"}, profile.TierBeginner).Correct {
			t.Errorf("%s: wrong option should fail", typ)
		}
	}
}

func TestEvaluate_WritingUsesGrader(t *testing.T) {
	g := &stubGrader{grade: oracle.Grade{Correct: false, Feedback: "Too short for the theme."}}
	task := tasks.Task{Type: tasks.WritingComposition, Content: "Your last holiday"}

	res := New(g, nil).Evaluate(context.Background(), task, Submission{Text: "I went to the sea and swam."}, profile.TierFluent)
	if res.Correct || res.Feedback != "Too short for the theme." || res.Graded != SourceOracle {
		t.Fatalf("unexpected result %+v", res)
	}
	if g.tierSeen != profile.TierFluent {
		t.Fatalf("tier = %s", g.tierSeen)
	}
}

func TestEvaluate_WritingFallbackLength(t *testing.T) {
	g := &stubGrader{err: oracle.ErrUnavailable}
	task := tasks.Task{Type: tasks.WritingComposition, Content: "Your family"}
	e := New(g, nil)

	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"hello", false},
		{"   hello   ", false},
		{"hello!", true},
		{"My family is big.", true},
	}
	for _, tt := range tests {
		res := e.Evaluate(context.Background(), task, Submission{Text: tt.text}, profile.TierAdvanced)
		if res.Correct != tt.want {
			t.Errorf("%q: correct = %v, want %v", tt.text, res.Correct, tt.want)
		}
		if res.Feedback != WritingFallbackFeedback || res.Graded != SourceFallback {
			t.Errorf("%q: unexpected fallback result %+v", tt.text, res)
		}
	}
	if g.textCalls != len(tests) {
		t.Fatalf("expected one grader call per submission, got %d", g.textCalls)
	}
}

func TestEvaluate_SpeakingFailOpen(t *testing.T) {
	g := &stubGrader{err: errors.New("audio input unsupported")}
	task := tasks.Task{Type: tasks.Speaking, CorrectAnswer: "buenos días"}
	audio := &llm.Audio{MIMEType: "audio/wav", Data: []byte("RIFF")}

	res := New(g, nil).Evaluate(context.Background(), task, Submission{Audio: audio}, profile.TierBeginner)
	if !res.Correct || res.Feedback != SpeakingFallbackFeedback {
		t.Fatalf("expected fail-open acceptance, got %+v", res)
	}
	if len(g.audioSeen) != 1 {
		t.Fatalf("expected exactly one grading attempt, got %d", len(g.audioSeen))
	}
}

func TestEvaluate_SpeakingGraded(t *testing.T) {
	g := &stubGrader{grade: oracle.Grade{Correct: false, Feedback: "Roll the r."}}
	task := tasks.Task{Type: tasks.Speaking, CorrectAnswer: "perro"}

	res := New(g, nil).Evaluate(context.Background(), task, Submission{Audio: &llm.Audio{Data: []byte{1}}}, profile.TierBeginner)
	if res.Correct || res.Graded != SourceOracle {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestEvaluate_SpeakingWithoutRecording(t *testing.T) {
	g := &stubGrader{}
	res := New(g, nil).Evaluate(context.Background(), tasks.Task{Type: tasks.Speaking}, Submission{}, profile.TierBeginner)
	if !res.Correct || res.Graded != SourceFallback {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(g.audioSeen) != 0 {
		t.Fatal("grader should not be called without audio")
	}
}
