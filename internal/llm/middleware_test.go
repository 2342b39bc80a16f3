package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/lingua/internal/store"
)

type fakeRecorder struct {
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	f.events = append(f.events, data)
	return f.err
}

// blockingProvider waits for cancellation on every call.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"correct_answer":"hola"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4},
	})
	p := WithLogging(mock, rec)

	ctx := WithPurpose(context.Background(), "task-gen")
	if _, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "make a task"}},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Purpose != "task-gen" || !ev.Success {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 4 {
		t.Fatalf("tokens = %d/%d, want 12/4", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "make a task") {
		t.Fatalf("request body missing prompt: %q", ev.RequestBody)
	}
	if ev.ResponseBody != `{"correct_answer":"hola"}` {
		t.Fatalf("response body = %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RecorderErrorDoesNotFailRequest(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), rec)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("recorder failure leaked into request: %v", err)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	rec := &fakeRecorder{}
	p := WithLogging(NewMockProvider(), rec)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error from empty mock")
	}
	if len(rec.events) != 1 || rec.events[0].Success || rec.events[0].ErrorMessage == "" {
		t.Fatalf("expected one failed event, got %+v", rec.events)
	}
}

func TestLoggingProvider_ForwardsSpeech(t *testing.T) {
	mock := NewMockProvider()
	mock.AddSpeech(MockSpeech{Audio: &Audio{MIMEType: "audio/L16", Data: []byte{1, 2}}})
	p := WithLogging(mock, nil)

	s, ok := p.(Synthesizer)
	if !ok {
		t.Fatal("logging provider should implement Synthesizer")
	}
	audio, err := s.Synthesize(context.Background(), SpeechRequest{Text: "buenos días"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(audio.Data) != 2 {
		t.Fatalf("expected 2 bytes of audio, got %d", len(audio.Data))
	}
	if mock.Spoken[0].Text != "buenos días" {
		t.Fatalf("unexpected speech request %+v", mock.Spoken[0])
	}
}

func TestSynthesize_UnsupportedProvider(t *testing.T) {
	p := WithTimeout(blockingProvider{}, time.Second)
	_, err := p.(Synthesizer).Synthesize(context.Background(), SpeechRequest{Text: "hi"})

	var unsupported *ErrUnsupported
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected ErrUnsupported, got %T (%v)", err, err)
	}
}

func TestTimeoutProvider_ReportsUnavailable(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestWithTimeout_ZeroIsPassthrough(t *testing.T) {
	mock := NewMockProvider()
	if p := WithTimeout(mock, 0); p != Provider(mock) {
		t.Fatal("zero timeout should return the provider unchanged")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock model, got %q", p.ModelID())
	}
	if _, ok := p.(Synthesizer); !ok {
		t.Fatal("factory result should implement Synthesizer")
	}
}

func TestEstimateCost(t *testing.T) {
	got := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	if got != 0.75 {
		t.Fatalf("cost = %v, want 0.75", got)
	}
	if EstimateCost("unknown-model", 10, 10) != 0 {
		t.Fatal("unknown model should cost 0")
	}
}
