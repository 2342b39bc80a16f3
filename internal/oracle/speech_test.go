package oracle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/abhisek/lingua/internal/llm"
)

type memCache struct {
	mu   sync.Mutex
	data map[string]*llm.Audio
	err  error
}

func (m *memCache) Get(_ context.Context, text string) (*llm.Audio, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	a, ok := m.data[text]
	return a, ok, nil
}

func (m *memCache) Set(_ context.Context, text string, a *llm.Audio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.data == nil {
		m.data = map[string]*llm.Audio{}
	}
	m.data[text] = a
	return nil
}

func TestSynthesizeSpeech_UsesVoice(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddSpeech(llm.MockSpeech{Audio: &llm.Audio{MIMEType: "audio/L16", Data: []byte{0, 1}}})

	audio, err := New(mock, DefaultConfig()).SynthesizeSpeech(context.Background(), "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(audio.Data) != 2 {
		t.Fatalf("unexpected audio %+v", audio)
	}
	if mock.Spoken[0].Voice != "Kore" {
		t.Fatalf("voice = %q, want Kore", mock.Spoken[0].Voice)
	}
}

func TestSynthesizeSpeech_Failure(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddSpeech(llm.MockSpeech{Err: &llm.ErrUnsupported{Provider: "openai", Capability: "speech synthesis"}})

	_, err := New(mock, DefaultConfig()).SynthesizeSpeech(context.Background(), "hola")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCachedSpeaker_HitsCacheSecondTime(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddSpeech(llm.MockSpeech{Audio: &llm.Audio{MIMEType: "audio/L16", Data: []byte{9}}})
	speaker := NewCachedSpeaker(New(mock, DefaultConfig()), &memCache{})

	for i := 0; i < 3; i++ {
		audio, err := speaker.SynthesizeSpeech(context.Background(), "buenas noches")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if audio.Data[0] != 9 {
			t.Fatalf("call %d: unexpected audio", i)
		}
	}
	if len(mock.Spoken) != 1 {
		t.Fatalf("expected one synthesis, got %d", len(mock.Spoken))
	}
}

func TestCachedSpeaker_CacheErrorIsMiss(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddSpeech(llm.MockSpeech{Audio: &llm.Audio{Data: []byte{1}}})
	speaker := NewCachedSpeaker(New(mock, DefaultConfig()), &memCache{err: errors.New("redis down")})

	if _, err := speaker.SynthesizeSpeech(context.Background(), "hola"); err != nil {
		t.Fatalf("cache failure should not fail synthesis: %v", err)
	}
}
