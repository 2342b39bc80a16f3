package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
// Speech requests are served from a separate queue.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	speech    []MockSpeech
	Calls     []Request
	Spoken    []SpeechRequest
}

// MockSpeech is a canned result for Synthesize.
type MockSpeech struct {
	Audio *Audio
	Err   error
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// AddSpeech appends a canned speech result to the queue.
func (m *MockProvider) AddSpeech(s MockSpeech) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speech = append(m.speech, s)
}

// Synthesize returns the next canned speech result or
// ErrProviderUnavailable if the queue is empty.
func (m *MockProvider) Synthesize(_ context.Context, req SpeechRequest) (*Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Spoken = append(m.Spoken, req)

	if len(m.speech) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	s := m.speech[0]
	m.speech = m.speech[1:]
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Audio, nil
}
