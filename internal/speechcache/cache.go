// Package speechcache stores synthesized phrase audio so repeated playback
// does not hit the speech provider again.
package speechcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/oracle"
)

// Cache is the storage contract used by oracle.CachedSpeaker.
type Cache = oracle.AudioCache

// key normalizes text so trivially different phrasings share an entry.
func key(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}

// DefaultMemoryEntries bounds the in-memory cache.
const DefaultMemoryEntries = 256

// Memory is a bounded in-process cache. When full, the oldest entry is
// evicted.
type Memory struct {
	mu      sync.Mutex
	max     int
	entries map[string]llm.Audio
	order   []string
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a cache holding at most max entries. max <= 0 uses
// DefaultMemoryEntries.
func NewMemory(max int) *Memory {
	if max <= 0 {
		max = DefaultMemoryEntries
	}
	return &Memory{max: max, entries: make(map[string]llm.Audio)}
}

func (m *Memory) Get(_ context.Context, text string) (*llm.Audio, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.entries[key(text)]
	if !ok {
		return nil, false, nil
	}
	return cloneAudio(a), true, nil
}

func (m *Memory) Set(_ context.Context, text string, audio *llm.Audio) error {
	if audio == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(text)
	if _, ok := m.entries[k]; !ok {
		if len(m.order) >= m.max {
			delete(m.entries, m.order[0])
			m.order = m.order[1:]
		}
		m.order = append(m.order, k)
	}
	m.entries[k] = *cloneAudio(*audio)
	return nil
}

// Len returns the number of cached phrases.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func cloneAudio(a llm.Audio) *llm.Audio {
	return &llm.Audio{MIMEType: a.MIMEType, Data: append([]byte(nil), a.Data...)}
}
