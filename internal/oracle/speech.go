package oracle

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/llm"
)

// Speaker turns text into audio.
type Speaker interface {
	SynthesizeSpeech(ctx context.Context, text string) (*llm.Audio, error)
}

// SynthesizeSpeech renders text as audio with the configured voice.
// Failures only disable playback; they never affect grading.
func (o *Oracle) SynthesizeSpeech(ctx context.Context, text string) (*llm.Audio, error) {
	ctx = llm.WithPurpose(ctx, PurposeSpeech)

	s, ok := o.provider.(llm.Synthesizer)
	if !ok {
		return nil, unavailable("synthesize speech", &llm.ErrUnsupported{
			Provider:   o.provider.ModelID(),
			Capability: "speech synthesis",
		})
	}

	audio, err := s.Synthesize(ctx, llm.SpeechRequest{Text: text, Voice: o.config.Voice})
	if err != nil {
		return nil, unavailable("synthesize speech", err)
	}
	if audio == nil || len(audio.Data) == 0 {
		return nil, unavailable("synthesize speech", fmt.Errorf("empty audio"))
	}
	return audio, nil
}

// AudioCache stores synthesized audio keyed by its text.
type AudioCache interface {
	Get(ctx context.Context, text string) (*llm.Audio, bool, error)
	Set(ctx context.Context, text string, audio *llm.Audio) error
}

// CachedSpeaker serves repeated phrases from a cache. Cache errors are
// logged and treated as misses.
type CachedSpeaker struct {
	inner Speaker
	cache AudioCache
}

// NewCachedSpeaker wraps inner with cache.
func NewCachedSpeaker(inner Speaker, cache AudioCache) *CachedSpeaker {
	return &CachedSpeaker{inner: inner, cache: cache}
}

func (c *CachedSpeaker) SynthesizeSpeech(ctx context.Context, text string) (*llm.Audio, error) {
	if audio, ok, err := c.cache.Get(ctx, text); err != nil {
		logrus.WithError(err).Warn("speech cache read failed")
	} else if ok {
		return audio, nil
	}

	audio, err := c.inner.SynthesizeSpeech(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, text, audio); err != nil {
		logrus.WithError(err).Warn("speech cache write failed")
	}
	return audio, nil
}
