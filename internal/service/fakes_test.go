package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/docbrain/docbrain/internal/ai"
)

const fakeDims = 64

// fakeEmbedder produces a deterministic bag-of-words vector so texts that
// share words land near each other under cosine similarity. Each distinct
// word gets its own dimension, assigned on first sight.
type fakeEmbedder struct {
	failOn string

	mu    sync.Mutex
	vocab map[string]int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("embedding backend unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vocab == nil {
		f.vocab = make(map[string]int)
	}
	vec := make([]float32, fakeDims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,?!")
		idx, ok := f.vocab[word]
		if !ok {
			idx = len(f.vocab) % fakeDims
			f.vocab[word] = idx
		}
		vec[idx]++
	}
	return vec, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding backend unavailable")
}

// captureCompleter records the message sequence it was handed and returns a
// canned answer.
type captureCompleter struct {
	messages []ai.Message
	answer   string
	err      error
}

func (c *captureCompleter) Complete(_ context.Context, messages []ai.Message) (string, error) {
	c.messages = messages
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}
