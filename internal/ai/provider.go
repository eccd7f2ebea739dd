package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnavailable = errors.New("ai provider not configured")

// Message is one role-tagged turn handed to the chat completion capability.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// IProvider is a remote model provider exposing the two capabilities the
// pipelines need: text embedding and chat completion.
type IProvider interface {
	Name() string
	Embed(ctx context.Context, model string, text string) ([]float32, error)
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}

// IEmbedder converts text into a fixed-dimension vector.
type IEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ICompleter produces an answer for an ordered message sequence.
type ICompleter interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type embedder struct {
	provider IProvider
	model    string
}

func NewEmbedder(p IProvider, model string) IEmbedder {
	return &embedder{provider: p, model: model}
}

func (e *embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.provider.Embed(ctx, e.model, text)
}

type completer struct {
	provider IProvider
	model    string
}

func NewCompleter(p IProvider, model string) ICompleter {
	return &completer{provider: p, model: model}
}

func (c *completer) Complete(ctx context.Context, messages []Message) (string, error) {
	return c.provider.Complete(ctx, c.model, messages)
}

type ProviderFactory func(args interface{}) (IProvider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("ai provider name is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("ai provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode ai provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode ai provider config: %w", err)
	}
	return nil
}
