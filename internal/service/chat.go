package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docbrain/docbrain/internal/ai"
	"github.com/docbrain/docbrain/internal/pkg/apperr"
	"github.com/docbrain/docbrain/internal/vectorstore"
)

// topK is how many nearest chunks feed the answer context.
const topK = 3

const systemPrompt = "You are an AI assistant helping developers understand API documentation. " +
	"Provide clear, concise answers and include code examples when relevant."

// fallbackContext is returned when retrieval finds nothing usable. It is a
// valid context, not an error: the model still gets to answer.
const fallbackContext = "I don't have enough context about this API documentation yet. " +
	"Could you try asking about something else, or try processing the documentation first?"

// Chat answers questions over previously indexed documentation: embed the
// question, pull the nearest chunks, hand context plus history to the
// completion capability.
type Chat struct {
	embedder  ai.IEmbedder
	completer ai.ICompleter
	store     vectorstore.Store
}

func NewChat(embedder ai.IEmbedder, completer ai.ICompleter, store vectorstore.Store) *Chat {
	return &Chat{embedder: embedder, completer: completer, store: store}
}

// RetrieveContext embeds the question and assembles the retrieved chunk
// texts, best match first, into a single newline-joined context block.
func (s *Chat) RetrieveContext(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperr.Wrap(apperr.ErrInvalidInput, "question cannot be empty")
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrEmbedding, "error creating question embedding: %v", err)
	}

	matches, err := s.store.Query(ctx, vector, topK)
	if err != nil {
		if vectorstore.IsMisconfigured(err) {
			return "", apperr.Wrap(apperr.ErrRetrieval, "unable to reach the vector index, check the index name and connection settings")
		}
		return "", apperr.Wrap(apperr.ErrRetrieval, "error querying vector index: %v", err)
	}

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	contextBlock := strings.Join(texts, "\n")
	if len(matches) == 0 || strings.TrimSpace(contextBlock) == "" {
		logutil.GetLogger(ctx).Info("no usable context retrieved", zap.Int("matches", len(matches)))
		return fallbackContext, nil
	}
	return contextBlock, nil
}

// Answer runs the full question flow: validate history, retrieve context,
// build the prompt and invoke the completion capability. The generated text
// is returned verbatim.
func (s *Chat) Answer(ctx context.Context, question string, history []ai.Message) (string, error) {
	if err := validateHistory(history); err != nil {
		return "", err
	}
	contextBlock, err := s.RetrieveContext(ctx, question)
	if err != nil {
		return "", err
	}
	messages := buildMessages(question, contextBlock, history)
	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCompletion, "error creating chat completion: %v", err)
	}
	return answer, nil
}

func validateHistory(history []ai.Message) error {
	for i, msg := range history {
		if msg.Role == "" || msg.Content == "" {
			return apperr.Wrap(apperr.ErrInvalidInput,
				"invalid message format in conversation history entry %d: expected role and content", i)
		}
	}
	return nil
}

// buildMessages produces the completion prompt: the fixed system persona,
// one user message carrying the retrieved context and the literal question,
// then the prior history verbatim in its original order.
func buildMessages(question, contextBlock string, history []ai.Message) []ai.Message {
	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages,
		ai.Message{Role: ai.RoleSystem, Content: systemPrompt},
		ai.Message{
			Role:    ai.RoleUser,
			Content: fmt.Sprintf("Given this API documentation context:\n%s\n\nQuestion: %s", contextBlock, question),
		},
	)
	messages = append(messages, history...)
	return messages
}
