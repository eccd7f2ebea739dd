package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrFetch              = errors.New("fetch failed")
	ErrUnsupportedContent = errors.New("unsupported content type")
	ErrExtraction         = errors.New("extraction failed")
	ErrEmbedding          = errors.New("embedding failed")
	ErrRetrieval          = errors.New("retrieval failed")
	ErrCompletion         = errors.New("completion failed")
)

// Wrap attaches a human-readable detail message to one of the sentinel
// kinds above. The kind stays matchable with errors.Is, the message is
// what ends up in the HTTP error body.
func Wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCallerFault reports whether the error is caused by the request itself
// (bad field, bad URL, bad source document) rather than an upstream provider.
func IsCallerFault(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrFetch) ||
		errors.Is(err, ErrUnsupportedContent) ||
		errors.Is(err, ErrExtraction)
}

// IsUpstreamFault reports whether the error comes from one of the external
// capabilities (embedding, vector store, chat completion).
func IsUpstreamFault(err error) bool {
	return errors.Is(err, ErrEmbedding) ||
		errors.Is(err, ErrRetrieval) ||
		errors.Is(err, ErrCompletion)
}

// Detail strips the sentinel prefix, leaving only the human-readable part.
// Falls back to the full error text when the error is not a wrapped kind.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range []error{
		ErrInvalidInput, ErrFetch, ErrUnsupportedContent, ErrExtraction,
		ErrEmbedding, ErrRetrieval, ErrCompletion,
	} {
		if errors.Is(err, kind) {
			msg := err.Error()
			prefix := kind.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
