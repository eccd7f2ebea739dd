package chunker

import "strings"

// DefaultSize is the target character size of one chunk.
const DefaultSize = 1000

// Split walks the words of text in order and greedily accumulates them into
// groups. A group is emitted once its running size (each word counts its
// length plus one separator) reaches size; whatever remains after the last
// word is emitted as a final, possibly smaller, chunk.
//
// Split is pure: identical input always yields identical output, and no
// emitted chunk is ever empty.
func Split(text string, size int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	words := strings.Fields(text)
	var chunks []string
	var current []string
	currentSize := 0
	for _, word := range words {
		current = append(current, word)
		currentSize += len(word) + 1
		if currentSize >= size {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentSize = 0
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
