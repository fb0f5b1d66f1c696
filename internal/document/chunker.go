package document

import "strings"

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk splits text into overlapping windows of roughly size characters.
// When a window would cut a sentence, the split moves back to the last ". "
// past the window's midpoint. Consecutive chunks share overlap characters so
// retrieval does not lose context at the seams.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 5
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = appendChunk(chunks, runes[start:])
			break
		}

		window := runes[start:end]
		if bp := lastSentenceBreak(window); bp > size/2 {
			end = start + bp + 1
		}
		chunks = appendChunk(chunks, runes[start:end])

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func appendChunk(chunks []string, rs []rune) []string {
	s := strings.TrimSpace(string(rs))
	if s == "" {
		return chunks
	}
	return append(chunks, s)
}

func lastSentenceBreak(rs []rune) int {
	for i := len(rs) - 2; i >= 0; i-- {
		if rs[i] == '.' && rs[i+1] == ' ' {
			return i
		}
	}
	return -1
}
