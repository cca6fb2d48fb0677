package codec

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

// ErrInvalidChunkRange is returned when a chunk length range is empty or
// contains non-positive lengths.
var ErrInvalidChunkRange = errors.New("invalid chunk range")

// SplitChunks cuts text into contiguous pieces whose rune length is drawn
// uniformly from [minLen, maxLen]. The last piece may be shorter. Pieces never
// split a UTF-8 sequence.
func SplitChunks(text string, minLen, maxLen int, rng *rand.Rand) ([]string, error) {
	if minLen < 1 || minLen > maxLen {
		return nil, fmt.Errorf("%w: [%d,%d]", ErrInvalidChunkRange, minLen, maxLen)
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/minLen+1)

	for len(text) > 0 {
		size := minLen + rng.IntN(maxLen-minLen+1)

		end := 0
		for n := 0; n < size && end < len(text); n++ {
			_, w := utf8.DecodeRuneInString(text[end:])
			end += w
		}

		chunks = append(chunks, text[:end])
		text = text[end:]
	}

	return chunks, nil
}

// JoinChunks concatenates chunks in order.
func JoinChunks(chunks []string) string {
	return strings.Join(chunks, "")
}
