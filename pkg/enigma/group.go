package enigma

import "strings"

// DefaultGroupSize is the traditional five-letter block
const DefaultGroupSize = 5

// Group drops everything but letters and splits the rest into upper-case
// blocks of size n separated by spaces. n <= 0 returns the letters unsplit.
func Group(text string, n int) string {
	letters := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if c, ok := letterIndex(text[i]); ok {
			letters = append(letters, letterByte(c, false))
		}
	}
	if n <= 0 || len(letters) <= n {
		return string(letters)
	}

	var sb strings.Builder
	sb.Grow(len(letters) + len(letters)/n)
	for i := 0; i < len(letters); i += n {
		if i > 0 {
			sb.WriteByte(' ')
		}
		end := min(i+n, len(letters))
		sb.Write(letters[i:end])
	}
	return sb.String()
}
