package enigma

// letterIndex folds an ASCII letter of either case to 0-25
func letterIndex(b byte) (int, bool) {
	switch {
	case b >= 'A' && b <= 'Z':
		return int(b - 'A'), true
	case b >= 'a' && b <= 'z':
		return int(b - 'a'), true
	}
	return 0, false
}

// letterByte maps 0-25 back to a letter in the requested case
func letterByte(i int, lower bool) byte {
	if lower {
		return byte('a' + i)
	}
	return byte('A' + i)
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// startsCharacter reports whether b begins a UTF-8 sequence. Continuation
// bytes belong to the character already counted.
func startsCharacter(b byte) bool {
	return b < 0x80 || b >= 0xC0
}

func mod26(n int) int {
	n %= AlphabetSize
	if n < 0 {
		n += AlphabetSize
	}
	return n
}
