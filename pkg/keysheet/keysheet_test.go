package keysheet

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

func checkKey(t *testing.T, s enigma.Settings) {
	t.Helper()

	_, err := enigma.New(s)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, r := range s.Rotors {
		assert.Less(t, r, RotorPool)
		assert.False(t, seen[r], "rotor %d chosen twice", r)
		seen[r] = true
	}
	assert.Len(t, s.Plugboard, PlugPairs)
	assert.Equal(t, enigma.DefaultReflector, s.Reflector)
}

func TestRandom(t *testing.T) {
	a, err := Random()
	require.NoError(t, err)
	checkKey(t, a)

	b, err := Random()
	require.NoError(t, err)
	checkKey(t, b)

	assert.NotEqual(t, a, b)
}

func TestDerive(t *testing.T) {
	a, err := Derive("wetterbericht", "2026-10-17")
	require.NoError(t, err)
	checkKey(t, a)

	again, err := Derive("wetterbericht", "2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, a, again, "same passphrase and label must give the same key")

	nextDay, err := Derive("wetterbericht", "2026-10-18")
	require.NoError(t, err)
	assert.NotEqual(t, a, nextDay)
}

func TestDeriveEmptyPassphrase(t *testing.T) {
	_, err := Derive("", "2026-10-17")
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestGenerateFromFixedStream(t *testing.T) {
	// Zero bytes always pick index 0: rotors I, II, III, dials at A and
	// the plugboard pairs the alphabet in order.
	s, err := generate(bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, s.Rotors)
	assert.Equal(t, []int{0, 0, 0}, s.Positions)
	assert.Equal(t, []int{0, 0, 0}, s.Rings)
	assert.Equal(t, []string{"AB", "CD", "EF", "GH", "IJ", "KL", "MN", "OP", "QR", "ST"}, s.Plugboard)
}

func TestGenerateExhaustedSource(t *testing.T) {
	_, err := generate(bytes.NewReader(make([]byte, 4)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF))
}

func TestPickerRejectsBiasedBytes(t *testing.T) {
	// 255 is above the largest multiple of 26 and must be skipped
	p := &picker{r: bytes.NewReader([]byte{255, 254, 27})}
	v, err := p.intn(26)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
