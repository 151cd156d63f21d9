// Package keysheet draws machine keys the way a monthly key sheet would
// list them: three different rotors from I-V, random rings and start
// positions, reflector B and ten plug pairs.
package keysheet

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

const (
	// RotorPool is how many catalog rotors (I-V) a key chooses from
	RotorPool = 5

	// PlugPairs is the number of plugboard cables in a key
	PlugPairs = 10

	// PBKDF2Iterations stretches passphrases for Derive
	PBKDF2Iterations = 600000

	keySize    = 32
	saltPrefix = "cluso-enigma keysheet v1:"
)

var ErrEmptyPassphrase = errors.New("keysheet: passphrase must not be empty")

// Random draws a key from crypto/rand
func Random() (enigma.Settings, error) {
	return generate(rand.Reader)
}

// Derive draws a key deterministically from a passphrase and a label such
// as a date. The same pair always yields the same key.
func Derive(passphrase, label string) (enigma.Settings, error) {
	if passphrase == "" {
		return enigma.Settings{}, ErrEmptyPassphrase
	}
	key := pbkdf2.Key([]byte(passphrase), []byte(saltPrefix+label), PBKDF2Iterations, keySize, sha256.New)
	return generate(hkdf.New(sha256.New, key, nil, []byte(label)))
}

// generate consumes r as a source of uniform bytes
func generate(r io.Reader) (enigma.Settings, error) {
	p := &picker{r: r}

	pool := make([]int, RotorPool)
	for i := range pool {
		pool[i] = i
	}
	if err := p.shuffle(pool, enigma.RotorSlots); err != nil {
		return enigma.Settings{}, err
	}

	s := enigma.Settings{
		Rotors:    append([]int(nil), pool[:enigma.RotorSlots]...),
		Positions: make([]int, enigma.RotorSlots),
		Rings:     make([]int, enigma.RotorSlots),
		Reflector: enigma.DefaultReflector,
	}
	for _, dial := range [][]int{s.Rings, s.Positions} {
		for i := range dial {
			v, err := p.intn(enigma.AlphabetSize)
			if err != nil {
				return enigma.Settings{}, err
			}
			dial[i] = v
		}
	}

	letters := make([]int, enigma.AlphabetSize)
	for i := range letters {
		letters[i] = i
	}
	if err := p.shuffle(letters, 2*PlugPairs); err != nil {
		return enigma.Settings{}, err
	}
	s.Plugboard = make([]string, PlugPairs)
	for i := range s.Plugboard {
		s.Plugboard[i] = string([]byte{byte('A' + letters[2*i]), byte('A' + letters[2*i+1])})
	}

	return s, nil
}

// picker turns a byte stream into unbiased small integers
type picker struct {
	r   io.Reader
	buf [1]byte
}

// intn returns a uniform value in [0, n) for 0 < n <= 256
func (p *picker) intn(n int) (int, error) {
	limit := 256 - 256%n
	for {
		if _, err := io.ReadFull(p.r, p.buf[:]); err != nil {
			return 0, fmt.Errorf("keysheet: random source exhausted: %w", err)
		}
		if b := int(p.buf[0]); b < limit {
			return b % n, nil
		}
	}
}

// shuffle places k uniformly chosen elements at the front of xs
func (p *picker) shuffle(xs []int, k int) error {
	for i := 0; i < k; i++ {
		j, err := p.intn(len(xs) - i)
		if err != nil {
			return err
		}
		xs[i], xs[i+j] = xs[i+j], xs[i]
	}
	return nil
}
