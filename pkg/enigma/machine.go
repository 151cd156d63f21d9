package enigma

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/validation"
)

// Machine is a three-rotor Enigma. A Machine is not safe for concurrent
// use; distinct machines share no mutable state.
type Machine struct {
	rotors    [RotorSlots]*Rotor
	reflector *Reflector
	plugboard *Plugboard
	stepper   SteppingMechanism

	initial  Snapshot
	settings Settings

	stepNonLetters bool
	observer       Observer
	logger         logging.Logger
}

// Option configures optional machine behaviour
type Option func(*Machine)

// WithLogger sets the logger used for construction diagnostics
func WithLogger(logger logging.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver reports every stepping cycle to o
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.observer = o
	}
}

// WithNonLetterStepping makes every character step the rotors, letters or
// not. Non-letters are still copied through unchanged. The default is off.
func WithNonLetterStepping(enabled bool) Option {
	return func(m *Machine) {
		m.stepNonLetters = enabled
	}
}

// New builds a machine from s. The first configuration violation is
// returned as a *ConfigError (or an error wrapping ErrInvalidConfig) and no
// machine is produced.
func New(s Settings, opts ...Option) (*Machine, error) {
	m := &Machine{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(m)
	}

	if err := checkSettings(&s); err != nil {
		m.logger.Debug("rejected machine configuration", logging.Error(err))
		return nil, err
	}

	reflector, err := NewReflector(s.Reflector)
	if err != nil {
		return nil, err
	}
	plugboard, err := NewPlugboard(s.Plugboard)
	if err != nil {
		return nil, err
	}

	m.reflector = reflector
	m.plugboard = plugboard
	for slot := 0; slot < RotorSlots; slot++ {
		m.rotors[slot] = newRotor(s.Rotors[slot], s.Positions[slot], s.Rings[slot])
		m.initial[slot] = s.Positions[slot]
	}

	m.settings = Settings{
		Rotors:    append([]int(nil), s.Rotors...),
		Positions: append([]int(nil), s.Positions...),
		Rings:     append([]int(nil), s.Rings...),
		Plugboard: plugboard.Pairs(),
		Reflector: reflector.Name(),
	}

	if m.logger.Enabled(logging.DebugLevel) {
		m.logger.Debug("machine configured",
			logging.Rotors(m.RotorNames()),
			logging.Window(m.Window()),
			logging.Reflector(reflector.Name()),
			logging.Plugs(len(s.Plugboard)),
		)
	}
	return m, nil
}

// checkSettings runs the tag rules, then the rules tags cannot express
func checkSettings(s *Settings) error {
	if err := validation.Struct(s); err != nil {
		var fe *validation.FieldError
		if errors.As(err, &fe) {
			return &ConfigError{Field: fe.Field, Value: fe.Value, Reason: fe.Reason()}
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for slot, idx := range s.Rotors {
		if idx >= len(rotorCatalog) {
			return &ConfigError{
				Field:  fmt.Sprintf("rotors[%d]", slot),
				Value:  idx,
				Reason: fmt.Sprintf("catalog holds %d rotors", len(rotorCatalog)),
			}
		}
	}
	return nil
}

// EncryptChar enciphers one character. Letters step the rotors and are
// substituted with their case preserved; anything else is returned as is.
func (m *Machine) EncryptChar(ch rune) rune {
	if ch >= utf8.RuneSelf {
		if m.stepNonLetters {
			m.step()
		}
		return ch
	}
	return rune(m.encryptByte(byte(ch)))
}

// Process enciphers text character by character. The result has the same
// length; non-letters keep their bytes and position. Because the machine is
// reciprocal, Process also deciphers.
func (m *Machine) Process(text string) string {
	out := []byte(text)
	m.transform(out)
	return string(out)
}

// transform enciphers p in place. ASCII letters are always single bytes and
// UTF-8 multibyte sequences never contain them, so working on bytes keeps
// every other character intact.
func (m *Machine) transform(p []byte) {
	for i, b := range p {
		p[i] = m.encryptByte(b)
	}
}

func (m *Machine) encryptByte(b byte) byte {
	c, ok := letterIndex(b)
	if !ok {
		if m.stepNonLetters && startsCharacter(b) {
			m.step()
		}
		return b
	}

	m.step()
	return letterByte(m.signal(c), isLower(b))
}

func (m *Machine) step() {
	ev := m.stepper.Step(&m.rotors)
	if m.observer != nil {
		m.observer.ObserveStep(ev)
	}
}

// signal runs one contact through the wiring at the current rotor offsets
func (m *Machine) signal(c int) int {
	c = m.plugboard.Swap(c)
	for slot := Right; slot >= Left; slot-- {
		c = m.rotors[slot].EncodeForward(c)
	}
	c = m.reflector.Reflect(c)
	for slot := Left; slot <= Right; slot++ {
		c = m.rotors[slot].EncodeBackward(c)
	}
	return m.plugboard.Swap(c)
}

// Positions returns the live rotor positions, left to right
func (m *Machine) Positions() Snapshot {
	return positionsOf(&m.rotors)
}

// Rings returns the ring settings, left to right
func (m *Machine) Rings() [RotorSlots]int {
	var rings [RotorSlots]int
	for i, r := range m.rotors {
		rings[i] = r.ring
	}
	return rings
}

// RotorNames returns the catalog names, left to right
func (m *Machine) RotorNames() []string {
	names := make([]string, RotorSlots)
	for i, r := range m.rotors {
		names[i] = r.Name()
	}
	return names
}

// Window returns the letters showing in the rotor windows, e.g. "ADU"
func (m *Machine) Window() string {
	var sb strings.Builder
	for _, r := range m.rotors {
		sb.WriteByte(letterByte(r.position, false))
	}
	return sb.String()
}

// Settings returns the construction settings. Positions are the initial
// ones, not the live ones.
func (m *Machine) Settings() Settings {
	s := m.settings
	s.Rotors = append([]int(nil), s.Rotors...)
	s.Positions = append([]int(nil), s.Positions...)
	s.Rings = append([]int(nil), s.Rings...)
	s.Plugboard = append([]string(nil), s.Plugboard...)
	return s
}

// Snapshot captures the live rotor positions
func (m *Machine) Snapshot() Snapshot {
	return m.Positions()
}

// Restore sets the rotors to a previously captured snapshot
func (m *Machine) Restore(s Snapshot) error {
	for slot, p := range s {
		field := fmt.Sprintf("positions[%d]", slot)
		var fe *validation.FieldError
		if errors.As(validation.RangeInt(field, p, 0, AlphabetSize-1), &fe) {
			return &ConfigError{Field: field, Value: p, Reason: fe.Reason()}
		}
	}
	for slot, p := range s {
		m.rotors[slot].position = p
	}
	return nil
}

// Reset returns the rotors to their initial positions
func (m *Machine) Reset() {
	for slot, p := range m.initial {
		m.rotors[slot].position = p
	}
}

// Clone returns an independent machine in the current state. The observer
// and logger are shared.
func (m *Machine) Clone() *Machine {
	c := *m
	for slot, r := range m.rotors {
		rc := *r
		c.rotors[slot] = &rc
	}
	c.settings = m.Settings()
	return &c
}
