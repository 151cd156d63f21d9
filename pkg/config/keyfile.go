package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

// Environment overrides applied by ApplyEnv
const (
	EnvRotors    = "ENIGMA_ROTORS"
	EnvPositions = "ENIGMA_POSITIONS"
	EnvRings     = "ENIGMA_RINGS"
	EnvPlugboard = "ENIGMA_PLUGBOARD"
	EnvReflector = "ENIGMA_REFLECTOR"
)

// KeyFile is the on-disk form of a machine key. Rotors are catalog names,
// dials accept letters ("ADU") or 0-25 numbers, the plugboard accepts
// "AV BS CG" or a list of pairs.
type KeyFile struct {
	Rotors    []string `yaml:"rotors" json:"rotors"`
	Positions Dial     `yaml:"positions" json:"positions"`
	Rings     Dial     `yaml:"rings" json:"rings"`
	Plugboard Plugs    `yaml:"plugboard,omitempty" json:"plugboard,omitempty"`
	Reflector string   `yaml:"reflector,omitempty" json:"reflector,omitempty"`
}

// Default is rotors I, II, III at AAA with rings AAA, reflector B, no plugs
func Default() *KeyFile {
	return &KeyFile{
		Rotors:    []string{"I", "II", "III"},
		Positions: Dial{0, 0, 0},
		Rings:     Dial{0, 0, 0},
		Reflector: enigma.DefaultReflector,
	}
}

// Load reads a key file. Files ending in .json are JSON, anything else YAML.
func Load(path string) (*KeyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return Parse(data, isJSON(path))
}

// Parse decodes a key file from memory
func Parse(data []byte, asJSON bool) (*KeyFile, error) {
	var kf KeyFile
	var err error
	if asJSON {
		err = json.Unmarshal(data, &kf)
	} else {
		err = yaml.Unmarshal(data, &kf)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse key file: %v", enigma.ErrInvalidConfig, err)
	}
	return &kf, nil
}

// Save writes kf to path, choosing JSON or YAML by extension
func Save(path string, kf *KeyFile) error {
	data, err := Marshal(kf, isJSON(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// Marshal encodes kf as JSON or YAML
func Marshal(kf *KeyFile, asJSON bool) ([]byte, error) {
	if asJSON {
		data, err := json.MarshalIndent(kf, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode key file: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(kf)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key file: %w", err)
	}
	return data, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Field names accepted by Set
const (
	FieldRotors    = "rotors"
	FieldPositions = "positions"
	FieldRings     = "rings"
	FieldPlugboard = "plugboard"
	FieldReflector = "reflector"
)

var envFields = []struct{ env, field string }{
	{EnvRotors, FieldRotors},
	{EnvPositions, FieldPositions},
	{EnvRings, FieldRings},
	{EnvPlugboard, FieldPlugboard},
	{EnvReflector, FieldReflector},
}

// ApplyEnv overrides fields from the ENIGMA_* variables that are set.
// lookup is normally os.LookupEnv.
func (kf *KeyFile) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ef := range envFields {
		v, ok := lookup(ef.env)
		if !ok {
			continue
		}
		if err := kf.Set(ef.field, v); err != nil {
			return fmt.Errorf("%s: %w", ef.env, err)
		}
	}
	return nil
}

// Set overrides one field from its text form, e.g. Set("positions", "ADU")
func (kf *KeyFile) Set(field, value string) error {
	switch field {
	case FieldRotors:
		kf.Rotors = splitList(value)
	case FieldPositions, FieldRings:
		d, err := ParseDial(value)
		if err != nil {
			return err
		}
		if field == FieldPositions {
			kf.Positions = d
		} else {
			kf.Rings = d
		}
	case FieldPlugboard:
		kf.Plugboard = ParsePlugs(value)
	case FieldReflector:
		kf.Reflector = strings.TrimSpace(value)
	default:
		return fmt.Errorf("unknown key file field %q", field)
	}
	return nil
}

// Settings resolves rotor names and returns the machine settings. Range and
// plugboard checks are left to enigma.New.
func (kf *KeyFile) Settings() (enigma.Settings, error) {
	rotors := make([]int, len(kf.Rotors))
	for i, name := range kf.Rotors {
		idx, err := enigma.RotorIndex(name)
		if err != nil {
			n, convErr := strconv.Atoi(strings.TrimSpace(name))
			if convErr != nil {
				return enigma.Settings{}, err
			}
			idx = n
		}
		rotors[i] = idx
	}
	return enigma.Settings{
		Rotors:    rotors,
		Positions: []int(kf.Positions),
		Rings:     []int(kf.Rings),
		Plugboard: []string(kf.Plugboard),
		Reflector: kf.Reflector,
	}, nil
}

// FromSettings is the inverse of Settings
func FromSettings(s enigma.Settings) (*KeyFile, error) {
	kf := &KeyFile{
		Rotors:    make([]string, len(s.Rotors)),
		Positions: append(Dial(nil), s.Positions...),
		Rings:     append(Dial(nil), s.Rings...),
		Plugboard: append(Plugs(nil), s.Plugboard...),
		Reflector: s.Reflector,
	}
	for i, idx := range s.Rotors {
		name, err := enigma.RotorName(idx)
		if err != nil {
			return nil, err
		}
		kf.Rotors[i] = name
	}
	return kf, nil
}

// Dial is a list of rotor offsets, 0-25
type Dial []int

// ParseDial accepts "ADU", "A D U", "0,3,20" or "0 3 20"
func ParseDial(s string) (Dial, error) {
	s = strings.TrimSpace(s)
	if s != "" && isLetters(s) {
		d := make(Dial, len(s))
		for i := 0; i < len(s); i++ {
			d[i] = int(toUpper(s[i]) - 'A')
		}
		return d, nil
	}

	fields := splitList(s)
	d := make(Dial, len(fields))
	for i, f := range fields {
		v, err := parseDialEntry(f)
		if err != nil {
			return nil, err
		}
		d[i] = v
	}
	return d, nil
}

func parseDialEntry(s string) (int, error) {
	if len(s) == 1 && isLetters(s) {
		return int(toUpper(s[0]) - 'A'), nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: dial entry %q is neither a letter nor a number", enigma.ErrInvalidConfig, s)
	}
	return v, nil
}

// String renders the dial as letters when every entry is in range
func (d Dial) String() string {
	if !d.inRange() {
		return fmt.Sprint([]int(d))
	}
	var sb strings.Builder
	for _, v := range d {
		sb.WriteByte(byte('A' + v))
	}
	return sb.String()
}

func (d Dial) inRange() bool {
	for _, v := range d {
		if v < 0 || v >= enigma.AlphabetSize {
			return false
		}
	}
	return true
}

func (d *Dial) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := ParseDial(node.Value)
		if err != nil {
			return err
		}
		*d = v
		return nil
	case yaml.SequenceNode:
		out := make(Dial, len(node.Content))
		for i, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: line %d: dial entries must be scalars", enigma.ErrInvalidConfig, item.Line)
			}
			v, err := parseDialEntry(strings.TrimSpace(item.Value))
			if err != nil {
				return err
			}
			out[i] = v
		}
		*d = out
		return nil
	default:
		return fmt.Errorf("%w: line %d: dial must be a string or a list", enigma.ErrInvalidConfig, node.Line)
	}
}

func (d Dial) MarshalYAML() (any, error) {
	if !d.inRange() {
		return []int(d), nil
	}
	return d.String(), nil
}

func (d *Dial) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := ParseDial(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return errors.New("dial must be a string or an array")
	}
	out := make(Dial, len(items))
	for i, raw := range items {
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			out[i] = n
			continue
		}
		var entry string
		if err := json.Unmarshal(raw, &entry); err != nil {
			return fmt.Errorf("dial entry %s is neither a letter nor a number", raw)
		}
		v, err := parseDialEntry(strings.TrimSpace(entry))
		if err != nil {
			return err
		}
		out[i] = v
	}
	*d = out
	return nil
}

func (d Dial) MarshalJSON() ([]byte, error) {
	if !d.inRange() {
		return json.Marshal([]int(d))
	}
	return json.Marshal(d.String())
}

// Plugs is a list of plugboard pairs such as "AV"
type Plugs []string

// ParsePlugs splits "AV BS CG" or "AV,BS,CG" into pairs
func ParsePlugs(s string) Plugs {
	fields := splitList(s)
	if len(fields) == 0 {
		return nil
	}
	return Plugs(fields)
}

func (p Plugs) String() string {
	return strings.Join(p, " ")
}

func (p *Plugs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = ParsePlugs(node.Value)
		return nil
	case yaml.SequenceNode:
		var pairs []string
		if err := node.Decode(&pairs); err != nil {
			return err
		}
		*p = Plugs(pairs)
		return nil
	default:
		return fmt.Errorf("%w: line %d: plugboard must be a string or a list", enigma.ErrInvalidConfig, node.Line)
	}
}

func (p Plugs) MarshalYAML() (any, error) {
	return p.String(), nil
}

func (p *Plugs) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = ParsePlugs(s)
		return nil
	}
	var pairs []string
	if err := json.Unmarshal(b, &pairs); err != nil {
		return errors.New("plugboard must be a string or an array of pairs")
	}
	*p = Plugs(pairs)
	return nil
}

func (p Plugs) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := toUpper(s[i])
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
