package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var errNegativeHeapCapacity = errors.New("negative heap capacity")

// DoubleQuotes decides how a double-quoted text reads.
type DoubleQuotes int8

const (
	DoubleQuotesChars DoubleQuotes = iota
	DoubleQuotesCodes
	DoubleQuotesAtom
)

func (d DoubleQuotes) String() string {
	switch d {
	case DoubleQuotesCodes:
		return "codes"
	case DoubleQuotesAtom:
		return "atom"
	default:
		return "chars"
	}
}

// UnmarshalYAML decodes one of chars, codes, or atom.
func (d *DoubleQuotes) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dq, ok := parseDoubleQuotes(s)
	if !ok {
		return fmt.Errorf("unknown double_quotes: %q", s)
	}
	*d = dq
	return nil
}

func parseDoubleQuotes(s string) (DoubleQuotes, bool) {
	switch s {
	case "chars":
		return DoubleQuotesChars, true
	case "codes":
		return DoubleQuotesCodes, true
	case "atom":
		return DoubleQuotesAtom, true
	default:
		return 0, false
	}
}

// GetDoubleQuotes unifies v with the name of the current double_quotes flag.
func (vm *VM) GetDoubleQuotes(v Addr) {
	vm.Unify(v, Atom(vm.Flags.DoubleQuotes.String()))
}

// SetDoubleQuotes sets the double_quotes flag to one of chars, codes, or atom. It fails otherwise.
func (vm *VM) SetDoubleQuotes(a Addr) {
	name, ok := vm.Deref(a).(Atom)
	if !ok {
		vm.Fail = true
		return
	}
	dq, ok := parseDoubleQuotes(string(name))
	if !ok {
		vm.Fail = true
		return
	}
	vm.Flags.DoubleQuotes = dq
}

// Flags are the runtime flags consulted by the core.
type Flags struct {
	DoubleQuotes DoubleQuotes
}

// LogLevel is a logrus level name.
type LogLevel string

// Level returns the logrus level. An unknown name falls back to warn.
func (l LogLevel) Level() logrus.Level {
	lv, err := logrus.ParseLevel(string(l))
	if err != nil {
		return logrus.WarnLevel
	}
	return lv
}

// Config is a VM configuration.
type Config struct {
	DoubleQuotes DoubleQuotes `yaml:"double_quotes"`
	HeapCapacity int          `yaml:"heap_capacity"`
	MaxDepth     int          `yaml:"max_depth"`
	LogLevel     LogLevel     `yaml:"log_level"`

	// LogOutput is where the VM logs. Nil means stderr.
	LogOutput io.Writer `yaml:"-"`
}

// DefaultConfig is used when no configuration is given.
var DefaultConfig = Config{
	DoubleQuotes: DoubleQuotesChars,
	HeapCapacity: 1024,
	MaxDepth:     32,
	LogLevel:     "warn",
}

// LoadConfig reads a YAML configuration. Missing keys keep their defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.HeapCapacity < 0 {
		return Config{}, errNegativeHeapCapacity
	}
	return cfg, nil
}
