package engine

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		title string
		input string
		cfg   Config
		err   string
	}{
		{title: "empty", input: "", cfg: DefaultConfig},
		{title: "all keys", input: `
double_quotes: codes
heap_capacity: 64
max_depth: 5
log_level: debug
`, cfg: Config{DoubleQuotes: DoubleQuotesCodes, HeapCapacity: 64, MaxDepth: 5, LogLevel: "debug"}},
		{title: "partial", input: "double_quotes: atom\n", cfg: Config{
			DoubleQuotes: DoubleQuotesAtom,
			HeapCapacity: DefaultConfig.HeapCapacity,
			MaxDepth:     DefaultConfig.MaxDepth,
			LogLevel:     DefaultConfig.LogLevel,
		}},
		{title: "unknown double_quotes", input: "double_quotes: bytes\n", err: `failed to decode config: unknown double_quotes: "bytes"`},
		{title: "negative heap capacity", input: "heap_capacity: -1\n", err: "negative heap capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.input))
			if tt.err != "" {
				assert.EqualError(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg, cfg)
		})
	}
}

func TestLogLevel_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, LogLevel("debug").Level())
	assert.Equal(t, logrus.WarnLevel, LogLevel("loud").Level())
}

func TestDoubleQuotes_String(t *testing.T) {
	assert.Equal(t, "chars", DoubleQuotesChars.String())
	assert.Equal(t, "codes", DoubleQuotesCodes.String())
	assert.Equal(t, "atom", DoubleQuotesAtom.String())
}

func TestVM_DoubleQuotes(t *testing.T) {
	var vm VM
	v := vm.PutVar()
	vm.GetDoubleQuotes(v)
	assert.Equal(t, Atom("chars"), vm.Deref(v))

	vm.SetDoubleQuotes(Atom("codes"))
	require.False(t, vm.Fail)
	assert.Equal(t, DoubleQuotesCodes, vm.Flags.DoubleQuotes)

	v = vm.PutVar()
	vm.GetDoubleQuotes(v)
	assert.Equal(t, Atom("codes"), vm.Deref(v))

	vm.SetDoubleQuotes(Atom("bytes"))
	assert.True(t, vm.Fail)
	assert.Equal(t, DoubleQuotesCodes, vm.Flags.DoubleQuotes)

	vm.Fail = false
	vm.SetDoubleQuotes(vm.PutVar())
	assert.True(t, vm.Fail)
}
