package emulator

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// Config is the machine configuration.
type Config struct {
	NativeTraps bool              `yaml:"native_traps"` // Service traps with no vector in the emulator.
	Exceptions  bool              `yaml:"exceptions"`   // Raise exceptions through the interrupt table.
	MaxTicks    int               `yaml:"max_ticks"`    // Run limit; zero is unlimited.
	Prompt      string            `yaml:"prompt"`       // Prompt of the native IN trap.
	Predefine   map[string]string `yaml:"predefine"`    // Additional assembler equates.
}

// DefaultConfig returns the default machine configuration.
func DefaultConfig() Config {
	return Config{
		NativeTraps: true,
		Exceptions:  true,
		MaxTicks:    1_000_000,
		Prompt:      "Input a character> ",
	}
}

// LoadConfig reads a YAML configuration. Missing settings keep their
// default values.
func LoadConfig(r io.Reader) (cfg Config, err error) {
	cfg = DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err = dec.Decode(&cfg)
	if errors.Is(err, io.EOF) {
		err = nil
	}

	return
}
