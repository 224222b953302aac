package mem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config externalizes the tuning parameters Mem.New otherwise takes as
// positional arguments, so a host VM can ship an ssm.toml instead of
// hardcoding pool sizes.
type Config struct {
	GlobalInitWords         uint64 `toml:"global_init_words"`
	StackInitWords          uint64 `toml:"stack_init_words"`
	MinorPoolBytes          uint64 `toml:"minor_pool_bytes"`
	MajorGCThresholdPercent uint64 `toml:"major_gc_threshold_percent"`
}

// DefaultConfig returns the parameters spec.md's concrete scenarios build
// their example managers from, scaled up to a size reasonable for a real
// host rather than a unit test.
func DefaultConfig() *Config {
	return &Config{
		GlobalInitWords:         256,
		StackInitWords:          4096,
		MinorPoolBytes:          1 << 20, // 1 MiB
		MajorGCThresholdPercent: 120,
	}
}

// New constructs a Mem from this configuration.
func (c *Config) New() *Mem {
	return New(c.GlobalInitWords, c.StackInitWords, c.MinorPoolBytes, c.MajorGCThresholdPercent)
}

// Load reads configuration from "ssm.toml" in the current directory,
// falling back to DefaultConfig if the file does not exist.
func Load() (*Config, error) {
	return LoadFrom("ssm.toml")
}

// LoadFrom reads configuration from the given path, falling back to
// DefaultConfig if the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("mem: failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes this configuration to "ssm.toml" in the current directory.
func (c *Config) Save() error {
	return c.SaveTo("ssm.toml")
}

// SaveTo writes this configuration to the given path.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("mem: failed to create config directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mem: failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("mem: failed to encode config: %w", err)
	}
	return nil
}
