// Package config holds the settings for a console session.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// DefaultInstructionsPerFrame is one NTSC frame of a 33.8688 MHz CPU
// retiring one instruction per cycle.
const DefaultInstructionsPerFrame = 33868800 / 60

// DefaultRunUntilCap bounds a single run-until-state-change request.
const DefaultRunUntilCap = 100_000_000

// Config holds the settings for a console session.
type Config struct {
	// BIOSPath is the 512 KiB BIOS ROM image.
	BIOSPath string `json:"bios_path" yaml:"bios_path"`

	// EXEPath is an optional PS-X EXE to side-load once the BIOS has run
	// its shell setup.
	EXEPath string `json:"exe_path,omitempty" yaml:"exe_path,omitempty"`

	// InstructionsPerFrame is how many instructions a frame runs.
	InstructionsPerFrame uint64 `json:"instructions_per_frame" yaml:"instructions_per_frame"`

	// RunUntilCap bounds "run until state change" in ticks.
	RunUntilCap uint64 `json:"run_until_cap" yaml:"run_until_cap"`

	// BreakpointAddrs are hex addresses, with or without a 0x prefix.
	BreakpointAddrs []string `json:"breakpoints,omitempty" yaml:"breakpoints,omitempty"`

	// Verbose traces every instruction to the diagnostic sink.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// ICache enables the instruction cache model.
	ICache bool `json:"icache" yaml:"icache"`

	// StatePath is where save states are written and read.
	StatePath string `json:"state_path,omitempty" yaml:"state_path,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		InstructionsPerFrame: DefaultInstructionsPerFrame,
		RunUntilCap:          DefaultRunUntilCap,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a Config from a file. Files ending in .yaml or .yml are parsed
// as YAML, anything else as JSON. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the Config to a file, as YAML or JSON by extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the values are usable.
func (c *Config) Validate() error {
	if c.InstructionsPerFrame == 0 {
		return fmt.Errorf("instructions_per_frame must be > 0")
	}
	if c.RunUntilCap == 0 {
		return fmt.Errorf("run_until_cap must be > 0")
	}
	if _, err := c.Breakpoints(); err != nil {
		return err
	}
	return nil
}

// Breakpoints parses BreakpointAddrs.
func (c *Config) Breakpoints() ([]uint32, error) {
	addrs := make([]uint32, 0, len(c.BreakpointAddrs))
	for _, s := range c.BreakpointAddrs {
		a, err := ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid breakpoint %q: %w", s, err)
		}
		if a%4 != 0 {
			return nil, fmt.Errorf("breakpoint 0x%08X is not word aligned", a)
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

// ParseAddr parses a 32-bit hex address such as "0xBFC00000" or
// "80010000".
func ParseAddr(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.BreakpointAddrs = append([]string(nil), c.BreakpointAddrs...)
	return &clone
}
