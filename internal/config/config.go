// Package config loads the command line tool's settings from YAML and
// key=value overrides.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"hexturmite/internal/hexrule"
	"hexturmite/internal/turmite"
)

//go:embed config.schema.json
var schemaText string

var schema = jsonschema.MustCompileString("config.schema.json", schemaText)

// Config holds every tunable of the tool.
type Config struct {
	AlphabetLimit int    `yaml:"alphabet_limit" json:"alphabet_limit"`
	Prefix        string `yaml:"prefix" json:"prefix"`
	OutputDir     string `yaml:"output_dir" json:"output_dir"`
	Compress      bool   `yaml:"compress" json:"compress"`
	Store         string `yaml:"store" json:"store"`
	StorePath     string `yaml:"store_path" json:"store_path"`
	VerifySteps   int    `yaml:"verify_steps" json:"verify_steps"`
	Random        Random `yaml:"random" json:"random"`
}

// Random configures the random spec generator.
type Random struct {
	States      int    `yaml:"states" json:"states"`
	Colors      int    `yaml:"colors" json:"colors"`
	Seed        uint64 `yaml:"seed" json:"seed"`
	MaxAttempts int    `yaml:"max_attempts" json:"max_attempts"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		AlphabetLimit: hexrule.DefaultAlphabetLimit,
		Prefix:        turmite.DefaultPrefix,
		OutputDir:     ".",
		Store:         "memory",
		StorePath:     "hexturmite.db",
		Random: Random{
			States:      2,
			Colors:      2,
			Seed:        1,
			MaxAttempts: 1000,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks the config against the embedded schema.
func (c Config) Validate() error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Keys lists the names accepted by Apply.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(c *Config, v string) error{
	"alphabet_limit": func(c *Config, v string) error { return setInt(&c.AlphabetLimit, v) },
	"prefix":         func(c *Config, v string) error { c.Prefix = v; return nil },
	"output_dir":     func(c *Config, v string) error { c.OutputDir = v; return nil },
	"compress": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Compress = b
		return nil
	},
	"store":               func(c *Config, v string) error { c.Store = v; return nil },
	"store_path":          func(c *Config, v string) error { c.StorePath = v; return nil },
	"verify_steps":        func(c *Config, v string) error { return setInt(&c.VerifySteps, v) },
	"random.states":       func(c *Config, v string) error { return setInt(&c.Random.States, v) },
	"random.colors":       func(c *Config, v string) error { return setInt(&c.Random.Colors, v) },
	"random.max_attempts": func(c *Config, v string) error { return setInt(&c.Random.MaxAttempts, v) },
	"random.seed": func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		c.Random.Seed = n
		return nil
	},
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// Apply overrides fields from a key=value map and validates the result.
// Nested fields use dotted keys such as random.states.
func (c *Config) Apply(kv map[string]string) error {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		set, ok := setters[k]
		if !ok {
			return fmt.Errorf("unknown config key %q (known: %s)", k, strings.Join(Keys(), ", "))
		}
		if err := set(c, strings.TrimSpace(kv[k])); err != nil {
			return fmt.Errorf("config key %s: %w", k, err)
		}
	}
	return c.Validate()
}

// FromMap applies kv over the defaults.
func FromMap(kv map[string]string) (Config, error) {
	c := DefaultConfig()
	if err := c.Apply(kv); err != nil {
		return c, err
	}
	return c, nil
}
