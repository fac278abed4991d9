// Package config loads the driver-level settings enumerated in spec
// section 6.5 from a `ruchy.yaml` document (SPEC_FULL.md 6.7). This is
// purely an ambient, driver-side concern: the core language itself takes
// these values as plain arguments (interp.Interpreter.RecursionLimit) and
// has no notion of a config file. The literal-default keys are validated
// here but not passed to types.Infer.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the recognized keys from spec 6.5, with the spec's defaults.
type Config struct {
	RecursionLimit                     int    `yaml:"recursion_limit"`
	IntLiteralDefault                  string `yaml:"int_literal_default"`
	FloatLiteralDefault                string `yaml:"float_literal_default"`
	StringInterpolationRequiresFPrefix bool   `yaml:"string_interpolation_requires_f_prefix"`
}

// Default returns the configuration spec 6.5 specifies when no `ruchy.yaml`
// is present.
func Default() *Config {
	return &Config{
		RecursionLimit:                     1000,
		IntLiteralDefault:                  "i64",
		FloatLiteralDefault:                "f64",
		StringInterpolationRequiresFPrefix: true,
	}
}

// Error reports a problem loading or validating a configuration file.
// SPEC_FULL.md 6.7 keeps this out of the core's closed error taxonomy
// (ruchyerrors.Kind, spec 7) since configuration is an ambient concern the
// core itself never sees, not a language error.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads and validates path, starting from Default and overriding only
// the keys present in the file. Unknown keys are rejected (yaml.v3's
// KnownFields), since spec 6.5 enumerates a closed set.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if err := cfg.validate(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// validate rejects the configurations spec 6.5 calls out as having "only
// accepted value" constraints — the key exists for forward-compatible
// config files, but today only one value is legal.
func (c *Config) validate() error {
	if c.IntLiteralDefault != "i64" {
		return fmt.Errorf("int_literal_default: only \"i64\" is accepted, got %q", c.IntLiteralDefault)
	}
	if c.FloatLiteralDefault != "f64" {
		return fmt.Errorf("float_literal_default: only \"f64\" is accepted, got %q", c.FloatLiteralDefault)
	}
	if !c.StringInterpolationRequiresFPrefix {
		return fmt.Errorf("string_interpolation_requires_f_prefix: only true is accepted")
	}
	if c.RecursionLimit <= 0 {
		return fmt.Errorf("recursion_limit: must be positive, got %d", c.RecursionLimit)
	}
	return nil
}
