// Package config loads run settings from YAML or HCL files and turns them into
// the key/value map simulation factories accept.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"torus-ca/pkg/core"
)

const (
	DefaultSim   = "life"
	DefaultTPS   = 30
	DefaultScale = 8
)

// Config describes one run. Zero values mean "not set" so that files, presets
// and flags can be layered with Overlay.
type Config struct {
	Sim       string            `yaml:"sim,omitempty" hcl:"sim,optional"`
	Width     int               `yaml:"width,omitempty" hcl:"width,optional"`
	Height    int               `yaml:"height,omitempty" hcl:"height,optional"`
	Seed      *int64            `yaml:"seed,omitempty" hcl:"seed,optional"`
	File      string            `yaml:"file,omitempty" hcl:"file,optional"`
	Output    string            `yaml:"output,omitempty" hcl:"output,optional"`
	Dir       string            `yaml:"dir,omitempty" hcl:"dir,optional"`
	Placement string            `yaml:"placement,omitempty" hcl:"placement,optional"`
	TPS       int               `yaml:"tps,omitempty" hcl:"tps,optional"`
	Scale     int               `yaml:"scale,omitempty" hcl:"scale,optional"`
	Manual    bool              `yaml:"manual,omitempty" hcl:"manual,optional"`
	Running   bool              `yaml:"running,omitempty" hcl:"running,optional"`
	Params    map[string]string `yaml:"params,omitempty" hcl:"params,optional"`
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() *Config {
	return &Config{Sim: DefaultSim, TPS: DefaultTPS, Scale: DefaultScale}
}

// Load reads a config file. The format follows the extension: .yaml/.yml for
// YAML, .hcl or .json for HCL. HCL files may read environment variables
// through env.NAME.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".hcl", ".json":
		if err := hclsimple.DecodeFile(path, evalContext(), cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, &core.ConfigError{Key: "config", Reason: fmt.Sprintf("unsupported file type %q", filepath.Ext(path))}
	}
	return cfg, cfg.Validate()
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && hclIdentifier(k) {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}

func hclIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// Validate rejects settings that can never be valid regardless of the sim.
func (c *Config) Validate() error {
	switch {
	case c.Width < 0:
		return &core.ConfigError{Key: "width", Reason: "must be > 0"}
	case c.Height < 0:
		return &core.ConfigError{Key: "height", Reason: "must be > 0"}
	case c.TPS < 0:
		return &core.ConfigError{Key: "tps", Reason: "must be > 0"}
	case c.Scale < 0:
		return &core.ConfigError{Key: "scale", Reason: "must be > 0"}
	}
	if c.Placement != "" {
		if _, err := core.ParsePlacement(c.Placement); err != nil {
			return err
		}
	}
	return nil
}

// Overlay copies every field set in src over c. Params are merged key by key.
func (c *Config) Overlay(src *Config) {
	if src == nil {
		return
	}
	if src.Sim != "" {
		c.Sim = src.Sim
	}
	if src.Width != 0 {
		c.Width = src.Width
	}
	if src.Height != 0 {
		c.Height = src.Height
	}
	if src.Seed != nil {
		seed := *src.Seed
		c.Seed = &seed
	}
	if src.File != "" {
		c.File = src.File
	}
	if src.Output != "" {
		c.Output = src.Output
	}
	if src.Dir != "" {
		c.Dir = src.Dir
	}
	if src.Placement != "" {
		c.Placement = src.Placement
	}
	if src.TPS != 0 {
		c.TPS = src.TPS
	}
	if src.Scale != 0 {
		c.Scale = src.Scale
	}
	c.Manual = c.Manual || src.Manual
	c.Running = c.Running || src.Running
	if len(src.Params) > 0 && c.Params == nil {
		c.Params = make(map[string]string, len(src.Params))
	}
	for k, v := range src.Params {
		c.Params[k] = v
	}
}

// SeedOr returns the configured seed or def.
func (c *Config) SeedOr(def int64) int64 {
	if c.Seed == nil {
		return def
	}
	return *c.Seed
}

// SimParams flattens the config into the key/value map simulation factories
// read. Rule-specific params come first so the shared fields win.
func (c *Config) SimParams() map[string]string {
	out := make(map[string]string, len(c.Params)+7)
	for k, v := range c.Params {
		out[k] = v
	}
	if c.Width > 0 {
		out["w"] = strconv.Itoa(c.Width)
	}
	if c.Height > 0 {
		out["h"] = strconv.Itoa(c.Height)
	}
	if c.Seed != nil {
		out["seed"] = strconv.FormatInt(*c.Seed, 10)
	}
	set := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}
	set("file", c.File)
	set("out", c.Output)
	set("dir", c.Dir)
	set("placement", c.Placement)
	return out
}

// ParseSet parses "key=value" pairs given on the command line.
func ParseSet(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, &core.ConfigError{Key: "set", Reason: fmt.Sprintf("%q is not key=value", p)}
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

// SortedParams returns the param keys in order, for stable listings.
func (c *Config) SortedParams() []string {
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
