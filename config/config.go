// Copyright 2026 The GeneLab DAPI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads service configuration from layered sources:
// defaults, then a config file (YAML, TOML, or JSON, detected by
// extension), then environment variable overrides. Later sources win.
// Values bind to tagged structs and are validated with struct tags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
)

// Option is a functional option configuring a Config instance.
type Option func(c *Config) error

// Source loads one layer of configuration data.
type Source interface {
	// Load returns the source's data as a nested map.
	Load() (map[string]any, error)
}

// Config manages configuration data loaded from multiple sources.
// Safe for concurrent use after Load.
type Config struct {
	mu      sync.RWMutex
	values  map[string]any
	sources []Source
	tagName string
}

// New creates a Config and loads all sources in order.
func New(opts ...Option) (*Config, error) {
	c := &Config{values: map[string]any{}, tagName: "config"}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is New, panicking on error. For startup paths only.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("config.MustNew: %v", err))
	}
	return c
}

// WithSource appends a source layer.
func WithSource(s Source) Option {
	return func(c *Config) error {
		if s == nil {
			return errors.New("config: source cannot be nil")
		}
		c.sources = append(c.sources, s)
		return nil
	}
}

// WithDefaults adds a static base layer. Use first, so files and the
// environment can override it.
func WithDefaults(values map[string]any) Option {
	return WithSource(staticSource(values))
}

// WithFile adds a file source. The format is detected from the extension
// (.yaml, .yml, .toml, .json). Paths support ${VAR} expansion. A missing
// optional file is skipped silently.
func WithFile(path string, optional bool) Option {
	return WithSource(&fileSource{path: os.ExpandEnv(path), optional: optional})
}

// WithEnv adds an environment variable source. Variables matching
// prefix_SECTION_KEY map to section.key, lowercased; a double underscore
// becomes a literal underscore in the key.
func WithEnv(prefix string) Option {
	return WithSource(&envSource{prefix: prefix})
}

// WithTagName overrides the struct tag consulted by Bind (default "config").
func WithTagName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return errors.New("config: tag name cannot be empty")
		}
		c.tagName = name
		return nil
	}
}

// Load re-reads every source and merges the layers, later sources
// overriding earlier ones.
func (c *Config) Load() error {
	merged := map[string]any{}
	for _, src := range c.sources {
		layer, err := src.Load()
		if err != nil {
			return err
		}
		if err := mergo.Merge(&merged, layer, mergo.WithOverride); err != nil {
			return fmt.Errorf("config: merge: %w", err)
		}
	}
	c.mu.Lock()
	c.values = merged
	c.mu.Unlock()
	return nil
}

// Bind decodes the merged values into target (a struct pointer) and
// validates it with go-playground/validator struct tags.
func (c *Config) Bind(target any) error {
	c.mu.RLock()
	values := c.values
	c.mu.RUnlock()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("config: decoder: %w", err)
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("config: bind: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(target); err != nil {
		return fmt.Errorf("config: validate: %w", err)
	}
	return nil
}

// lookup walks a dot-separated path through the nested value maps.
func (c *Config) lookup(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var current any = c.values
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

type staticSource map[string]any

func (s staticSource) Load() (map[string]any, error) {
	return map[string]any(s), nil
}

type fileSource struct {
	path     string
	optional bool
}

func (f *fileSource) Load() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if f.optional && os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", f.path, err)
	}

	values := map[string]any{}
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &values)
	case ".toml":
		err = toml.Unmarshal(data, &values)
	case ".json":
		err = json.Unmarshal(data, &values)
	default:
		return nil, fmt.Errorf("config: unsupported format %q", filepath.Ext(f.path))
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", f.path, err)
	}
	return normalize(values), nil
}

// normalize rewrites nested maps produced by the decoders into
// map[string]any all the way down so layers merge uniformly.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			out[k] = normalize(vv)
		case map[any]any:
			inner := make(map[string]any, len(vv))
			for ik, iv := range vv {
				inner[fmt.Sprint(ik)] = iv
			}
			out[k] = normalize(inner)
		default:
			out[k] = v
		}
	}
	return out
}

type envSource struct {
	prefix string
}

func (e *envSource) Load() (map[string]any, error) {
	prefix := strings.ToUpper(strings.TrimSuffix(e.prefix, "_")) + "_"
	values := map[string]any{}
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		key := envToKey(strings.TrimPrefix(name, prefix))
		setPath(values, key, value)
	}
	return values, nil
}

// envToKey maps SERVER_READ_TIMEOUT-style names onto dotted paths: a
// single underscore separates path segments, a double underscore escapes
// a literal underscore inside a segment.
func envToKey(name string) []string {
	name = strings.ToLower(name)
	placeholder := "\x00"
	name = strings.ReplaceAll(name, "__", placeholder)
	parts := strings.Split(name, "_")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, placeholder, "_")
	}
	return parts
}

func setPath(m map[string]any, path []string, value string) {
	for i, part := range path {
		if i == len(path)-1 {
			m[part] = value
			return
		}
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
}
