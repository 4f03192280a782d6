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

package config

import (
	"time"

	"github.com/spf13/cast"
)

// Get returns the raw value at the dot-separated path, or nil.
func (c *Config) Get(path string) any {
	v, _ := c.lookup(path)
	return v
}

// Has reports whether a value exists at the path.
func (c *Config) Has(path string) bool {
	_, ok := c.lookup(path)
	return ok
}

// GetString returns the value at path as a string, or def when absent.
func (c *Config) GetString(path, def string) string {
	v, ok := c.lookup(path)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// GetInt returns the value at path as an int, or def when absent or
// not convertible.
func (c *Config) GetInt(path string, def int) int {
	v, ok := c.lookup(path)
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// GetBool returns the value at path as a bool, or def.
func (c *Config) GetBool(path string, def bool) bool {
	v, ok := c.lookup(path)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// GetDuration returns the value at path as a time.Duration, or def.
// Strings use time.ParseDuration syntax; bare numbers are nanoseconds.
func (c *Config) GetDuration(path string, def time.Duration) time.Duration {
	v, ok := c.lookup(path)
	if !ok {
		return def
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return def
	}
	return d
}

// GetStringSlice returns the value at path as a []string, or def.
func (c *Config) GetStringSlice(path string, def []string) []string {
	v, ok := c.lookup(path)
	if !ok {
		return def
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return def
	}
	return s
}
