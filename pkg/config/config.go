// Copyright 2025 walteh LLC
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
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/sanitize/pkg/rules"
	"github.com/walteh/sanitize/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📏 RuleConfig declares one extra rule. Exactly one of Literal or Category is set.
type RuleConfig struct {
	Literal  string `json:"literal,omitempty" yaml:"literal,omitempty" toml:"literal,omitempty" hcl:"literal,optional"`
	Category string `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty" hcl:"category,optional"`
	Replace  string `json:"replace" yaml:"replace" toml:"replace" hcl:"replace,optional"`
}

// Rule converts the declaration into a rules.Rule
func (rc RuleConfig) Rule() (rules.Rule, error) {
	switch {
	case rc.Literal != "" && rc.Category != "":
		return rules.Rule{}, errors.Errorf("rule sets both literal and category")
	case rc.Literal != "":
		return rules.Literal(rc.Literal, rc.Replace), nil
	case rc.Category != "":
		return rules.Category(rules.CategoryTag(rc.Category), rc.Replace), nil
	default:
		return rules.Rule{}, errors.Errorf("rule needs a literal or a category")
	}
}

// 📚 Config represents the complete configuration
type Config struct {
	Extensions      []string     `json:"extensions,omitempty" yaml:"extensions,omitempty" toml:"extensions,omitempty" hcl:"extensions,optional"`
	Exclude         []string     `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" hcl:"exclude,optional"`
	Jobs            int          `json:"jobs,omitempty" yaml:"jobs,omitempty" toml:"jobs,omitempty" hcl:"jobs,optional"`
	ReplaceDefaults bool         `json:"replace_defaults,omitempty" yaml:"replace_defaults,omitempty" toml:"replace_defaults,omitempty" hcl:"replace_defaults,optional"`
	Rules           []RuleConfig `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty" hcl:"rule,block"`

	location string
}

// 🏭 Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Extensions: []string{walk.DefaultExtension},
		Jobs:       1,
	}
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(strings.ToLower(filepath.Base(path)))
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	for i, ext := range cfg.Extensions {
		if strings.TrimSpace(ext) == "" {
			return errors.Errorf("extensions[%d] is empty", i)
		}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{walk.DefaultExtension}
	}

	if err := cfg.Filter().Validate(); err != nil {
		return err
	}

	for i, rc := range cfg.Rules {
		if _, err := rc.Rule(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}

	return nil
}

// Filter returns the walk filter described by the config
func (cfg *Config) Filter() walk.Filter {
	return walk.Filter{
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
	}
}

// 🧩 Table builds the rule table. Configured literals take priority over the
// built-in ones. Configured category rules come after every literal, so they
// never hide a built-in literal, and ahead of the built-in fallbacks. With
// ReplaceDefaults only the configured rules are used, and the category
// fallbacks are appended when no non-ascii rule was given.
func (cfg *Config) Table() (*rules.Table, error) {
	if len(cfg.Rules) == 0 && !cfg.ReplaceDefaults {
		return rules.DefaultTable(), nil
	}

	var literals, categories []rules.Rule
	hasFallback := false
	for i, rc := range cfg.Rules {
		r, err := rc.Rule()
		if err != nil {
			return nil, errors.Errorf("%w: rule %d: %s", rules.ErrConfiguration, i, err.Error())
		}
		if r.Kind == rules.KindCategory {
			if r.Category == rules.CategoryNonASCII {
				hasFallback = true
			}
			categories = append(categories, r)
			continue
		}
		literals = append(literals, r)
	}

	if cfg.ReplaceDefaults {
		list := append(literals, categories...)
		if !hasFallback {
			list = append(list, rules.FallbackRules()...)
		}
		return rules.NewTable(list...)
	}

	list := literals
	for _, r := range rules.DefaultRules() {
		if r.Kind == rules.KindLiteral {
			list = append(list, r)
		}
	}
	list = append(list, categories...)
	list = append(list, rules.FallbackRules()...)

	return rules.NewTable(list...)
}
