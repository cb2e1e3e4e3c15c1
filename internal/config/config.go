package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/dshills/lintite/internal/rules"
)

// Config holds all engine settings.
type Config struct {
	Rules        RulesConfig        `toml:"rules"`
	Highlight    HighlightConfig    `toml:"highlight"`
	Substitution SubstitutionConfig `toml:"substitution"`
	Stats        StatsConfig        `toml:"stats"`
	Logging      LoggingConfig      `toml:"logging"`
}

// RulesConfig locates the rule sources.
type RulesConfig struct {
	// HighlightPath is the word/color rule file.
	HighlightPath string `toml:"highlight_path"`

	// SubstitutionPath is the find/replace rule file.
	SubstitutionPath string `toml:"substitution_path"`

	// Watch enables reloading rule files when they change on disk. The watch
	// command refuses to start when it is false.
	Watch bool `toml:"watch"`

	// Debounce is how long a rule file must be quiet before it is reloaded.
	Debounce string `toml:"debounce"`
}

// DebounceDuration returns Debounce parsed, or the default on error.
func (r RulesConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(r.Debounce)
	if err != nil {
		return DefaultDebounce
	}
	return d
}

// HighlightConfig tunes the lexical highlighter.
type HighlightConfig struct {
	// BaseColor paints text no rule matches.
	BaseColor string `toml:"base_color"`

	// CacheSize is the number of highlighted lines kept in the LRU cache.
	CacheSize int `toml:"cache_size"`
}

// SubstitutionConfig toggles the substitution features.
type SubstitutionConfig struct {
	// Live replaces a typed word as soon as it equals a rule's find text.
	Live bool `toml:"live"`

	// Suggestions offers completions for the word under the caret.
	Suggestions bool `toml:"suggestions"`
}

// StatsConfig tunes the document counters.
type StatsConfig struct {
	// SentencesPerParagraph drives the paragraph estimate.
	SentencesPerParagraph int `toml:"sentences_per_paragraph"`
}

// LoggingConfig sets the log output.
type LoggingConfig struct {
	// Level is a logrus level name.
	Level string `toml:"level"`
}

// Defaults.
const (
	DefaultDebounce              = 100 * time.Millisecond
	DefaultCacheSize             = 4096
	DefaultSentencesPerParagraph = 3
	DefaultDirName               = ".lintite"
	EnvPrefix                    = "LINTITE_"
)

// DefaultDir returns the per-user configuration directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// DefaultPath returns the default settings file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "settings.toml")
}

// Default returns the built-in settings.
func Default() *Config {
	dir := DefaultDir()
	return &Config{
		Rules: RulesConfig{
			HighlightPath:    filepath.Join(dir, "linting.json"),
			SubstitutionPath: filepath.Join(dir, "instaplace.json"),
			Watch:            true,
			Debounce:         DefaultDebounce.String(),
		},
		Highlight: HighlightConfig{
			BaseColor: "white",
			CacheSize: DefaultCacheSize,
		},
		Substitution: SubstitutionConfig{
			Live:        true,
			Suggestions: true,
		},
		Stats: StatsConfig{
			SentencesPerParagraph: DefaultSentencesPerParagraph,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads settings from path over the defaults, applies LINTITE_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.parse(path, data); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		// File doesn't exist, defaults apply
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.expandPaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse decodes TOML data over c.
func (c *Config) parse(path string, data []byte) error {
	if err := toml.Unmarshal(data, c); err != nil {
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return pe
	}
	return nil
}

// envSetter applies one environment value.
type envSetter func(c *Config, value string) error

// envMapping maps environment variables to settings.
var envMapping = map[string]envSetter{
	"LINTITE_LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = v
		return nil
	},
	"LINTITE_HIGHLIGHT_RULES": func(c *Config, v string) error {
		c.Rules.HighlightPath = v
		return nil
	},
	"LINTITE_SUBSTITUTION_RULES": func(c *Config, v string) error {
		c.Rules.SubstitutionPath = v
		return nil
	},
	"LINTITE_WATCH": func(c *Config, v string) error {
		return setBool(&c.Rules.Watch, "rules.watch", v)
	},
	"LINTITE_LIVE_SUBSTITUTION": func(c *Config, v string) error {
		return setBool(&c.Substitution.Live, "substitution.live", v)
	},
	"LINTITE_SUGGESTIONS": func(c *Config, v string) error {
		return setBool(&c.Substitution.Suggestions, "substitution.suggestions", v)
	},
	"LINTITE_BASE_COLOR": func(c *Config, v string) error {
		c.Highlight.BaseColor = v
		return nil
	},
}

func setBool(dst *bool, path, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return &ValidationError{Path: path, Value: v, Message: "expected a boolean"}
	}
	*dst = b
	return nil
}

// ApplyEnv overrides settings from the environment.
// Note: Empty string values are treated as valid values, not as unset.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for name, set := range envMapping {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(c, v); err != nil {
			return err
		}
	}
	return nil
}

// expandPaths resolves "~/" and paths relative to the settings file.
func (c *Config) expandPaths(base string) {
	c.Rules.HighlightPath = expandPath(base, c.Rules.HighlightPath)
	c.Rules.SubstitutionPath = expandPath(base, c.Rules.SubstitutionPath)
}

func expandPath(base, p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(base, p)
	}
	return p
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := rules.ParseColor(c.Highlight.BaseColor); err != nil {
		return &ValidationError{Path: "highlight.base_color", Value: c.Highlight.BaseColor, Message: err.Error()}
	}
	if c.Highlight.CacheSize < 0 {
		return &ValidationError{Path: "highlight.cache_size", Value: c.Highlight.CacheSize, Message: "must not be negative"}
	}
	if d, err := time.ParseDuration(c.Rules.Debounce); err != nil || d < 0 {
		return &ValidationError{Path: "rules.debounce", Value: c.Rules.Debounce, Message: "expected a non-negative duration such as 100ms"}
	}
	if c.Stats.SentencesPerParagraph < 0 {
		return &ValidationError{Path: "stats.sentences_per_paragraph", Value: c.Stats.SentencesPerParagraph, Message: "must not be negative"}
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Value: c.Logging.Level, Message: err.Error()}
	}
	return nil
}

// BaseColor returns the parsed base color. Call after Validate.
func (c *Config) BaseColor() rules.RGB {
	rgb, err := rules.ParseColor(c.Highlight.BaseColor)
	if err != nil {
		return rules.White
	}
	return rgb
}

// NewLogger builds a logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(c.Logging.Level); err == nil {
		log.SetLevel(level)
	}
	return log
}
