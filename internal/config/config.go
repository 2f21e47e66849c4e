package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/dshills/keymask/internal/config/loader"
	"github.com/dshills/keymask/internal/engine/mask"
	"github.com/dshills/keymask/internal/logging"
)

// Config is a decoded definition file.
type Config struct {
	Settings Settings         `toml:"settings" yaml:"settings"`
	Tokens   map[string]Token `toml:"tokens" yaml:"tokens"`
	Masks    []Mask           `toml:"masks" yaml:"masks"`

	// dir resolves relative script paths.
	dir string
}

// Settings holds options shared by every mask. Each field can be overridden
// by the environment variable named in its env tag, prefixed with KEYMASK_.
type Settings struct {
	LogLevel        string `toml:"log_level" yaml:"log_level" env:"LOG_LEVEL"`
	HistoryLimit    int    `toml:"history_limit" yaml:"history_limit" env:"HISTORY_LIMIT"`
	KeysOnly        bool   `toml:"keys_only" yaml:"keys_only" env:"KEYS_ONLY"`
	Policy          string `toml:"policy" yaml:"policy" env:"POLICY"`
	ScriptTimeoutMS int    `toml:"script_timeout_ms" yaml:"script_timeout_ms" env:"SCRIPT_TIMEOUT_MS"`
}

// Token defines an extra pattern rune. Exactly one of Class and Expr is set.
type Token struct {
	// Class is a regular expression matching a single rune.
	Class string `toml:"class" yaml:"class"`
	// Expr is a boolean expression over char (string) and code (int).
	Expr string `toml:"expr" yaml:"expr"`
}

// Mask is one named mask.
type Mask struct {
	Name string `toml:"name" yaml:"name"`

	// Pattern and Regexp are mutually exclusive. With Script set, the
	// pattern or regexp is the fallback used when the script fails.
	Pattern string `toml:"pattern" yaml:"pattern"`
	Regexp  string `toml:"regexp" yaml:"regexp"`

	// Script is a Lua file, relative to the definition file.
	Script string `toml:"script" yaml:"script"`

	// Policy overrides the global policy ("all" or "filtered").
	Policy    string `toml:"policy" yaml:"policy"`
	Multiline bool   `toml:"multiline" yaml:"multiline"`
}

// Default returns the settings used when no file is loaded.
func Default() *Config {
	return &Config{
		Settings: Settings{
			LogLevel: "info",
			Policy:   "all",
		},
	}
}

// Load reads and validates the definition file at path.
func Load(path string) (*Config, error) {
	return LoadWith(loader.New(), path)
}

// LoadWith reads path through l.
func LoadWith(l *loader.Loader, path string) (*Config, error) {
	cfg := Default()
	if err := l.Load(path, cfg); err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.Settings.LogLevel)
}

// ScriptTimeout returns the per-call Lua deadline, or zero for the default.
func (c *Config) ScriptTimeout() time.Duration {
	return time.Duration(c.Settings.ScriptTimeoutMS) * time.Millisecond
}

// Names returns the mask names in file order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Masks))
	for i, m := range c.Masks {
		names[i] = m.Name
	}
	return names
}

// Mask returns the mask called name.
func (c *Config) Mask(name string) (Mask, error) {
	for _, m := range c.Masks {
		if m.Name == name {
			return m, nil
		}
	}
	return Mask{}, fmt.Errorf("%w: %q", ErrUnknownMask, name)
}

// ScriptPath resolves m.Script against the definition file's directory.
func (c *Config) ScriptPath(m Mask) string {
	if m.Script == "" || filepath.IsAbs(m.Script) || c.dir == "" {
		return m.Script
	}
	return filepath.Join(c.dir, m.Script)
}

// Validate checks that every mask and token can be built. It returns the
// first problem found as a *ValidationError.
func (c *Config) Validate() error {
	if err := validatePolicy("settings.policy", c.Settings.Policy); err != nil {
		return err
	}
	if c.Settings.HistoryLimit < 0 {
		return &ValidationError{Path: "settings.history_limit", Message: "must not be negative"}
	}
	if c.Settings.ScriptTimeoutMS < 0 {
		return &ValidationError{Path: "settings.script_timeout_ms", Message: "must not be negative"}
	}

	for name, tok := range c.Tokens {
		path := "tokens." + name
		if utf8.RuneCountInString(name) != 1 {
			return &ValidationError{Path: path, Message: "token name must be a single character"}
		}
		if (tok.Class == "") == (tok.Expr == "") {
			return &ValidationError{Path: path, Message: "exactly one of class or expr is required"}
		}
	}
	opts, err := c.parseOptions()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Masks))
	for i, m := range c.Masks {
		path := fmt.Sprintf("masks[%d]", i)
		switch {
		case m.Name == "":
			return &ValidationError{Path: path + ".name", Message: "is required"}
		case seen[m.Name]:
			return &ValidationError{Path: path + ".name", Message: fmt.Sprintf("duplicate mask %q", m.Name)}
		case m.Pattern != "" && m.Regexp != "":
			return &ValidationError{Path: path, Message: "pattern and regexp are mutually exclusive"}
		case m.Pattern == "" && m.Regexp == "" && m.Script == "":
			return &ValidationError{Path: path, Message: "one of pattern, regexp or script is required"}
		}
		seen[m.Name] = true

		if m.Pattern != "" {
			if _, err := mask.Parse(m.Pattern, opts...); err != nil {
				return &ValidationError{Path: path + ".pattern", Message: err.Error()}
			}
		}
		if m.Regexp != "" {
			if _, err := regexp.Compile(m.Regexp); err != nil {
				return &ValidationError{Path: path + ".regexp", Message: err.Error()}
			}
		}
		if err := validatePolicy(path+".policy", m.Policy); err != nil {
			return err
		}
	}
	return nil
}

func validatePolicy(path, policy string) error {
	switch policy {
	case "", "all", "filtered":
		return nil
	default:
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown policy %q", policy)}
	}
}
