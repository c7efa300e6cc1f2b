package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/arloliu/rowlist"
)

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore: ROWLIST_LIST__LOCALE=ja sets list.locale.
const EnvPrefix = "ROWLIST_"

// DefaultConfigFile is read when present and no --config is given.
const DefaultConfigFile = "rowlist.yaml"

// Config is the configuration of the rowlist command.
type Config struct {
	// Contacts is the path of the YAML contacts file.
	Contacts string `yaml:"contacts"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`

	// FilterTitle labels the account-filter row between favorites and contacts.
	FilterTitle string `yaml:"filter_title"`

	// List configures the contacts adapter.
	List rowlist.Config `yaml:"list"`
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"locale": "list.locale",
}

// LoadConfig loads configuration from defaults, a YAML file, environment
// variables and flags, in increasing precedence.
//
// Parameters:
//   - cfgFile: Explicit config file ("" looks for DefaultConfigFile)
//   - flags: Flags that override file and environment values (may be nil)
//
// Returns:
//   - *Config: Loaded, defaulted and validated configuration
//   - string: Config file used ("" when none)
//   - error: Read, decode or validation error
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"contacts":     "contacts.yaml",
		"log_level":    "warn",
		"log_format":   "text",
		"filter_title": "Contacts to display",
	}, "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			used = DefaultConfigFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Config{List: rowlist.DefaultConfig()}
	// configured partitions replace the default table instead of merging into it
	if k.Exists("list.partitions") {
		cfg.List.Partitions = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}

	rowlist.SetDefaults(&cfg.List)
	if err := cfg.List.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, used, nil
}
