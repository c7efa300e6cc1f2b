package rowlist

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// LoaderConfig controls how row sources are loaded.
type LoaderConfig struct {
	// Concurrency is the maximum number of partitions loaded at the same time.
	// 0 means one goroutine per bound partition.
	Concurrency int `yaml:"concurrency"`

	// Timeout bounds a single partition load (0 = no timeout).
	Timeout time.Duration `yaml:"timeout"`

	// SkipUnchanged suppresses deliveries whose content fingerprint equals
	// the previously delivered snapshot of the same partition.
	SkipUnchanged bool `yaml:"skipUnchanged"`
}

// KVConfig configures the NATS JetStream KV bucket backing a contacts source.
type KVConfig struct {
	// Bucket is the bucket name.
	Bucket string `yaml:"bucket"`

	// History is the number of revisions kept per key.
	History uint8 `yaml:"history"`

	// Replicas is the bucket replication factor.
	Replicas int `yaml:"replicas"`

	// CreateRetries bounds bucket creation attempts.
	CreateRetries int `yaml:"createRetries"`
}

// Config is the configuration of an Adapter.
//
// The partition table (count and order) is fixed by Partitions; only the rows
// of each partition change at runtime.
type Config struct {
	// Partitions lists the partitions in display order.
	Partitions []PartitionConfig `yaml:"partitions"`

	// IndexedPartition names the partition that owns the section index and the
	// pinned header. Empty disables the index.
	IndexedPartition string `yaml:"indexedPartition"`

	// SectionHeaders gives rows that start a section a distinct view type.
	SectionHeaders bool `yaml:"sectionHeaders"`

	// Locale selects the canonical alphabet and collation (BCP 47, e.g. "en", "ja-JP").
	Locale string `yaml:"locale"`

	// ProfileLabel labels the section of the profile ("me") row.
	ProfileLabel string `yaml:"profileLabel"`

	// Capabilities toggle optional row decorations.
	Capabilities Capabilities `yaml:"capabilities"`

	// NotifyBuffer is the channel capacity of change subscribers.
	NotifyBuffer int `yaml:"notifyBuffer"`

	// Loader controls row source loading.
	Loader LoaderConfig `yaml:"loader"`

	// KV configures the contacts KV bucket used by KV sources.
	KV KVConfig `yaml:"kv"`
}

// DefaultConfig returns the layout of a plain contacts list: a profile-aware,
// indexed "contacts" partition with photos and quick actions.
//
// Returns:
//   - Config: Default configuration
func DefaultConfig() Config {
	return Config{
		Partitions: []PartitionConfig{
			{Name: "contacts", ShowIfEmpty: true},
		},
		IndexedPartition: "contacts",
		SectionHeaders:   true,
		Locale:           "en",
		ProfileLabel:     "Me",
		Capabilities: Capabilities{
			Photos:      true,
			QuickAction: true,
		},
		NotifyBuffer: 8,
		Loader: LoaderConfig{
			Timeout:       10 * time.Second,
			SkipUnchanged: true,
		},
		KV: KVConfig{
			Bucket:        "rowlist-contacts",
			History:       1,
			Replicas:      1,
			CreateRetries: 3,
		},
	}
}

// SetDefaults fills zero-valued fields of cfg with defaults.
//
// Partitions and IndexedPartition are only defaulted together, when no
// partition is configured at all.
//
// Parameters:
//   - cfg: Configuration to complete in place
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if len(cfg.Partitions) == 0 {
		cfg.Partitions = defaults.Partitions
		if cfg.IndexedPartition == "" {
			cfg.IndexedPartition = defaults.IndexedPartition
		}
	}
	if cfg.Locale == "" {
		cfg.Locale = defaults.Locale
	}
	if cfg.ProfileLabel == "" {
		cfg.ProfileLabel = defaults.ProfileLabel
	}
	if cfg.NotifyBuffer == 0 {
		cfg.NotifyBuffer = defaults.NotifyBuffer
	}
	if cfg.Loader.Timeout == 0 {
		cfg.Loader.Timeout = defaults.Loader.Timeout
	}
	if cfg.KV.Bucket == "" {
		cfg.KV.Bucket = defaults.KV.Bucket
	}
	if cfg.KV.History == 0 {
		cfg.KV.History = defaults.KV.History
	}
	if cfg.KV.Replicas == 0 {
		cfg.KV.Replicas = defaults.KV.Replicas
	}
	if cfg.KV.CreateRetries == 0 {
		cfg.KV.CreateRetries = defaults.KV.CreateRetries
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Error wrapping ErrInvalidConfig describing the first problem found
func (cfg *Config) Validate() error {
	if len(cfg.Partitions) == 0 {
		return fmt.Errorf("%w: at least one partition is required", ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(cfg.Partitions))
	for i, p := range cfg.Partitions {
		if p.Name == "" {
			return fmt.Errorf("%w: partition %d has no name", ErrInvalidConfig, i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate partition name %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.StaticRows < 0 {
			return fmt.Errorf("%w: partition %q has negative staticRows %d", ErrInvalidConfig, p.Name, p.StaticRows)
		}
	}

	if cfg.IndexedPartition != "" {
		i := cfg.partitionIndex(cfg.IndexedPartition)
		if i < 0 {
			return fmt.Errorf("%w: indexedPartition %q is not a configured partition", ErrInvalidConfig, cfg.IndexedPartition)
		}
		if cfg.Partitions[i].IsStatic() {
			return fmt.Errorf("%w: indexedPartition %q is a static partition", ErrInvalidConfig, cfg.IndexedPartition)
		}
	}

	if _, err := language.Parse(cfg.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %w", ErrInvalidConfig, cfg.Locale, err)
	}

	if cfg.NotifyBuffer < 0 {
		return fmt.Errorf("%w: notifyBuffer must be >= 0, got %d", ErrInvalidConfig, cfg.NotifyBuffer)
	}
	if cfg.Loader.Concurrency < 0 {
		return fmt.Errorf("%w: loader.concurrency must be >= 0, got %d", ErrInvalidConfig, cfg.Loader.Concurrency)
	}
	if cfg.Loader.Timeout < 0 {
		return fmt.Errorf("%w: loader.timeout must be >= 0, got %v", ErrInvalidConfig, cfg.Loader.Timeout)
	}

	return nil
}

// ValidateWithWarnings logs settings that are valid but probably unintended.
//
// Parameters:
//   - logger: Logger receiving the warnings
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	for _, p := range cfg.Partitions {
		if p.CollapseIfNextEmpty && !p.IsStatic() {
			logger.Warn(
				"collapseIfNextEmpty only applies to static partitions",
				"partition", p.Name,
			)
		}
		if p.IsStatic() && p.ShowIfEmpty {
			logger.Warn(
				"showIfEmpty has no effect on static partitions",
				"partition", p.Name,
			)
		}
	}

	if cfg.SectionHeaders && cfg.IndexedPartition == "" {
		logger.Warn(
			"sectionHeaders is set but no partition is indexed",
			"recommended", "set indexedPartition",
		)
	}

	if cfg.Capabilities.Checkboxes && cfg.Capabilities.QuickAction {
		logger.Warn(
			"quick actions are hidden while multi-select is active",
			"capabilities", "checkboxes+quickAction",
		)
	}
}

// TestConfig returns a small two-partition layout for tests: an unindexed
// "starred" partition followed by an indexed "contacts" partition with a header.
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.Partitions = []PartitionConfig{
		{Name: "starred"},
		{Name: "contacts", Title: "All contacts", HasHeader: true, ShowIfEmpty: true},
	}
	cfg.IndexedPartition = "contacts"
	cfg.Loader.Timeout = time.Second

	return cfg
}

// partitionIndex returns the index of the partition called name, or -1.
func (cfg *Config) partitionIndex(name string) int {
	for i, p := range cfg.Partitions {
		if p.Name == name {
			return i
		}
	}

	return -1
}

// PartitionIndex returns the index of the partition called name.
//
// Returns:
//   - int: Partition index
//   - error: ErrUnknownPartition when no partition has that name
func (cfg *Config) PartitionIndex(name string) (int, error) {
	if i := cfg.partitionIndex(name); i >= 0 {
		return i, nil
	}

	return -1, fmt.Errorf("%w: %q", ErrUnknownPartition, name)
}
