package config

import (
	"fmt"
	"strings"
)

// MaxImportBatchSize keeps one multi-row insert of six-column bin_forms
// rows within PostgreSQL's 65535 bind parameters.
const MaxImportBatchSize = 65535 / 6

// Validate performs business-rule validation on the loaded configuration
// and parses the list-valued settings. Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Buckets.validate(); err != nil {
		return fmt.Errorf("buckets: %w", err)
	}
	if err := c.Generate.validate(); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	switch c.Frequency.Backend {
	case BackendMemory, BackendPostgres:
	case BackendHTTP:
		if c.Frequency.BaseURL == "" {
			return fmt.Errorf("frequency.base_url is required for the http backend")
		}
		if c.Frequency.Timeout <= 0 {
			return fmt.Errorf("frequency.timeout must be > 0 (got %s)", c.Frequency.Timeout)
		}
	default:
		return fmt.Errorf("frequency.backend must be one of memory, postgres, http (got %q)", c.Frequency.Backend)
	}

	switch c.Morphology.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Morphology.LoaderBatch <= 0 {
			return fmt.Errorf("morphology.loader_batch must be > 0 (got %d)", c.Morphology.LoaderBatch)
		}
	default:
		return fmt.Errorf("morphology.backend must be one of memory, postgres (got %q)", c.Morphology.Backend)
	}

	if c.NeedsDatabase() && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when a postgres backend is selected")
	}
	if c.Database.ImportBatchSize <= 0 || c.Database.ImportBatchSize > MaxImportBatchSize {
		return fmt.Errorf("database.import_batch_size must be in 1..%d (got %d)", MaxImportBatchSize, c.Database.ImportBatchSize)
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("cache.addr is required when the cache is enabled")
	}

	if c.RunTimeout <= 0 {
		return fmt.Errorf("run_timeout must be > 0 (got %s)", c.RunTimeout)
	}

	return nil
}

func (b *BucketConfig) validate() error {
	if b.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", b.Workers)
	}
	if b.MaxNounsPerBucket < 0 || b.MaxAdjsPerBucket < 0 {
		return fmt.Errorf("per-bucket caps must be >= 0")
	}
	b.AvoidNouns = ParseList(b.AvoidNounsRaw)
	b.AvoidAdjectives = ParseList(b.AvoidAdjectivesRaw)
	b.SkipSuffixes = ParseList(b.SkipSuffixesRaw)
	return nil
}

func (g *GenerateConfig) validate() error {
	if g.Count <= 0 {
		return fmt.Errorf("count must be > 0 (got %d)", g.Count)
	}
	if g.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", g.Workers)
	}
	if g.RecordFormat != "completion" && g.RecordFormat != "chat" {
		return fmt.Errorf("record_format must be completion or chat (got %q)", g.RecordFormat)
	}
	return nil
}

// ParseList splits a comma-separated list, trimming blanks. An empty string
// returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
