package config

import (
	"path/filepath"
	"time"
)

// Backend names shared by the lookup sections.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendHTTP     = "http"
)

// Config is the root application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Data       DataConfig       `yaml:"data"`
	Buckets    BucketConfig     `yaml:"buckets"`
	Generate   GenerateConfig   `yaml:"generate"`
	Frequency  FrequencyConfig  `yaml:"frequency"`
	Morphology MorphologyConfig `yaml:"morphology"`
	Database   DatabaseConfig   `yaml:"database"`
	Cache      CacheConfig      `yaml:"cache"`
	RunTimeout time.Duration    `yaml:"run_timeout" env:"RUN_TIMEOUT" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// DataConfig holds input and output locations. Relative file names are
// resolved against Dir.
type DataConfig struct {
	Dir            string `yaml:"dir"             env:"DATA_DIR"             env-default:"data"`
	NounsFile      string `yaml:"nouns_file"      env:"DATA_NOUNS_FILE"      env-default:"nouns.csv"`
	AdjectivesFile string `yaml:"adjectives_file" env:"DATA_ADJECTIVES_FILE" env-default:"adjectives.csv"`
	LexiconFile    string `yaml:"lexicon_file"    env:"DATA_LEXICON_FILE"    env-default:"bin.csv"`
	UnigramsFile   string `yaml:"unigrams_file"   env:"DATA_UNIGRAMS_FILE"   env-default:"unigrams.tsv"`
	OutputDir      string `yaml:"output_dir"      env:"DATA_OUTPUT_DIR"      env-default:"."`
}

// Path resolves a data file name against Dir.
func (d DataConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// BucketConfig holds bucket-building settings.
type BucketConfig struct {
	Workers            int    `yaml:"workers"             env:"BUCKETS_WORKERS"             env-default:"8"`
	FilterAmbiguous    bool   `yaml:"filter_ambiguous"    env:"BUCKETS_FILTER_AMBIGUOUS"    env-default:"true"`
	MaxNounsPerBucket  int    `yaml:"max_nouns_per_bucket" env:"BUCKETS_MAX_NOUNS"          env-default:"0"`
	MaxAdjsPerBucket   int    `yaml:"max_adjectives_per_bucket" env:"BUCKETS_MAX_ADJECTIVES" env-default:"0"`
	AvoidNounsRaw      string `yaml:"avoid_nouns"         env:"BUCKETS_AVOID_NOUNS"         env-default:"nam,góða,ex,virt,óþörf,rift"`
	AvoidAdjectivesRaw string `yaml:"avoid_adjectives"    env:"BUCKETS_AVOID_ADJECTIVES"    env-default:"gar"`
	SkipSuffixesRaw    string `yaml:"skip_adjective_suffixes" env:"BUCKETS_SKIP_SUFFIXES"   env-default:"legur"`

	// Parsed from the raw lists during validation.
	AvoidNouns      []string `yaml:"-" env:"-"`
	AvoidAdjectives []string `yaml:"-" env:"-"`
	SkipSuffixes    []string `yaml:"-" env:"-"`
}

// GenerateConfig holds sampling and record-generation settings.
type GenerateConfig struct {
	Count        int    `yaml:"count"         env:"GENERATE_COUNT"         env-default:"20"`
	Seed         uint64 `yaml:"seed"          env:"GENERATE_SEED"          env-default:"0"`
	RecordFormat string `yaml:"record_format" env:"GENERATE_RECORD_FORMAT" env-default:"completion"`
	Workers      int    `yaml:"workers"       env:"GENERATE_WORKERS"       env-default:"8"`
}

// FrequencyConfig selects and configures the word-form frequency lookup.
type FrequencyConfig struct {
	Backend    string        `yaml:"backend"     env:"FREQUENCY_BACKEND"     env-default:"memory"`
	BaseURL    string        `yaml:"base_url"    env:"FREQUENCY_BASE_URL"    env-default:"http://localhost:8080"`
	Timeout    time.Duration `yaml:"timeout"     env:"FREQUENCY_TIMEOUT"     env-default:"10s"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"FREQUENCY_RETRY_DELAY" env-default:"500ms"`
}

// MorphologyConfig selects and configures the BÍN morphology lookup.
type MorphologyConfig struct {
	Backend     string        `yaml:"backend"      env:"MORPHOLOGY_BACKEND"      env-default:"memory"`
	LoaderBatch int           `yaml:"loader_batch" env:"MORPHOLOGY_LOADER_BATCH" env-default:"100"`
	LoaderWait  time.Duration `yaml:"loader_wait"  env:"MORPHOLOGY_LOADER_WAIT"  env-default:"2ms"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ImportBatchSize int           `yaml:"import_batch_size"  env:"DATABASE_IMPORT_BATCH_SIZE"  env-default:"1000"`
}

// CacheConfig holds the Redis frequency cache settings.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"  env:"CACHE_ENABLED"  env-default:"false"`
	Addr     string        `yaml:"addr"     env:"CACHE_ADDR"     env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB       int           `yaml:"db"       env:"CACHE_DB"       env-default:"0"`
	TTL      time.Duration `yaml:"ttl"      env:"CACHE_TTL"      env-default:"168h"`
	Prefix   string        `yaml:"prefix"   env:"CACHE_PREFIX"   env-default:"unigram:"`
}

// NeedsDatabase reports whether any configured backend uses PostgreSQL.
func (c *Config) NeedsDatabase() bool {
	return c.Frequency.Backend == BackendPostgres || c.Morphology.Backend == BackendPostgres
}
