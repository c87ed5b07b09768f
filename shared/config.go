package shared

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hasssanezzz/bloomspell/internal/bloom"
	"github.com/hasssanezzz/bloomspell/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "BLOOMSPELL"

var DefaultConfig = Config{
	NumBits:           bloom.DefaultSize,
	Dictionary:        "text/wordlist-utf8.txt",
	Strategy:          StrategySHA512,
	Hashes:            4,
	Workers:           1,
	FalsePositiveRate: 0.01,
	Log: LogConfig{
		Level:      "info",
		Format:     "text",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	},
}

// Config holds the settings shared by the spellcheck and bloomd commands.
// Validate leaves NumBits alone; bloom.New rejects a bad bit count.
type Config struct {
	NumBits           int       `mapstructure:"num_bits"`
	Dictionary        string    `mapstructure:"dictionary"` // empty skips loading
	Strategy          string    `mapstructure:"strategy"    validate:"oneof=sha512 xxhash double"`
	Hashes            int       `mapstructure:"hashes"      validate:"gte=1"`
	Workers           int       `mapstructure:"workers"     validate:"gte=1"`
	Capacity          uint64    `mapstructure:"capacity"`
	FalsePositiveRate float64   `mapstructure:"fp_rate"     validate:"required_with=Capacity"`
	Log               LogConfig `mapstructure:"log"`
}

// LogConfig selects the log handler. An empty File logs to stderr; the
// rotation fields only apply to a file.
type LogConfig struct {
	Level      string `mapstructure:"level"       validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format"      validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

func NewConfig() *Config {
	c := DefaultConfig
	return &c
}

func (c *Config) WithNumBits(value int) *Config {
	c.NumBits = value
	return c
}

func (c *Config) WithDictionary(value string) *Config {
	c.Dictionary = value
	return c
}

func (c *Config) WithStrategy(value string, hashes int) *Config {
	c.Strategy = value
	c.Hashes = hashes
	return c
}

func (c *Config) WithWorkers(value int) *Config {
	c.Workers = value
	return c
}

func (c *Config) WithCapacity(n uint64, fpRate float64) *Config {
	c.Capacity = n
	c.FalsePositiveRate = fpRate
	return c
}

// Validate checks every field except NumBits, which bloom.New owns.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// HashStrategy returns the strategy named by Strategy.
func (c *Config) HashStrategy() bloom.HashStrategy {
	switch c.Strategy {
	case StrategyXXHash:
		return bloom.XXHashStrategy{K: c.Hashes}
	case StrategyDouble:
		return bloom.DoubleHashStrategy{K: c.Hashes}
	default:
		return bloom.SHA512Strategy{}
	}
}

// NewFilter builds an empty filter from the configuration. When Capacity is
// set the bit count, and the hash count of the tunable strategies, come from
// bloom.OptimalSize instead of NumBits and Hashes.
func (c *Config) NewFilter() (*bloom.Filter, error) {
	size, strategy := c.NumBits, c
	if c.Capacity > 0 {
		m, k, err := bloom.OptimalSize(c.Capacity, c.FalsePositiveRate)
		if err != nil {
			return nil, fmt.Errorf("sizing for %d words at rate %v: %w", c.Capacity, c.FalsePositiveRate, err)
		}
		sized := *c
		sized.Hashes = k
		size, strategy = m, &sized
	}
	return bloom.New(size, bloom.WithHashStrategy(strategy.HashStrategy()))
}

// LoggingConfig returns the logging settings tagged with service.
func (c *Config) LoggingConfig(service string) logging.Config {
	return logging.Config{
		Service:    service,
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"num-bits":   "num_bits",
	"dictionary": "dictionary",
	"strategy":   "strategy",
	"hashes":     "hashes",
	"workers":    "workers",
	"capacity":   "capacity",
	"fp-rate":    "fp_rate",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

// RegisterFlags defines the configuration flags on fs. The flag named
// "config" points Load at a configuration file.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig
	fs.String("config", "", "Path to a configuration file (toml, yaml or json)")
	fs.Int("num-bits", d.NumBits, "Number of bits in the bitarray of the bloom filter")
	fs.String("dictionary", d.Dictionary, "Name of file with a list of correctly spelled words")
	fs.String("strategy", d.Strategy, "Hash strategy: sha512, xxhash or double")
	fs.Int("hashes", d.Hashes, "Digests per member for the xxhash and double strategies")
	fs.Int("workers", d.Workers, "Goroutines used to load the dictionary")
	fs.Uint64("capacity", 0, "Expected dictionary size; sizes the filter when set")
	fs.Float64("fp-rate", d.FalsePositiveRate, "Target false positive rate used with --capacity")
	fs.String("log-level", d.Log.Level, "Log level: debug, info, warn or error")
	fs.String("log-format", d.Log.Format, "Log format: json or text")
	fs.String("log-file", "", "Rotated log file; stderr when empty")
}

// Load resolves the configuration from, in increasing priority, defaults,
// the optional config file, BLOOMSPELL_* environment variables and flags
// that were set explicitly. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := v.GetString("config")
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig
	v.SetDefault("num_bits", d.NumBits)
	v.SetDefault("dictionary", d.Dictionary)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("hashes", d.Hashes)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("capacity", d.Capacity)
	v.SetDefault("fp_rate", d.FalsePositiveRate)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)
}
