package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"randgen/internal/generator"
	"randgen/internal/random"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting the generators read.
type Config struct {
	Bits       int    `yaml:"bits"`
	OutputDir  string `yaml:"output_dir"`
	Name       string `yaml:"name"`
	Debug      bool   `yaml:"debug"`
	DebugSeed  uint64 `yaml:"debug_seed"`
	Verbose    bool   `yaml:"verbose"`
	MaxRerolls int    `yaml:"max_rerolls"`
	Count      int    `yaml:"count"`

	Random RandomConfig `yaml:"random"`
}

// RandomConfig configures the random.org client.
type RandomConfig struct {
	URL           string        `yaml:"url"`
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxPerRequest int           `yaml:"max_per_request"`
	CheckQuota    bool          `yaml:"check_quota"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bits", 8)
	v.SetDefault("output_dir", "output")
	v.SetDefault("name", "tmp")
	v.SetDefault("debug", false)
	v.SetDefault("debug_seed", 0)
	v.SetDefault("verbose", false)
	v.SetDefault("max_rerolls", generator.DefaultMaxRerolls)
	v.SetDefault("count", 1)

	v.SetDefault("random.url", random.DefaultBaseURL)
	v.SetDefault("random.user_agent", random.DefaultUserAgent)
	v.SetDefault("random.timeout", random.DefaultTimeout)
	v.SetDefault("random.max_per_request", random.MaxPerRequest)
	v.SetDefault("random.check_quota", true)
}

// Load reads defaults, then the YAML file at path (skipped when empty), then
// RANDGEN_* environment variables, e.g. RANDGEN_BITS or RANDGEN_RANDOM_URL.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("randgen")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Bits:       v.GetInt("bits"),
		OutputDir:  v.GetString("output_dir"),
		Name:       v.GetString("name"),
		Debug:      v.GetBool("debug"),
		DebugSeed:  v.GetUint64("debug_seed"),
		Verbose:    v.GetBool("verbose"),
		MaxRerolls: v.GetInt("max_rerolls"),
		Count:      v.GetInt("count"),
		Random: RandomConfig{
			URL:           v.GetString("random.url"),
			UserAgent:     v.GetString("random.user_agent"),
			Timeout:       v.GetDuration("random.timeout"),
			MaxPerRequest: v.GetInt("random.max_per_request"),
			CheckQuota:    v.GetBool("random.check_quota"),
		},
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Bits < generator.MinBits || c.Bits > generator.MaxBits {
		return fmt.Errorf("%w: bits %d outside [%d, %d]", ErrInvalidConfig, c.Bits, generator.MinBits, generator.MaxBits)
	}
	if c.Count < 1 {
		return fmt.Errorf("%w: count %d must be positive", ErrInvalidConfig, c.Count)
	}
	if c.MaxRerolls < 0 {
		return fmt.Errorf("%w: max_rerolls %d is negative", ErrInvalidConfig, c.MaxRerolls)
	}
	if c.Random.MaxPerRequest < 1 || c.Random.MaxPerRequest > random.MaxPerRequest {
		return fmt.Errorf("%w: random.max_per_request %d outside [1, %d]", ErrInvalidConfig, c.Random.MaxPerRequest, random.MaxPerRequest)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: output name is empty", ErrInvalidConfig)
	}
	return nil
}

// Source builds the random source the settings ask for, already wrapped so
// that only one request is in flight at a time.
func (c *Config) Source() random.Source {
	if c.Debug {
		return random.NewBatched(random.NewLocal(c.DebugSeed), c.Random.MaxPerRequest)
	}
	org := random.NewOrgClient(
		random.WithBaseURL(c.Random.URL),
		random.WithUserAgent(c.Random.UserAgent),
		random.WithTimeout(c.Random.Timeout),
		random.WithQuotaCheck(c.Random.CheckQuota),
	)
	return random.NewBatched(org, c.Random.MaxPerRequest)
}
