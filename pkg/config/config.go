package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// ⚙️ Defaults applied when neither the environment nor a config file
// sets a value.
const (
	DefaultFolder    = "content"
	DefaultPattern   = "*.md"
	DefaultRateLimit = 60
	DefaultTimeout   = 30 * time.Second
	DefaultCacheTTL  = 5 * time.Minute
	DefaultListen    = ":8080"
)

// 📦 Remote holds everything needed to talk to the GitHub repository
// that hosts the articles. Loaded once at process start; immutable
// afterwards.
type Remote struct {
	Token     string        `yaml:"token"`
	Owner     string        `yaml:"owner"`
	Repo      string        `yaml:"repo"`
	Folder    string        `yaml:"folder"`
	Pattern   string        `yaml:"pattern"`
	RateLimit int           `yaml:"rate_limit"`
	Timeout   time.Duration `yaml:"timeout"`
}

// 🗃️ Cache holds cache-validity tuning for the retrieval layer.
type Cache struct {
	TTL time.Duration `yaml:"ttl"`
	// Fingerprint enables the per-read commit-sha freshness check. It
	// costs one extra API call per read, so it is off by default.
	Fingerprint bool `yaml:"fingerprint"`
}

// 📚 Config is the complete process configuration.
type Config struct {
	Listen string `yaml:"listen"`
	Remote Remote `yaml:"remote"`
	Cache  Cache  `yaml:"cache"`
}

// 🔍 Enabled reports whether the GitHub integration is usable. Token,
// owner and repo must all be present; any missing one forces
// fallback-only behaviour.
func (r Remote) Enabled() bool {
	return r.Token != "" && r.Owner != "" && r.Repo != ""
}

// 🎯 Load assembles the configuration. A .env file is honoured when
// present, then an optional YAML file at path (empty means none), then
// environment variables, which always win.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("no .env file found")
	}

	cfg := &Config{
		Listen: DefaultListen,
		Remote: Remote{
			Folder:    DefaultFolder,
			Pattern:   DefaultPattern,
			RateLimit: DefaultRateLimit,
			Timeout:   DefaultTimeout,
		},
		Cache: Cache{TTL: DefaultCacheTTL},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Str("owner", cfg.Remote.Owner).
		Str("repo", cfg.Remote.Repo).
		Str("folder", cfg.Remote.Folder).
		Bool("enabled", cfg.Remote.Enabled()).
		Msg("configuration loaded")

	return cfg, nil
}

// 🔧 applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	setString(&cfg.Listen, "LISTEN_ADDR")
	setString(&cfg.Remote.Token, "GITHUB_TOKEN")
	setString(&cfg.Remote.Owner, "GITHUB_REPO_OWNER")
	setString(&cfg.Remote.Repo, "GITHUB_REPO_NAME")
	setString(&cfg.Remote.Folder, "GITHUB_REPO_FOLDER")
	setString(&cfg.Remote.Pattern, "ARTICLE_PATTERN")

	if v := os.Getenv("GITHUB_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Remote.RateLimit = n
		}
	}
	if v := os.Getenv("GITHUB_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Remote.Timeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("CACHE_FINGERPRINT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Fingerprint = b
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ✅ Validate checks the configuration for values the rest of the
// process cannot work with.
func (c *Config) Validate() error {
	if c.Remote.RateLimit <= 0 {
		return errors.Errorf("rate limit must be positive, got %d", c.Remote.RateLimit)
	}
	if c.Remote.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Remote.Timeout)
	}
	if c.Cache.TTL <= 0 {
		return errors.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if !doublestar.ValidatePattern(c.Remote.Pattern) {
		return errors.Errorf("invalid article pattern: %s", c.Remote.Pattern)
	}
	return nil
}
