// Package config loads runtime settings from defaults, an optional YAML
// config file and COURSEREVIEW_* environment variables, in increasing order
// of precedence.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"coursereview/internal/catalog"
	"coursereview/internal/errors"
	"coursereview/internal/gateway"
	"coursereview/internal/httpx"
	"coursereview/internal/logging"
)

const EnvPrefix = "COURSEREVIEW"

type Config struct {
	// Backend
	APIBaseURL    string
	FetchTimeout  time.Duration
	RetryAttempts int

	// Catalog
	SeedPolicy   catalog.SeedPolicy
	SeedFile     string // empty = embedded dataset
	ReviewCounts bool

	// Local state
	StatePath string

	// Logging
	LogLevel  string
	LogFormat string

	// Export upload
	SFTP SFTPConfig

	// ConfigFile is the file actually read, if any.
	ConfigFile string
}

type SFTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	Dir  string

	KnownHosts string // empty skips host key verification
}

// Enabled reports whether an upload target is configured.
func (s SFTPConfig) Enabled() bool { return s.Host != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", "http://127.0.0.1:8000/api")
	v.SetDefault("fetch_timeout", gateway.DefaultTimeout)
	v.SetDefault("retry_attempts", 1)
	v.SetDefault("seed_policy", catalog.KeepSeedOnly.String())
	v.SetDefault("seed_file", "")
	v.SetDefault("review_counts", true)
	v.SetDefault("state_path", defaultStatePath())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
	v.SetDefault("sftp.host", "")
	v.SetDefault("sftp.port", 22)
	v.SetDefault("sftp.user", "")
	v.SetDefault("sftp.pass", "")
	v.SetDefault("sftp.dir", "/")
	v.SetDefault("sftp.known_hosts", "")
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".coursereview-state.yaml"
	}
	return filepath.Join(dir, "coursereview", "state.yaml")
}

// Load resolves the configuration. configFile may be empty, in which case
// .coursereview.yaml is looked up in the working directory and the home
// directory and skipped if absent.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.NewConfigError("file", "cannot read "+configFile, err)
		}
	} else {
		v.SetConfigName(".coursereview")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, errors.NewConfigError("file", "cannot read config", err)
			}
		}
	}

	policy, err := catalog.ParseSeedPolicy(v.GetString("seed_policy"))
	if err != nil {
		return Config{}, errors.NewConfigError("catalog", err.Error(), err)
	}

	cfg := Config{
		APIBaseURL:    strings.TrimSpace(v.GetString("api_base_url")),
		FetchTimeout:  v.GetDuration("fetch_timeout"),
		RetryAttempts: v.GetInt("retry_attempts"),
		SeedPolicy:    policy,
		SeedFile:      v.GetString("seed_file"),
		ReviewCounts:  v.GetBool("review_counts"),
		StatePath:     v.GetString("state_path"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
		SFTP: SFTPConfig{
			Host: v.GetString("sftp.host"),
			Port: v.GetInt("sftp.port"),
			User: v.GetString("sftp.user"),
			Pass: v.GetString("sftp.pass"),
			Dir:  v.GetString("sftp.dir"),

			KnownHosts: v.GetString("sftp.known_hosts"),
		},
		ConfigFile: v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot coerce.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewConfigError("gateway", "api base url must be an absolute http(s) url, got "+quote(c.APIBaseURL), err)
	}
	if c.FetchTimeout <= 0 {
		return errors.NewConfigError("gateway", "fetch timeout must be positive", nil)
	}
	if c.RetryAttempts < 1 {
		return errors.NewConfigError("catalog", "retry attempts must be at least 1", nil)
	}
	if c.StatePath == "" {
		return errors.NewConfigError("store", "state path is required", nil)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "auto", "json", "console", "pretty":
	default:
		return errors.NewConfigError("logging", "log format must be auto, json or console, got "+quote(c.LogFormat), nil)
	}
	if c.SFTP.Enabled() && (c.SFTP.User == "" || c.SFTP.Port <= 0) {
		return errors.NewConfigError("sftp", "user and a positive port are required when a host is set", nil)
	}
	return nil
}

// Retry is the refresh retry policy.
func (c Config) Retry() httpx.RetryConfig {
	cfg := httpx.DefaultRetryConfig()
	cfg.MaxAttempts = c.RetryAttempts
	return cfg
}

// Logging is the logger configuration.
func (c Config) Logging() *logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	return lc
}

func quote(s string) string { return `"` + s + `"` }
