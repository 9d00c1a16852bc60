package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is the shipped signing secret, only fit for local use
const DefaultJWTSecret = "change-me-in-production"

// Config holds server, client and logging settings
type Config struct {
	Server ServerConfig
	Client ClientConfig
	Log    LogConfig
}

// ServerConfig configures `worktime serve`
type ServerConfig struct {
	Addr         string
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
}

// ClientConfig configures the terminal client
type ClientConfig struct {
	APIURL         string
	RequestTimeout time.Duration
	StateDir       string
}

// LogConfig configures logrus
type LogConfig struct {
	Level  string
	Format string
}

// Load reads config from the given file, or searches $WORKTIME_CONFIG_PATH,
// ~/.worktime and ./ for config.yaml. Environment variables override both,
// e.g. WORKTIME_SERVER_ADDR
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WORKTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // .yaml is implicit
		if override := os.Getenv("WORKTIME_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath("$HOME/.worktime")
		v.AddConfigPath("./")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:      v.GetString("server.addr"),
			JWTSecret: v.GetString("server.jwt_secret"),
			TokenTTL:  v.GetDuration("server.token_ttl"),
		},
		Client: ClientConfig{
			APIURL:         strings.TrimRight(v.GetString("client.api_url"), "/"),
			RequestTimeout: v.GetDuration("client.request_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	var err error
	if cfg.Server.DatabasePath, err = homedir.Expand(v.GetString("server.database_path")); err != nil {
		return nil, fmt.Errorf("failed to expand database path: %w", err)
	}
	if cfg.Client.StateDir, err = homedir.Expand(v.GetString("client.state_dir")); err != nil {
		return nil, fmt.Errorf("failed to expand state dir: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.database_path", "~/.worktime/worktime.db")
	v.SetDefault("server.jwt_secret", DefaultJWTSecret)
	v.SetDefault("server.token_ttl", 7*24*time.Hour)
	v.SetDefault("client.api_url", "http://localhost:5000")
	v.SetDefault("client.request_timeout", 10*time.Second)
	v.SetDefault("client.state_dir", "~/.worktime/client")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func (c *Config) validate() error {
	if c.Server.TokenTTL <= 0 {
		return fmt.Errorf("server.token_ttl must be positive, got %s", c.Server.TokenTTL)
	}
	if c.Client.RequestTimeout <= 0 {
		return fmt.Errorf("client.request_timeout must be positive, got %s", c.Client.RequestTimeout)
	}
	if c.Client.APIURL == "" {
		return errors.New("client.api_url is required")
	}
	return nil
}
