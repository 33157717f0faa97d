package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	TransportREST = "rest"
	TransportWS   = "ws"

	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"

	// FetchErrorFlat treats a wallet whose fetch failed as holding no positions.
	FetchErrorFlat = "flat"
	// FetchErrorSkip leaves the wallet's snapshot untouched until the next cycle.
	FetchErrorSkip = "skip"
)

type Config struct {
	Hyperliquid HyperliquidConfig `mapstructure:"hyperliquid"`
	Watcher     WatcherConfig     `mapstructure:"watcher"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	Store       StoreConfig       `mapstructure:"store"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Log         LogConfig         `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

type HyperliquidConfig struct {
	Transport string        `mapstructure:"transport"` // "rest" or "ws"
	REST      RESTConfig    `mapstructure:"rest"`
	WS        WSConfig      `mapstructure:"ws"`
	Timeout   time.Duration `mapstructure:"timeout"` // bound on a single clearinghouseState request
}

type RESTConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type WSConfig struct {
	URL string `mapstructure:"url"`
}

type WatcherConfig struct {
	WalletsFile  string        `mapstructure:"wallets_file"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	OnFetchError string        `mapstructure:"on_fetch_error"` // "flat" or "skip"
}

type NotifyConfig struct {
	Discord  DiscordConfig  `mapstructure:"discord"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Journal  bool           `mapstructure:"journal"` // append every event to position_event
	Timeout  time.Duration  `mapstructure:"timeout"`
}

type DiscordConfig struct {
	WebhookURL      string `mapstructure:"webhook_url"`
	WebhookSSMParam string `mapstructure:"webhook_ssm_param"` // resolved in prod when set
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type StoreConfig struct {
	Driver   string       `mapstructure:"driver"` // "postgres", "sqlite" or "memory"
	CreateDB bool         `mapstructure:"create_db"`
	SQLite   SQLiteConfig `mapstructure:"sqlite"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the /metrics listener
}

// Options defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hyperliquid.transport", TransportREST)
	v.SetDefault("hyperliquid.rest.base_url", "https://api.hyperliquid.xyz")
	v.SetDefault("hyperliquid.ws.url", "wss://api.hyperliquid.xyz/ws")
	v.SetDefault("hyperliquid.timeout", 10*time.Second)

	v.SetDefault("watcher.wallets_file", "wallets.json")
	v.SetDefault("watcher.poll_interval", 10*time.Second)
	v.SetDefault("watcher.on_fetch_error", FetchErrorFlat)

	v.SetDefault("notify.discord.webhook_url", "")
	v.SetDefault("notify.discord.webhook_ssm_param", "")
	v.SetDefault("notify.telegram.token", "")
	v.SetDefault("notify.telegram.chat_id", 0)
	v.SetDefault("notify.journal", true)
	v.SetDefault("notify.timeout", 10*time.Second)

	v.SetDefault("store.driver", StoreDriverSQLite)
	v.SetDefault("store.create_db", false)
	v.SetDefault("store.sqlite.path", "data/state.db")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "hlwatcher")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.timezone", "UTC")
	v.SetDefault("postgres.max_open_conns", 5)
	v.SetDefault("postgres.max_idle_conns", 2)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)
	v.SetDefault("postgres.host_param", "HLWATCHER_DB_HOST")
	v.SetDefault("postgres.user_param", "HLWATCHER_DB_USER")
	v.SetDefault("postgres.password_param", "HLWATCHER_DB_PASSWORD")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "dev")

	v.SetDefault("metrics.addr", "")
}

// Load loads application configuration using Viper.
// It reads .env and config.yaml, then overrides with environment variables.
// An explicit path must exist; without one a missing config.yaml is fine.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // config.yaml
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Join(filepath.Dir(ex), "../config"))
		}
	}

	// Support environment variables with dot notation (e.g., WATCHER_POLL_INTERVAL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// name used by earlier deployments
	_ = v.BindEnv("notify.discord.webhook_url", "NOTIFY_DISCORD_WEBHOOK_URL", "WEBHOOK_URL_DISCORD")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports the first setting the watcher cannot run with.
func (c *Config) Validate() error {
	switch c.Hyperliquid.Transport {
	case TransportREST:
		if c.Hyperliquid.REST.BaseURL == "" {
			return errors.New("hyperliquid.rest.base_url is required")
		}
	case TransportWS:
		if c.Hyperliquid.WS.URL == "" {
			return errors.New("hyperliquid.ws.url is required")
		}
	default:
		return fmt.Errorf("hyperliquid.transport must be %q or %q, got %q", TransportREST, TransportWS, c.Hyperliquid.Transport)
	}
	if c.Hyperliquid.Timeout <= 0 {
		return errors.New("hyperliquid.timeout must be positive")
	}

	if c.Watcher.WalletsFile == "" {
		return errors.New("watcher.wallets_file is required")
	}
	if c.Watcher.PollInterval <= 0 {
		return errors.New("watcher.poll_interval must be positive")
	}
	switch c.Watcher.OnFetchError {
	case FetchErrorFlat, FetchErrorSkip:
	default:
		return fmt.Errorf("watcher.on_fetch_error must be %q or %q, got %q", FetchErrorFlat, FetchErrorSkip, c.Watcher.OnFetchError)
	}

	discord := c.Notify.Discord.WebhookURL != "" || c.Notify.Discord.WebhookSSMParam != ""
	telegram := c.Notify.Telegram.Token != "" && c.Notify.Telegram.ChatID != 0
	if !discord && !telegram {
		return errors.New("no notification sink configured: set NOTIFY_DISCORD_WEBHOOK_URL (or WEBHOOK_URL_DISCORD) or a telegram token and chat id")
	}
	if c.Notify.Timeout <= 0 {
		return errors.New("notify.timeout must be positive")
	}

	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	case StoreDriverSQLite:
		if c.Store.SQLite.Path == "" {
			return errors.New("store.sqlite.path is required")
		}
	default:
		return fmt.Errorf("store.driver must be one of postgres, sqlite, memory, got %q", c.Store.Driver)
	}
	if c.Store.Driver == StoreDriverMemory && c.Notify.Journal {
		return errors.New("notify.journal needs a database store driver")
	}

	return nil
}
