package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hlwatcher/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrStorage marks failures of the backing database, as opposed to a wallet
// that simply has nothing stored yet.
var ErrStorage = errors.New("storage error")

type Client struct {
	DB *gorm.DB
}

func newClient(dialector gorm.Dialector) (*Client, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return &Client{DB: db}, nil
}

// NewPostgresClient connects to PostgreSQL using the given DSN.
func NewPostgresClient(dsn string) (*Client, error) {
	client, err := newClient(postgres.Open(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return client, nil
}

// NewSQLiteClient opens (or creates) a SQLite database file.
func NewSQLiteClient(path string) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	client, err := newClient(sqlite.Open(path + "?_journal_mode=WAL&_busy_timeout=5000"))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	// single writer
	sqlDB, err := client.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return client, nil
}

// InitializeAndMigrate opens the configured database, optionally creates it
// (postgres only), and runs AutoMigrate for every table the watcher uses.
func InitializeAndMigrate(cfg *config.Config, createDB bool) (*Client, error) {
	var (
		client *Client
		err    error
	)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if createDB {
			if err := CreateDatabase(cfg.Postgres, cfg.Log.Environment); err != nil {
				return nil, fmt.Errorf("failed to create database: %w", err)
			}
		}
		client, err = NewPostgresClient(cfg.Postgres.DSN(cfg.Log.Environment))
	case config.StoreDriverSQLite:
		client, err = NewSQLiteClient(cfg.Store.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if cfg.Store.Driver == config.StoreDriverPostgres {
		if err := client.applyPoolSettings(cfg.Postgres); err != nil {
			return nil, err
		}
	}

	if err := client.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (c *Client) applyPoolSettings(cfg config.PostgresConfig) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return nil
}

func (c *Client) AutoMigrate() error {
	if err := c.DB.AutoMigrate(&PositionRecord{}, &EventRecord{}); err != nil {
		return fmt.Errorf("auto-migrate position tables: %w", err)
	}
	return nil
}

func (c *Client) IsHealthy(ctx context.Context) bool {
	db, err := c.DB.DB()
	if err != nil {
		return false
	}
	return db.PingContext(ctx) == nil
}

func (c *Client) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return db.Close()
}
