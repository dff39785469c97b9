package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"github.com/studylync/studylync/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

const (
	defaultMaxOpenConns = 25
	defaultMaxIdleConns = 5
	defaultConnLifetime = time.Hour
	defaultConnIdleTime = 30 * time.Minute
)

// sqlitePragmas enables foreign key enforcement and waits for locks instead of failing.
const sqlitePragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Client wraps the gorm.DB instance.
type Client struct {
	db     *gorm.DB
	txOpts []*sql.TxOptions
}

// New opens the configured database and performs migrations.
func New(cfg *config.DatabaseConfig) (*Client, error) {
	c, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Migrate(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Open connects to the configured database without running migrations.
func Open(cfg *config.DatabaseConfig) (*Client, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}

	var (
		dialector gorm.Dialector
		txOpts    []*sql.TxOptions
	)
	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		dialector = postgres.Open(cfg.DSN)
		txOpts = []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead}}
	case config.DatabaseDriverSQLite, "":
		dialector = sqlite.Open(cfg.Path + sqlitePragmas)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if cfg.Driver == config.DatabaseDriverPostgres {
		sqlDB.SetMaxOpenConns(defaultMaxOpenConns)
		sqlDB.SetMaxIdleConns(defaultMaxIdleConns)
		sqlDB.SetConnMaxLifetime(defaultConnLifetime)
		sqlDB.SetConnMaxIdleTime(defaultConnIdleTime)
	} else {
		// sqlite allows a single writer, one connection keeps every transaction serialized
		sqlDB.SetMaxOpenConns(1)
	}

	timeout := time.Duration(cfg.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug("Connected to database", "driver", cfg.Driver)

	return &Client{db: db, txOpts: txOpts}, nil
}

// Migrate creates or updates the schema.
func (c *Client) Migrate() error {
	if err := c.db.AutoMigrate(
		&Course{},
		&Location{},
		&StudySession{},
		&User{},
		&Review{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// transaction runs fn inside a transaction. On postgres it uses REPEATABLE READ.
// fn must only use the passed tx, the sqlite pool holds a single connection.
func (c *Client) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.db.WithContext(ctx).Transaction(fn, c.txOpts...)
}
