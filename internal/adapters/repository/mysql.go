package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlMaxOpenConns    = 10
	mysqlMaxIdleConns    = 5
	mysqlConnMaxLifetime = 5 * time.Minute
	mysqlMaxKeyLength    = 255
)

// MySQLStore is a Store backed by a single MySQL table.
type MySQLStore struct {
	db    *sql.DB
	table string
}

// MySQLConfig configures a MySQLStore.
type MySQLConfig struct {
	// DSN in go-sql-driver format, e.g. user:pass@tcp(host:3306)/woundcare.
	DSN string
	// Table defaults to kv_entries.
	Table string
}

// ParseMySQLDSN validates dsn and forces the options the store relies on.
func ParseMySQLDSN(dsn string) (*mysql.Config, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg, nil
}

// NewMySQLStore opens a connection pool and pings the server.
func NewMySQLStore(ctx context.Context, c MySQLConfig) (*MySQLStore, error) {
	cfg, err := ParseMySQLDSN(c.DSN)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(mysqlMaxOpenConns)
	db.SetMaxIdleConns(mysqlMaxIdleConns)
	db.SetConnMaxLifetime(mysqlConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	table := c.Table
	if table == "" {
		table = "kv_entries"
	}
	return &MySQLStore{db: db, table: table}, nil
}

// Migrate creates the backing table if it does not exist.
func (s *MySQLStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		k          VARCHAR(%d) NOT NULL,
		v          LONGBLOB    NOT NULL,
		updated_at DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (k)
	)`, s.table, mysqlMaxKeyLength)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(key) > mysqlMaxKeyLength {
		return fmt.Errorf("key longer than %d bytes", mysqlMaxKeyLength)
	}
	return nil
}

// Get returns the value stored under key.
func (s *MySQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	var v []byte
	err := s.db.QueryRowContext(ctx, "SELECT v FROM "+s.table+" WHERE k = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", key, err)
	}
	return v, nil
}

// Put upserts value under key.
func (s *MySQLStore) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, "REPLACE INTO "+s.table+" (k, v) VALUES (?, ?)", key, value); err != nil {
		return fmt.Errorf("replace %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *MySQLStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+s.table+" WHERE k = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Len returns the number of rows, or 0 when the count fails.
func (s *MySQLStore) Len(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the connection pool.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
