// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cfgdb retrieves lagd_core run configurations stored in a
// MySQL database.
//
// Configurations live in the configs table:
//
//	CREATE TABLE configs (
//		name     VARCHAR(64) NOT NULL,
//		datetime DATETIME    NOT NULL,
//		config   JSON        NOT NULL
//	);
//
// Several revisions of a configuration may share the same name: the
// most recent one is used.
package cfgdb // import "github.com/go-lpc/lagd/cfgdb"

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-lpc/lagd/core"
	"github.com/go-sql-driver/mysql"
)

const timeout = 5 * time.Second

var (
	drvName = "mysql"

	// ErrNotFound is returned when no configuration matches a name.
	ErrNotFound = errors.New("cfgdb: configuration not found")
)

// DB exposes convenience methods to retrieve run configurations from
// the lagd database.
type DB struct {
	db   *sql.DB
	name string // name of the lagd database
}

// Open opens a connection to the lagd database dbname.
// The server address and the credentials are read from the LAGD_DB_HOST,
// LAGD_DB_USER and LAGD_DB_PASS environment variables.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("cfgdb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(dbname string) string {
	cfg := mysql.NewConfig()
	cfg.User = getenv("LAGD_DB_USER", "lagd")
	cfg.Passwd = os.Getenv("LAGD_DB_PASS")
	cfg.Net = "tcp"
	cfg.Addr = getenv("LAGD_DB_HOST", "localhost:3306")
	cfg.DBName = dbname
	cfg.ParseTime = true
	cfg.Timeout = timeout
	return cfg.FormatDSN()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("cfgdb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Config returns the most recent configuration named name.
func (db *DB) Config(ctx context.Context, name string) (core.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		cfg core.Config
		raw []byte
		n   int
	)

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT config FROM configs WHERE name=? ORDER BY datetime DESC LIMIT 1",
		name,
	)
	if err != nil {
		return cfg, fmt.Errorf("cfgdb: could not query configuration %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&raw)
		if err != nil {
			return cfg, fmt.Errorf("cfgdb: could not get configuration %q: %w", name, err)
		}
		n++
	}

	if err := rows.Err(); err != nil {
		return cfg, fmt.Errorf("cfgdb: could not scan db for configuration %q: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		return cfg, fmt.Errorf("cfgdb: context error while retrieving configuration %q: %w", name, err)
	}

	if n == 0 {
		return cfg, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	cfg, err = core.LoadConfig(strings.NewReader(string(raw)))
	if err != nil {
		return cfg, fmt.Errorf("cfgdb: invalid configuration %q: %w", name, err)
	}

	return cfg, nil
}

// Configs returns the names of all the stored configurations.
func (db *DB) Configs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var names []string
	rows, err := db.db.QueryContext(ctx, "SELECT DISTINCT name FROM configs ORDER BY name")
	if err != nil {
		return names, fmt.Errorf("cfgdb: could not query configuration names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return names, fmt.Errorf("cfgdb: could not get configuration name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return names, fmt.Errorf("cfgdb: could not scan db for configuration names: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return names, fmt.Errorf("cfgdb: context error while retrieving configuration names: %w", err)
	}

	return names, nil
}

var _ core.ConfigSource = (*DB)(nil)
