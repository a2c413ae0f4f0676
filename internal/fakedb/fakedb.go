// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb provides an in-memory database/sql driver for tests.
package fakedb // import "github.com/go-lpc/lagd/internal/fakedb"

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
)

// Name is the name under which the driver is registered.
const Name = "fakedb"

var query struct {
	mu   sync.Mutex
	rows Rows
	err  error
	log  []Query
}

// Query is a query received by the driver.
type Query struct {
	SQL  string
	Args []driver.Value
}

// Run runs f while the driver answers every query with rows.
// It returns the queries received by the driver, in order.
func Run(ctx context.Context, rows Rows, f func(ctx context.Context) error) ([]Query, error) {
	query.mu.Lock()
	defer query.mu.Unlock()
	query.rows = rows
	query.err = nil
	query.log = nil

	err := f(ctx)
	return query.log, err
}

// Fail runs f while the driver fails every query with err.
func Fail(ctx context.Context, err error, f func(ctx context.Context) error) error {
	query.mu.Lock()
	defer query.mu.Unlock()
	query.rows = Rows{}
	query.err = err
	query.log = nil

	return f(ctx)
}

func init() {
	sql.Register(Name, &Driver{})
}

type Driver struct{}

// Open returns a new connection to the in-memory database.
func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

// Prepare returns a prepared statement, bound to this connection.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{sql: query}, nil
}

func (c *Conn) Close() error {
	return nil
}

func (c *Conn) Begin() (driver.Tx, error) {
	return nil, errors.New("fakedb: transactions not supported")
}

type Stmt struct {
	sql string
}

func (stmt *Stmt) Close() error {
	return nil
}

// NumInput returns -1: placeholders are not checked.
func (stmt *Stmt) NumInput() int {
	return -1
}

func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("fakedb: exec not supported")
}

// Query records the query and returns a copy of the rows set up by Run.
func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	query.log = append(query.log, Query{
		SQL:  stmt.sql,
		Args: append([]driver.Value(nil), args...),
	})
	if query.err != nil {
		return nil, query.err
	}
	rows := Rows{
		Names:  query.rows.Names,
		Values: append([][]driver.Value(nil), query.rows.Values...),
	}
	return &rows, nil
}

// Rows holds the column names and the values returned by a query.
type Rows struct {
	Names  []string
	Values [][]driver.Value
}

// Columns returns the names of the columns.
func (rows *Rows) Columns() []string {
	return rows.Names
}

func (rows *Rows) Close() error {
	return nil
}

// Next populates dest with the next row, or returns io.EOF.
func (rows *Rows) Next(dest []driver.Value) error {
	if len(rows.Values) == 0 {
		return io.EOF
	}
	copy(dest, rows.Values[0])
	rows.Values = rows.Values[1:]
	return nil
}

var (
	_ driver.Driver = (*Driver)(nil)
	_ driver.Conn   = (*Conn)(nil)
	_ driver.Stmt   = (*Stmt)(nil)
	_ driver.Rows   = (*Rows)(nil)
)
