// Package database centralises sqlx connection helpers.  The default driver
// is go-sql-driver/mysql, which also works with MariaDB when configured for
// the MySQL wire protocol.
//
// Public entry points:
//
//	Open(dsn, password)          – splice the secret into the DSN template
//	                               and connect with conservative pool sizes.
//	OpenWithOptions(dsn, maxOpen, maxIdle) – fine-grained control.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB when no
// longer needed.
package database

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Open splices password into the `%s` verb of the DSN template and returns
// a *sqlx.DB with sane defaults: 15 max open, 5 idle, and a 30-minute
// connection lifetime.
func Open(dsnTemplate, password string) (*sqlx.DB, error) {
	if !strings.Contains(dsnTemplate, "%s") {
		return nil, fmt.Errorf("database: DSN template must contain one %%s verb")
	}
	return OpenWithOptions(fmt.Sprintf(dsnTemplate, password), 15, 5)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle per pool.  Used by
// tests and one-off tools that want a smaller footprint.
func OpenWithOptions(dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
