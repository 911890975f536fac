package database

import (
	"database/sql"

	"github.com/bookverse/bookverse/config"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

func NewDB() (*sql.DB, error) {
	if config.Opts.DSN == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite", config.Opts.DSN+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, err
	}

	return db, nil
}
