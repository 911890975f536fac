package store

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrAlreadyExists is returned when an insert trips a storage-level
// uniqueness constraint. Duplicate prevention lives in the schema, not in
// check-then-act sequences, so concurrent creates of the same pair resolve
// to exactly one row plus this error.
var ErrAlreadyExists = errors.New("resource already exists")

// ErrNotFound is returned when a targeted row is absent.
var ErrNotFound = errors.New("resource not found")

type Store struct {
	db *sql.DB
	// sqlite allows a single writer, serialize write transactions.
	lock sync.Mutex

	userCache          sync.Map // map[int32]*model.User
	systemSettingCache sync.Map // map[model.SystemSettingName]*model.SystemSetting
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
