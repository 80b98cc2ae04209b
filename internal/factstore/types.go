package factstore

import (
	"database/sql"
	"errors"
	"time"
)

var ErrNoSnapshot = errors.New("no snapshot stored")

// Store persists the most recent load so a later run can start from it.
// Older loads only keep their summary row.
type Store struct {
	db *sql.DB
}

// Load summarises one stored load.
type Load struct {
	Generation string
	LoadedAt   time.Time
	Triples    int
	Failures   int
}
