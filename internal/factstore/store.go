package factstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/bowerhall/skugraph/internal/triple"
)

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored snapshot with res in a single transaction.
func (s *Store) Save(ctx context.Context, generation string, res triple.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queryDeleteTriples); err != nil {
		return fmt.Errorf("clear triples: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryDeleteFailures); err != nil {
		return fmt.Errorf("clear failures: %w", err)
	}

	if _, err := tx.ExecContext(ctx, queryInsertLoad, generation, time.Now().UnixMilli(), len(res.Triples), len(res.Failures)); err != nil {
		return fmt.Errorf("insert load: %w", err)
	}

	insertTriple, err := tx.PrepareContext(ctx, queryInsertTriple)
	if err != nil {
		return err
	}
	defer insertTriple.Close()

	for i, t := range res.Triples {
		if _, err := insertTriple.ExecContext(ctx, generation, i, t.Subject, t.Relation, t.Object); err != nil {
			return fmt.Errorf("insert triple %d: %w", i, err)
		}
	}

	for _, f := range res.Failures {
		if _, err := tx.ExecContext(ctx, queryInsertFailure, generation, f.Source, f.Line, f.Text, f.Reason); err != nil {
			return fmt.Errorf("insert failure: %w", err)
		}
	}

	return tx.Commit()
}

// Latest returns the triples and failures of the most recent load.
func (s *Store) Latest(ctx context.Context) (triple.Result, Load, error) {
	var (
		load     Load
		loadedAt int64
	)

	err := s.db.QueryRowContext(ctx, queryLatestLoad).Scan(&load.Generation, &loadedAt, &load.Triples, &load.Failures)
	if errors.Is(err, sql.ErrNoRows) {
		return triple.Result{}, Load{}, ErrNoSnapshot
	}
	if err != nil {
		return triple.Result{}, Load{}, err
	}
	load.LoadedAt = time.UnixMilli(loadedAt)

	triples, err := s.triples(ctx, load.Generation)
	if err != nil {
		return triple.Result{}, Load{}, err
	}

	failures, err := s.failures(ctx, load.Generation)
	if err != nil {
		return triple.Result{}, Load{}, err
	}

	return triple.Result{Triples: triples, Failures: failures}, load, nil
}

func (s *Store) triples(ctx context.Context, generation string) ([]triple.Triple, error) {
	rows, err := s.db.QueryContext(ctx, queryGetTriples, generation)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var triples []triple.Triple

	for rows.Next() {
		var t triple.Triple
		if err := rows.Scan(&t.Subject, &t.Relation, &t.Object); err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}

	return triples, rows.Err()
}

func (s *Store) failures(ctx context.Context, generation string) ([]*triple.ParseError, error) {
	rows, err := s.db.QueryContext(ctx, queryGetFailures, generation)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var failures []*triple.ParseError

	for rows.Next() {
		var f triple.ParseError
		if err := rows.Scan(&f.Source, &f.Line, &f.Text, &f.Reason); err != nil {
			return nil, err
		}
		failures = append(failures, &f)
	}

	return failures, rows.Err()
}

// Loads lists up to limit load summaries, newest first.
func (s *Store) Loads(ctx context.Context, limit int) ([]Load, error) {
	rows, err := s.db.QueryContext(ctx, queryListLoads, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var loads []Load

	for rows.Next() {
		var (
			l        Load
			loadedAt int64
		)
		if err := rows.Scan(&l.Generation, &loadedAt, &l.Triples, &l.Failures); err != nil {
			return nil, err
		}
		l.LoadedAt = time.UnixMilli(loadedAt)
		loads = append(loads, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return loads, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}
