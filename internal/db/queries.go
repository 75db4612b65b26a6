package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/errors"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Insert stores a new record. A record whose id or value is already
// present is rejected with a CONFLICT error; nothing is overwritten.
func Insert(ctx context.Context, db Execer, rec *analysis.Record) error {
	propsJSON, err := json.Marshal(rec.Properties)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO strings (id, value, properties_json, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		rec.ID, rec.Value, string(propsJSON), rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict(rec.ID)
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE/PRIMARY KEY violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}

// GetByID retrieves a record by its content hash.
func GetByID(ctx context.Context, db *sql.DB, id string) (*analysis.Record, error) {
	query := `
		SELECT id, value, properties_json, created_at
		FROM strings
		WHERE id = ?
	`

	row := db.QueryRowContext(ctx, query, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return rec, nil
}

// Delete removes a record by its content hash.
func Delete(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM strings WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rows == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// ListAll returns every stored record in insertion order.
func ListAll(ctx context.Context, db *sql.DB) ([]analysis.Record, error) {
	query := `
		SELECT id, value, properties_json, created_at
		FROM strings
		ORDER BY rowid
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []analysis.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return records, nil
}

// Count returns the number of stored records.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strings`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row and decodes its stored properties.
func scanRecord(s scanner) (*analysis.Record, error) {
	var (
		rec       analysis.Record
		propsJSON string
		createdAt string
	)

	if err := s.Scan(&rec.ID, &rec.Value, &propsJSON, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(propsJSON), &rec.Properties); err != nil {
		return nil, fmt.Errorf("decode properties for %s: %w", rec.ID, err)
	}
	if rec.Properties.CharacterFrequencyMap == nil {
		rec.Properties.CharacterFrequencyMap = map[string]int{}
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("decode created_at for %s: %w", rec.ID, err)
	}
	rec.CreatedAt = t.UTC()

	return &rec, nil
}
