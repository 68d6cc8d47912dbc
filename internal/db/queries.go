package db

import (
	"context"
	"database/sql"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/ishfaqbuilds/commandghost/internal/errors"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Immediate runs fn on a dedicated connection inside BEGIN IMMEDIATE, so the
// write lock is held from the first read until COMMIT. Other processes sharing
// the database file wait up to busy_timeout. Any error from fn rolls back.
func Immediate(ctx context.Context, db *sql.DB, fn func(Querier) error) (err error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `BEGIN IMMEDIATE`); err != nil {
		return errors.NewInternal(err)
	}
	defer func() {
		if err != nil {
			_, _ = conn.ExecContext(context.WithoutCancel(ctx), `ROLLBACK`)
		}
	}()

	if err := fn(conn); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `COMMIT`); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetStringList returns the ordered values stored under key.
// A key that was never written yields an empty (non-nil) slice.
func GetStringList(ctx context.Context, q Querier, key string) ([]string, error) {
	lists, err := GetStringLists(ctx, q, key)
	if err != nil {
		return nil, err
	}
	return lists[key], nil
}

// GetStringLists reads several lists in one statement, so they come from a
// single snapshot. Every requested key is present in the result.
func GetStringLists(ctx context.Context, q Querier, keys ...string) (map[string][]string, error) {
	lists := make(map[string][]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		lists[k] = []string{}
		args[i] = k
	}
	if len(keys) == 0 {
		return lists, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT key, value FROM string_lists
		WHERE key IN (`+placeholders(len(keys))+`)
		ORDER BY key, position ASC
	`, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, errors.NewInternal(err)
		}
		lists[k] = append(lists[k], v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return lists, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// ReplaceStringList overwrites the whole list stored under key in one transaction.
func ReplaceStringList(ctx context.Context, db *sql.DB, key string, values []string) error {
	return ReplaceStringLists(ctx, db, map[string][]string{key: values})
}

// ReplaceStringLists overwrites every list in lists in one transaction:
// either all of them change or none do.
func ReplaceStringLists(ctx context.Context, db *sql.DB, lists map[string][]string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if err := WriteStringLists(ctx, tx, lists); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// WriteStringLists overwrites lists on q without managing a transaction.
// Callers pass a *sql.Tx or a connection already inside one.
func WriteStringLists(ctx context.Context, q Querier, lists map[string][]string) error {
	for _, key := range slices.Sorted(maps.Keys(lists)) {
		if _, err := q.ExecContext(ctx, `DELETE FROM string_lists WHERE key = ?`, key); err != nil {
			return errors.NewInternal(err)
		}
		for i, v := range lists[key] {
			if _, err := q.ExecContext(ctx,
				`INSERT INTO string_lists (key, position, value) VALUES (?, ?, ?)`, key, i, v); err != nil {
				return errors.NewInternal(err)
			}
		}
	}
	return nil
}

// GetScalar returns the value stored under key and whether it was set.
func GetScalar(ctx context.Context, q Querier, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM scalars WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}
	return value, true, nil
}

// SetScalar upserts a scalar preference.
func SetScalar(ctx context.Context, q Querier, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO scalars (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListKeys returns every string-list key that currently holds values, sorted.
func ListKeys(ctx context.Context, q Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT DISTINCT key FROM string_lists ORDER BY key`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.NewInternal(err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return keys, nil
}
