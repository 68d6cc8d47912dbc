// Package settings is the persistence collaborator for command libraries and
// UI preferences. Lists are always written whole; there are no partial updates.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/ishfaqbuilds/commandghost/internal/db"
)

// Settings stores ordered string lists and scalar preferences by key.
type Settings interface {
	GetStringList(ctx context.Context, key string) ([]string, error)
	// GetStringLists reads several lists from one consistent snapshot.
	GetStringLists(ctx context.Context, keys ...string) (map[string][]string, error)
	SetStringList(ctx context.Context, key string, value []string) error
	// SetStringLists replaces every list in lists atomically.
	SetStringLists(ctx context.Context, lists map[string][]string) error

	GetString(ctx context.Context, key, def string) (string, error)
	SetString(ctx context.Context, key, value string) error
	GetInt(ctx context.Context, key string, def int) (int, error)
	SetInt(ctx context.Context, key string, value int) error
	GetBool(ctx context.Context, key string, def bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error

	// Update runs fn with exclusive write access. Reads and writes made
	// through tx are isolated from every other Update and commit together
	// when fn returns nil. Calling Update on tx runs fn inline.
	Update(ctx context.Context, fn func(tx Settings) error) error
}

// writeLocks serializes Update per database handle so in-process writers
// queue on a mutex instead of spinning on busy_timeout.
var writeLocks sync.Map // *sql.DB -> *sync.Mutex

func writeLock(database *sql.DB) *sync.Mutex {
	mu, _ := writeLocks.LoadOrStore(database, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// SQLite is a Settings backed by the ghost database.
type SQLite struct {
	db *sql.DB
	tx db.Querier // set inside Update
}

// NewSQLite wraps an initialized database (see db.Init).
func NewSQLite(database *sql.DB) *SQLite {
	return &SQLite{db: database}
}

func (s *SQLite) q() db.Querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *SQLite) Update(ctx context.Context, fn func(tx Settings) error) error {
	if s.tx != nil {
		return fn(s)
	}
	mu := writeLock(s.db)
	mu.Lock()
	defer mu.Unlock()

	return db.Immediate(ctx, s.db, func(q db.Querier) error {
		return fn(&SQLite{db: s.db, tx: q})
	})
}

func (s *SQLite) GetStringList(ctx context.Context, key string) ([]string, error) {
	return db.GetStringList(ctx, s.q(), key)
}

func (s *SQLite) GetStringLists(ctx context.Context, keys ...string) (map[string][]string, error) {
	return db.GetStringLists(ctx, s.q(), keys...)
}

func (s *SQLite) SetStringList(ctx context.Context, key string, value []string) error {
	return s.SetStringLists(ctx, map[string][]string{key: value})
}

func (s *SQLite) SetStringLists(ctx context.Context, lists map[string][]string) error {
	if s.tx != nil {
		return db.WriteStringLists(ctx, s.tx, lists)
	}
	return db.ReplaceStringLists(ctx, s.db, lists)
}

func (s *SQLite) GetString(ctx context.Context, key, def string) (string, error) {
	v, ok, err := db.GetScalar(ctx, s.q(), key)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

func (s *SQLite) SetString(ctx context.Context, key, value string) error {
	return db.SetScalar(ctx, s.q(), key, value)
}

func (s *SQLite) GetInt(ctx context.Context, key string, def int) (int, error) {
	v, ok, err := db.GetScalar(ctx, s.q(), key)
	if err != nil || !ok {
		return def, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, nil
	}
	return n, nil
}

func (s *SQLite) SetInt(ctx context.Context, key string, value int) error {
	return db.SetScalar(ctx, s.q(), key, strconv.Itoa(value))
}

func (s *SQLite) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	v, ok, err := db.GetScalar(ctx, s.q(), key)
	if err != nil || !ok {
		return def, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, nil
	}
	return b, nil
}

func (s *SQLite) SetBool(ctx context.Context, key string, value bool) error {
	return db.SetScalar(ctx, s.q(), key, strconv.FormatBool(value))
}

// ErrWriteRejected is returned by a Memory write that touches FailOn.
var ErrWriteRejected = errors.New("settings: write rejected")

// Memory is an in-process Settings used by tests and dry runs.
// Writes counts every list write per key. A write touching the key named by
// FailOn returns ErrWriteRejected and changes nothing.
type Memory struct {
	mu      sync.Mutex
	writer  sync.Mutex
	lists   map[string][]string
	scalars map[string]string
	Writes  map[string]int
	FailOn  string
}

// NewMemory returns an empty in-memory Settings.
func NewMemory() *Memory {
	return &Memory{
		lists:   make(map[string][]string),
		scalars: make(map[string]string),
		Writes:  make(map[string]int),
	}
}

// memoryTx is the Settings handed to an Update callback.
type memoryTx struct {
	*Memory
}

func (t memoryTx) Update(_ context.Context, fn func(tx Settings) error) error {
	return fn(t)
}

// Update holds the writer lock for fn and restores the previous contents
// when fn fails.
func (m *Memory) Update(_ context.Context, fn func(tx Settings) error) error {
	m.writer.Lock()
	defer m.writer.Unlock()

	m.mu.Lock()
	lists := maps.Clone(m.lists)
	scalars := maps.Clone(m.scalars)
	m.mu.Unlock()

	if err := fn(memoryTx{m}); err != nil {
		m.mu.Lock()
		m.lists, m.scalars = lists, scalars
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *Memory) GetStringList(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(key), nil
}

func (m *Memory) GetStringLists(_ context.Context, keys ...string) (map[string][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]string, len(keys))
	for _, k := range keys {
		out[k] = m.list(k)
	}
	return out, nil
}

func (m *Memory) list(key string) []string {
	out := slices.Clone(m.lists[key])
	if out == nil {
		out = []string{}
	}
	return out
}

func (m *Memory) SetStringList(ctx context.Context, key string, value []string) error {
	return m.SetStringLists(ctx, map[string][]string{key: value})
}

func (m *Memory) SetStringLists(_ context.Context, lists map[string][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := lists[m.FailOn]; ok && m.FailOn != "" {
		return ErrWriteRejected
	}
	for key, value := range lists {
		m.lists[key] = slices.Clone(value)
		m.Writes[key]++
	}
	return nil
}

func (m *Memory) GetString(_ context.Context, key, def string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.scalars[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *Memory) SetString(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOn != "" && key == m.FailOn {
		return ErrWriteRejected
	}
	m.scalars[key] = value
	return nil
}

func (m *Memory) GetInt(ctx context.Context, key string, def int) (int, error) {
	v, err := m.GetString(ctx, key, "")
	if err != nil || v == "" {
		return def, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, nil
	}
	return n, nil
}

func (m *Memory) SetInt(ctx context.Context, key string, value int) error {
	return m.SetString(ctx, key, strconv.Itoa(value))
}

func (m *Memory) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	v, err := m.GetString(ctx, key, "")
	if err != nil || v == "" {
		return def, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, nil
	}
	return b, nil
}

func (m *Memory) SetBool(ctx context.Context, key string, value bool) error {
	return m.SetString(ctx, key, strconv.FormatBool(value))
}
