package inventory

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by update and delete operations whose target ID
// matches no stored entity. Callers that want the old silent-no-op behavior
// can ignore it.
var ErrNotFound = errors.New("entity not found")

// Store keys. Each key holds one JSON-encoded collection (or, for
// keyCurrentUser, a single JSON-encoded user).
const (
	keyUsers        = "users"
	keyComponents   = "components"
	keyRequests     = "requests"
	keyTransactions = "transactions"
	keyCurrentUser  = "current_user"
)

// Store is a string-keyed blob store backed by SQLite. Every read and write
// moves a whole collection: there are no partial updates and no optimistic
// concurrency, only a single mutex giving single-writer discipline within
// the process. Last write wins across processes.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at dbPath and applies the
// schema.
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

const schemaVersion = 1

func applySchema(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS store (
        key TEXT PRIMARY KEY,
        value BLOB NOT NULL
    );`); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Blob helpers
// ---------------------------------------------------------------------------

// getBlob returns the raw value for key, or nil when the key is absent.
// An absent key is a valid initial state, not an error.
func (s *Store) getBlob(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM store WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) putBlob(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO store(key,value) VALUES(?,?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) deleteBlob(key string) error {
	if _, err := s.db.Exec(`DELETE FROM store WHERE key=?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// readCollection decodes the collection at key into out. seed, when non-nil,
// supplies the dataset persisted and returned the first time the key is read.
func readCollection[T any](s *Store, key string, seed func() []T) ([]T, error) {
	raw, err := s.getBlob(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		if seed == nil {
			return []T{}, nil
		}
		items := seed()
		if err := writeCollection(s, key, items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func writeCollection[T any](s *Store, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.putBlob(key, raw)
}

// appendItem is the shared add path: read, append, write back.
func appendItem[T any](s *Store, key string, seed func() []T, item T) error {
	items, err := readCollection(s, key, seed)
	if err != nil {
		return err
	}
	return writeCollection(s, key, append(items, item))
}

// replaceItem is the shared update path: replace the element whose id
// matches, ErrNotFound when none does.
func replaceItem[T any](s *Store, key string, seed func() []T, id string, idOf func(T) string, item T) error {
	items, err := readCollection(s, key, seed)
	if err != nil {
		return err
	}
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = item
			return writeCollection(s, key, items)
		}
	}
	return fmt.Errorf("%s %q: %w", key, id, ErrNotFound)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func seedUsers() []User { return []User{defaultAdmin()} }

// GetUsers returns all users in insertion order, seeding the admin account
// on first read.
func (s *Store) GetUsers() ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection(s, keyUsers, seedUsers)
}

func (s *Store) AddUser(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendItem(s, keyUsers, seedUsers, u)
}

func (s *Store) UpdateUser(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replaceItem(s, keyUsers, seedUsers, u.ID, func(x User) string { return x.ID }, u)
}

// ---------------------------------------------------------------------------
// Components
// ---------------------------------------------------------------------------

// GetComponents returns all components in insertion order, seeding the
// default inventory on first read.
func (s *Store) GetComponents() ([]Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection(s, keyComponents, defaultComponents)
}

func (s *Store) AddComponent(c Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendItem(s, keyComponents, defaultComponents, c)
}

func (s *Store) UpdateComponent(c Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replaceItem(s, keyComponents, defaultComponents, c.ID, func(x Component) string { return x.ID }, c)
}

// DeleteComponent removes the component with the given ID.
func (s *Store) DeleteComponent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	components, err := readCollection(s, keyComponents, defaultComponents)
	if err != nil {
		return err
	}
	kept := components[:0]
	found := false
	for _, c := range components {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("%s %q: %w", keyComponents, id, ErrNotFound)
	}
	return writeCollection(s, keyComponents, kept)
}

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

func (s *Store) GetRequests() ([]BorrowRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[BorrowRequest](s, keyRequests, nil)
}

func (s *Store) AddRequest(r BorrowRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendItem[BorrowRequest](s, keyRequests, nil, r)
}

func (s *Store) UpdateRequest(r BorrowRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replaceItem[BorrowRequest](s, keyRequests, nil, r.ID, func(x BorrowRequest) string { return x.ID }, r)
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

func (s *Store) GetTransactions() ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[Transaction](s, keyTransactions, nil)
}

func (s *Store) AddTransaction(t Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendItem[Transaction](s, keyTransactions, nil, t)
}

// ---------------------------------------------------------------------------
// Current session pointer
// ---------------------------------------------------------------------------

// GetCurrentUser returns a snapshot of the last user set by SetCurrentUser,
// or nil when no session is active.
func (s *Store) GetCurrentUser() (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.getBlob(keyCurrentUser)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode %s: %w", keyCurrentUser, err)
	}
	return &u, nil
}

// SetCurrentUser persists the session pointer; nil clears it.
func (s *Store) SetCurrentUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		return s.deleteBlob(keyCurrentUser)
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode %s: %w", keyCurrentUser, err)
	}
	return s.putBlob(keyCurrentUser, raw)
}

// ClearAll removes every store key. Used by the reset tool.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{keyUsers, keyComponents, keyRequests, keyTransactions, keyCurrentUser} {
		if err := s.deleteBlob(key); err != nil {
			return err
		}
	}
	return nil
}
