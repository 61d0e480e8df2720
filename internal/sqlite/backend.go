// Package sqlite implements the SQLite storage backend for the meal planner.
// JSON files in the data directory are the source of truth; SQLite is the
// query engine and is rebuilt from those files on every Attach.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/mealplan/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Data file names inside the data directory.
const (
	dbFileName     = "kitchen.db"
	mealsFileName  = "meals.json"
	pantryFileName = "pantry.json"
)

// Compile-time interface check: Backend must implement Kitchen.
var _ types.Kitchen = (*Backend)(nil)

// Backend implements the Kitchen interface using SQLite as the query engine
// and JSON files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger
	notices  []string

	catalog *catalogTable
	meals   *mealsTable
	pantry  *pantryTable
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for load notices and persistence events.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, rebuilds the SQLite schema, and loads
// the recipe catalog, saved meals and pantry. Unreadable inputs leave their
// tables empty and add a notice; only I/O failures on the data directory or
// the database are returned as errors.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is derived state; start from a fresh schema.
	dbPath := filepath.Join(config.DataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps transactions and plain queries strictly ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	b.db = db
	b.config = config
	b.notices = nil

	if err := b.loadAll(); err != nil {
		db.Close()
		b.db = nil
		return fmt.Errorf("loading data: %w", err)
	}

	b.catalog = &catalogTable{backend: b}
	b.meals = &mealsTable{backend: b}
	b.pantry = &pantryTable{backend: b}
	b.attached = true

	b.logger.Debug("kitchen attached",
		zap.String("data_dir", config.DataDir),
		zap.String("recipes_file", config.RecipesFile),
		zap.Int("notices", len(b.notices)))
	return nil
}

// Detach releases all resources held by the backend.
// Closes the SQLite connection. After Detach, all views return ErrKitchenDetached.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.catalog = nil
	b.meals = nil
	b.pantry = nil
	return nil
}

// Catalog returns the recipe catalog.
func (b *Backend) Catalog() (types.Catalog, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrKitchenDetached
	}
	return b.catalog, nil
}

// Meals returns the saved-meal library.
func (b *Backend) Meals() (types.MealBook, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrKitchenDetached
	}
	return b.meals, nil
}

// Pantry returns the ingredient pantry.
func (b *Backend) Pantry() (types.Pantry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrKitchenDetached
	}
	return b.pantry, nil
}

// Notices returns a copy of the load notices from the last Attach.
func (b *Backend) Notices() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.notices))
	copy(out, b.notices)
	return out
}

// notice records a user-visible load message prefixed with the file it
// concerns. Callers show notices themselves, so the log line is debug only.
// The caller must hold b.mu.
func (b *Backend) notice(file, msg string, err error) {
	fields := []zap.Field{zap.String("file", file)}
	text := file + ": " + msg
	if err != nil {
		fields = append(fields, zap.Error(err))
		text = fmt.Sprintf("%s: %v", text, err)
	}
	b.logger.Debug(msg, fields...)
	b.notices = append(b.notices, text)
}

// dataPath returns the path of a file in the data directory.
func (b *Backend) dataPath(name string) string {
	return filepath.Join(b.config.DataDir, name)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}
