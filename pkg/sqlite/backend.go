// Package sqlite provides the public API for the SQLite kitchen backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealplan/internal/sqlite"
	"github.com/mesh-intelligence/mealplan/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
// A nil logger discards log output.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{DataDir: ".mealplan"})
//	defer backend.Detach()
func NewBackend(logger *zap.Logger) types.Kitchen {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
