package types

import "errors"

// Config holds the locations Kitchen.Attach reads and writes.
type Config struct {
	// DataDir holds meals.json, pantry.json and the rebuilt query database.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// RecipesFile overrides the bundled recipe catalog when non-empty.
	RecipesFile string `json:"recipes_file,omitempty" yaml:"recipes_file,omitempty"`
}

// Config validation errors.
var (
	ErrDataDirEmpty = errors.New("data directory must not be empty")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	return nil
}
