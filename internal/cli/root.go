// Package cli implements the mealplan command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealplan/internal/logging"
	"github.com/mesh-intelligence/mealplan/internal/paths"
	"github.com/mesh-intelligence/mealplan/pkg/mealplan"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app carries the state shared by one command tree: flag values, the
// loaded configuration and the logger.
type app struct {
	flags     rootFlags
	configDir string
	config    *viper.Viper
	logger    *zap.Logger
}

// NewRootCmd creates the top-level "mealplan" command with global flags
// and all subcommands registered. Each call builds an independent tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "mealplan",
		Short:   "Plan meals from the ingredients you have",
		Long:    "mealplan matches recipes to the ingredients you have, suggests a\nrecipe for each meal of the day, and keeps a library of your own meals.",
		Version: mealplan.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.mealplan)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newIngredientsCmd(a))
	root.AddCommand(newMatchCmd(a))
	root.AddCommand(newRecipeCmd(a))
	root.AddCommand(newTodayCmd(a))
	root.AddCommand(newPickCmd(a))
	root.AddCommand(newMealCmd(a))

	return root
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. Log output goes to the command's stderr.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.GetString(cfgKeyLogLevel),
		Format: cfg.GetString(cfgKeyLogFormat),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return userError(fmt.Errorf("config %s: %w", configFileExt, err))
	}

	a.configDir = configDir
	a.config = cfg
	a.logger = logger
	logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("config_file", cfg.ConfigFileUsed()))
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

// run executes root with args and returns the process exit code. Errors
// are printed to stderr.
func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

// exitError pairs an error with the process exit code it maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode returns the exit code carried by err. Errors raised by cobra
// itself, such as unknown flags, are user errors.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
