package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize mealplan storage",
		Long: "Create the configuration and data directories, record the data directory\n" +
			"in config.yaml, and load the kitchen once to check its files.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	cfg, err := a.kitchenConfig()
	if err != nil {
		return sysError(err)
	}

	// Record the data directory so later runs from any working directory
	// find the same library.
	configPath := filepath.Join(a.configDir, configFileExt)
	if a.config.GetString(cfgKeyDataDir) == "" {
		if err := writeConfig(configPath, configFile{
			DataDir:     cfg.DataDir,
			RecipesFile: a.config.GetString(cfgKeyRecipesFile),
			LogLevel:    a.config.GetString(cfgKeyLogLevel),
			LogFormat:   a.config.GetString(cfgKeyLogFormat),
		}); err != nil {
			return sysError(fmt.Errorf("write config: %w", err))
		}
		a.logger.Info("recorded data directory", zap.String("file", configPath), zap.String("data_dir", cfg.DataDir))
	}

	kitchen, detach, err := a.attachKitchen(cmd)
	if err != nil {
		return err
	}
	defer detach()

	catalog, err := kitchen.Catalog()
	if err != nil {
		return sysError(err)
	}
	n, err := catalog.Count()
	if err != nil {
		return sysError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "mealplan initialized successfully")
	fmt.Fprintf(out, "config: %s\n", configPath)
	fmt.Fprintf(out, "data:   %s\n", cfg.DataDir)
	fmt.Fprintf(out, "recipes: %d\n", n)
	return nil
}
