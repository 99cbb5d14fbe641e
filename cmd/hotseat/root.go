package main

import (
	"fmt"
	"log/slog"
	"os"

	"ctchen222/hotseat/internal/config"
	"ctchen222/hotseat/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hotseat",
	Short: "Two-player tic-tac-toe on one screen",
	Long: `hotseat runs tic-tac-toe games for two players sharing a browser or a terminal.
The server owns every game; browsers, the REST API and the terminal only relay input.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yml", "Path to the YAML config file; environment variables override it")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// setup loads the config and installs the default logger.
func setup(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	conf, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		conf.LogLevel = lvl
	}
	level, err := logger.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.Init(level)
	slog.Debug("config loaded", "config.path", path)
	return conf, nil
}
