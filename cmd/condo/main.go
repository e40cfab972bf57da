// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/blinklabs-io/condo/internal/config"
	"github.com/blinklabs-io/condo/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const (
	programName = "condo"
)

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...),
		"component", programName,
	)
}

var (
	globalFlags = struct {
		debug   bool
		dataDir string
	}{}
	configFile string
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	addSource := false
	if globalFlags.debug {
		level = slog.LevelDebug
		addSource = true
	}
	return slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: addSource,
			Level:     level,
		}),
	)
}

// commonRun configures the process for long-running commands
func commonRun() *slog.Logger {
	logger := newLogger(os.Stdout, slog.LevelInfo)
	slog.SetDefault(logger)
	// Configure max processes with our logger wrapper, toss undo func
	_, err := maxprocs.Set(maxprocs.Logger(slogPrintf))
	if err != nil {
		// If we hit this, something really wrong happened
		slog.Error(err.Error())
		os.Exit(1)
	}
	logger.Info(
		"version: "+version.GetVersionString(),
		"component", programName,
	)
	return logger
}

// commandLogger keeps stdout free for command output
func commandLogger(cmd *cobra.Command) *slog.Logger {
	return newLogger(cmd.ErrOrStderr(), slog.LevelWarn)
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Condominium governance ledger",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			serveRun(cmd, args, cfg)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.dataDir, "data-dir", "", "override the database path")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// Override config with command line flags
		if globalFlags.dataDir != "" {
			cfg.DatabasePath = globalFlags.dataDir
		}
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}

	// Subcommands
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(residentCommand())
	rootCmd.AddCommand(topicCommand())
	rootCmd.AddCommand(quotaCommand())
	rootCmd.AddCommand(routerCommand())
	rootCmd.AddCommand(versionCommand())
	return rootCmd
}

func main() {
	// Execute cobra command
	if err := newRootCommand().Execute(); err != nil {
		// NOTE: we purposely don't display the error, since cobra will have already displayed it
		os.Exit(1)
	}
}
