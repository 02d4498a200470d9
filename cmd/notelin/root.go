package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/notelin"
	"github.com/aretw0/notelin/internal/config"
	"github.com/aretw0/notelin/internal/logging"
)

var (
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notelin",
	Short: "Create, edit, search and sort short text notes",
	Long: `notelin keeps short text notes in a local embedded database.
Use the subcommands for scripting, or "notelin tui" for the list and edit screens.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.Load(cmd.Flags())
		if err != nil {
			fatal("Error loading configuration", err)
		}
		cfg = loaded
		slog.SetDefault(logging.Stderr(cfg.Verbose))
		if cfg.Source != "" {
			slog.Debug("config loaded", "file", cfg.Source)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", "", "Data directory (default: nearest .notelin or ~/.notelin)")
	flags.String("adapter", "", "Storage adapter: sqlite, fs or memory")
	flags.String("database", "", "Database file (sqlite) or notes directory (fs) inside the data directory")
	flags.String("preferences", "", "Preferences file name inside the data directory")
	flags.String("log-file", "", "Log file used by the tui command")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
}

// openApp opens the data directory configured for this run, or exits.
func openApp(ctx context.Context) *notelin.App {
	opts := append(cfg.PlatformOptions(), notelin.WithLogger(slog.Default()))
	app, err := notelin.Open(ctx, cfg.DataDir, opts...)
	if err != nil {
		fatal("Error opening notes", err)
	}
	return app
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fatal("Error parsing note id", fmt.Errorf("invalid id %q", arg))
	}
	return id
}
