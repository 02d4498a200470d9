package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notelin"
	"github.com/aretw0/notelin/internal/logging"
	"github.com/aretw0/notelin/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive list and edit screens",
	Long: `tui opens the note list. Logs go to the rotating file set by --log-file
(default notelin.log in the data directory) because the screen owns the terminal.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger, closer, err := logging.File(cfg.LogPath(), cfg.Verbose)
		if err != nil {
			fatal("Error opening log file", err)
		}
		defer closer.Close()

		opts := append(cfg.PlatformOptions(), notelin.WithLogger(logger))
		app, err := notelin.Open(ctx, cfg.DataDir, opts...)
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer app.Close()

		if err := tui.Run(ctx, app); err != nil {
			fatal("Error running tui", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
