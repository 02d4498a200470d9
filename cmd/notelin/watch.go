package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCount int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print notes changed by other programs",
	Long: `watch prints one line per note file created, edited or removed outside
notelin, such as "EDITED 3". It needs the fs adapter and runs until interrupted
or until --count changes were printed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		app := openApp(ctx)
		defer app.Close()

		events, err := app.Store.Watch(ctx)
		if err != nil {
			fatal("Error watching notes", err)
		}

		out := cmd.OutOrStdout()
		seen := 0
		for e := range events {
			fmt.Fprintf(out, "%s %d\n", e.Type, e.NoteID)
			seen++
			if watchCount > 0 && seen >= watchCount {
				return
			}
		}
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchCount, "count", 0, "Exit after this many changes (0 waits forever)")
	rootCmd.AddCommand(watchCmd)
}
