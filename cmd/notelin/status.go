package main

import (
	"context"
	"encoding/json"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every component as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		states := make(map[string]any)
		for _, c := range app.Components() {
			if intro, ok := c.(introspection.Introspectable); ok {
				states[c.ComponentType()] = intro.State()
			}
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(map[string]any{
			"data_dir":   cfg.DataDir,
			"adapter":    cfg.Adapter,
			"config":     cfg.Source,
			"components": states,
		}); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
