package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	showJSON bool
	showInfo bool
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Long:  `Show prints the title and body of a note, its JSON form with --json, or its summary with --info.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		n, err := app.Store.GetNote(ctx, id)
		if err != nil {
			fatal("Error reading note", err)
		}

		out := cmd.OutOrStdout()
		switch {
		case showJSON:
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(n); err != nil {
				fatal("Error encoding JSON", err)
			}
		case showInfo:
			fmt.Fprintln(out, n.Info())
		default:
			fmt.Fprintf(out, "# %s\n\n%s\n", n.Title, n.Text)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	showCmd.Flags().BoolVar(&showInfo, "info", false, "Print title and dates only")
}
