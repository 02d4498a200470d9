package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notelin/pkg/core"
)

var (
	listJSON   bool
	listSort   string
	listSearch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the saved sort order",
	Long: `List prints every note, ordered by the saved sort method.
--search keeps the notes whose title starts with the query (case-insensitive).
--sort overrides the order for this listing only; use "notelin sort" to save it.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		view := &listView{}
		list := app.NewListController(view)
		if err := list.LoadAll(ctx); err != nil {
			fatal("Error listing notes", err)
		}

		notes := list.Search(listSearch)
		if listSort != "" {
			method, err := core.ParseSortMethod(listSort)
			if err != nil {
				fatal("Error parsing sort method", err)
			}
			core.SortNotes(notes, method)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, n := range notes {
			fmt.Fprintf(out, "%d - %s\n", n.ID, n.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Order for this listing: name or date")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only notes whose title starts with this prefix")
}
