package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notelin/pkg/core"
)

var sortCmd = &cobra.Command{
	Use:       "sort [name|date]",
	Short:     "Save the order used to list notes",
	Long:      `Sort saves the list order. Without an argument it prints the current one.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"name", "date"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		list := app.NewListController(&listView{})
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(out, list.CurrentSortMethod())
			return
		}

		method, err := core.ParseSortMethod(args[0])
		if err != nil {
			fatal("Error parsing sort method", err)
		}
		if err := list.SortBy(method); err != nil {
			fatal("Error saving sort method", err)
		}
		fmt.Fprintf(out, "Sort method: %s\n", method)
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)
}
