package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteAll bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note, or every note with --all",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if deleteAll == (len(args) == 1) {
			fatal("Error deleting", errors.New("pass either a note id or --all"))
		}

		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		out := cmd.OutOrStdout()
		if deleteAll {
			list := app.NewListController(&listView{})
			if err := list.DeleteAll(ctx); err != nil {
				fatal("Error deleting notes", err)
			}
			fmt.Fprintln(out, "All notes deleted")
			return
		}

		id := parseID(args[0])
		editor := app.NewEditController(&editView{})
		if err := editor.Open(ctx, id, 0); err != nil {
			fatal("Error opening note", err)
		}
		if err := editor.Delete(ctx); err != nil {
			fatal("Error deleting note", err)
		}
		fmt.Fprintf(out, "Note deleted: %d\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every note")
}
