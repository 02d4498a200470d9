package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	newTitle string
	newText  string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Long:  `New creates a note titled "New note" unless --title or --text are given.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		lv := &listView{}
		list := app.NewListController(lv)
		if _, err := list.CreateAndOpen(ctx); err != nil {
			fatal("Error creating note", err)
		}

		if cmd.Flags().Changed("title") || cmd.Flags().Changed("text") {
			ev := &editView{}
			editor := app.NewEditController(ev)
			if err := editor.Open(ctx, lv.openedID, 0); err != nil {
				fatal("Error opening note", err)
			}
			title := ev.note.Title
			if cmd.Flags().Changed("title") {
				title = newTitle
			}
			if err := editor.Save(ctx, title, newText); err != nil {
				fatal("Error saving note", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note created: %d\n", lv.openedID)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Title of the note")
	newCmd.Flags().StringVar(&newText, "text", "", "Body of the note")
}
