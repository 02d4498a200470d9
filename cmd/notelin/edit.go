package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editTitle string
	editText  string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change the title or body of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		flags := cmd.Flags()
		if !flags.Changed("title") && !flags.Changed("text") {
			fatal("Error editing note", errors.New("nothing to change: pass --title and/or --text"))
		}

		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		view := &editView{}
		editor := app.NewEditController(view)
		if err := editor.Open(ctx, id, 0); err != nil {
			fatal("Error opening note", err)
		}

		title, text := view.note.Title, view.note.Text
		if flags.Changed("title") {
			title = editTitle
		}
		if flags.Changed("text") {
			text = editText
		}
		if err := editor.Save(ctx, title, text); err != nil {
			fatal("Error saving note", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note saved: %d\n", id)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editText, "text", "", "New body")
}
