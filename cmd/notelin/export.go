package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notelin/pkg/markdown"
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Write every note to dir as <id>.md",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		count, err := markdown.Export(ctx, app.Store, args[0])
		if err != nil {
			fatal("Error exporting notes", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes to %s\n", count, args[0])
	},
}

var importCmd = &cobra.Command{
	Use:   "import [root] [pattern]",
	Short: "Create a note from every Markdown file under root",
	Long: `Import reads the files under root matching pattern (default "**/*.md").
The frontmatter title becomes the note title, falling back to the file name.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := ""
		if len(args) == 2 {
			pattern = args[1]
		}

		ctx := context.Background()
		app := openApp(ctx)
		defer app.Close()

		ids, err := markdown.Import(ctx, app.Store, args[0], pattern)
		if err != nil {
			fatal("Error importing notes", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes\n", len(ids))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
