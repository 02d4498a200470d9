// Package notelin is the composition root of the notelin note-taking core.
//
// It connects the domain (pkg/core: notes, sort strategies, the store
// facade) and the presentation logic (pkg/controller) with the
// infrastructure adapters (SQLite, Markdown files or memory storage, YAML
// preferences and the in-process event bus).
//
// Features:
//
//   - **Embedded Storage**: notes live in a single SQLite file (pure Go, no cgo),
//     or as one Markdown file each with the "fs" adapter, watched for outside edits.
//   - **Screen Controllers**: list and edit controllers drive any view implementing
//     controller.ListView / controller.EditView.
//   - **Explicit Events**: the edit screen notifies the list screen through a bus
//     owned by the App, with subscriber lifetime bound to a context.
//   - **Persisted Sort Preference**: by date (default) or by name, kept in a YAML file.
//   - **Dev Safety**: under `go run` and `go test` data is sandboxed in a temp directory.
//
// Usage:
//
//	app, err := notelin.Open(ctx, "~/.notelin", notelin.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	list := app.NewListController(view)
//	go list.Listen(ctx, app.Events.Subscribe(ctx))
//	err = list.LoadAll(ctx)
package notelin
