// Package mindpages is the Composition Root for MindPages, a notes collection
// whose editor saves itself.
//
// It connects the page store (Domain Layer) with its storage adapters and the
// draft synchronizer that commits edits once the user stops typing.
//
// Features:
//
//   - **Page Store**: ordered collection with a single selection and a change feed.
//   - **Debounced Autosave**: edits buffer in a draft and commit after a quiet period.
//   - **Queries**: text search, starred view, folder grouping and tag globs.
//   - **Export**: plain text and Markdown with YAML frontmatter.
//   - **Extensible**: other backends plug in through `core.Repository`.
//
// Usage:
//
//	store, err := mindpages.NewStore(
//		mindpages.WithSamples(true),
//		mindpages.WithLogger(logger),
//	)
//
//	sync := mindpages.NewSynchronizer(store, mindpages.WithQuiescence(2*time.Second))
//	page, _ := store.Create(ctx)
//	_ = sync.BeginEditing(ctx, page)
//	_ = sync.SetTitle("Groceries")
//	// ... two quiet seconds later the title is in the store.
package mindpages
