// Package manager owns the active bean definition registry of a process.
//
// A Manager loads every configured source into a fresh registry and swaps
// it in only when the whole load succeeds, so readers never see a partially
// loaded registry and a failed reload keeps the previous one. Loads are
// serialized; lookups may run concurrently with them.
//
// Each load gets a UUID load id that tags its log lines and its journal
// entry, and is reported to the metrics collector.
//
// # Sources
//
// A source is an XML file or a directory. Directories are walked
// recursively and files with a configured extension (default ".xml") are
// loaded in lexical order. Every top-level document has its own outer
// scope, so the same id in two files is a silent replacement and not a
// duplicate.
//
// # Hot reload
//
// Watch uses fsnotify to reload when a source changes:
//
//	mgr, err := manager.New(&cfg.Beans, manager.WithJournal(store))
//	if err != nil {
//	    return err
//	}
//	if err := mgr.Load(ctx); err != nil {
//	    return err
//	}
//	go mgr.Watch(ctx)
package manager
