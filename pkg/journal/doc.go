// Package journal records the history of bean definition loads.
//
// Every load performed by the definition manager produces an Entry: when it
// ran, what triggered it, which resources it read, whether it succeeded and
// the size and version of the resulting registry. Entries are kept in a
// Store, either in memory or in an SQLite database.
//
// # Retention
//
// A Pruner enforces two independent limits:
//   - Age: entries older than RetentionDays are deleted
//   - Count: when more than MaxRecords entries exist, the oldest are deleted
//
// The Scheduler runs the pruner on a cron schedule such as "0 3 * * *".
//
// # Usage
//
//	store, err := journal.Open(cfg.Journal)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	pruner := journal.NewPruner(store, journal.PrunerConfigFrom(cfg.Journal))
//	if err := pruner.Start(ctx); err != nil {
//	    return err
//	}
//	defer pruner.Stop()
package journal
