// Package metrics holds the session's collected metric records.
//
// A [Record] pairs a metric name with an optional numeric value. A nil value means the
// measurement could not be produced; it is kept as-is and never coerced to zero.
//
// # Store
//
// The [Store] is an ordered upsert map with at most one record per name:
//
//	store := metrics.NewStore()
//	store.Set("first-paint", metrics.NewRecord("first-paint", 123.4))
//	snapshot := store.Values() // copy, safe to mutate
//
// [Store.Flush] reads a snapshot, hands it to a sender and clears the store only if
// the sender dispatched it. The three steps run in one critical section so no record
// set concurrently can be cleared without having been sent.
//
// # Thread Safety
//
// Store methods are safe to call from multiple goroutines.
package metrics
