// Package state shares the latest controller lists between the dashboard
// refresher and the console.
//
// # Overview
//
// The refresher lists timelines, groups, scenes, triggers or spaces
// (whatever the personality supports) and hands the result to Store.Update.
// The console reads Store.Snapshot on its own tick. Neither side waits on
// the other's network I/O or rendering.
//
//	Refresher:                      Console:
//	┌───────────────────┐           ┌───────────────────┐
//	│ client.List*()    │           │                   │
//	│ store.Update()    │──(mutex)─→│ store.Snapshot()  │
//	│ wait for tick     │           │ render            │
//	└───────────────────┘           └───────────────────┘
//
// # Update Semantics
//
//	store.Update(&lists, nil)  // replace lists, clear LastError, reset failures
//	store.Update(nil, err)     // keep lists, record err, count a failure
//
// Two or more failures in a row mark the snapshot offline (IsOffline), which
// the console shows in its header. A stale list is more useful to an
// operator than an empty one, so failed refreshes never clear data.
//
// # Copying
//
// Update and Snapshot both deep-copy the lists, including the raw JSON
// fields of triggers and spaces. A snapshot can be sorted or mutated by the
// UI without touching the store.
//
// # Zero Value
//
// A zero Store is ready to use; Snapshot on a fresh store returns a zero
// Snapshot with HasData false.
package state
