// Package tasks owns the task list, its persistence, and the state derived from it.
//
// The list is persisted as a single JSON array under one storage key:
//
//	[
//	  {
//	    "id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
//	    "text": "buy milk",
//	    "completed": false,
//	    "timestamp": 1700000000000
//	  }
//	]
//
// timestamp is the creation time in Unix milliseconds. Records written
// before ids existed ({text, completed, timestamp}) are accepted and
// receive a fresh id when loaded.
//
// # Identity
//
// Every task carries a stable id assigned at creation. Mutations address
// tasks by id; a position is only the task's place in display order and
// is resolved to an id (At, IDAt) right before mutating.
//
// # Persistence
//
// Store.Load reads the blob once. A blob that is not valid JSON or does not
// match the record schema resets the store to an empty list; the problem is
// logged and kept for Recovered, never returned. Every mutation writes the
// full list back before returning. A failed write is returned wrapped in
// ErrPersist, but the in-memory change stands.
//
// # Cues
//
// Add notifies cue.Add and every Toggle notifies cue.Complete, whichever
// direction the flag flips. Edit and Delete are silent.
package tasks
