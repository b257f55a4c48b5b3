// Package task holds the task collection and keeps it in sync with a
// durable storage slot.
//
// The slot value is a JSON array, newest task first:
//
//	[
//	  {
//	    "id": "7c0e7f5e-6a55-4d1b-9d55-6a5f4f5f2c11",
//	    "title": "Buy milk",
//	    "description": "",
//	    "completed": false,
//	    "createdAt": "2024-05-01T10:00:00.000Z"
//	  }
//	]
//
// createdAt uses ISO-8601 in UTC with millisecond precision. Tasks are
// created with a millisecond-truncated timestamp, so a write followed by a
// read yields an equal time.
//
// # Store
//
// Store is the only writer of the collection. Every successful mutation
// (Create, Update, Delete, ClearCompleted) rewrites the whole slot before
// returning and then notifies subscribers with a Change. Hydrate reads the
// slot once at startup; missing content starts an empty collection, and
// malformed content starts an empty collection and returns a *LoadError.
//
// Write failures do not undo the in-memory change. They are returned as a
// *PersistError from Persist, attached to the Change of the mutation that
// triggered them, and kept until the next successful write.
//
// # Validation
//
// Slot contents are checked against the embedded JSON Schema
// (tasks.schema.json) or a schema file given with WithSchema. Without a
// schema, only minimal structural checks run.
package task
