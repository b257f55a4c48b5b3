// Package storage provides durable key/value slots for task collections.
//
// A slot is a single named string value. The task store keeps its whole
// serialized collection in one slot and overwrites it on every change, so
// backends only need whole-value reads and writes:
//
//	Get(key) -> (value, ok, err)
//	Set(key, value) -> err
//
// # Backends
//
//   - "file": one file per slot under <data_dir>/slots, written atomically
//     (temp file + rename).
//   - "sqlite": a slots table in <data_dir>/taskpilot.db.
//   - "memory": process-local map, lost on exit. Used by tests and for
//     throwaway sessions.
//
// Any backend can be wrapped with WithQuota to reject values above a byte
// limit, mirroring the per-origin quota of browser local storage.
package storage
