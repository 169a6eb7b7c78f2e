// Package kv is the persistent key-value store behind the identity session.
//
// Keys are plain strings; values are opaque bytes (the session stores JSON
// documents and two plain strings: the token and the guest-mode flag).
//
// # Backends
//
//   - SQLiteStore: table kv(key TEXT PRIMARY KEY, value BLOB NOT NULL),
//     created by the embedded goose migrations.
//   - FileStore:   one JSON object on disk, rewritten atomically.
//   - MemoryStore: process-local map, used by tests and the "memory" backend.
//
// # Contract
//
// Get returns (nil, nil) for a missing key; an empty stored value may also
// read back as nil, so callers treat empty and absent alike. Delete is
// idempotent. Update runs fn against a transactional view and applies all
// of its writes together or not at all; fn must only use the Store it is
// handed, never the outer one.
//
// All backends are safe for concurrent use.
package kv
