// Package cache stores one JSON document per label and calendar day.
//
// Three Store implementations share the Key scheme: MemoryStore for tests
// and short-lived processes, FileStore writing label_YYYY-MM-DD.json files
// and SQLiteStore keeping documents in a single table. ReadThrough serves a
// cached document or fetches, stores and returns a fresh one.
package cache
