// Package store is the SQLite execution adapter.
//
// It owns connection lifecycle and the write paths; the query compiler only
// hands it rendered Select text and never inspects result rows. Tables are
// created from the schema registry, one per model plus one join table per
// many-to-many relation.
//
// The insert-or-update path checks for an existing row and then writes in
// two statements. Concurrent writers matching the same row can race between
// the check and the write; callers that need stronger guarantees must
// serialize their writes.
package store
