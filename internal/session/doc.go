// Package session persists resumable pipeline runs in a local SQLite
// database. Each session snapshots one workflow state plus the location
// path it was last observed at, so a later invocation can restore the
// machine exactly where the previous one stopped. Transient workflow
// fields are never written; a resumed session always starts settled.
package session
