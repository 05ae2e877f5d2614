// Package credentials persists the session bearer token and cached user
// identity to durable local storage.
//
// The store is deliberately infallible: callers always get an answer, and a
// broken or read-only data directory behaves exactly like being logged out.
// A file lock guards against concurrent papercast processes clobbering each
// other's writes.
package credentials
