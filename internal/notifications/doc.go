// Package notifications delivers user-facing notices for pipeline
// milestones and surfaced errors.
//
// NewService returns an ntfy-backed implementation when a topic is
// configured and a noop otherwise, so callers notify unconditionally.
// Suppressed errors (expected "not yet created" responses) never reach this
// package; the API layer filters them first.
package notifications
