// Package workflow models the six-step paper-to-video pipeline as an
// explicit state machine.
//
// The Machine owns one session's State and exposes only named transitions:
// step navigation (SetStep, ProgressToNextStep, MarkStepCompleted), routing
// mode toggles, per-field setters for paper-scoped data, ClearPaperState for
// referential recovery, and Reset. External code never mutates State fields
// directly; Snapshot returns deep copies.
//
// Steps and narration sections are closed enums. RoutingMode replaces the
// pair of complementary booleans the behavior was specified with: a session
// is either in automatic routing (state changes drive the location surface)
// or manual routing (the location surface drives state), never both.
package workflow
