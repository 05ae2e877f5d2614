// Command papercast drives a paper-to-video backend from the terminal:
// upload or import a paper, generate and edit narration scripts, render
// slides, produce audio and the final video. Progress is persisted as a
// resumable session, so each invocation picks up where the last one
// stopped.
package main
