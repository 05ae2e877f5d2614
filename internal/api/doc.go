// Package api is the resilient access layer for the paper-to-video backend.
//
// The Client is the single HTTP core: fixed base address and timeout, JSON
// bodies by default with escape hatches for multipart uploads and binary
// downloads, bearer-token injection from the credential store, and
// structured logging of every dispatch. Its failure contract is what the
// workflow's resumability depends on:
//
//   - 5xx responses are retried a bounded number of times with a fixed
//     delay; nothing else is retried, because retrying a client error or a
//     timed-out generation trigger cannot improve the outcome.
//   - 401 clears stored credentials and fires the login-redirect hook once
//     per failure, never once per attempt.
//   - 404 under the scripts, slides, and media prefixes means "not produced
//     yet": logged, never surfaced as a notice, but still returned so
//     facades can apply their documented fallbacks. A 404 for a paper is
//     always a hard error.
//   - Every other failure is surfaced through the notice service with the
//     most specific message the backend offered.
//
// One facade per resource family (Auth, Papers, Scripts, Images, Slides,
// Media) exposes intention-revealing operations over the core. Facades
// return errors rather than panicking; the only silent defaults are the
// documented ones (existence probes to false, suppressed sections/status
// reads to empty valid values).
package api
