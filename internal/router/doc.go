// Package router maps pipeline steps onto location paths and keeps the two
// in agreement. The workflow machine owns what step the session is on; the
// location surface owns where the user is pointed. Exactly one of them
// drives at a time, selected by the workflow routing mode, with the root
// path as the unconditional escape hatch back to the landing step.
package router
