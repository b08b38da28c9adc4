// Package session runs a die the way a host program's main loop does.
//
// A Session owns one die, numbers its rolls, journals them through an
// optional recorder, and emits a span per operation. It adds no locking:
// callers that share a Session across goroutines serialize access.
package session
