// Package events publishes capture-session status updates.
//
// Each state change of a session produces an Event with a short
// human-readable message. Publishers write events to the log (Log), to a
// Redis pub/sub channel as JSON (Redis), or to several targets at once
// (Multi). Publishing is best effort; callers log failures and carry on.
package events
