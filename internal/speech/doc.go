// Package speech manages the shared audio medium: spoken output and
// recognized speech input.
//
// Speaking and listening are mutually exclusive for the whole session.
// Channel enforces this with a single medium token: Speak stops any active
// listening and queues behind earlier speech, and Listen waits until nothing
// is spoken or queued and a short quiet gap has passed. Advisor rate-limits
// the alignment advisories that share the same medium.
//
// Speaker and Listener are the engine boundaries. ConsoleSpeaker and
// ConsoleListener implement them on a terminal.
//
// # Recognition Errors
//
// Listener failures carry an engine error code in *RecognitionError. A
// Policy decides which codes restart listening; the default set is
// no-speech, aborted, network and audio-capture.
package speech
