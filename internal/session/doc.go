// Package session runs one guided capture session: scanning, automatic
// capture, spoken confirmation and document creation.
//
// # States
//
//	Idle -> Scanning -> Frozen -> AwaitingTranscript -> AwaitingConfirmation
//	     -> Committing -> Committed
//
// Any state may move to Closed. A No answer, an unclear answer or a failed
// remote call speaks a notice and returns to Scanning with the camera
// unfrozen and the guidance state cleared.
//
// # Goroutines
//
// Run drives two goroutines in an errgroup. The tick loop reads frames,
// detects the document, updates guidance and offers advisories; it skips
// every tick while a capture is in progress. The worker runs the dialogue
// and the document-creation call for each captured page. Close can be
// called from anywhere; results arriving after it are dropped.
//
// Every state change is published as an events.Event.
package session
