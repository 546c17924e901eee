// Package dialogue runs the spoken confirmation of a captured page.
//
// Confirm recognizes the page text, reads it back through the speech
// medium and listens for a yes/no answer within a fixed window:
//
//	Transcribing -> Confirming -> Yes | No | Unknown(reason)
//
// Answers are classified by keyword: the keyword occurring earliest in the
// normalized transcript decides, so "아니예요" is a no even though it
// contains "예". Transcripts that match nothing keep the window open.
// Recoverable recognition errors restart listening after a short delay.
package dialogue
