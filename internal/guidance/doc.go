// Package guidance decides how the user should move the document so that
// it lines up with the on-screen guide.
//
// An Engine smooths three independent metrics (rotation, center offset and
// size ratio) and compares them against two tolerance bands. The wider OUT
// band decides whether to ask for a correction. The narrower IN band decides
// whether the frame counts toward capture. The gap between the two keeps the
// advice from flickering at a threshold.
//
// The engine only decides what to say. Rate limiting and mutual exclusion
// with speech input live in package speech.
package guidance
