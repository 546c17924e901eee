// Package camera supplies frames to the capture session.
//
// A Source delivers a FramePair per tick: the full-resolution display
// buffer and an analysis buffer downscaled to Config.AnalysisWidth.
// DirSource replays image files from a directory and is used by the CLI.
package camera
