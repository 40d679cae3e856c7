// Package player defines the boundary to the audio decode engine.
// The engine itself is an external collaborator; the orchestrator only
// ever talks to the Engine interface.
package player

import "time"

// Engine is the playback engine contract. Play accepts a source
// locator and begins decoding; the engine signals end of playback on
// FinishedChan.
type Engine interface {
	Play(source string) error
	Stop()
	Pause()
	Resume()
	Toggle()
	Playing() bool
	Position() time.Duration
	Duration() time.Duration
	FinishedChan() <-chan struct{}
}
