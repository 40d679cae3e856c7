package controller

import (
	"sync"
	"time"

	"songplayer/internal/playlist"
)

// snapshot is the playlist state captured at schedule time, so the
// timer callback never touches the live store.
type snapshot struct {
	tracks       []playlist.Track
	mode         playlist.PlayMode
	currentIndex int
}

// autosaver is a single-slot delayed task: each schedule call replaces
// the pending snapshot and restarts the timer, so only the final
// quiescent expiry triggers a save.
type autosaver struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending *snapshot
	save    func(snapshot)
}

func newAutosaver(delay time.Duration, save func(snapshot)) *autosaver {
	return &autosaver{
		delay: delay,
		save:  save,
	}
}

func (a *autosaver) setDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = d
}

// schedule replaces any pending save with snap and restarts the timer.
func (a *autosaver) schedule(snap snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = &snap

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

func (a *autosaver) fire() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	if pending != nil {
		a.save(*pending)
	}
}

// close stops the timer and flushes any pending snapshot.
func (a *autosaver) close() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	if pending != nil {
		a.save(*pending)
	}
}
