package playlist

import "math/rand/v2"

// Navigator computes the next track to play from the store's current
// track and play mode, and asks the playback engine to switch sources.
//
// Shuffle picks an independent uniform random index on every call; it
// does not walk a non-repeating permutation.
type Navigator struct {
	store    *Store
	randIntN func(int) int
	onSource []func(source string)
}

// NewNavigator creates a navigator over the given store. Whenever the
// store's current track changes to a non-nil track, a source-change
// request is emitted for it.
func NewNavigator(store *Store) *Navigator {
	n := &Navigator{
		store:    store,
		randIntN: rand.IntN,
	}
	store.Subscribe(func(e Event) {
		if cc, ok := e.(CurrentChanged); ok && cc.Track != nil && cc.Track.AudioSource != "" {
			n.requestSource(cc.Track.AudioSource)
		}
	})
	return n
}

// OnSourceRequest registers fn to receive source-change requests.
// This is the only coupling point between navigation and the playback
// engine: fn receives the audio source the engine should load next.
func (n *Navigator) OnSourceRequest(fn func(source string)) {
	n.onSource = append(n.onSource, fn)
}

func (n *Navigator) requestSource(source string) {
	for _, fn := range n.onSource {
		fn(source)
	}
}

// selectTrack makes t current. Selecting the track that is already
// current re-requests its source so the engine restarts it.
func (n *Navigator) selectTrack(t *Track) {
	if t == nil {
		return
	}
	if t == n.store.CurrentSong() {
		if t.AudioSource != "" {
			n.requestSource(t.AudioSource)
		}
		return
	}
	n.store.SetCurrentSong(t)
}

// SwitchToNext selects the next track. Loop and RepeatOne advance
// index-wise with wraparound; Shuffle draws a random index. With no
// current track, the first track is selected. Empty store is a no-op.
func (n *Navigator) SwitchToNext() {
	count := n.store.Len()
	if count == 0 {
		return
	}

	switch n.store.PlayMode() {
	case PlayModeLoop, PlayModeRepeatOne:
		current := n.store.CurrentSong()
		if current == nil {
			n.selectTrack(n.store.TrackAt(0))
			return
		}
		next := (n.store.IndexOf(current) + 1) % count
		n.selectTrack(n.store.TrackAt(next))
	case PlayModeShuffle:
		n.selectTrack(n.store.TrackAt(n.randIntN(count)))
	}
}

// SwitchToPrevious selects the previous track. With no current track,
// the last track is selected. Empty store is a no-op.
func (n *Navigator) SwitchToPrevious() {
	count := n.store.Len()
	if count == 0 {
		return
	}

	switch n.store.PlayMode() {
	case PlayModeLoop, PlayModeRepeatOne:
		current := n.store.CurrentSong()
		if current == nil {
			n.selectTrack(n.store.TrackAt(count - 1))
			return
		}
		prev := (n.store.IndexOf(current) - 1 + count) % count
		n.selectTrack(n.store.TrackAt(prev))
	case PlayModeShuffle:
		n.selectTrack(n.store.TrackAt(n.randIntN(count)))
	}
}

// SwitchToIndex selects the track at index. Out-of-range is a no-op.
func (n *Navigator) SwitchToIndex(index int) {
	n.selectTrack(n.store.TrackAt(index))
}

// HandleFinished reacts to the engine reporting end of playback:
// RepeatOne re-requests the current track's source, Loop and Shuffle
// advance to the next track.
func (n *Navigator) HandleFinished() {
	switch n.store.PlayMode() {
	case PlayModeRepeatOne:
		if current := n.store.CurrentSong(); current != nil && current.AudioSource != "" {
			n.requestSource(current.AudioSource)
		}
	case PlayModeLoop, PlayModeShuffle:
		n.SwitchToNext()
	}
}
