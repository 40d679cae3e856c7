// Package playlist holds the live, in-memory track collection and the
// navigation logic that selects the next track to play.
package playlist

// PlayMode defines how navigation advances through the playlist.
type PlayMode int

const (
	PlayModeLoop PlayMode = iota
	PlayModeShuffle
	PlayModeRepeatOne
)

// String returns the mode name.
func (m PlayMode) String() string {
	switch m {
	case PlayModeLoop:
		return "Loop"
	case PlayModeShuffle:
		return "Shuffle"
	case PlayModeRepeatOne:
		return "RepeatOne"
	default:
		return "Unknown"
	}
}

// Store is an ordered, mutable collection of tracks with a current-track
// cursor. The Store owns its tracks: callers get pointers for identity
// comparison but must not mutate them.
type Store struct {
	tracks    []*Track
	current   *Track
	mode      PlayMode
	listeners []func(Event)
}

// NewStore creates a new empty store.
func NewStore() *Store {
	return &Store{
		tracks: make([]*Track, 0),
	}
}

// Subscribe registers fn to receive change events.
func (s *Store) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(e Event) {
	for _, fn := range s.listeners {
		fn(e)
	}
}

// AddAudio appends a new track. An audio source already present in the
// store is rejected without mutation and reported as a DuplicateSkipped
// event. When the store was empty, the new track becomes current.
func (s *Store) AddAudio(title, author, audioSource, imageSource, videoSource string) {
	if s.isDuplicate(audioSource) {
		s.notify(DuplicateSkipped{
			Title:  title,
			Reason: "audio file already exists in playlist",
		})
		return
	}

	t := &Track{
		Title:       title,
		Author:      author,
		AudioSource: audioSource,
		ImageSource: imageSource,
		VideoSource: videoSource,
	}

	wasEmpty := len(s.tracks) == 0
	s.tracks = append(s.tracks, t)

	if wasEmpty {
		s.SetCurrentSong(t)
	}
	s.notify(RowsInserted{First: len(s.tracks) - 1, Last: len(s.tracks) - 1})
}

// RemoveAudio removes the track at index. Out-of-range indices are a
// no-op. When the removed track was current, the following track becomes
// current (or the preceding one when removing the last element); an
// emptied store has no current track.
func (s *Store) RemoveAudio(index int) {
	if index < 0 || index >= len(s.tracks) {
		return
	}

	removed := s.tracks[index]
	if removed == s.current {
		switch {
		case len(s.tracks) == 1:
			s.SetCurrentSong(nil)
		case index < len(s.tracks)-1:
			s.SetCurrentSong(s.tracks[index+1])
		default:
			s.SetCurrentSong(s.tracks[index-1])
		}
	}

	s.tracks = append(s.tracks[:index], s.tracks[index+1:]...)
	s.notify(RowsRemoved{First: index, Last: index})
}

// Clear removes all tracks and resets the current track. A single
// ListReset event stands in for per-row removal notifications.
func (s *Store) Clear() {
	if len(s.tracks) == 0 {
		return
	}
	s.SetCurrentSong(nil)
	s.tracks = s.tracks[:0]
	s.notify(ListReset{})
}

// CurrentSong returns the current track, or nil if none.
func (s *Store) CurrentSong() *Track {
	return s.current
}

// SetCurrentSong updates the current track. Setting the same track
// (reference equality) is a no-op. Accepts nil.
func (s *Store) SetCurrentSong(t *Track) {
	if s.current == t {
		return
	}
	s.current = t
	s.notify(CurrentChanged{Track: t})
}

// TrackAt returns the track at index, or nil if out of range.
func (s *Store) TrackAt(index int) *Track {
	if index < 0 || index >= len(s.tracks) {
		return nil
	}
	return s.tracks[index]
}

// IndexOf returns the index of t by identity, or -1 if not present.
func (s *Store) IndexOf(t *Track) int {
	if t == nil {
		return -1
	}
	for i, other := range s.tracks {
		if other == t {
			return i
		}
	}
	return -1
}

// CurrentIndex returns the index of the current track, or -1 if none.
func (s *Store) CurrentIndex() int {
	return s.IndexOf(s.current)
}

// Len returns the number of tracks.
func (s *Store) Len() int {
	return len(s.tracks)
}

// Snapshot returns value copies of all tracks in playback order, for
// callers that must not hold references into the store (persistence,
// UI list views).
func (s *Store) Snapshot() []Track {
	result := make([]Track, len(s.tracks))
	for i, t := range s.tracks {
		result[i] = *t
		result[i].Position = i
	}
	return result
}

// PlayMode returns the current play mode.
func (s *Store) PlayMode() PlayMode {
	return s.mode
}

// SetPlayMode updates the play mode. Setting the same mode is a no-op.
func (s *Store) SetPlayMode(mode PlayMode) {
	if s.mode == mode {
		return
	}
	s.mode = mode
	s.notify(ModeChanged{Mode: mode})
}

func (s *Store) isDuplicate(audioSource string) bool {
	for _, t := range s.tracks {
		if t.AudioSource == audioSource {
			return true
		}
	}
	return false
}
