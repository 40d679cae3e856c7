// Package storage translates between the live playlist store and the
// durable playlist/audio-item records, atomically.
package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"songplayer/internal/db"
	"songplayer/internal/playlist"
)

// DefaultPlaylistName is the distinguished playlist used for
// auto-saving. It always exists and cannot be deleted.
const DefaultPlaylistName = "Default Playlist"

// defaultPlaceholderImage is used for audio items stored without cover
// art.
const defaultPlaceholderImage = "assets/icons/app_icon.png"

var (
	// ErrNotInitialized is returned by every persistence call made
	// before a successful Initialize.
	ErrNotInitialized = errors.New("storage service not initialized")

	// ErrNotFound is returned when a named playlist does not exist or
	// has no items.
	ErrNotFound = errors.New("playlist not found")

	// ErrDefaultPlaylist is returned when deleting the default
	// playlist is attempted.
	ErrDefaultPlaylist = errors.New("cannot delete default playlist")
)

// PlaylistInfo is a reconstructed playlist snapshot. It never aliases
// live store state: tracks are value copies ordered by stored position.
type PlaylistInfo struct {
	ID           int64
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PlayMode     playlist.PlayMode
	CurrentIndex int
	Tracks       []playlist.Track
}

// Service is the persistence gateway. The mutex guards the fields an
// autosave timer callback may touch concurrently with caller-thread
// operations; the database handles its own synchronization.
type Service struct {
	db  *db.DB
	log zerolog.Logger

	mu          sync.Mutex
	initialized bool
	currentName string

	placeholder string
	listeners   []func(Event)
}

// New creates a gateway over the given database. Initialize must be
// called before any persistence operation.
func New(database *db.DB, log zerolog.Logger) *Service {
	return &Service{
		db:          database,
		log:         log,
		currentName: DefaultPlaylistName,
		placeholder: defaultPlaceholderImage,
	}
}

// SetPlaceholderImage overrides the image source substituted for audio
// items stored without one.
func (s *Service) SetPlaceholderImage(source string) {
	if source != "" {
		s.placeholder = source
	}
}

// Initialize makes sure the default playlist record exists and marks
// the gateway ready. Calling it again is a no-op.
func (s *Service) Initialize() error {
	if s.IsInitialized() {
		return nil
	}

	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM playlists WHERE name = ?`, DefaultPlaylistName,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		err := s.db.Exec("create default playlist",
			`INSERT INTO playlists (name, play_mode, current_index) VALUES (?, ?, ?)`,
			DefaultPlaylistName, int(playlist.PlayModeLoop), -1)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	return nil
}

// Shutdown marks the gateway unusable. The database connection itself
// is owned by the caller.
func (s *Service) Shutdown() {
	s.mu.Lock()
	s.initialized = false
	s.mu.Unlock()
}

// IsInitialized reports whether Initialize succeeded.
func (s *Service) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// CurrentPlaylistName returns the name the last save or load resolved
// to; auto-saves with an empty name target it.
func (s *Service) CurrentPlaylistName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentName
}

func (s *Service) setCurrentName(name string) {
	s.mu.Lock()
	s.currentName = name
	s.mu.Unlock()
}

// Subscribe registers fn to receive persistence events.
func (s *Service) Subscribe(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(e Event) {
	for _, fn := range s.listeners {
		fn(e)
	}
}

func (s *Service) checkInitialized() error {
	if !s.IsInitialized() {
		return ErrNotInitialized
	}
	return nil
}

// parseTimestamp reads the SQLite CURRENT_TIMESTAMP text format.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// normalizeImage substitutes the placeholder for missing cover art.
func (s *Service) normalizeImage(source string) string {
	if source == "" {
		return s.placeholder
	}
	return source
}
