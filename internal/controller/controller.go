// Package controller wires the playlist store, the navigator, the
// persistence gateway and the playback engine together, and owns the
// debounced auto-save of the default playlist.
package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"songplayer/internal/config"
	"songplayer/internal/errmsg"
	"songplayer/internal/importer"
	"songplayer/internal/lyrics"
	"songplayer/internal/player"
	"songplayer/internal/playlist"
	"songplayer/internal/storage"
)

// DefaultAutosaveDelay is the quiescence window before a structural
// playlist change is written to storage.
const DefaultAutosaveDelay = 2 * time.Second

// Controller is the playback orchestrator.
type Controller struct {
	store   *playlist.Store
	nav     *playlist.Navigator
	gateway *storage.Service
	engine  player.Engine
	log     zerolog.Logger

	autosave *autosaver
	lyrics   *lyrics.Finder

	// applying suppresses auto-save while a loaded playlist is being
	// replayed into the store.
	applying bool
}

// New creates a controller and wires all event subscriptions.
func New(store *playlist.Store, nav *playlist.Navigator, gateway *storage.Service, engine player.Engine, log zerolog.Logger) *Controller {
	c := &Controller{
		store:   store,
		nav:     nav,
		gateway: gateway,
		engine:  engine,
		log:     log,
	}
	c.autosave = newAutosaver(DefaultAutosaveDelay, c.saveSnapshot)
	c.lyrics = lyrics.NewFinder()

	nav.OnSourceRequest(c.onSourceRequested)
	store.Subscribe(c.onStoreEvent)

	return c
}

// NewWithConfig creates a controller with the configured autosave
// delay and lyrics toggle applied.
func NewWithConfig(store *playlist.Store, nav *playlist.Navigator, gateway *storage.Service, engine player.Engine, cfg *config.Config, log zerolog.Logger) *Controller {
	c := New(store, nav, gateway, engine, log)
	c.autosave.setDelay(cfg.AutosaveDelay())
	if !cfg.HasLyrics() {
		c.lyrics = nil
	}
	return c
}

// SetAutosaveDelay overrides the debounce delay. Intended for
// configuration and tests; takes effect on the next reschedule.
func (c *Controller) SetAutosaveDelay(d time.Duration) {
	c.autosave.setDelay(d)
}

// Run processes engine events until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.engine.FinishedChan():
			c.nav.HandleFinished()
		}
	}
}

// Close flushes any pending auto-save.
func (c *Controller) Close() {
	c.autosave.close()
}

func (c *Controller) onSourceRequested(source string) {
	if err := c.engine.Play(source); err != nil {
		c.log.Error().Msg(errmsg.FormatWith(errmsg.OpPlaybackStart, source, err))
	}
}

func (c *Controller) onStoreEvent(e playlist.Event) {
	switch ev := e.(type) {
	case playlist.CurrentChanged:
		if ev.Track == nil {
			c.engine.Stop()
		}
		c.scheduleAutosave()
	case playlist.RowsInserted, playlist.RowsRemoved, playlist.ListReset, playlist.ModeChanged:
		c.scheduleAutosave()
	case playlist.DuplicateSkipped:
		c.log.Info().Str("title", ev.Title).Msg("duplicate audio skipped")
	}
}

func (c *Controller) scheduleAutosave() {
	if c.applying {
		return
	}
	c.autosave.schedule(snapshot{
		tracks:       c.store.Snapshot(),
		mode:         c.store.PlayMode(),
		currentIndex: c.store.CurrentIndex(),
	})
}

// saveSnapshot writes an auto-save snapshot under the default playlist
// name. Failures are logged, never surfaced.
func (c *Controller) saveSnapshot(snap snapshot) {
	err := c.gateway.SavePlaylist(storage.DefaultPlaylistName, snap.tracks, snap.mode, snap.currentIndex)
	if err != nil {
		c.log.Error().Msg(errmsg.Format(errmsg.OpAutosave, err))
	}
}

// LoadDefaultPlaylist restores the default playlist on startup. A
// missing default playlist means first run and is not an error.
func (c *Controller) LoadDefaultPlaylist() error {
	info, err := c.gateway.LoadPlaylist(storage.DefaultPlaylistName)
	if errors.Is(err, storage.ErrNotFound) {
		c.log.Info().Msg("no saved default playlist, starting empty")
		return nil
	}
	if err != nil {
		return err
	}
	c.applyPlaylist(info)
	return nil
}

// applyPlaylist replays a loaded snapshot into the live store and
// restores the current-track pointer by index.
func (c *Controller) applyPlaylist(info *storage.PlaylistInfo) {
	c.applying = true
	defer func() { c.applying = false }()

	c.store.Clear()
	c.store.SetPlayMode(info.PlayMode)
	for _, t := range info.Tracks {
		c.store.AddAudio(t.Title, t.Author, t.AudioSource, t.ImageSource, t.VideoSource)
	}
	if t := c.store.TrackAt(info.CurrentIndex); t != nil {
		c.store.SetCurrentSong(t)
	}
}

// Playlist facade

// AddAudio appends a track to the live playlist.
func (c *Controller) AddAudio(title, author, audioSource, imageSource, videoSource string) {
	c.store.AddAudio(title, author, audioSource, imageSource, videoSource)
}

// RemoveAudio removes the track at index from the live playlist.
func (c *Controller) RemoveAudio(index int) {
	c.store.RemoveAudio(index)
}

// ClearPlaylist removes all tracks.
func (c *Controller) ClearPlaylist() {
	c.store.Clear()
}

// CurrentSong returns the current track, or nil.
func (c *Controller) CurrentSong() *playlist.Track {
	return c.store.CurrentSong()
}

// SetPlayMode updates the play mode.
func (c *Controller) SetPlayMode(mode playlist.PlayMode) {
	c.store.SetPlayMode(mode)
}

// SwitchToNextSong advances playback per the current play mode.
func (c *Controller) SwitchToNextSong() {
	c.nav.SwitchToNext()
}

// SwitchToPreviousSong goes back per the current play mode.
func (c *Controller) SwitchToPreviousSong() {
	c.nav.SwitchToPrevious()
}

// SwitchToAudioByIndex jumps to the track at index.
func (c *Controller) SwitchToAudioByIndex(index int) {
	c.nav.SwitchToIndex(index)
}

// SearchPlaylist finds tracks in the live playlist by title or author.
func (c *Controller) SearchPlaylist(text string) []playlist.SearchResult {
	return c.store.Search(text)
}

// LyricsForCurrent loads local lyrics for the current track, or nil
// when nothing is current, lyrics are disabled, the track is not a
// local file, or no .lrc file matches.
func (c *Controller) LyricsForCurrent() (*lyrics.Lyrics, error) {
	current := c.store.CurrentSong()
	if current == nil || c.lyrics == nil {
		return nil, nil
	}
	path := strings.TrimPrefix(current.AudioSource, "file://")
	if path == current.AudioSource {
		return nil, nil
	}
	l, err := c.lyrics.Load(path)
	if err != nil {
		return nil, errors.New(errmsg.FormatWith(errmsg.OpLyricsLoad, current.Title, err))
	}
	return l, nil
}

// PlayPause toggles the engine between playing and paused.
func (c *Controller) PlayPause() {
	c.engine.Toggle()
}

// ImportLocalAudio reads metadata for each file and appends the
// resulting tracks. Unreadable files are skipped with a warning.
func (c *Controller) ImportLocalAudio(paths []string) {
	for _, path := range paths {
		t, err := importer.ReadTrack(path)
		if err != nil {
			c.log.Warn().Msg(errmsg.FormatWith(errmsg.OpImportFile, path, err))
			continue
		}
		c.store.AddAudio(t.Title, t.Author, t.AudioSource, t.ImageSource, t.VideoSource)
	}
}

// Persistence facade

// SaveCurrentPlaylist saves the live playlist under name; an empty
// name targets the gateway's current playlist name.
func (c *Controller) SaveCurrentPlaylist(name string) error {
	return c.gateway.SavePlaylist(name, c.store.Snapshot(), c.store.PlayMode(), c.store.CurrentIndex())
}

// LoadPlaylist loads the named playlist into the live store.
func (c *Controller) LoadPlaylist(name string) error {
	info, err := c.gateway.LoadPlaylist(name)
	if err != nil {
		return err
	}
	c.applyPlaylist(info)
	return nil
}

// DeletePlaylist removes a stored playlist.
func (c *Controller) DeletePlaylist(name string) error {
	return c.gateway.DeletePlaylist(name)
}

// RenamePlaylist renames a stored playlist.
func (c *Controller) RenamePlaylist(oldName, newName string) error {
	return c.gateway.RenamePlaylist(oldName, newName)
}

// PlaylistNames lists stored playlists alphabetically.
func (c *Controller) PlaylistNames() ([]string, error) {
	return c.gateway.PlaylistNames()
}
