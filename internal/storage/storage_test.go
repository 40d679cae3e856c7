package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songplayer/internal/db"
	"songplayer/internal/playlist"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	s := New(database, zerolog.Nop())
	require.NoError(t, s.Initialize())
	return s
}

func sampleTracks(n int) []playlist.Track {
	tracks := make([]playlist.Track, n)
	for i := range tracks {
		tracks[i] = playlist.Track{
			Title:       fmt.Sprintf("Track %03d", i),
			Author:      "Artist",
			AudioSource: fmt.Sprintf("file:///music/%03d.mp3", i),
		}
	}
	return tracks
}

func TestService_UninitializedFailsFast(t *testing.T) {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	defer database.Close()

	s := New(database, zerolog.Nop())

	err = s.SavePlaylist("X", nil, playlist.PlayModeLoop, -1)
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.LoadPlaylist("X")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.PlaylistNames()
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.ErrorIs(t, s.DeletePlaylist("X"), ErrNotInitialized)
	assert.ErrorIs(t, s.RenamePlaylist("X", "Y"), ErrNotInitialized)
}

func TestService_InitializeCreatesDefaultPlaylist(t *testing.T) {
	s := newTestService(t)

	names, err := s.PlaylistNames()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultPlaylistName}, names)
	assert.True(t, s.IsInitialized())
}

func TestService_SaveLoadRoundTrip(t *testing.T) {
	s := newTestService(t)
	tracks := []playlist.Track{
		{Title: "A", Author: "X", AudioSource: "file:///a.mp3", ImageSource: "file:///a.jpg"},
		{Title: "B", Author: "Y", AudioSource: "file:///b.mp3"},
		{Title: "C", Author: "Z", AudioSource: "file:///c.mp3", VideoSource: "file:///c.mp4"},
	}

	require.NoError(t, s.SavePlaylist("Road Trip", tracks, playlist.PlayModeLoop, 1))

	info, err := s.LoadPlaylist("Road Trip")
	require.NoError(t, err)
	assert.NotEqual(t, int64(-1), info.ID)
	assert.Equal(t, "Road Trip", info.Name)
	assert.Equal(t, playlist.PlayModeLoop, info.PlayMode)
	assert.Equal(t, 1, info.CurrentIndex)
	require.Len(t, info.Tracks, 3)
	for i, want := range []string{"A", "B", "C"} {
		assert.Equal(t, want, info.Tracks[i].Title)
		assert.Equal(t, i, info.Tracks[i].Position)
	}
	assert.Equal(t, "file:///c.mp4", info.Tracks[2].VideoSource)
}

func TestService_SaveLoadRoundTrip_ManyTracks(t *testing.T) {
	s := newTestService(t)
	tracks := sampleTracks(100)

	require.NoError(t, s.SavePlaylist("Big", tracks, playlist.PlayModeShuffle, 42))

	info, err := s.LoadPlaylist("Big")
	require.NoError(t, err)
	assert.Equal(t, playlist.PlayModeShuffle, info.PlayMode)
	assert.Equal(t, 42, info.CurrentIndex)
	require.Len(t, info.Tracks, 100)
	for i := range info.Tracks {
		assert.Equal(t, tracks[i].AudioSource, info.Tracks[i].AudioSource)
	}
}

func TestService_SaveOverwritesExisting(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(5), playlist.PlayModeLoop, 0))
	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(2), playlist.PlayModeRepeatOne, 1))

	info, err := s.LoadPlaylist("Mix")
	require.NoError(t, err)
	assert.Len(t, info.Tracks, 2)
	assert.Equal(t, playlist.PlayModeRepeatOne, info.PlayMode)
	assert.Equal(t, 1, info.CurrentIndex)
}

func TestService_SaveEmptyNameUsesCurrent(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.SavePlaylist("", sampleTracks(2), playlist.PlayModeLoop, 0))
	assert.Equal(t, DefaultPlaylistName, s.CurrentPlaylistName())

	info, err := s.LoadPlaylist(DefaultPlaylistName)
	require.NoError(t, err)
	assert.Len(t, info.Tracks, 2)
}

func TestService_SaveValidatesName(t *testing.T) {
	s := newTestService(t)
	tracks := sampleTracks(1)

	longName := ""
	for i := 0; i < 101; i++ {
		longName += "x"
	}

	assert.ErrorIs(t, s.SavePlaylist("bad/name", tracks, playlist.PlayModeLoop, -1), ErrInvalidChars)
	assert.ErrorIs(t, s.SavePlaylist(longName, tracks, playlist.PlayModeLoop, -1), ErrNameTooLong)
	assert.ErrorIs(t, s.RenamePlaylist(DefaultPlaylistName, `a<b`), ErrInvalidChars)
}

func TestService_LoadMissingPlaylist(t *testing.T) {
	s := newTestService(t)

	_, err := s.LoadPlaylist("No Such List")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_LoadEmptyPlaylistNotFound(t *testing.T) {
	s := newTestService(t)

	require.NoError(t, s.SavePlaylist("Empty", nil, playlist.PlayModeLoop, -1))

	_, err := s.LoadPlaylist("Empty")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_AudioItemsDeduplicatedAcrossPlaylists(t *testing.T) {
	s := newTestService(t)
	tracks := sampleTracks(3)

	require.NoError(t, s.SavePlaylist("First", tracks, playlist.PlayModeLoop, -1))
	require.NoError(t, s.SavePlaylist("Second", tracks, playlist.PlayModeLoop, -1))

	count, err := s.AudioItemCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestService_DeletePlaylist(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Gone", sampleTracks(2), playlist.PlayModeLoop, -1))

	require.NoError(t, s.DeletePlaylist("Gone"))

	_, err := s.LoadPlaylist("Gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteDefaultRefused(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist(DefaultPlaylistName, sampleTracks(1), playlist.PlayModeLoop, 0))

	assert.ErrorIs(t, s.DeletePlaylist(DefaultPlaylistName), ErrDefaultPlaylist)

	info, err := s.LoadPlaylist(DefaultPlaylistName)
	require.NoError(t, err)
	assert.Len(t, info.Tracks, 1)
}

func TestService_DeleteOrphansAudioItems(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Solo", sampleTracks(4), playlist.PlayModeLoop, -1))

	require.NoError(t, s.DeletePlaylist("Solo"))

	count, err := s.AudioItemCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count, "audio items stay until cleanup")

	removed, err := s.CleanupUnusedAudioItems()
	require.NoError(t, err)
	assert.EqualValues(t, 4, removed)

	count, err = s.AudioItemCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestService_FindDuplicateAudioItems(t *testing.T) {
	s := newTestService(t)
	tracks := []playlist.Track{
		{Title: "Same Song", Author: "Same Artist", AudioSource: "file:///copy1.mp3"},
		{Title: "Same Song", Author: "Same Artist", AudioSource: "file:///copy2.mp3"},
		{Title: "Unique Song", Author: "Same Artist", AudioSource: "file:///unique.mp3"},
	}
	require.NoError(t, s.SavePlaylist("Mix", tracks, playlist.PlayModeLoop, -1))

	dupes, err := s.FindDuplicateAudioItems()
	require.NoError(t, err)
	require.Len(t, dupes, 2)
	for _, d := range dupes {
		assert.Equal(t, "Same Song", d.Title)
	}
	assert.NotEqual(t, dupes[0].AudioSource, dupes[1].AudioSource)
}

func TestService_FindDuplicateAudioItems_None(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(3), playlist.PlayModeLoop, -1))

	dupes, err := s.FindDuplicateAudioItems()
	require.NoError(t, err)
	assert.Empty(t, dupes)
}

func TestService_RenamePlaylist(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Old Name", sampleTracks(2), playlist.PlayModeShuffle, 0))

	require.NoError(t, s.RenamePlaylist("Old Name", "New Name"))

	info, err := s.LoadPlaylist("New Name")
	require.NoError(t, err)
	assert.Equal(t, playlist.PlayModeShuffle, info.PlayMode)

	_, err = s.LoadPlaylist("Old Name")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_RenameMissingPlaylist(t *testing.T) {
	s := newTestService(t)

	assert.ErrorIs(t, s.RenamePlaylist("Ghost", "Anything"), ErrNotFound)
}

func TestService_RenameToExistingNameFails(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("One", sampleTracks(1), playlist.PlayModeLoop, -1))
	require.NoError(t, s.SavePlaylist("Two", sampleTracks(1), playlist.PlayModeLoop, -1))

	assert.Error(t, s.RenamePlaylist("One", "Two"))
}

func TestService_PlaylistNamesAlphabetical(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Zebra", sampleTracks(1), playlist.PlayModeLoop, -1))
	require.NoError(t, s.SavePlaylist("Alpha", sampleTracks(1), playlist.PlayModeLoop, -1))

	names, err := s.PlaylistNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", DefaultPlaylistName, "Zebra"}, names)
}

func TestService_UpdateState(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(3), playlist.PlayModeLoop, 0))

	require.NoError(t, s.UpdateState("Mix", playlist.PlayModeRepeatOne, 2))

	info, err := s.LoadPlaylist("Mix")
	require.NoError(t, err)
	assert.Equal(t, playlist.PlayModeRepeatOne, info.PlayMode)
	assert.Equal(t, 2, info.CurrentIndex)
	assert.Len(t, info.Tracks, 3)
}

func TestService_AddAudioToStoredPlaylist(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(2), playlist.PlayModeLoop, 0))

	err := s.AddAudio("Mix", playlist.Track{Title: "New", AudioSource: "file:///new.mp3"})
	require.NoError(t, err)

	info, err := s.LoadPlaylist("Mix")
	require.NoError(t, err)
	require.Len(t, info.Tracks, 3)
	assert.Equal(t, "New", info.Tracks[2].Title)
}

func TestService_AddAudioCreatesMissingPlaylist(t *testing.T) {
	s := newTestService(t)

	err := s.AddAudio("Fresh", playlist.Track{Title: "First", AudioSource: "file:///first.mp3"})
	require.NoError(t, err)

	info, err := s.LoadPlaylist("Fresh")
	require.NoError(t, err)
	require.Len(t, info.Tracks, 1)
	assert.Equal(t, playlist.PlayModeLoop, info.PlayMode)
	assert.Equal(t, -1, info.CurrentIndex)
}

func TestService_RemoveAudioAdjustsCurrentIndex(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(3), playlist.PlayModeLoop, 2))

	require.NoError(t, s.RemoveAudio("Mix", 0))

	info, err := s.LoadPlaylist("Mix")
	require.NoError(t, err)
	assert.Len(t, info.Tracks, 2)
	assert.Equal(t, 1, info.CurrentIndex)
}

func TestService_MoveAudio(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(3), playlist.PlayModeLoop, 0))

	require.NoError(t, s.MoveAudio("Mix", 0, 2))

	info, err := s.LoadPlaylist("Mix")
	require.NoError(t, err)
	got := []string{info.Tracks[0].Title, info.Tracks[1].Title, info.Tracks[2].Title}
	assert.Equal(t, []string{"Track 001", "Track 002", "Track 000"}, got)
}

func TestService_ImageSourceNormalizedOnLoad(t *testing.T) {
	s := newTestService(t)
	tracks := []playlist.Track{{Title: "A", AudioSource: "file:///a.mp3"}}

	require.NoError(t, s.SavePlaylist("Mix", tracks, playlist.PlayModeLoop, -1))

	info, err := s.LoadPlaylist("Mix")
	require.NoError(t, err)
	assert.Equal(t, defaultPlaceholderImage, info.Tracks[0].ImageSource)
}

func TestService_Events(t *testing.T) {
	s := newTestService(t)
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(1), playlist.PlayModeLoop, -1))
	_, err := s.LoadPlaylist("Mix")
	require.NoError(t, err)
	require.NoError(t, s.RenamePlaylist("Mix", "Remix"))
	require.NoError(t, s.DeletePlaylist("Remix"))

	require.Len(t, events, 4)
	assert.Equal(t, Saved{Name: "Mix"}, events[0])
	assert.Equal(t, Loaded{Name: "Mix"}, events[1])
	assert.Equal(t, Renamed{OldName: "Mix", NewName: "Remix"}, events[2])
	assert.Equal(t, Deleted{Name: "Remix"}, events[3])
}

func TestService_GetStats(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.SavePlaylist("Mix", sampleTracks(2), playlist.PlayModeLoop, -1))

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Playlists) // default + Mix
	assert.Equal(t, 2, stats.AudioItems)
	assert.True(t, stats.Initialized)
}

func TestService_ConcurrentSavesAndNameReads(t *testing.T) {
	s := newTestService(t)
	tracks := sampleTracks(2)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("List %d", i)
			for j := 0; j < 10; j++ {
				_ = s.SavePlaylist(name, tracks, playlist.PlayModeLoop, -1)
				_ = s.CurrentPlaylistName()
				_ = s.IsInitialized()
			}
		}(i)
	}
	wg.Wait()

	names, err := s.PlaylistNames()
	require.NoError(t, err)
	assert.Contains(t, names, s.CurrentPlaylistName())
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("My Playlist 2"))
	assert.ErrorIs(t, ValidateName(""), ErrEmptyName)
	assert.ErrorIs(t, ValidateName(`back\slash`), ErrInvalidChars)
	assert.ErrorIs(t, ValidateName("quest?ion"), ErrInvalidChars)
	assert.ErrorIs(t, ValidateName("star*"), ErrInvalidChars)
}
