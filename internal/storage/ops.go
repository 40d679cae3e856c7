package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"songplayer/internal/db"
	"songplayer/internal/playlist"
)

// DeletePlaylist removes the named playlist; its join rows go with it
// (cascade). Audio items referenced by other playlists are untouched,
// orphaned ones remain until CleanupUnusedAudioItems. The default
// playlist is refused.
func (s *Service) DeletePlaylist(name string) error {
	if err := s.checkInitialized(); err != nil {
		return err
	}
	if name == DefaultPlaylistName {
		return ErrDefaultPlaylist
	}

	err := s.db.Exec("delete playlist", `DELETE FROM playlists WHERE name = ?`, name)
	if err != nil {
		return err
	}

	s.log.Debug().Str("playlist", name).Msg("playlist deleted")
	s.notify(Deleted{Name: name})
	return nil
}

// RenamePlaylist renames oldName to newName. The new name is validated
// like a save; a missing old playlist reports ErrNotFound; a clash with
// an existing name surfaces as the storage uniqueness failure.
func (s *Service) RenamePlaylist(oldName, newName string) error {
	if err := s.checkInitialized(); err != nil {
		return err
	}
	if err := ValidateName(newName); err != nil {
		return err
	}

	var id int64
	err := s.db.QueryRow(`SELECT id FROM playlists WHERE name = ?`, oldName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("playlist %q does not exist: %w", oldName, ErrNotFound)
	}
	if err != nil {
		return err
	}

	err = s.db.Exec("rename playlist", `
		UPDATE playlists SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, newName, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.currentName == oldName {
		s.currentName = newName
	}
	s.mu.Unlock()
	s.log.Debug().Str("from", oldName).Str("to", newName).Msg("playlist renamed")
	s.notify(Renamed{OldName: oldName, NewName: newName})
	return nil
}

// UpdateState updates only the play mode and current index of the
// named playlist, leaving its items alone.
func (s *Service) UpdateState(name string, mode playlist.PlayMode, currentIndex int) error {
	if err := s.checkInitialized(); err != nil {
		return err
	}
	return s.db.Exec("update playlist state", `
		UPDATE playlists SET play_mode = ?, current_index = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, int(mode), currentIndex, name)
}

// AddAudio appends a track to a stored playlist, creating the playlist
// when it does not exist yet.
func (s *Service) AddAudio(name string, t playlist.Track) error {
	info, err := s.LoadPlaylist(name)
	if errors.Is(err, ErrNotFound) {
		info = &PlaylistInfo{Name: name, PlayMode: playlist.PlayModeLoop, CurrentIndex: -1}
	} else if err != nil {
		return err
	}
	info.Tracks = append(info.Tracks, t)
	return s.SavePlaylist(name, info.Tracks, info.PlayMode, info.CurrentIndex)
}

// RemoveAudio removes the track at position from a stored playlist,
// shifting the stored current index when it pointed at or past the
// removed row.
func (s *Service) RemoveAudio(name string, position int) error {
	info, err := s.LoadPlaylist(name)
	if err != nil {
		return err
	}
	if position < 0 || position >= len(info.Tracks) {
		return fmt.Errorf("position %d out of range for playlist %q", position, name)
	}

	info.Tracks = append(info.Tracks[:position], info.Tracks[position+1:]...)
	if info.CurrentIndex >= position && info.CurrentIndex > 0 {
		info.CurrentIndex--
	}
	return s.SavePlaylist(name, info.Tracks, info.PlayMode, info.CurrentIndex)
}

// MoveAudio moves a track between positions in a stored playlist.
func (s *Service) MoveAudio(name string, from, to int) error {
	info, err := s.LoadPlaylist(name)
	if err != nil {
		return err
	}
	if from < 0 || from >= len(info.Tracks) || to < 0 || to >= len(info.Tracks) {
		return fmt.Errorf("move %d -> %d out of range for playlist %q", from, to, name)
	}
	if from != to {
		t := info.Tracks[from]
		info.Tracks = append(info.Tracks[:from], info.Tracks[from+1:]...)
		rest := append([]playlist.Track{t}, info.Tracks[to:]...)
		info.Tracks = append(info.Tracks[:to], rest...)
	}
	return s.SavePlaylist(name, info.Tracks, info.PlayMode, info.CurrentIndex)
}

// FindDuplicateAudioItems returns audio items that share a title and
// author with another item under a different source, in stored order.
// Same-source duplicates cannot exist (the source column is unique).
func (s *Service) FindDuplicateAudioItems() ([]playlist.Track, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("find duplicate audio items", `
		SELECT a.title, a.author_name, a.audio_source, a.image_source, a.video_source
		FROM audio_items a
		JOIN (
			SELECT title, author_name FROM audio_items
			GROUP BY title, author_name HAVING COUNT(*) > 1
		) d ON a.title = d.title AND a.author_name IS d.author_name
		ORDER BY a.title, a.author_name, a.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []playlist.Track
	for rows.Next() {
		var (
			t                    playlist.Track
			author, image, video sql.NullString
		)
		if err := rows.Scan(&t.Title, &author, &t.AudioSource, &image, &video); err != nil {
			return nil, err
		}
		t.Author = db.NullStringValue(author)
		t.ImageSource = s.normalizeImage(db.NullStringValue(image))
		t.VideoSource = db.NullStringValue(video)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// CleanupUnusedAudioItems deletes audio items no playlist references
// and returns how many were removed.
func (s *Service) CleanupUnusedAudioItems() (int64, error) {
	if err := s.checkInitialized(); err != nil {
		return 0, err
	}
	return s.db.ExecRows("cleanup audio items", `
		DELETE FROM audio_items
		WHERE id NOT IN (SELECT DISTINCT audio_item_id FROM playlist_items)
	`)
}

// PlaylistCount returns the number of stored playlists.
func (s *Service) PlaylistCount() (int, error) {
	if err := s.checkInitialized(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM playlists`).Scan(&count)
	return count, err
}

// AudioItemCount returns the number of stored audio items.
func (s *Service) AudioItemCount() (int, error) {
	if err := s.checkInitialized(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM audio_items`).Scan(&count)
	return count, err
}

// Stats summarizes storage contents.
type Stats struct {
	Playlists   int
	AudioItems  int
	Initialized bool
}

// GetStats returns storage statistics.
func (s *Service) GetStats() (Stats, error) {
	initialized := s.IsInitialized()
	playlists, err := s.PlaylistCount()
	if err != nil {
		return Stats{Initialized: initialized}, err
	}
	items, err := s.AudioItemCount()
	if err != nil {
		return Stats{Playlists: playlists, Initialized: initialized}, err
	}
	return Stats{Playlists: playlists, AudioItems: items, Initialized: initialized}, nil
}
