package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"songplayer/internal/db"
	"songplayer/internal/playlist"
)

// LoadPlaylist reconstructs the named playlist: its tracks ordered by
// stored position, play mode, and current index. Missing and empty
// playlists both report ErrNotFound. The live store is not touched;
// applying the result is the caller's job.
func (s *Service) LoadPlaylist(name string) (*PlaylistInfo, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}

	info, err := s.readPlaylistRecord(name)
	if err != nil {
		return nil, err
	}

	info.Tracks, err = s.readPlaylistTracks(info.ID)
	if err != nil {
		return nil, err
	}
	if len(info.Tracks) == 0 {
		return nil, fmt.Errorf("playlist %q has no items: %w", name, ErrNotFound)
	}

	s.setCurrentName(name)
	s.log.Debug().Str("playlist", name).Int("tracks", len(info.Tracks)).Msg("playlist loaded")
	s.notify(Loaded{Name: name})
	return info, nil
}

func (s *Service) readPlaylistRecord(name string) (*PlaylistInfo, error) {
	var (
		info                 PlaylistInfo
		createdAt, updatedAt sql.NullString
		mode                 int
	)
	err := s.db.QueryRow(`
		SELECT id, name, created_at, updated_at, play_mode, current_index
		FROM playlists
		WHERE name = ?
	`, name).Scan(&info.ID, &info.Name, &createdAt, &updatedAt, &mode, &info.CurrentIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playlist %q does not exist: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	info.CreatedAt = parseTimestamp(db.NullStringValue(createdAt))
	info.UpdatedAt = parseTimestamp(db.NullStringValue(updatedAt))
	info.PlayMode = playlist.PlayMode(mode)
	return &info, nil
}

func (s *Service) readPlaylistTracks(playlistID int64) ([]playlist.Track, error) {
	rows, err := s.db.Query("load playlist items", `
		SELECT a.title, a.author_name, a.audio_source, a.image_source, a.video_source, p.position
		FROM audio_items a
		JOIN playlist_items p ON a.id = p.audio_item_id
		WHERE p.playlist_id = ?
		ORDER BY p.position
	`, playlistID)
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
		if err := rows.Scan(&t.Title, &author, &t.AudioSource, &image, &video, &t.Position); err != nil {
			return nil, err
		}
		t.Author = db.NullStringValue(author)
		t.ImageSource = s.normalizeImage(db.NullStringValue(image))
		t.VideoSource = db.NullStringValue(video)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// PlaylistNames returns all playlist names in alphabetical order.
func (s *Service) PlaylistNames() ([]string, error) {
	if err := s.checkInitialized(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("list playlists", `SELECT name FROM playlists ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
