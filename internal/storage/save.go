package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"songplayer/internal/playlist"
)

// SavePlaylist persists a playlist snapshot under name, replacing any
// existing content: the playlist record is upserted, its join rows are
// rewritten, and audio items are deduplicated by source across all
// playlists. The whole write is one transaction. An empty name targets
// the current playlist name.
func (s *Service) SavePlaylist(name string, tracks []playlist.Track, mode playlist.PlayMode, currentIndex int) error {
	if err := s.checkInitialized(); err != nil {
		return err
	}
	if name == "" {
		name = s.CurrentPlaylistName()
	}
	if err := ValidateName(name); err != nil {
		return err
	}

	err := s.db.WithTx("save playlist", func(tx *sql.Tx) error {
		playlistID, err := upsertPlaylist(tx, name, mode, currentIndex)
		if err != nil {
			return err
		}

		itemStmt, err := tx.Prepare(`
			INSERT INTO playlist_items (playlist_id, audio_item_id, position)
			VALUES (?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare playlist item insert: %w", err)
		}
		defer itemStmt.Close()

		for i, t := range tracks {
			audioItemID, err := getOrCreateAudioItem(tx, t)
			if err != nil {
				return fmt.Errorf("resolve audio item %q: %w", t.Title, err)
			}
			if _, err := itemStmt.Exec(playlistID, audioItemID, i); err != nil {
				return fmt.Errorf("add %q to playlist: %w", t.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.setCurrentName(name)
	s.log.Debug().Str("playlist", name).Int("tracks", len(tracks)).Msg("playlist saved")
	s.notify(Saved{Name: name})
	return nil
}

// upsertPlaylist updates an existing record (clearing its join rows) or
// inserts a new one, and returns the playlist id.
func upsertPlaylist(tx *sql.Tx, name string, mode playlist.PlayMode, currentIndex int) (int64, error) {
	var playlistID int64
	err := tx.QueryRow(`SELECT id FROM playlists WHERE name = ?`, name).Scan(&playlistID)
	switch {
	case err == nil:
		if _, err := tx.Exec(`DELETE FROM playlist_items WHERE playlist_id = ?`, playlistID); err != nil {
			return 0, fmt.Errorf("delete existing playlist items: %w", err)
		}
		if _, err := tx.Exec(`
			UPDATE playlists
			SET play_mode = ?, current_index = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, int(mode), currentIndex, playlistID); err != nil {
			return 0, fmt.Errorf("update playlist record: %w", err)
		}
		return playlistID, nil

	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.Exec(`
			INSERT INTO playlists (name, play_mode, current_index) VALUES (?, ?, ?)
		`, name, int(mode), currentIndex)
		if err != nil {
			return 0, fmt.Errorf("create playlist record: %w", err)
		}
		return result.LastInsertId()

	default:
		return 0, fmt.Errorf("look up playlist record: %w", err)
	}
}

// getOrCreateAudioItem resolves a track to its deduplicated audio item
// row, creating it on first sight of the audio source.
func getOrCreateAudioItem(tx *sql.Tx, t playlist.Track) (int64, error) {
	var id int64
	err := tx.QueryRow(
		`SELECT id FROM audio_items WHERE audio_source = ?`, t.AudioSource,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	result, err := tx.Exec(`
		INSERT INTO audio_items (title, author_name, audio_source, image_source, video_source)
		VALUES (?, ?, ?, ?, ?)
	`, t.Title, t.Author, t.AudioSource, t.ImageSource, t.VideoSource)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
