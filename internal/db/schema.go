package db

import "database/sql"

// initSchema creates the three playlist tables and their indexes inside
// a single transaction, so a failed first run never leaves a partial
// schema behind.
func initSchema(d *DB) error {
	return d.WithTx("create schema", func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS playlists (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				play_mode INTEGER DEFAULT 0,
				current_index INTEGER DEFAULT -1
			);

			CREATE TABLE IF NOT EXISTS audio_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				author_name TEXT,
				audio_source TEXT NOT NULL UNIQUE,
				image_source TEXT,
				video_source TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS playlist_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
				audio_item_id INTEGER NOT NULL REFERENCES audio_items(id) ON DELETE CASCADE,
				position INTEGER NOT NULL,
				UNIQUE(playlist_id, position)
			);

			CREATE INDEX IF NOT EXISTS idx_audio_items_source ON audio_items(audio_source);
			CREATE INDEX IF NOT EXISTS idx_playlist_items_playlist ON playlist_items(playlist_id);
			CREATE INDEX IF NOT EXISTS idx_playlist_items_position ON playlist_items(playlist_id, position);
			CREATE INDEX IF NOT EXISTS idx_playlists_name ON playlists(name);
		`)
		return err
	})
}
