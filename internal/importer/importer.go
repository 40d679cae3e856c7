// Package importer builds playlist tracks from local audio files by
// reading their tag metadata.
package importer

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dhowden/tag"

	"songplayer/internal/playlist"
)

const appName = "songplayer"

// ReadTrack reads tag metadata from an audio file and returns a track
// ready for the playlist store. Title falls back to the file name when
// the tags carry none; embedded cover art is extracted to the cache
// directory and referenced by path.
func ReadTrack(path string) (playlist.Track, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return playlist.Track{}, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return playlist.Track{}, err
	}
	defer f.Close()

	t := playlist.Track{
		Title:       fallbackTitle(abs),
		AudioSource: sourceURI(abs),
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		// Unreadable tags are not fatal: the file is still playable
		// under its filename.
		return t, nil
	}

	if title := strings.TrimSpace(m.Title()); title != "" {
		t.Title = title
	}
	t.Author = strings.TrimSpace(m.Artist())

	if pic := m.Picture(); pic != nil {
		if coverPath, err := extractCover(abs, pic); err == nil {
			t.ImageSource = sourceURI(coverPath)
		}
	}

	return t, nil
}

// ImportFiles reads every path and returns the tracks that could be
// built, together with the paths that failed.
func ImportFiles(paths []string) ([]playlist.Track, []string) {
	var (
		tracks []playlist.Track
		failed []string
	)
	for _, path := range paths {
		t, err := ReadTrack(path)
		if err != nil {
			failed = append(failed, path)
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks, failed
}

// fallbackTitle derives a display title from the file name.
func fallbackTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sourceURI turns an absolute path into a file URI locator.
func sourceURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// extractCover writes embedded cover art to the cache directory,
// keyed by the audio file path so re-imports reuse the same file.
func extractCover(audioPath string, pic *tag.Picture) (string, error) {
	if len(pic.Data) == 0 {
		return "", fmt.Errorf("empty picture data")
	}

	ext := pic.Ext
	if ext == "" {
		ext = "jpg"
	}

	sum := sha1.Sum([]byte(audioPath))
	name := filepath.Join(appName, "covers", hex.EncodeToString(sum[:])+"."+ext)

	coverPath, err := xdg.CacheFile(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(coverPath); err == nil {
		return coverPath, nil
	}
	if err := os.WriteFile(coverPath, pic.Data, 0o600); err != nil {
		return "", err
	}
	return coverPath, nil
}
