// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Storage operations
	OpStorageInit     Op = "initialize playlist storage"
	OpPlaylistSave    Op = "save playlist"
	OpPlaylistLoad    Op = "load playlist"
	OpPlaylistDelete  Op = "delete playlist"
	OpPlaylistRename  Op = "rename playlist"
	OpPlaylistList    Op = "list playlists"
	OpPlaylistCleanup Op = "clean up unused audio items"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpAutosave      Op = "auto-save playlist"

	// Import operations
	OpImportFile Op = "import audio file"
	OpImportTags Op = "read file tags"

	// Lyrics operations
	OpLyricsLoad Op = "load lyrics"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
