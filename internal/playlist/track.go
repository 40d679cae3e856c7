package playlist

// Track represents a single audio track's metadata and source locators.
type Track struct {
	Title       string
	Author      string
	AudioSource string // unique key within a playlist
	ImageSource string
	VideoSource string
	Position    int // assigned by the storage layer on load
}
