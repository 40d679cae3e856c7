package storage

// Event is a persistence notification delivered synchronously to
// subscribers after the corresponding operation committed.
type Event interface {
	event()
}

// Saved is emitted after a successful SavePlaylist.
type Saved struct {
	Name string
}

// Loaded is emitted after a successful LoadPlaylist.
type Loaded struct {
	Name string
}

// Deleted is emitted after a successful DeletePlaylist.
type Deleted struct {
	Name string
}

// Renamed is emitted after a successful RenamePlaylist.
type Renamed struct {
	OldName string
	NewName string
}

func (Saved) event()   {}
func (Loaded) event()  {}
func (Deleted) event() {}
func (Renamed) event() {}
