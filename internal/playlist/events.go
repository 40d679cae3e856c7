package playlist

// Event is a change notification emitted by a Store.
// Delivery is synchronous: every mutating operation notifies all
// subscribers before it returns.
type Event interface {
	event()
}

// RowsInserted is emitted after tracks are appended.
// First and Last are the inclusive bounds of the new rows.
type RowsInserted struct {
	First int
	Last  int
}

// RowsRemoved is emitted after tracks are removed.
type RowsRemoved struct {
	First int
	Last  int
}

// ListReset is emitted when the whole list is cleared at once.
type ListReset struct{}

// CurrentChanged is emitted when the current track changes.
// Track is nil when nothing is current anymore.
type CurrentChanged struct {
	Track *Track
}

// ModeChanged is emitted when the play mode changes.
type ModeChanged struct {
	Mode PlayMode
}

// DuplicateSkipped is emitted when an add is rejected because the
// audio source is already present. This is not an error condition.
type DuplicateSkipped struct {
	Title  string
	Reason string
}

// SearchStateChanged is emitted when an in-playlist search starts or
// finishes.
type SearchStateChanged struct {
	Searching bool
}

func (RowsInserted) event() {}

func (RowsRemoved) event() {}

func (ListReset) event() {}

func (CurrentChanged) event() {}

func (ModeChanged) event() {}

func (DuplicateSkipped) event() {}

func (SearchStateChanged) event() {}
