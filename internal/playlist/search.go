package playlist

import "strings"

// SearchResult pairs a matched track with its index in the playlist,
// so a caller can jump to the original position.
type SearchResult struct {
	Track         *Track
	OriginalIndex int
}

// Search returns the tracks whose title or author contains text,
// case-insensitively, in playlist order. A blank query returns
// nothing. SearchStateChanged events bracket the scan. Duplicate
// sources never occur here since AddAudio suppresses them.
func (s *Store) Search(text string) []SearchResult {
	text = strings.TrimSpace(text)
	if text == "" || len(s.tracks) == 0 {
		return nil
	}

	s.notify(SearchStateChanged{Searching: true})
	defer s.notify(SearchStateChanged{Searching: false})

	query := strings.ToLower(text)

	var results []SearchResult
	for i, t := range s.tracks {
		if matchesQuery(t, query) {
			results = append(results, SearchResult{Track: t, OriginalIndex: i})
		}
	}
	return results
}

func matchesQuery(t *Track, query string) bool {
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Author), query)
}
