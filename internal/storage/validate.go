package storage

import (
	"errors"
	"regexp"
)

// Validation failures for playlist names. These are surfaced
// synchronously by save and rename before any storage is touched.
var (
	ErrEmptyName    = errors.New("playlist name cannot be empty")
	ErrNameTooLong  = errors.New("playlist name exceeds 100 characters")
	ErrInvalidChars = errors.New(`playlist name contains invalid characters (<>:"/\|?*)`)
)

var invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// ValidateName checks a playlist name against the naming rules.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len([]rune(name)) > 100 {
		return ErrNameTooLong
	}
	if invalidNameChars.MatchString(name) {
		return ErrInvalidChars
	}
	return nil
}
