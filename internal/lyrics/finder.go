package lyrics

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// matchThreshold is the minimum fuzzy score for a directory-scan match.
const matchThreshold = 60.0

const cacheExpiry = 30 * time.Second

// Finder locates .lrc files for audio files. Directory listings are
// cached briefly since consecutive tracks usually share a directory.
type Finder struct {
	mu      sync.Mutex
	entries map[string]dirEntry
}

type dirEntry struct {
	files   []string
	scanned time.Time
}

func NewFinder() *Finder {
	return &Finder{entries: make(map[string]dirEntry)}
}

// Find returns the path of the best .lrc file for the audio file, or ""
// if none qualifies. An exact sibling match ("song.mp3" -> "song.lrc")
// wins; otherwise the audio file's directory is scanned and the
// closest-named .lrc above the score threshold is picked.
func (f *Finder) Find(audioPath string) string {
	if audioPath == "" {
		return ""
	}

	exact := lrcPathFor(audioPath)
	if info, err := os.Stat(exact); err == nil && !info.IsDir() {
		return exact
	}

	if _, err := os.Stat(audioPath); err != nil {
		return ""
	}

	base := baseName(audioPath)
	if base == "" {
		return ""
	}

	var best string
	var bestScore float64
	for _, candidate := range f.listLRC(filepath.Dir(audioPath)) {
		score := matchScore(base, baseName(candidate))
		if score >= matchThreshold && score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best
}

// Load parses the best .lrc file for the audio file. Returns nil with
// no error when no lyrics file exists.
func (f *Finder) Load(audioPath string) (*Lyrics, error) {
	path := f.Find(audioPath)
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseLRC(file)
}

func (f *Finder) listLRC(dir string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if entry, ok := f.entries[dir]; ok && time.Since(entry.scanned) < cacheExpiry {
		return entry.files
	}

	var files []string
	dirents, err := os.ReadDir(dir)
	if err == nil {
		for _, d := range dirents {
			if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".lrc") {
				continue
			}
			files = append(files, filepath.Join(dir, d.Name()))
		}
	}

	f.entries[dir] = dirEntry{files: files, scanned: time.Now()}
	return files
}

func lrcPathFor(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return audioPath[:len(audioPath)-len(ext)] + ".lrc"
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var (
	punctRe = regexp.MustCompile(`[\(\)\[\]\{\}\-_\s\.\,\;\:\!\?\'"` + "`" + `\~\@\#\$\%\^\&\*\+\=\|\\\/<>]`)

	// Tags often appended to file names that say nothing about the song.
	noiseWords = []string{"lyrics", "lrc", "karaoke", "vocal", "instrumental", "remix", "edit", "version"}
)

func normalizeName(name string) string {
	s := strings.ToLower(name)
	s = punctRe.ReplaceAllString(s, "")
	for _, w := range noiseWords {
		s = strings.ReplaceAll(s, w, "")
	}
	return strings.TrimSpace(s)
}

// matchScore rates how likely an .lrc base name belongs to an audio base
// name, on a 0-100 scale. Identical normalized names score 100,
// containment scores 75-95 weighted by length ratio, and anything else
// falls back to shared-character overlap capped at 60.
func matchScore(audioName, lrcName string) float64 {
	a := normalizeName(audioName)
	l := normalizeName(lrcName)
	if a == "" || l == "" {
		return 0
	}
	if a == l {
		return 100
	}
	if strings.Contains(l, a) {
		return 80 + float64(len(a))/float64(len(l))*15
	}
	if strings.Contains(a, l) {
		return 75 + float64(len(l))/float64(len(a))*10
	}

	common := 0
	for _, r := range a {
		if strings.ContainsRune(l, r) {
			common++
		}
	}
	maxLen := len([]rune(a))
	if n := len([]rune(l)); n > maxLen {
		maxLen = n
	}
	return float64(common) / float64(maxLen) * 60
}
