// Package lyrics parses LRC files and locates them next to audio files.
package lyrics

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line is a single timestamped lyric line.
type Line struct {
	Time time.Duration
	Text string
}

// Lyrics holds parsed lyric lines with optional metadata from LRC tags.
type Lyrics struct {
	Lines  []Line
	Title  string
	Artist string
	Album  string
}

// LineAt returns the index of the line active at the given playback
// position, or -1 if no line has started yet.
func (l *Lyrics) LineAt(pos time.Duration) int {
	if len(l.Lines) == 0 {
		return -1
	}
	idx := -1
	for i, line := range l.Lines {
		if line.Time > pos {
			break
		}
		idx = i
	}
	return idx
}

var (
	// Matches time tags like [00:12.34], [00:12.345] or [00:12]
	timeTagRe = regexp.MustCompile(`\[(\d{1,2}):(\d{2})(?:\.(\d{1,3}))?\]`)

	// Matches metadata tags like [ar:Artist Name]
	metaTagRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// ParseLRC parses LRC content. Lines may carry several time tags, each
// producing a separate entry; the result is sorted by timestamp.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	out := &Lyrics{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		if meta := metaTagRe.FindStringSubmatch(raw); meta != nil {
			value := strings.TrimSpace(meta[2])
			switch meta[1] {
			case "ar":
				out.Artist = value
			case "ti":
				out.Title = value
			case "al":
				out.Album = value
			}
			continue
		}

		tags := timeTagRe.FindAllStringSubmatchIndex(raw, -1)
		if len(tags) == 0 {
			continue
		}

		text := strings.TrimSpace(raw[tags[len(tags)-1][1]:])
		if text == "" {
			// Time tags with no lyric text carry no information.
			continue
		}

		for _, tag := range tags {
			ts, err := parseTimeTag(raw[tag[0]:tag[1]])
			if err != nil {
				continue
			}
			out.Lines = append(out.Lines, Line{Time: ts, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out.Lines, func(i, j int) bool {
		return out.Lines[i].Time < out.Lines[j].Time
	})
	return out, nil
}

func parseTimeTag(s string) (time.Duration, error) {
	m := timeTagRe.FindStringSubmatch(s)
	if m == nil {
		return 0, nil
	}

	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, err
	}

	var millis int
	if m[3] != "" {
		millis, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, err
		}
		// Two-digit fractions are centiseconds, three-digit are milliseconds.
		if len(m[3]) < 3 {
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
