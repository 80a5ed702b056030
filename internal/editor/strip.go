package editor

import "strings"

// Empty attribute patterns left behind after marker substitution in HTML
// templates. The leading space is part of the pattern so the surrounding
// markup closes up cleanly.
var emptyAttributes = []string{` class=""`, ` className=""`}

// StripMarked deletes every line of path containing marker as a substring
// and removes empty class/className attributes from the surviving lines.
// Running StripMarked twice is a no-op the second time.
func StripMarked(path, marker string) error {
	return Transform(path, func(line string) Decision {
		if strings.Contains(line, marker) {
			return Delete()
		}

		cleaned := line
		for _, attr := range emptyAttributes {
			cleaned = strings.ReplaceAll(cleaned, attr, "")
		}
		if cleaned != line {
			return Replace(cleaned)
		}

		return Keep()
	})
}
