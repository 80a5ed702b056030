package editor

import (
	"os"
	"regexp"
	"strings"

	"github.com/conneroisu/plategen/internal/errors"
)

// PreserveToken marks a line for whitespace-preserving blanking: the line's
// content is replaced with an empty string instead of the line being
// deleted, keeping the vertical layout of the surrounding code intact.
const PreserveToken = "//_"

// InjectOptions controls how injected source text is formatted.
type InjectOptions struct {
	// IndentLevel prefixes each non-blank injected line with 2 spaces per
	// level. Ignored when IndentSpaces is set.
	IndentLevel int
	// IndentSpaces prefixes each non-blank injected line with exactly this
	// many spaces. Takes precedence over IndentLevel.
	IndentSpaces int
	// LeadingBlankLine prefixes the injected block with one blank line.
	LeadingBlankLine bool
	// DropBlankLines reproduces the historical behavior of removing blank
	// lines from indented source entirely. The default preserves blank
	// lines, leaving them unindented.
	DropBlankLines bool
}

// Inject replaces every line of targetPath that ends with token by the
// contents of sourcePath, formatted per opts, and writes the target back.
// A line containing PreserveToken anywhere is blanked instead; if the same
// line also ends with token, the injection wins.
//
// Both files are read fully before the target is mutated. One matching
// line becomes a multi-line block, so the target's line count grows by the
// size of the injected source.
func Inject(targetPath, token, sourcePath string, opts InjectOptions) error {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.ErrFileNotFound(sourcePath, err).WithComponent("editor")
	}

	block := buildBlock(string(src), opts)
	splice := regexp.MustCompile(regexp.QuoteMeta(token) + "$")

	return Transform(targetPath, func(line string) Decision {
		if splice.MatchString(strings.TrimSuffix(line, "\r")) {
			return Replace(block)
		}
		if strings.Contains(line, PreserveToken) {
			return Replace("")
		}

		return Keep()
	})
}

// buildBlock formats source text for splicing: indentation of non-blank
// lines, removal of exactly one trailing blank line if present, and an
// optional leading blank line.
func buildBlock(src string, opts InjectOptions) string {
	text := src

	indent := ""
	switch {
	case opts.IndentSpaces > 0:
		indent = strings.Repeat(" ", opts.IndentSpaces)
	case opts.IndentLevel > 0:
		indent = strings.Repeat(" ", 2*opts.IndentLevel)
	}

	if indent != "" {
		lines := strings.Split(text, "\n")
		out := make([]string, 0, len(lines))
		for _, line := range lines {
			if line == "" {
				if !opts.DropBlankLines {
					out = append(out, "")
				}
				continue
			}
			out = append(out, indent+line)
		}
		text = strings.Join(out, "\n")
	}

	// Drop a single trailing blank line, never more.
	text = strings.TrimSuffix(text, "\n")

	if opts.LeadingBlankLine {
		text = "\n" + text
	}

	return text
}
