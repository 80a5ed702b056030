//go:build property
// +build property

package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genLine produces printable lines free of the markers the properties
// inject themselves.
func genLine() gopter.Gen {
	return gen.RegexMatch(`^[a-zA-Z0-9 .;(){}=]*$`)
}

// TestStripProperties tests marker stripping invariants
func TestStripProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: after stripping, no line contains the marker
	properties.Property("strip removes every marked line", prop.ForAll(
		func(lines []string, markEvery int) bool {
			if markEvery < 1 {
				return true
			}

			dir, err := os.MkdirTemp("", "strip-prop")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			marked := make([]string, len(lines))
			copy(marked, lines)
			for i := range marked {
				if i%markEvery == 0 {
					marked[i] += " __MARK__"
				}
			}

			path := filepath.Join(dir, "f.txt")
			if err := os.WriteFile(path, []byte(strings.Join(marked, "\n")), 0644); err != nil {
				return false
			}

			if err := StripMarked(path, "__MARK__"); err != nil {
				return false
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return false
			}

			return !strings.Contains(string(data), "__MARK__")
		},
		gen.SliceOfN(20, genLine()),
		gen.IntRange(1, 5),
	))

	// Property: stripping twice equals stripping once
	properties.Property("strip is idempotent", prop.ForAll(
		func(lines []string) bool {
			dir, err := os.MkdirTemp("", "strip-prop")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			path := filepath.Join(dir, "f.txt")
			if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
				return false
			}

			if err := StripMarked(path, "__MARK__"); err != nil {
				return false
			}
			first, err := os.ReadFile(path)
			if err != nil {
				return false
			}

			if err := StripMarked(path, "__MARK__"); err != nil {
				return false
			}
			second, err := os.ReadFile(path)
			if err != nil {
				return false
			}

			return string(first) == string(second)
		},
		gen.SliceOfN(20, genLine()),
	))

	properties.TestingRun(t)
}

// TestInjectProperties tests code injection invariants
func TestInjectProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: lines other than the splice point survive in order
	properties.Property("injection is positionally correct", prop.ForAll(
		func(before, after, source []string) bool {
			dir, err := os.MkdirTemp("", "inject-prop")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			target := filepath.Join(dir, "target.txt")
			content := strings.Join(append(append(append([]string{}, before...), "__TOKEN__"), after...), "\n")
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return false
			}

			src := filepath.Join(dir, "source.txt")
			if err := os.WriteFile(src, []byte(strings.Join(source, "\n")), 0644); err != nil {
				return false
			}

			if err := Inject(target, "__TOKEN__", src, InjectOptions{}); err != nil {
				return false
			}

			data, err := os.ReadFile(target)
			if err != nil {
				return false
			}

			got := strings.Split(string(data), "\n")
			want := append(append(append([]string{}, before...), source...), after...)
			// A source ending in a blank line loses exactly that blank.
			if len(source) > 0 && source[len(source)-1] == "" {
				want = append(append(append([]string{}, before...), source[:len(source)-1]...), after...)
			}

			if len(got) != len(want) {
				return false
			}
			for i := range got {
				if got[i] != want[i] {
					return false
				}
			}

			return true
		},
		gen.SliceOfN(5, genLine()),
		gen.SliceOfN(5, genLine()),
		gen.SliceOfN(4, genLine().SuchThat(func(s string) bool { return s != "" })),
	))

	// Property: indent level n yields exactly 2n leading spaces
	properties.Property("indent width", prop.ForAll(
		func(level int, word string) bool {
			if word == "" {
				return true
			}

			dir, err := os.MkdirTemp("", "inject-prop")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			target := filepath.Join(dir, "target.txt")
			if err := os.WriteFile(target, []byte("__TOKEN__"), 0644); err != nil {
				return false
			}
			src := filepath.Join(dir, "source.txt")
			if err := os.WriteFile(src, []byte(word), 0644); err != nil {
				return false
			}

			if err := Inject(target, "__TOKEN__", src, InjectOptions{IndentLevel: level}); err != nil {
				return false
			}

			data, err := os.ReadFile(target)
			if err != nil {
				return false
			}

			return string(data) == strings.Repeat(" ", 2*level)+word
		},
		gen.IntRange(1, 8),
		gen.RegexMatch(`^[a-z]{1,12}$`),
	))

	properties.TestingRun(t)
}
