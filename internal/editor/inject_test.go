package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/plategen/internal/errors"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snippet.js")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInjectReplacesTokenLine(t *testing.T) {
	target := writeFixture(t, "a\nFOO\nb")
	source := writeSource(t, "X\nY\n")

	require.NoError(t, Inject(target, "FOO", source, InjectOptions{}))
	assert.Equal(t, "a\nX\nY\nb", readBack(t, target))
}

func TestInjectTokenMustEndLine(t *testing.T) {
	target := writeFixture(t, "FOO mid-line stays\nprefix FOO\nplain")
	source := writeSource(t, "injected")

	require.NoError(t, Inject(target, "FOO", source, InjectOptions{}))

	// A token followed by more text is not a splice point; a token at end
	// of line is, even with a prefix.
	assert.Equal(t, "FOO mid-line stays\ninjected\nplain", readBack(t, target))
}

func TestInjectCarriageReturnIgnored(t *testing.T) {
	target := writeFixture(t, "a\nFOO\r\nb")
	source := writeSource(t, "X")

	require.NoError(t, Inject(target, "FOO", source, InjectOptions{}))
	assert.Equal(t, "a\nX\nb", readBack(t, target))
}

func TestInjectIndentLevel(t *testing.T) {
	target := writeFixture(t, "router:\nROUTES\nend")
	source := writeSource(t, "get('/');\npost('/');\n")

	require.NoError(t, Inject(target, "ROUTES", source, InjectOptions{IndentLevel: 2}))
	assert.Equal(t, "router:\n    get('/');\n    post('/');\nend", readBack(t, target))
}

func TestInjectIndentSpaces(t *testing.T) {
	target := writeFixture(t, "ROUTES")
	source := writeSource(t, "line\n")

	require.NoError(t, Inject(target, "ROUTES", source, InjectOptions{IndentSpaces: 3}))
	assert.Equal(t, "   line", readBack(t, target))
}

func TestInjectIndentSpacesWinsOverLevel(t *testing.T) {
	target := writeFixture(t, "ROUTES")
	source := writeSource(t, "line")

	require.NoError(t, Inject(target, "ROUTES", source, InjectOptions{IndentLevel: 4, IndentSpaces: 1}))
	assert.Equal(t, " line", readBack(t, target))
}

func TestInjectLeadingBlankLine(t *testing.T) {
	target := writeFixture(t, "a\nTOKEN\nb")
	source := writeSource(t, "X")

	require.NoError(t, Inject(target, "TOKEN", source, InjectOptions{LeadingBlankLine: true}))
	assert.Equal(t, "a\n\nX\nb", readBack(t, target))
}

func TestInjectDropsExactlyOneTrailingBlankLine(t *testing.T) {
	target := writeFixture(t, "TOKEN")
	source := writeSource(t, "X\n\n")

	require.NoError(t, Inject(target, "TOKEN", source, InjectOptions{}))
	assert.Equal(t, "X\n", readBack(t, target))
}

func TestInjectBlankLinesPreservedUnindented(t *testing.T) {
	target := writeFixture(t, "TOKEN")
	source := writeSource(t, "a\n\nb\n")

	require.NoError(t, Inject(target, "TOKEN", source, InjectOptions{IndentLevel: 1}))
	assert.Equal(t, "  a\n\n  b", readBack(t, target))
}

func TestInjectCompatDropsBlankLines(t *testing.T) {
	target := writeFixture(t, "TOKEN")
	source := writeSource(t, "a\n\nb\n")

	require.NoError(t, Inject(target, "TOKEN", source, InjectOptions{IndentLevel: 1, DropBlankLines: true}))
	assert.Equal(t, "  a\n  b", readBack(t, target))
}

func TestInjectPreserveTokenBlanksLine(t *testing.T) {
	target := writeFixture(t, "a\nstuff //_ keep layout\nb\nTOKEN")
	source := writeSource(t, "X")

	require.NoError(t, Inject(target, "TOKEN", source, InjectOptions{}))
	assert.Equal(t, "a\n\nb\nX", readBack(t, target))
}

func TestInjectPreserveTokenLosesToSplice(t *testing.T) {
	// A line carrying both the preserve token and an end-of-line splice
	// token receives the injected block, not a blank.
	target := writeFixture(t, "//_ TOKEN")
	source := writeSource(t, "X")

	require.NoError(t, Inject(target, "TOKEN", source, InjectOptions{}))
	assert.Equal(t, "X", readBack(t, target))
}

func TestInjectAllMatchingLinesReplaced(t *testing.T) {
	target := writeFixture(t, "TOKEN\nmid\nTOKEN")
	source := writeSource(t, "X")

	require.NoError(t, Inject(target, "TOKEN", source, InjectOptions{}))
	assert.Equal(t, "X\nmid\nX", readBack(t, target))
}

func TestInjectOtherLinesKeepRelativeOrder(t *testing.T) {
	target := writeFixture(t, "one\ntwo\nTOKEN\nthree\nfour")
	source := writeSource(t, "A\nB")

	require.NoError(t, Inject(target, "TOKEN", source, InjectOptions{}))
	assert.Equal(t, "one\ntwo\nA\nB\nthree\nfour", readBack(t, target))
}

func TestInjectMissingSource(t *testing.T) {
	target := writeFixture(t, "TOKEN")

	err := Inject(target, "TOKEN", filepath.Join(t.TempDir(), "missing.js"), InjectOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}

func TestInjectTokenWithRegexMetacharacters(t *testing.T) {
	// Placeholder tokens like "//= APP_ROUTES" must be treated literally.
	target := writeFixture(t, "app:\n//= APP_ROUTES\ndone")
	source := writeSource(t, "mounted\n")

	require.NoError(t, Inject(target, "//= APP_ROUTES", source, InjectOptions{}))
	assert.Equal(t, "app:\nmounted\ndone", readBack(t, target))
}
