package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkedDeletesMarkedLines(t *testing.T) {
	path := writeFixture(t, "const a = 1;\n// TODO_AUTH\nconst b = 2;\nuse(auth); // TODO_AUTH\nconst c = 3;")

	require.NoError(t, StripMarked(path, "TODO_AUTH"))
	assert.Equal(t, "const a = 1;\nconst b = 2;\nconst c = 3;", readBack(t, path))
}

func TestStripMarkedRemovesEmptyClassAttributes(t *testing.T) {
	path := writeFixture(t, `<div class="">text</div>`+"\n"+`<span className="">x</span>`+"\n"+`<p class="kept">y</p>`)

	require.NoError(t, StripMarked(path, "NO_SUCH_MARKER"))
	assert.Equal(t, "<div>text</div>\n<span>x</span>\n"+`<p class="kept">y</p>`, readBack(t, path))
}

func TestStripMarkedIdempotent(t *testing.T) {
	path := writeFixture(t, `<div class="">a</div>`+"\nmarked MARK line\nplain")

	require.NoError(t, StripMarked(path, "MARK"))
	first := readBack(t, path)

	require.NoError(t, StripMarked(path, "MARK"))
	assert.Equal(t, first, readBack(t, path), "second strip must be a no-op")
}

func TestStripMarkedNoMatchIsNoOp(t *testing.T) {
	content := "line one\nline two\n"
	path := writeFixture(t, content)

	require.NoError(t, StripMarked(path, "ABSENT"))
	assert.Equal(t, content, readBack(t, path))
}

func TestStripMarkedNonMatchingContentUntouched(t *testing.T) {
	path := writeFixture(t, "before\n<a class=\"\" href=\"/\">home</a>\nafter MARK\nend")

	require.NoError(t, StripMarked(path, "MARK"))

	// Attribute occurrences go to zero, everything else is byte-identical.
	result := readBack(t, path)
	assert.NotContains(t, result, ` class=""`)
	assert.Equal(t, "before\n<a href=\"/\">home</a>\nend", result)
}
