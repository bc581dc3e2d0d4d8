package retrieval

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExcerptShortTextPassthrough(t *testing.T) {
	text := "a short transcript"
	assert.Equal(t, text, Excerpt(text, "short", 4000))
}

func TestExcerptWindowsAroundQueryTerms(t *testing.T) {
	filler := strings.Repeat("lorem ipsum dolor sit amet ", 100)
	text := filler + "the patient described shoulder pain during rotation exercises" + filler

	excerpt := Excerpt(text, "shoulder pain exercises", 400)

	assert.Len(t, excerpt, 400)
	assert.Contains(t, excerpt, "shoulder pain")
}

func TestExcerptFallsBackToHead(t *testing.T) {
	text := strings.Repeat("completely unrelated content ", 200)

	excerpt := Excerpt(text, "quantum chromodynamics", 300)

	assert.Equal(t, text[:300], excerpt)
}

func TestExcerptPicksDensestWindow(t *testing.T) {
	sparse := "shoulder " + strings.Repeat("x ", 500)
	dense := strings.Repeat("shoulder pain exercises ", 10)
	text := sparse + dense

	excerpt := Excerpt(text, "shoulder pain exercises", 200)

	// The trailing region has every term repeatedly; the lone early hit
	// must not win.
	assert.Contains(t, excerpt, "pain exercises")
}

func TestSnippetShortTextPassthrough(t *testing.T) {
	assert.Equal(t, "tiny", Snippet("  tiny  ", "anything", 200))
}

func TestSnippetCentersOnFirstHit(t *testing.T) {
	text := strings.Repeat("padding words here ", 50) +
		"proper deadlift form matters" +
		strings.Repeat(" trailing words", 50)

	snippet := Snippet(text, "deadlift form", 200)

	assert.Contains(t, snippet, "deadlift")
	assert.True(t, strings.HasPrefix(snippet, "..."))
	assert.True(t, strings.HasSuffix(snippet, "..."))
	// 200-char window plus the two ellipses.
	assert.LessOrEqual(t, len(snippet), 206)
}

func TestSnippetNoHitTakesHead(t *testing.T) {
	text := strings.Repeat("nothing relevant in this text ", 20)

	snippet := Snippet(text, "missing terms", 100)

	assert.True(t, strings.HasPrefix(snippet, "nothing relevant"))
	assert.True(t, strings.HasSuffix(snippet, "..."))
}

func TestQueryTermsDropShortWords(t *testing.T) {
	terms := queryTerms("is a DOG in the house?")

	assert.Equal(t, []string{"dog", "the", "house"}, terms)
}

func TestExcerptKeepsRunesWholeOnNonAsciiText(t *testing.T) {
	text := strings.Repeat("übung für die schultern ", 40)

	for _, window := range []int{50, 51, 52, 53} {
		out := Excerpt(text, "schultern", window)
		assert.True(t, utf8.ValidString(out), "window %d split a rune", window)
	}

	// No query term hit: the head fallback must also cut cleanly.
	out := Excerpt(text, "xyz", 51)
	assert.True(t, utf8.ValidString(out))
}

func TestSnippetKeepsRunesWholeOnNonAsciiText(t *testing.T) {
	text := strings.Repeat("日本語のトランスクリプト ", 30) + " tokyo travel " + strings.Repeat("続きのテキスト ", 30)

	for _, max := range []int{100, 101, 102, 103} {
		out := Snippet(text, "tokyo", max)
		assert.True(t, utf8.ValidString(out), "maxChars %d split a rune", max)
	}

	out := Snippet(text, "nohit", 101)
	assert.True(t, utf8.ValidString(out))
}
