package retrieval

import (
	"strings"
	"unicode/utf8"
)

// Excerpt cuts the stretch of text the cross-encoder should see. Full
// transcripts routinely run past the model's input window, so we pick the
// windowChars-wide slice with the densest query-term hits; when no term
// appears we fall back to the head of the text.
func Excerpt(text, query string, windowChars int) string {
	if len(text) <= windowChars {
		return text
	}

	terms := queryTerms(query)
	lower := strings.ToLower(text)

	bestPos := -1
	bestHits := 0
	for _, term := range terms {
		pos := strings.Index(lower, term)
		for pos >= 0 {
			end := pos + windowChars
			if end > len(lower) {
				end = len(lower)
			}
			hits := countHits(lower[pos:end], terms)
			if hits > bestHits {
				bestHits = hits
				bestPos = pos
			}
			next := strings.Index(lower[pos+1:], term)
			if next < 0 {
				break
			}
			pos = pos + 1 + next
		}
	}

	if bestPos < 0 {
		return text[:runeFloor(text, windowChars)]
	}

	// Back off a little so the first hit has leading context.
	start := bestPos - windowChars/8
	if start < 0 {
		start = 0
	}
	end := start + windowChars
	if end > len(text) {
		end = len(text)
		start = end - windowChars
	}
	return text[runeFloor(text, start):runeFloor(text, end)]
}

// Snippet builds the short preview shown next to a search hit: a
// maxChars-wide window centered on the first query-term occurrence, with
// ellipses marking the cut edges.
func Snippet(text, query string, maxChars int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxChars {
		return text
	}

	lower := strings.ToLower(text)
	hit := -1
	for _, term := range queryTerms(query) {
		if pos := strings.Index(lower, term); pos >= 0 && (hit < 0 || pos < hit) {
			hit = pos
		}
	}
	if hit < 0 {
		return text[:runeFloor(text, maxChars)] + "..."
	}

	start := hit - maxChars/2
	if start < 0 {
		start = 0
	}
	end := start + maxChars
	if end > len(text) {
		end = len(text)
		start = end - maxChars
		if start < 0 {
			start = 0
		}
	}

	start = runeFloor(text, start)
	end = runeFloor(text, end)

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}

func queryTerms(query string) []string {
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(query)) {
		f = strings.Trim(f, ".,!?\"'()")
		if len(f) >= 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

// runeFloor pulls a byte cut point back to the nearest rune boundary so
// window edges never split a multi-byte character.
func runeFloor(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func countHits(window string, terms []string) int {
	hits := 0
	for _, term := range terms {
		hits += strings.Count(window, term)
	}
	return hits
}
