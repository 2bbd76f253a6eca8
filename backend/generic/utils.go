package generic

import "strings"

// Enquote wraps text in double quotes without escaping. Callers escape
// first when the text may contain quotes.
func Enquote(s string) string { return `"` + s + `"` }

// EscapeBackslash doubles backslashes for docstring embedding.
func EscapeBackslash(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

// EnsureEndswith appends the suffix unless already present.
func EnsureEndswith(s, suffix string) string {
	if strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}

// LinebreakParagraph greedily wraps text into lines of at most width
// runes; the first line may have its own width. Existing newlines are
// respected as hard breaks. Words longer than the width stay intact on
// their own line.
func LinebreakParagraph(text string, width, firstLineWidth int) LineBuffer {
	if width <= 0 {
		width = 80
	}
	if firstLineWidth <= 0 {
		firstLineWidth = width
	}
	var out LineBuffer
	first := true
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			first = false
			continue
		}
		limit := width
		if first {
			limit = firstLineWidth
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > limit {
				out = append(out, line)
				first = false
				limit = width
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
		first = false
	}
	return out
}
