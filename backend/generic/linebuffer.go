package generic

import "strings"

// LineBuffer is a list of source lines under construction.
type LineBuffer = []string

// Indent prefixes every non-empty line with n levels of four-space
// indentation.
func Indent(lines LineBuffer, n int) LineBuffer {
	if n <= 0 {
		return lines
	}
	prefix := strings.Repeat("    ", n)
	out := make(LineBuffer, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = l
			continue
		}
		out[i] = prefix + l
	}
	return out
}

// Indent1 indents by one level.
func Indent1(lines LineBuffer) LineBuffer { return Indent(lines, 1) }

// Comment prefixes every line with the language's line comment marker.
func Comment(lines LineBuffer, marker string) LineBuffer {
	out := make(LineBuffer, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = marker
			continue
		}
		out[i] = marker + " " + l
	}
	return out
}

// Collapse joins a line buffer into file text.
func Collapse(lines LineBuffer) string {
	return strings.Join(lines, "\n")
}

// Expand splits text containing newlines into lines.
func Expand(text string) LineBuffer {
	return strings.Split(text, "\n")
}

// BlankBefore prepends n blank lines if the buffer is non-empty.
func BlankBefore(lines LineBuffer, n int) LineBuffer {
	if len(lines) == 0 {
		return lines
	}
	return append(make(LineBuffer, n), lines...)
}

// BlankAfter appends n blank lines if the buffer is non-empty.
func BlankAfter(lines LineBuffer, n int) LineBuffer {
	if len(lines) == 0 {
		return lines
	}
	return append(lines, make(LineBuffer, n)...)
}

// Concat flattens several line buffers into one.
func Concat(buffers ...LineBuffer) LineBuffer {
	var out LineBuffer
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out
}
