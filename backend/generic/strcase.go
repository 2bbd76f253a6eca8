package generic

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonIdentRune = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	badIdentHead = regexp.MustCompile(`^[0-9_]`)
)

// Ident turns an arbitrary name into a legal identifier skeleton:
// non-alphanumeric runes become underscores and names starting with a
// digit or underscore get a "v_" prefix. Casing is applied afterwards by
// the case converters.
func Ident(name string) string {
	name = nonIdentRune.ReplaceAllString(name, "_")
	if badIdentHead.MatchString(name) {
		name = "v_" + name
	}
	return name
}

// words splits a name on underscores, spaces, dashes and lower-to-upper
// case boundaries.
func words(name string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// SnakeCase converts a name to lower snake_case.
func SnakeCase(name string) string {
	ws := words(name)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "_")
}

// ScreamingSnakeCase converts a name to upper SNAKE_CASE.
func ScreamingSnakeCase(name string) string {
	return strings.ToUpper(SnakeCase(name))
}

// PascalCase converts a name to PascalCase.
func PascalCase(name string) string {
	var b strings.Builder
	for _, w := range words(name) {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// CamelCase converts a name to camelCase.
func CamelCase(name string) string {
	p := PascalCase(name)
	if p == "" {
		return p
	}
	r := []rune(p)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
