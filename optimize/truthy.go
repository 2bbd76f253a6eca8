package optimize

import (
	"strconv"
	"strings"

	"github.com/styx-api/styx-go/ir"
)

// truthyWords and falsyWords are the case-insensitive lexicons of the
// truthy-choice normalization pass.
var (
	truthyWords = wordSet("true", "1", "yes", "y", "on", "enabled", "enable",
		"ok", "okay", "active", "accept", "accepted", "confirm", "confirmed")
	falsyWords = wordSet("false", "0", "no", "n", "off", "disabled", "disable",
		"none", "null", "nil", "", "empty", "nope", "nah", "negative",
		"inactive", "deny", "denied", "reject", "rejected", "cancel", "cancelled")
)

func wordSet(words ...string) map[string]bool {
	s := make(map[string]bool, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}

// normalizeTruthyChoices rewrites two-choice string and int parameters
// whose choices split into one truthy and one falsy word into bool
// parameters emitting the original choice spellings verbatim. Defaults
// are converted to the matching bool value and the choice constraint is
// dropped.
func normalizeTruthyChoices(app *ir.App) {
	params := append([]*ir.Param{app.Command}, app.Command.ParamsDeep()...)
	for _, p := range params {
		normalizeParam(p)
	}
}

func normalizeParam(p *ir.Param) {
	if p.List != nil || len(p.Choices) != 2 {
		return
	}
	switch p.Body.(type) {
	case *ir.String, *ir.Int:
	default:
		return
	}
	a, aok := choiceText(p.Choices[0])
	b, bok := choiceText(p.Choices[1])
	if !aok || !bok {
		return
	}
	var truthy, falsy string
	var truthyChoice any
	switch {
	case truthyWords[strings.ToLower(a)] && falsyWords[strings.ToLower(b)]:
		truthy, falsy, truthyChoice = a, b, p.Choices[0]
	case truthyWords[strings.ToLower(b)] && falsyWords[strings.ToLower(a)]:
		truthy, falsy, truthyChoice = b, a, p.Choices[1]
	default:
		return
	}
	p.Body = &ir.Bool{ValueTrue: []string{truthy}, ValueFalse: []string{falsy}}
	p.Choices = nil
	if p.Default != nil && p.Default != ir.SetToNone {
		p.Default = p.Default == truthyChoice
	}
}

// choiceText renders a choice value the way the command line would see
// it.
func choiceText(c any) (string, bool) {
	switch v := c.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	}
	return "", false
}
