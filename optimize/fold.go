package optimize

import (
	"fmt"
	"strings"

	"github.com/styx-api/styx-go/ir"
)

// foldConstantStructs rewrites nullable, parameter-free structs into
// one-sided bool flags: the struct's constant rendering becomes the
// flag's true-tokens and the presence test becomes the bool value. The
// is-set predicate is preserved exactly (unset nullable struct and false
// one-sided flag both test unset), so the containing group's emission
// condition does not move.
//
// Folding is skipped when it would change the placeholder shape inside a
// group guarded by several conditions: a single-token rendering becomes a
// scalar flag whose unset placeholder is an empty string where the struct
// contributed nothing. Reports whether any fold happened.
func foldConstantStructs(app *ir.App) bool {
	changed := false
	for _, sp := range structsIncludingRoot(app) {
		body := sp.Body.(*ir.Struct)
		for _, g := range body.Groups {
			conditions := groupConditionCount(g)
			for _, c := range g.Cargs {
				if len(c.Tokens) != 1 || c.Tokens[0].Param == nil {
					continue
				}
				p := c.Tokens[0].Param
				if foldParam(p, conditions) {
					changed = true
				}
			}
		}
	}
	return changed
}

func foldParam(p *ir.Param, groupConditions int) bool {
	s, ok := p.Body.(*ir.Struct)
	if !ok || !p.Nullable || p.List != nil {
		return false
	}
	if len(p.ParamsDeep()) != 0 {
		return false
	}
	elems := renderConstantStruct(s)
	if len(elems) == 0 {
		// A flag with no tokens never emits; leave the struct alone.
		return false
	}
	if groupConditions > 1 && len(elems) == 1 {
		return false
	}
	p.Body = &ir.Bool{ValueTrue: elems}
	p.Nullable = false
	p.Default = false
	return true
}

// groupConditionCount counts the parameters of a group whose is-set test
// is a runtime condition. Nullable parameters and one-sided flags have
// one; always-set parameters do not.
func groupConditionCount(g *ir.ConditionalGroup) int {
	n := 0
	for _, p := range g.Params() {
		if p.Nullable {
			n++
			continue
		}
		if b, ok := p.Body.(*ir.Bool); ok && p.List == nil {
			if len(b.ValueTrue) == 0 || len(b.ValueFalse) == 0 {
				n++
			}
		}
	}
	return n
}

// renderConstantStruct renders a parameter-free struct to its constant
// argument list. All groups emit unconditionally and every token must be
// a literal; a parameter token here is an optimizer contract violation.
func renderConstantStruct(s *ir.Struct) []string {
	var elems []string
	for _, g := range s.Groups {
		var ge []string
		for _, c := range g.Cargs {
			parts := make([]string, 0, len(c.Tokens))
			for _, t := range c.Tokens {
				if t.Param != nil {
					panic(fmt.Sprintf("styx: parameter token in constant struct %q", s.Name))
				}
				parts = append(parts, t.Literal)
			}
			join := ""
			if c.Join != nil {
				join = *c.Join
			}
			ge = append(ge, strings.Join(parts, join))
		}
		if g.Join != nil {
			ge = []string{strings.Join(ge, *g.Join)}
		}
		elems = append(elems, ge...)
	}
	if s.Join != nil {
		return []string{strings.Join(elems, *s.Join)}
	}
	return elems
}
