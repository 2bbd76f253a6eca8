package ir

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// Assignment maps parameter IDs to native values for the reference
	// renderer. Scalar parameters take bool/int/float64/string values,
	// lists take []any, structs take StructSet and unions take a
	// UnionValue. An explicit nil marks a nullable parameter as unset;
	// an absent entry falls back to the parameter's default.
	Assignment map[ID]any

	// UnionValue selects the active alternative of a union parameter.
	// The alternative's own children are assigned through their IDs.
	UnionValue struct {
		// Alt is the ID of the selected alternative.
		Alt ID
	}

	structSet struct{}

	// fragment is one rendered token: a scalar string or a string list,
	// mirroring the generated code's string/string-list expression split.
	// A scalar fragment always holds exactly one item; a list fragment
	// holds any number and extends the argument vector when it stands
	// alone in a CmdArg.
	fragment struct {
		items  []string
		isList bool
	}
)

// StructSet marks a struct-valued parameter as provided in an Assignment.
var StructSet any = structSet{}

// Render interprets the app against an assignment and returns the
// command-line arguments the generated wrappers would produce. It mirrors
// the generated emission rules exactly: tokens of a CmdArg concatenate
// into one argument, a lone list-valued token extends the argument
// vector, groups guarded by more than one set-condition substitute empty
// placeholders for unset members, and one-sided flags emit their side
// whenever they count as set. The renderer is the semantic oracle the
// optimizer passes are tested against.
func Render(app *App, asn Assignment) ([]string, error) {
	root, ok := app.Command.Body.(*Struct)
	if !ok {
		return nil, fmt.Errorf("app %q: root command body must be a struct, got %T", app.UID, app.Command.Body)
	}
	return renderStruct(root, asn)
}

// value resolves a parameter's effective value. The second result is
// false when the parameter is unset.
func value(p *Param, asn Assignment) (any, bool, error) {
	if v, ok := asn[p.ID]; ok {
		if v == nil {
			if !p.Nullable {
				return nil, false, fmt.Errorf("param %q: nil value for non-nullable parameter", p.Name)
			}
			return nil, false, nil
		}
		return v, true, nil
	}
	if p.Default != nil {
		if p.Default == SetToNone {
			return nil, false, nil
		}
		return p.Default, true, nil
	}
	if _, ok := p.Body.(*Struct); ok && !p.Nullable {
		// Required structs need no explicit marker.
		return StructSet, true, nil
	}
	if !p.Nullable {
		return nil, false, fmt.Errorf("param %q: no value for required parameter", p.Name)
	}
	return nil, false, nil
}

// hasSetCondition reports whether the parameter's is-set test is a real
// runtime condition rather than constant truth. Nullable parameters and
// bools with at most one emitting side have one; everything else is
// always set.
func hasSetCondition(p *Param) bool {
	if p.Nullable {
		return true
	}
	if b, ok := p.Body.(*Bool); ok && p.List == nil {
		return len(b.ValueTrue) == 0 || len(b.ValueFalse) == 0
	}
	return false
}

// isSet evaluates the parameter's is-set test against the assignment.
// Nullability wins over the flag rules: a provided nullable value counts
// as set regardless of its content.
func isSet(p *Param, asn Assignment) (bool, error) {
	v, set, err := value(p, asn)
	if err != nil || !set {
		return false, err
	}
	if p.Nullable {
		return true, nil
	}
	if b, ok := p.Body.(*Bool); ok && p.List == nil {
		bv, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("param %q: value %v is not a bool", p.Name, v)
		}
		switch {
		case len(b.ValueTrue) > 0 && len(b.ValueFalse) > 0:
			return true, nil
		case len(b.ValueTrue) > 0:
			return bv, nil
		case len(b.ValueFalse) > 0:
			return !bv, nil
		default:
			return false, nil
		}
	}
	return true, nil
}

func renderStruct(s *Struct, asn Assignment) ([]string, error) {
	var elems []string
	for _, g := range s.Groups {
		ge, err := renderGroup(g, asn)
		if err != nil {
			return nil, err
		}
		elems = append(elems, ge...)
	}
	if s.Join != nil {
		return []string{strings.Join(elems, *s.Join)}, nil
	}
	return elems, nil
}

// renderGroup emits a conditional group. A group whose parameters carry
// set-conditions is emitted only if at least one of them holds; with more
// than one condition, unset members render as empty placeholders.
func renderGroup(g *ConditionalGroup, asn Assignment) ([]string, error) {
	conditions := 0
	anySet := false
	for _, p := range g.Params() {
		if !hasSetCondition(p) {
			continue
		}
		conditions++
		set, err := isSet(p, asn)
		if err != nil {
			return nil, err
		}
		if set {
			anySet = true
		}
	}
	if conditions > 0 && !anySet {
		return nil, nil
	}
	placeholder := conditions > 1

	var elems []string
	for _, c := range g.Cargs {
		ce, err := renderCarg(c, asn, placeholder)
		if err != nil {
			return nil, err
		}
		elems = append(elems, ce...)
	}
	if g.Join != nil {
		return []string{strings.Join(elems, *g.Join)}, nil
	}
	return elems, nil
}

// renderCarg emits one CmdArg. A single list-valued token extends the
// argument vector; otherwise all token fragments collapse into one
// argument, lists flattened with an empty inner join.
func renderCarg(c *CmdArg, asn Assignment, placeholder bool) ([]string, error) {
	frags := make([]fragment, 0, len(c.Tokens))
	for _, t := range c.Tokens {
		if t.Param == nil {
			frags = append(frags, fragment{items: []string{t.Literal}})
			continue
		}
		f, err := paramFragment(t.Param, asn)
		if err != nil {
			return nil, err
		}
		if placeholder && hasSetCondition(t.Param) {
			set, err := isSet(t.Param, asn)
			if err != nil {
				return nil, err
			}
			if !set {
				f = fragment{isList: f.isList}
				if !f.isList {
					f.items = []string{""}
				}
			}
		}
		frags = append(frags, f)
	}
	if len(frags) == 1 {
		if frags[0].isList {
			return frags[0].items, nil
		}
		return []string{frags[0].items[0]}, nil
	}
	join := ""
	if c.Join != nil {
		join = *c.Join
	}
	parts := make([]string, len(frags))
	for i, f := range frags {
		parts[i] = strings.Join(f.items, "")
	}
	return []string{strings.Join(parts, join)}, nil
}

// paramFragment renders a set parameter's contribution. Callers must not
// use the result for unset parameters outside placeholder substitution.
func paramFragment(p *Param, asn Assignment) (fragment, error) {
	v, set, err := value(p, asn)
	if err != nil {
		return fragment{}, err
	}
	if !set {
		// Unset parameters only ever reach here in placeholder mode;
		// report shape so the caller can substitute an empty value.
		f, err := emptyShape(p)
		return f, err
	}
	if p.List != nil {
		return listFragment(p, v, asn)
	}
	return scalarFragment(p, v, asn)
}

// emptyShape mirrors the generated placeholder's string-vs-list shape
// without evaluating the value.
func emptyShape(p *Param) (fragment, error) {
	if p.List != nil && p.List.Join == nil {
		return fragment{isList: true}, nil
	}
	if p.List == nil {
		switch b := p.Body.(type) {
		case *Bool:
			if len(b.ValueTrue) == 0 && len(b.ValueFalse) == 0 {
				return fragment{}, fmt.Errorf("param %q: bool has no tokens on either side", p.Name)
			}
			return fragment{isList: len(b.ValueTrue) > 1 || len(b.ValueFalse) > 1, items: []string{""}}, nil
		case *Struct, *StructUnion:
			return fragment{isList: true}, nil
		}
	}
	return fragment{items: []string{""}}, nil
}

func scalarFragment(p *Param, v any, asn Assignment) (fragment, error) {
	switch b := p.Body.(type) {
	case *Bool:
		bv, ok := v.(bool)
		if !ok {
			return fragment{}, fmt.Errorf("param %q: value %v is not a bool", p.Name, v)
		}
		asList := len(b.ValueTrue) > 1 || len(b.ValueFalse) > 1
		var side []string
		switch {
		case len(b.ValueTrue) > 0 && len(b.ValueFalse) > 0:
			if bv {
				side = b.ValueTrue
			} else {
				side = b.ValueFalse
			}
		case len(b.ValueTrue) > 0:
			// One-sided flags emit their side whenever rendered.
			side = b.ValueTrue
		case len(b.ValueFalse) > 0:
			side = b.ValueFalse
		default:
			return fragment{}, fmt.Errorf("param %q: bool has no tokens on either side", p.Name)
		}
		if asList {
			return fragment{items: append([]string(nil), side...), isList: true}, nil
		}
		return fragment{items: []string{side[0]}}, nil
	case *Int:
		iv, ok := v.(int)
		if !ok {
			return fragment{}, fmt.Errorf("param %q: value %v is not an int", p.Name, v)
		}
		return fragment{items: []string{strconv.Itoa(iv)}}, nil
	case *Float:
		fv, ok := asFloatValue(v)
		if !ok {
			return fragment{}, fmt.Errorf("param %q: value %v is not a float", p.Name, v)
		}
		return fragment{items: []string{formatFloat(fv)}}, nil
	case *String:
		sv, ok := v.(string)
		if !ok {
			return fragment{}, fmt.Errorf("param %q: value %v is not a string", p.Name, v)
		}
		return fragment{items: []string{sv}}, nil
	case *File:
		sv, ok := v.(string)
		if !ok {
			return fragment{}, fmt.Errorf("param %q: value %v is not a path", p.Name, v)
		}
		return fragment{items: []string{sv}}, nil
	case *Struct:
		elems, err := renderStruct(b, asn)
		if err != nil {
			return fragment{}, err
		}
		return fragment{items: elems, isList: true}, nil
	case *StructUnion:
		elems, err := renderUnion(p, b, v, asn)
		if err != nil {
			return fragment{}, err
		}
		return fragment{items: elems, isList: true}, nil
	default:
		panic(fmt.Sprintf("styx: unknown param body %T", p.Body))
	}
}

func listFragment(p *Param, v any, asn Assignment) (fragment, error) {
	items, ok := defaultListItems(v)
	if !ok {
		return fragment{}, fmt.Errorf("param %q: value %v is not a list", p.Name, v)
	}
	var out []string
	for _, item := range items {
		s, err := listItem(p, item, asn)
		if err != nil {
			return fragment{}, err
		}
		out = append(out, s...)
	}
	if p.List.Join != nil {
		return fragment{items: []string{strings.Join(out, *p.List.Join)}}, nil
	}
	return fragment{items: out, isList: true}, nil
}

// listItem renders a single list element. Bool items collapse each side
// to one string; struct and union items contribute all their arguments.
func listItem(p *Param, v any, asn Assignment) ([]string, error) {
	switch b := p.Body.(type) {
	case *Bool:
		bv, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("param %q: list item %v is not a bool", p.Name, v)
		}
		if bv {
			return []string{strings.Join(b.ValueTrue, "")}, nil
		}
		return []string{strings.Join(b.ValueFalse, "")}, nil
	case *Int:
		iv, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("param %q: list item %v is not an int", p.Name, v)
		}
		return []string{strconv.Itoa(iv)}, nil
	case *Float:
		fv, ok := asFloatValue(v)
		if !ok {
			return nil, fmt.Errorf("param %q: list item %v is not a float", p.Name, v)
		}
		return []string{formatFloat(fv)}, nil
	case *String, *File:
		sv, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("param %q: list item %v is not a string", p.Name, v)
		}
		return []string{sv}, nil
	case *Struct:
		return renderStruct(b, asn)
	case *StructUnion:
		return renderUnion(p, b, v, asn)
	default:
		panic(fmt.Sprintf("styx: unknown param body %T", p.Body))
	}
}

func renderUnion(p *Param, u *StructUnion, v any, asn Assignment) ([]string, error) {
	uv, ok := v.(UnionValue)
	if !ok {
		return nil, fmt.Errorf("param %q: value %v is not a union value", p.Name, v)
	}
	for _, alt := range u.Alts {
		if alt.ID != uv.Alt {
			continue
		}
		s, ok := alt.Body.(*Struct)
		if !ok {
			return nil, fmt.Errorf("param %q: union alternative %q is not a struct", p.Name, alt.Name)
		}
		return renderStruct(s, asn)
	}
	return nil, fmt.Errorf("param %q: union has no alternative with id %d", p.Name, uv.Alt)
}

func asFloatValue(v any) (float64, bool) {
	switch vv := v.(type) {
	case float64:
		return vv, true
	case int:
		return float64(vv), true
	}
	return 0, false
}

// formatFloat matches the decimal text the generated wrappers produce for
// float values.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
