package optimize

import (
	"strings"

	"github.com/styx-api/styx-go/ir"
)

// flattenSingleParamStructs inlines structs that wrap exactly one child
// parameter plus literal text. The guards below make the rewrite
// output-preserving for every nullability combination it accepts; the
// remaining combinations are skipped rather than risked. Reports whether
// any struct was flattened.
func flattenSingleParamStructs(app *ir.App) bool {
	// Restart the traversal after each rewrite: flattening splices token
	// slices across levels and a stale snapshot must not be rewritten
	// under outdated guards.
	for _, sp := range structsIncludingRoot(app) {
		body := sp.Body.(*ir.Struct)
		for _, g := range body.Groups {
			if len(g.Cargs) != 1 || g.Join != nil {
				continue
			}
			if flattenCarg(app, g.Cargs[0]) {
				return true
			}
		}
	}
	return false
}

func flattenCarg(app *ir.App, carg *ir.CmdArg) bool {
	// The struct must be the sole token of a join-free CmdArg that is
	// itself alone in its group, so the group's emission condition moves
	// from the struct to the child without affecting siblings.
	if len(carg.Tokens) != 1 || carg.Tokens[0].Param == nil || carg.Join != nil {
		return false
	}
	sp := carg.Tokens[0].Param
	s, ok := sp.Body.(*ir.Struct)
	if !ok || sp.List != nil {
		return false
	}
	children := sp.ParamsDeep()
	if len(children) != 1 {
		return false
	}
	child := children[0]

	// The struct's whole content must live in a single join-free CmdArg
	// so its tokens splice into the parent slot without changing how
	// they collapse into arguments.
	if len(s.Groups) != 1 || s.Groups[0].Join != nil || s.Join != nil {
		return false
	}
	inner := s.Groups[0]
	if len(inner.Cargs) != 1 || inner.Cargs[0].Join != nil {
		return false
	}

	if sp.Nullable && child.Nullable {
		// Ambiguous: two independent absence conditions collapse into
		// one.
		return false
	}
	if sp.Nullable && !child.Nullable {
		if b, ok := child.Body.(*ir.Bool); ok && child.List == nil {
			// A one-sided flag made nullable changes its is-set test
			// from the value to mere presence.
			if len(b.ValueTrue) == 0 || len(b.ValueFalse) == 0 {
				return false
			}
		}
		child.Nullable = true
		child.Default = ir.SetToNone
	}
	if referencedByOutputs(app, sp.ID) {
		return false
	}

	carg.Tokens = inner.Cargs[0].Tokens
	mergeDocs(&child.Docs, &sp.Docs)
	child.Outputs = append(child.Outputs, sp.Outputs...)
	return true
}

// referencedByOutputs reports whether any output path template anywhere
// in the app substitutes the given parameter.
func referencedByOutputs(app *ir.App, id ir.ID) bool {
	params := append([]*ir.Param{app.Command}, app.Command.ParamsDeep()...)
	for _, p := range params {
		for _, o := range p.Outputs {
			for _, t := range o.Tokens {
				if t.Ref != nil && t.Ref.RefID == id {
					return true
				}
			}
		}
	}
	return false
}

// mergeDocs folds src into dst: equal-or-join on title and description,
// concatenation on the list fields.
func mergeDocs(dst, src *ir.Documentation) {
	dst.Title = mergeDocField(dst.Title, src.Title)
	dst.Description = mergeDocField(dst.Description, src.Description)
	dst.Authors = append(dst.Authors, src.Authors...)
	dst.Literature = append(dst.Literature, src.Literature...)
	dst.URLs = append(dst.URLs, src.URLs...)
}

func mergeDocField(a, b string) string {
	if a == b || b == "" {
		return a
	}
	if a == "" {
		return b
	}
	return strings.Join([]string{a, b}, " ")
}
