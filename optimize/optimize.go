// Package optimize rewrites an IR tree in place without changing the
// command-line tokens it produces. The pipeline order is fixed: literal
// token merging, constant-optional-struct folding, single-parameter
// struct flattening and truthy-choice normalization. Structural passes
// run to fixpoint and relink parent back-references before the next pass
// reads them.
package optimize

import "github.com/styx-api/styx-go/ir"

// Optimize runs the full pass pipeline over the app and returns it.
// Every pass preserves, for every valid parameter assignment, the token
// sequence the pre-pass tree would have produced. Contract violations
// inside a pass panic; callers compiling untrusted trees should recover.
func Optimize(app *ir.App) *ir.App {
	mergeLiteralTokens(app)
	runToFixpoint(app, foldConstantStructs)
	runToFixpoint(app, flattenSingleParamStructs)
	normalizeTruthyChoices(app)
	return app
}

// runToFixpoint repeats a structural pass until it reports no change,
// relinking parents after every mutating iteration. Each pass strictly
// reduces its candidate count, so the loop terminates.
func runToFixpoint(app *ir.App, pass func(*ir.App) bool) {
	for pass(app) {
		app.Command.RelinkParents()
	}
	app.Command.RelinkParents()
}

// structsIncludingRoot yields the root parameter and every descendant
// struct-bodied parameter.
func structsIncludingRoot(app *ir.App) []*ir.Param {
	return append([]*ir.Param{app.Command}, app.Command.StructsDeep()...)
}
