package optimize

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styx-api/styx-go/ir"
)

func strPtr(s string) *string { return &s }

func testApp(groups ...*ir.ConditionalGroup) *ir.App {
	return &ir.App{
		Command: &ir.Param{
			Base: ir.Base{ID: 1, Name: "tool"},
			Body: &ir.Struct{Name: "tool", Groups: groups},
		},
	}
}

func grp(cargs ...*ir.CmdArg) *ir.ConditionalGroup { return &ir.ConditionalGroup{Cargs: cargs} }

func arg(tokens ...ir.Token) *ir.CmdArg { return &ir.CmdArg{Tokens: tokens} }

// clone deep-copies an app through its document form.
func clone(t *testing.T, app *ir.App) *ir.App {
	t.Helper()
	doc, err := ir.ToJSON(app)
	require.NoError(t, err)
	copied, err := ir.FromJSON(doc)
	require.NoError(t, err)
	return copied
}

func render(t *testing.T, app *ir.App, asn ir.Assignment) []string {
	t.Helper()
	got, err := ir.Render(app, asn)
	require.NoError(t, err)
	return got
}

// pipelineApp carries one opportunity for every pass: mergeable literal
// tokens, a foldable constant struct, a flattenable wrapper and a truthy
// choice pair.
func pipelineApp() *ir.App {
	fast := &ir.Param{
		Base: ir.Base{ID: 2, Name: "fast"},
		Body: &ir.Struct{
			Name: "fast",
			Groups: []*ir.ConditionalGroup{
				grp(arg(ir.LiteralToken("--fast")), arg(ir.LiteralToken("--approx"))),
			},
		},
		Nullable: true,
	}
	sigma := &ir.Param{Base: ir.Base{ID: 4, Name: "sigma"}, Body: &ir.Float{}}
	smooth := &ir.Param{
		Base: ir.Base{ID: 3, Name: "smooth"},
		Body: &ir.Struct{
			Name: "smooth",
			Groups: []*ir.ConditionalGroup{
				grp(arg(ir.LiteralToken("--sigma="), ir.ParamToken(sigma))),
			},
		},
	}
	norm := &ir.Param{
		Base:    ir.Base{ID: 5, Name: "norm"},
		Body:    &ir.String{},
		Choices: []any{"yes", "no"},
		Default: "no",
	}
	return testApp(
		grp(arg(ir.LiteralToken("run"), ir.LiteralToken("-"), ir.LiteralToken("tool"))),
		grp(arg(ir.ParamToken(fast))),
		grp(arg(ir.ParamToken(smooth))),
		grp(arg(ir.LiteralToken("--norm="), ir.ParamToken(norm))),
	)
}

func TestOptimizePipeline(t *testing.T) {
	t.Parallel()

	app := Optimize(pipelineApp())
	root := app.Command.Body.(*ir.Struct)

	// Adjacent literals merged into one token.
	require.Len(t, root.Groups[0].Cargs[0].Tokens, 1)
	assert.Equal(t, "run-tool", root.Groups[0].Cargs[0].Tokens[0].Literal)

	// Constant optional struct folded into a one-sided flag.
	fast := root.Groups[1].Cargs[0].Tokens[0].Param
	require.NotNil(t, fast)
	fastBody, ok := fast.Body.(*ir.Bool)
	require.True(t, ok)
	assert.Equal(t, []string{"--fast", "--approx"}, fastBody.ValueTrue)
	assert.False(t, fast.Nullable)
	assert.Equal(t, false, fast.Default)

	// Single-parameter wrapper struct flattened away.
	tokens := root.Groups[2].Cargs[0].Tokens
	require.Len(t, tokens, 2)
	assert.Equal(t, "--sigma=", tokens[0].Literal)
	require.NotNil(t, tokens[1].Param)
	assert.Equal(t, "sigma", tokens[1].Param.Name)

	// Truthy choice pair normalized to a bool.
	norm := root.Groups[3].Cargs[0].Tokens[1].Param
	require.NotNil(t, norm)
	normBody, ok := norm.Body.(*ir.Bool)
	require.True(t, ok)
	assert.Equal(t, []string{"yes"}, normBody.ValueTrue)
	assert.Equal(t, []string{"no"}, normBody.ValueFalse)
	assert.Nil(t, norm.Choices)
	assert.Equal(t, false, norm.Default)
}

func TestOptimizePreservesPipelineOutput(t *testing.T) {
	t.Parallel()

	pre := pipelineApp()
	post := Optimize(clone(t, pre))

	// The value forms shift with the rewrites: set struct to true flag,
	// choice spelling to bool.
	preAsn := ir.Assignment{2: ir.StructSet, 4: 1.5, 5: "yes"}
	postAsn := ir.Assignment{2: true, 4: 1.5, 5: true}
	assert.Equal(t, render(t, pre, preAsn), render(t, post, postAsn))

	preAsn = ir.Assignment{4: 0.5, 5: "no"}
	postAsn = ir.Assignment{4: 0.5, 5: false}
	assert.Equal(t, render(t, pre, preAsn), render(t, post, postAsn))
}

func TestOptimizeIsIdempotent(t *testing.T) {
	t.Parallel()

	once := Optimize(pipelineApp())
	first, err := ir.ToJSON(once)
	require.NoError(t, err)

	second, err := ir.ToJSON(Optimize(once))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestOptimizeRelinksParents(t *testing.T) {
	t.Parallel()

	app := Optimize(pipelineApp())
	for _, p := range app.Command.ParamsDeep() {
		assert.Same(t, app.Command, p.Root(), "param %q", p.Name)
	}
}

func TestMergePreservesOutputProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("merging literals never changes rendered arguments", prop.ForAll(
		func(a, b, c, value string, joined bool) bool {
			build := func() *ir.App {
				p := &ir.Param{Base: ir.Base{ID: 2, Name: "value"}, Body: &ir.String{}}
				carg := arg(
					ir.LiteralToken(a),
					ir.LiteralToken(b),
					ir.ParamToken(p),
					ir.LiteralToken(c),
					ir.LiteralToken(a),
				)
				if joined {
					carg.Join = strPtr(",")
				}
				return testApp(grp(carg))
			}
			asn := ir.Assignment{2: value}
			pre, err := ir.Render(build(), asn)
			if err != nil {
				return false
			}
			merged := build()
			mergeLiteralTokens(merged)
			post, err := ir.Render(merged, asn)
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(pre, post)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestFoldPreservesOutputProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("folded flag renders like the constant struct", prop.ForAll(
		func(flags []string, set bool) bool {
			if len(flags) == 0 {
				return true
			}
			build := func() *ir.App {
				cargs := make([]*ir.CmdArg, len(flags))
				for i, f := range flags {
					cargs[i] = arg(ir.LiteralToken(f))
				}
				p := &ir.Param{
					Base:     ir.Base{ID: 2, Name: "flag"},
					Body:     &ir.Struct{Name: "flag", Groups: []*ir.ConditionalGroup{grp(cargs...)}},
					Nullable: true,
				}
				return testApp(grp(arg(ir.ParamToken(p))))
			}

			preAsn := ir.Assignment{}
			postAsn := ir.Assignment{}
			if set {
				preAsn[2] = ir.StructSet
				postAsn[2] = true
			}
			pre, err := ir.Render(build(), preAsn)
			if err != nil {
				return false
			}
			folded := build()
			foldConstantStructs(folded)
			post, err := ir.Render(folded, postAsn)
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(pre, post)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestFlattenPreservesOutputProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("flattened wrapper renders like the nested struct", prop.ForAll(
		func(prefix, value string, wrapperNullable, set bool) bool {
			build := func() *ir.App {
				child := &ir.Param{Base: ir.Base{ID: 3, Name: "value"}, Body: &ir.String{}}
				wrapper := &ir.Param{
					Base: ir.Base{ID: 2, Name: "wrapper"},
					Body: &ir.Struct{
						Name: "wrapper",
						Groups: []*ir.ConditionalGroup{
							grp(arg(ir.LiteralToken(prefix), ir.ParamToken(child))),
						},
					},
					Nullable: wrapperNullable,
				}
				return testApp(grp(arg(ir.ParamToken(wrapper))))
			}

			asn := ir.Assignment{}
			if set || !wrapperNullable {
				asn[2] = ir.StructSet
				asn[3] = value
			}
			pre, err := ir.Render(build(), asn)
			if err != nil {
				return false
			}
			flat := build()
			flattenSingleParamStructs(flat)
			post, err := ir.Render(flat, asn)
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(pre, post)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestTruthyPreservesOutputProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	truthy := []string{"true", "1", "yes", "y", "on", "enabled"}
	falsy := []string{"false", "0", "no", "n", "off", "disabled"}

	properties.Property("normalized bool renders the original choice spelling", prop.ForAll(
		func(ti, fi int, swapped, value bool) bool {
			tw := truthy[ti%len(truthy)]
			fw := falsy[fi%len(falsy)]
			choices := []any{tw, fw}
			if swapped {
				choices = []any{fw, tw}
			}
			build := func() *ir.App {
				p := &ir.Param{
					Base:    ir.Base{ID: 2, Name: "toggle"},
					Body:    &ir.String{},
					Choices: append([]any(nil), choices...),
				}
				return testApp(grp(arg(ir.LiteralToken("--toggle="), ir.ParamToken(p))))
			}

			choice := fw
			if value {
				choice = tw
			}
			pre, err := ir.Render(build(), ir.Assignment{2: choice})
			if err != nil {
				return false
			}
			normalized := build()
			normalizeTruthyChoices(normalized)
			post, err := ir.Render(normalized, ir.Assignment{2: value})
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(pre, post)
		},
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
