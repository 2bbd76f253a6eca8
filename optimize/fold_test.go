package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styx-api/styx-go/ir"
)

func constStruct(id ir.ID, name string, groups ...*ir.ConditionalGroup) *ir.Param {
	return &ir.Param{
		Base:     ir.Base{ID: id, Name: name},
		Body:     &ir.Struct{Name: name, Groups: groups},
		Nullable: true,
	}
}

func TestFoldConstantStructs(t *testing.T) {
	t.Parallel()

	fast := constStruct(2, "fast",
		grp(arg(ir.LiteralToken("--fast")), arg(ir.LiteralToken("--approx"))),
	)
	app := testApp(grp(arg(ir.ParamToken(fast))))

	assert.True(t, foldConstantStructs(app))

	body, ok := fast.Body.(*ir.Bool)
	require.True(t, ok)
	assert.Equal(t, []string{"--fast", "--approx"}, body.ValueTrue)
	assert.Empty(t, body.ValueFalse)
	assert.False(t, fast.Nullable)
	assert.Equal(t, false, fast.Default)

	// Nothing left to fold.
	assert.False(t, foldConstantStructs(app))
}

func TestFoldRespectsJoins(t *testing.T) {
	t.Parallel()

	inner := grp(arg(ir.LiteralToken("a"), ir.LiteralToken("b")), arg(ir.LiteralToken("c")))
	inner.Join = strPtr(" ")
	p := constStruct(2, "joined", inner)
	p.Body.(*ir.Struct).Join = strPtr(";")
	app := testApp(grp(arg(ir.ParamToken(p))))

	require.True(t, foldConstantStructs(app))
	assert.Equal(t, []string{"ab c"}, p.Body.(*ir.Bool).ValueTrue)
}

func TestFoldSkipsNonCandidates(t *testing.T) {
	t.Parallel()

	t.Run("required struct", func(t *testing.T) {
		t.Parallel()
		p := constStruct(2, "fast", grp(arg(ir.LiteralToken("--fast"))))
		p.Nullable = false
		app := testApp(grp(arg(ir.ParamToken(p))))
		assert.False(t, foldConstantStructs(app))
		assert.IsType(t, &ir.Struct{}, p.Body)
	})

	t.Run("struct with parameters", func(t *testing.T) {
		t.Parallel()
		child := &ir.Param{Base: ir.Base{ID: 3, Name: "level"}, Body: &ir.Int{}}
		p := constStruct(2, "opts", grp(arg(ir.LiteralToken("-O"), ir.ParamToken(child))))
		app := testApp(grp(arg(ir.ParamToken(p))))
		assert.False(t, foldConstantStructs(app))
		assert.IsType(t, &ir.Struct{}, p.Body)
	})

	t.Run("list struct", func(t *testing.T) {
		t.Parallel()
		p := constStruct(2, "fast", grp(arg(ir.LiteralToken("--fast"))))
		p.List = &ir.List{}
		app := testApp(grp(arg(ir.ParamToken(p))))
		assert.False(t, foldConstantStructs(app))
	})

	t.Run("empty struct", func(t *testing.T) {
		t.Parallel()
		p := constStruct(2, "empty")
		app := testApp(grp(arg(ir.ParamToken(p))))
		assert.False(t, foldConstantStructs(app))
		assert.IsType(t, &ir.Struct{}, p.Body)
	})

	t.Run("struct beside other tokens", func(t *testing.T) {
		t.Parallel()
		p := constStruct(2, "fast", grp(arg(ir.LiteralToken("--fast"))))
		app := testApp(grp(arg(ir.LiteralToken("mode="), ir.ParamToken(p))))
		assert.False(t, foldConstantStructs(app))
	})
}

func TestFoldSkipsSingleTokenInMultiConditionGroup(t *testing.T) {
	t.Parallel()

	// A scalar flag's unset placeholder is an empty string where the
	// struct contributed nothing, so the fold would change output.
	fast := constStruct(2, "fast", grp(arg(ir.LiteralToken("--fast"))))
	other := &ir.Param{Base: ir.Base{ID: 3, Name: "other"}, Body: &ir.String{}, Nullable: true}
	app := testApp(grp(arg(ir.ParamToken(fast)), arg(ir.ParamToken(other))))

	assert.False(t, foldConstantStructs(app))
	assert.IsType(t, &ir.Struct{}, fast.Body)
}

func TestFoldMultiTokenInMultiConditionGroup(t *testing.T) {
	t.Parallel()

	// A multi-token rendering keeps its list shape as a flag, so the
	// placeholder behavior survives the fold.
	fast := constStruct(2, "fast", grp(arg(ir.LiteralToken("--fast")), arg(ir.LiteralToken("--approx"))))
	other := &ir.Param{Base: ir.Base{ID: 3, Name: "other"}, Body: &ir.String{}, Nullable: true}
	app := testApp(grp(arg(ir.ParamToken(fast)), arg(ir.ParamToken(other))))

	require.True(t, foldConstantStructs(app))

	pre := testApp(grp(
		arg(ir.ParamToken(constStruct(2, "fast", grp(arg(ir.LiteralToken("--fast")), arg(ir.LiteralToken("--approx")))))),
		arg(ir.ParamToken(&ir.Param{Base: ir.Base{ID: 3, Name: "other"}, Body: &ir.String{}, Nullable: true})),
	))
	assert.Equal(t,
		render(t, pre, ir.Assignment{3: "x"}),
		render(t, app, ir.Assignment{3: "x"}))
	assert.Equal(t,
		render(t, pre, ir.Assignment{2: ir.StructSet, 3: "x"}),
		render(t, app, ir.Assignment{2: true, 3: "x"}))
}

func TestFoldPanicsOnParamTokenInConstantStruct(t *testing.T) {
	t.Parallel()

	// A parameter hiding in a struct that reports no parameters can only
	// happen through a corrupted tree.
	child := &ir.Param{Base: ir.Base{ID: 3, Name: "ghost"}, Body: &ir.String{}}
	broken := &ir.Struct{
		Name:   "broken",
		Groups: []*ir.ConditionalGroup{grp(arg(ir.ParamToken(child)))},
	}
	assert.Panics(t, func() { renderConstantStruct(broken) })
}
