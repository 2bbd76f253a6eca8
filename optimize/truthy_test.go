package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styx-api/styx-go/ir"
)

func choiceParam(body ir.ParamBody, choices ...any) *ir.Param {
	return &ir.Param{
		Base:    ir.Base{ID: 2, Name: "toggle"},
		Body:    body,
		Choices: choices,
	}
}

func TestNormalizeTruthyChoices(t *testing.T) {
	t.Parallel()

	p := choiceParam(&ir.String{}, "yes", "no")
	p.Default = "no"
	app := testApp(grp(arg(ir.LiteralToken("--norm="), ir.ParamToken(p))))

	normalizeTruthyChoices(app)

	body, ok := p.Body.(*ir.Bool)
	require.True(t, ok)
	assert.Equal(t, []string{"yes"}, body.ValueTrue)
	assert.Equal(t, []string{"no"}, body.ValueFalse)
	assert.Nil(t, p.Choices)
	assert.Equal(t, false, p.Default)
}

func TestNormalizeTruthyChoicesReversedOrder(t *testing.T) {
	t.Parallel()

	p := choiceParam(&ir.String{}, "off", "on")
	p.Default = "on"
	app := testApp(grp(arg(ir.ParamToken(p))))

	normalizeTruthyChoices(app)

	body := p.Body.(*ir.Bool)
	assert.Equal(t, []string{"on"}, body.ValueTrue)
	assert.Equal(t, []string{"off"}, body.ValueFalse)
	assert.Equal(t, true, p.Default)
}

func TestNormalizeTruthyChoicesInt(t *testing.T) {
	t.Parallel()

	p := choiceParam(&ir.Int{}, 1, 0)
	p.Default = 1
	app := testApp(grp(arg(ir.LiteralToken("--flag="), ir.ParamToken(p))))

	normalizeTruthyChoices(app)

	body := p.Body.(*ir.Bool)
	assert.Equal(t, []string{"1"}, body.ValueTrue)
	assert.Equal(t, []string{"0"}, body.ValueFalse)
	assert.Equal(t, true, p.Default)
}

func TestNormalizeTruthyChoicesKeepsSpelling(t *testing.T) {
	t.Parallel()

	// Matching is case-insensitive but the emitted text is verbatim.
	p := choiceParam(&ir.String{}, "True", "False")
	app := testApp(grp(arg(ir.ParamToken(p))))

	normalizeTruthyChoices(app)

	body := p.Body.(*ir.Bool)
	assert.Equal(t, []string{"True"}, body.ValueTrue)
	assert.Equal(t, []string{"False"}, body.ValueFalse)
}

func TestNormalizeTruthyChoicesKeepsSetToNone(t *testing.T) {
	t.Parallel()

	p := choiceParam(&ir.String{}, "yes", "no")
	p.Nullable = true
	p.Default = ir.SetToNone
	app := testApp(grp(arg(ir.ParamToken(p))))

	normalizeTruthyChoices(app)

	assert.IsType(t, &ir.Bool{}, p.Body)
	assert.Equal(t, ir.SetToNone, p.Default)
	assert.True(t, p.Nullable)
}

func TestNormalizeTruthyChoicesSkipsNonCandidates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		param *ir.Param
	}{
		{name: "unrelated words", param: choiceParam(&ir.String{}, "fast", "accurate")},
		{name: "both truthy", param: choiceParam(&ir.String{}, "yes", "on")},
		{name: "three choices", param: choiceParam(&ir.String{}, "yes", "no", "maybe")},
		{name: "float body", param: choiceParam(&ir.Float{}, 1.0, 0.0)},
		{
			name: "list parameter",
			param: func() *ir.Param {
				p := choiceParam(&ir.String{}, "yes", "no")
				p.List = &ir.List{}
				return p
			}(),
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			app := testApp(grp(arg(ir.ParamToken(tc.param))))
			normalizeTruthyChoices(app)
			assert.NotNil(t, tc.param.Choices)
			_, isBool := tc.param.Body.(*ir.Bool)
			assert.False(t, isBool)
		})
	}
}

func TestNormalizeTruthyChoicesDescends(t *testing.T) {
	t.Parallel()

	p := choiceParam(&ir.String{}, "yes", "no")
	nested := &ir.Param{
		Base: ir.Base{ID: 3, Name: "opts"},
		Body: &ir.Struct{
			Name:   "opts",
			Groups: []*ir.ConditionalGroup{grp(arg(ir.ParamToken(p)))},
		},
	}
	app := testApp(grp(arg(ir.ParamToken(nested))))

	normalizeTruthyChoices(app)

	assert.IsType(t, &ir.Bool{}, p.Body)
}
