package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serializeApp covers every body variant, modifier and default form the
// document format can express.
func serializeApp() *App {
	infile := &Param{
		Base: Base{
			ID:   2,
			Name: "infile",
			Docs: Documentation{Description: "Input image."},
			Outputs: []*Output{{
				ID:   100,
				Name: "masked",
				Tokens: []OutputToken{
					{Literal: "masked_"},
					{Ref: &OutputParamReference{RefID: 2, FileRemoveSuffixes: []string{".nii.gz", ".nii"}}},
					{Literal: ".nii.gz"},
				},
				MediaTypes: []string{"application/x-nifti"},
			}},
		},
		Body: &File{ResolveParent: true, MediaTypes: []string{"application/x-nifti"}},
	}
	sigma := &Param{
		Base:     Base{ID: 3, Name: "sigma"},
		Body:     &Float{MinValue: floatPtr(0), MaxValue: floatPtr(10)},
		Nullable: true,
		Default:  SetToNone,
	}
	threads := &Param{
		Base:    Base{ID: 4, Name: "threads"},
		Body:    &Int{MinValue: intPtr(1)},
		Default: 4,
	}
	mode := &Param{
		Base:    Base{ID: 5, Name: "mode"},
		Body:    &String{},
		Choices: []any{"fast", "accurate"},
		Default: "fast",
	}
	verbose := &Param{
		Base:    Base{ID: 6, Name: "verbose"},
		Body:    &Bool{ValueTrue: []string{"--verbose"}},
		Default: false,
	}
	shape := &Param{
		Base:    Base{ID: 7, Name: "shape"},
		Body:    &Int{},
		List:    &List{CountMin: intPtr(2), CountMax: intPtr(3), Join: strPtr("x")},
		Default: []any{64, 64},
	}
	radius := &Param{Base: Base{ID: 10, Name: "radius"}, Body: &Int{}}
	sphere := &Param{
		Base: Base{ID: 9, Name: "sphere"},
		Body: &Struct{
			Name: "sphere",
			Groups: []*ConditionalGroup{
				{Cargs: []*CmdArg{{Tokens: []Token{LiteralToken("sphere"), ParamToken(radius)}, Join: strPtr("=")}}},
			},
		},
	}
	kernel := &Param{
		Base:     Base{ID: 8, Name: "kernel"},
		Body:     &StructUnion{Alts: []*Param{sphere}},
		Nullable: true,
	}
	return &App{
		UID: "neurotools.deface",
		Command: &Param{
			Base: Base{ID: 1, Name: "deface"},
			Body: &Struct{
				Name:       "deface",
				PublicName: "neurotools/deface",
				Docs:       &Documentation{Title: "deface", Description: "Removes facial features."},
				Groups: []*ConditionalGroup{
					{Cargs: []*CmdArg{{Tokens: []Token{LiteralToken("deface")}}}},
					{Cargs: []*CmdArg{{Tokens: []Token{ParamToken(infile)}}}},
					{Cargs: []*CmdArg{{Tokens: []Token{LiteralToken("--sigma="), ParamToken(sigma)}}}},
					{Cargs: []*CmdArg{{Tokens: []Token{LiteralToken("-j"), ParamToken(threads)}}}},
					{Cargs: []*CmdArg{{Tokens: []Token{ParamToken(mode)}}}},
					{Cargs: []*CmdArg{{Tokens: []Token{ParamToken(verbose)}}}},
					{Cargs: []*CmdArg{{Tokens: []Token{LiteralToken("--shape="), ParamToken(shape)}}}},
					{Cargs: []*CmdArg{{Tokens: []Token{ParamToken(kernel)}}}, Join: strPtr(" ")},
				},
			},
		},
		CaptureStdout: &StreamOutput{ID: 200, Name: "log", Docs: Documentation{Description: "Tool log."}},
		Project: Project{
			Name:    "neurotools",
			Version: "1.2.0",
			Docs:    Documentation{Title: "NeuroTools", Authors: []string{"Jane Doe"}},
			License: "MIT",
			Extras:  map[string]any{"dist_repo_url": "https://example.com/neurotools.git"},
		},
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()

	app := serializeApp()
	doc, err := ToJSON(app)
	require.NoError(t, err)

	got, err := FromJSON(doc)
	require.NoError(t, err)

	assert.Equal(t, "neurotools.deface", got.UID)
	assert.False(t, got.IsSetUp())

	root := got.Command.Body.(*Struct)
	assert.Equal(t, "deface", root.Name)
	assert.Equal(t, "neurotools/deface", root.PublicName)
	require.NotNil(t, root.Docs)
	assert.Equal(t, "Removes facial features.", root.Docs.Description)
	require.Len(t, root.Groups, 8)
	require.NotNil(t, root.Groups[7].Join)
	assert.Equal(t, " ", *root.Groups[7].Join)

	byName := map[string]*Param{}
	for _, p := range got.Command.ParamsDeep() {
		byName[p.Name] = p
	}

	infile := byName["infile"]
	file := infile.Body.(*File)
	assert.True(t, file.ResolveParent)
	assert.Equal(t, []string{"application/x-nifti"}, file.MediaTypes)
	require.Len(t, infile.Outputs, 1)
	out := infile.Outputs[0]
	assert.Equal(t, ID(100), out.ID)
	require.Len(t, out.Tokens, 3)
	assert.Equal(t, "masked_", out.Tokens[0].Literal)
	require.NotNil(t, out.Tokens[1].Ref)
	assert.Equal(t, ID(2), out.Tokens[1].Ref.RefID)
	assert.Equal(t, []string{".nii.gz", ".nii"}, out.Tokens[1].Ref.FileRemoveSuffixes)
	assert.Nil(t, out.Tokens[1].Ref.Fallback)

	sigma := byName["sigma"]
	assert.True(t, sigma.Nullable)
	assert.Equal(t, SetToNone, sigma.Default)
	fb := sigma.Body.(*Float)
	require.NotNil(t, fb.MaxValue)
	assert.Equal(t, 10.0, *fb.MaxValue)

	threads := byName["threads"]
	assert.Equal(t, 4, threads.Default)
	require.NotNil(t, threads.Body.(*Int).MinValue)
	assert.Equal(t, 1, *threads.Body.(*Int).MinValue)

	mode := byName["mode"]
	assert.Equal(t, []any{"fast", "accurate"}, mode.Choices)
	assert.Equal(t, "fast", mode.Default)

	verbose := byName["verbose"]
	assert.Equal(t, false, verbose.Default)
	assert.Equal(t, []string{"--verbose"}, verbose.Body.(*Bool).ValueTrue)
	assert.Empty(t, verbose.Body.(*Bool).ValueFalse)

	shape := byName["shape"]
	require.NotNil(t, shape.List)
	assert.Equal(t, 2, *shape.List.CountMin)
	assert.Equal(t, 3, *shape.List.CountMax)
	assert.Equal(t, "x", *shape.List.Join)
	assert.Equal(t, []any{64, 64}, shape.Default)

	kernel := byName["kernel"]
	union := kernel.Body.(*StructUnion)
	require.Len(t, union.Alts, 1)
	assert.Equal(t, "sphere", union.Alts[0].Body.(*Struct).Name)
	sphereGroups := union.Alts[0].Body.(*Struct).Groups
	require.Len(t, sphereGroups, 1)
	require.NotNil(t, sphereGroups[0].Cargs[0].Join)
	assert.Equal(t, "=", *sphereGroups[0].Cargs[0].Join)

	require.NotNil(t, got.CaptureStdout)
	assert.Equal(t, ID(200), got.CaptureStdout.ID)
	assert.Equal(t, "log", got.CaptureStdout.Name)
	assert.Nil(t, got.CaptureStderr)

	assert.Equal(t, "neurotools", got.Project.Name)
	assert.Equal(t, "MIT", got.Project.License)
	assert.Equal(t, []string{"Jane Doe"}, got.Project.Docs.Authors)
	assert.Equal(t, "https://example.com/neurotools.git", got.Project.Extras["dist_repo_url"])
}

func TestSerializeStableAcrossRoundTrip(t *testing.T) {
	t.Parallel()

	// Encoding a decoded document must reproduce the original bytes.
	first, err := ToJSON(serializeApp())
	require.NoError(t, err)

	decoded, err := FromJSON(first)
	require.NoError(t, err)

	second, err := ToJSON(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestFromJSONRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "{"},
		{name: "wrong root type", doc: `[1, 2, 3]`},
		{name: "missing command", doc: `{"uid": "x"}`},
		{
			name: "unknown body type",
			doc: `{
				"uid": "x",
				"command": {
					"base": {"id": 1, "name": "tool", "outputs": [], "docs": {}},
					"body": {"type": "quaternion"},
					"list": null,
					"nullable": false,
					"choices": null,
					"defaultValue": null
				}
			}`,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := FromJSON([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestFromJSONValidatesParams(t *testing.T) {
	t.Parallel()

	app := serializeApp()
	byName := map[string]*Param{}
	for _, p := range app.Command.ParamsDeep() {
		byName[p.Name] = p
	}
	// Break a bound so the decoded parameter fails validation.
	byName["threads"].Default = 0

	doc, err := ToJSON(app)
	require.NoError(t, err)

	_, err = FromJSON(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default 0 less than min value 1")
}
