package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/styx-api/styx-go/backend/generic"
)

func TestGenerateMetadata(t *testing.T) {
	t.Parallel()

	p := Provider{}
	got := p.GenerateMetadata("BET_METADATA", []generic.MetadataEntry{
		{Key: "id", Value: "fsl.bet"},
		{Key: "name", Value: "bet"},
	})
	assert.Equal(t, generic.LineBuffer{
		"const BET_METADATA: Metadata = {",
		`    id: "fsl.bet",`,
		`    name: "bet",`,
		"};",
	}, got)
}

func TestRunnerAndExecutionStatements(t *testing.T) {
	t.Parallel()

	p := Provider{}
	assert.Equal(t,
		generic.LineBuffer{"runner = runner || getGlobalRunner();"},
		p.RunnerDeclare("runner"))
	assert.Equal(t,
		generic.LineBuffer{"const execution = runner.startExecution(BET_METADATA);"},
		p.ExecutionDeclare("execution", "BET_METADATA"))

	assert.Equal(t,
		generic.LineBuffer{"execution.run(cargs);"},
		p.ExecutionRun("execution", "cargs", "", ""))
	assert.Equal(t,
		generic.LineBuffer{"execution.run(cargs, (s) => ret.out.push(s), undefined);"},
		p.ExecutionRun("execution", "cargs", "out", ""))
	assert.Equal(t,
		generic.LineBuffer{"execution.run(cargs, (s) => ret.out.push(s), (s) => ret.err.push(s));"},
		p.ExecutionRun("execution", "cargs", "out", "err"))
}

func TestGenerateRetObjectCreation(t *testing.T) {
	t.Parallel()

	p := Provider{}
	got := p.GenerateRetObjectCreation("execution", "BetOutputs", []generic.Member{
		{Symbol: "brain", Expr: `execution.outputFile("brain.nii")`},
	})
	assert.Equal(t, generic.LineBuffer{
		"const ret: BetOutputs = {",
		`    root: execution.outputFile("."),`,
		`    brain: execution.outputFile("brain.nii"),`,
		"};",
	}, got)
}

func TestGenerateFunc(t *testing.T) {
	t.Parallel()

	p := Provider{}
	fn := &generic.Func{
		Name:          "bet",
		DocstringBody: "Brain extraction.",
		ReturnType:    "BetOutputs",
		ReturnDescr:   "Outputs.",
		Args: []generic.Arg{
			{Name: "runner", Type: "Runner | null", Default: strPtr("null"), Docstring: "Command runner"},
			{Name: "infile", Type: "InputPathType", Docstring: "Input image"},
		},
		Body: generic.LineBuffer{"return ret;"},
	}

	assert.Equal(t, generic.LineBuffer{
		"/**",
		" * Brain extraction.",
		" *",
		" * @param infile Input image",
		" * @param runner Command runner",
		" *",
		" * @returns Outputs.",
		" */",
		"function bet(",
		"    infile: InputPathType,",
		"    runner: Runner | null = null,",
		"): BetOutputs {",
		"    return ret;",
		"}",
	}, p.GenerateFunc(fn))
}

func TestGenerateStructure(t *testing.T) {
	t.Parallel()

	p := Provider{}
	got := p.GenerateStructure(&generic.Structure{
		Name:      "BetOutputs",
		Docstring: "Output object returned when calling `bet(...)`.",
		Fields: []generic.Arg{
			{Name: "root", Type: "OutputPathType", Docstring: "Output root folder"},
			{Name: "brain", Type: "OutputPathType"},
		},
	})
	assert.Equal(t, generic.LineBuffer{
		"/**",
		" * Output object returned when calling `bet(...)`.",
		" */",
		"interface BetOutputs {",
		"    /**",
		"     * Output root folder",
		"     */",
		"    root: OutputPathType;",
		"    brain: OutputPathType;",
		"}",
	}, got)
}

func TestGenerateModule(t *testing.T) {
	t.Parallel()

	p := Provider{}
	m := &generic.Module{
		Imports: generic.LineBuffer{`import { Runner } from "styxdefs";`},
		Decls: []generic.Decl{
			&generic.Func{
				Name: "bet",
				Body: generic.LineBuffer{"return;"},
			},
		},
	}
	m.AddExport("bet")
	m.AddExport("BetOutputs")

	assert.Equal(t, generic.Collapse(generic.LineBuffer{
		"// This file was auto generated by Styx.",
		"// Do not edit this file directly.",
		"",
		`import { Runner } from "styxdefs";`,
		"",
		"",
		"/**",
		" */",
		"function bet(",
		"): void {",
		"    return;",
		"}",
		"",
		"",
		"export {",
		"    BetOutputs,",
		"    bet,",
		"};",
		"",
	}), generic.Collapse(p.GenerateModule(m)))
}

func TestLanguageScope(t *testing.T) {
	t.Parallel()

	scope := Provider{}.LanguageScope()
	for _, w := range []string{"function", "class", "interface", "export", "let"} {
		assert.True(t, scope.Contains(w), "reserved word %q", w)
	}

	child := generic.NewScope(scope)
	assert.Equal(t, "function_2", child.AddOrDodge("function"))
	assert.Equal(t, "bet", child.AddOrDodge("bet"))
}
