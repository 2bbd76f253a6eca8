package generic

import "github.com/styx-api/styx-go/ir"

// MStr is a string-valued expression of the generated language together
// with its shape: a single string or a list of strings. The shape
// decides between appending and extending when the expression lands in
// the argument vector.
type MStr struct {
	Expr   string
	IsList bool
}

type (
	// ParamItem pairs a parameter with the expression holding its value.
	ParamItem struct {
		Param *ir.Param
		Value string
	}

	// Member is one named member expression of an object under
	// construction. Order is significant.
	Member struct {
		Symbol string
		Expr   string
	}

	// MetadataEntry is one key of the static metadata object. Order is
	// significant.
	MetadataEntry struct {
		Key   string
		Value any
	}
)

// TypeProvider supplies the target language's type syntax.
type TypeProvider interface {
	TypeStr() string
	TypeInt() string
	TypeFloat() string
	TypeBool() string
	TypeInputPath() string
	TypeOutputPath() string
	TypeRunner() string
	TypeExecution() string
	TypeStringList() string
	// TypeLiteralUnion is the type admitting exactly the given scalar
	// values.
	TypeLiteralUnion(values []any) string
	TypeList(elem string) string
	TypeOptional(elem string) string
	TypeUnion(elems []string) string
}

// SymbolProvider converts arbitrary names into legal target-language
// identifiers and exposes the language's reserved-word scope.
type SymbolProvider interface {
	SymbolVarCase(name string) string
	SymbolClassCase(name string) string
	SymbolConstantCase(name string) string
	// LanguageScope returns a fresh scope pre-seeded with the
	// language's reserved words and ambient names.
	LanguageScope() *Scope
}

// ExprProvider supplies the target language's literal and expression
// syntax.
type ExprProvider interface {
	ExprBool(v bool) string
	ExprInt(v int) string
	ExprFloat(v float64) string
	ExprStr(v string) string
	ExprList(items []string) string
	// ExprLiteral renders any supported literal value, including string
	// lists and nil.
	ExprLiteral(v any) string
	ExprNull() string
	ExprNumericToStr(expr string) string
	ExprRemoveSuffixes(expr string, suffixes []string) string
	ExprPathGetFilename(expr string) string
	ExprConditionsJoinAnd(conds []string) string
	ExprConditionsJoinOr(conds []string) string
	ExprConcatStrs(exprs []string, join string) string
	ExprTernary(cond, truthy, falsy string, paren bool) string
	LineComment(lines LineBuffer) LineBuffer
}

// StatementProvider supplies the statement shapes the driver composes.
type StatementProvider interface {
	ReturnStatement(value string) string
	IfElseBlock(cond string, truthy, falsy LineBuffer) LineBuffer
	CargsDeclare(symbol string) LineBuffer
	// MStrCollapse joins a list-shaped expression into a single string
	// expression.
	MStrCollapse(m MStr, join string) MStr
	// MStrConcat collapses each expression and concatenates the results.
	MStrConcat(ms []MStr, innerJoin, outerJoin string) MStr
	// MStrEmptyLiteralLike is the empty value of the same shape.
	MStrEmptyLiteralLike(m MStr) string
	MStrCargsAdd(cargsSymbol string, m MStr) LineBuffer
	MStrCargsAddAll(cargsSymbol string, ms []MStr) LineBuffer
}

// IRProvider supplies the language's rendering of IR semantics: value
// expressions, is-set tests, params objects and validation.
type IRProvider interface {
	// ParamVarToMStr is the expression producing the parameter's
	// command-line contribution from the given value expression.
	ParamVarToMStr(lut *SymbolLUT, p *ir.Param, symbol string) MStr
	// ParamVarIsSet is the runtime is-set test, or ok=false when the
	// parameter is always set.
	ParamVarIsSet(p *ir.Param, symbol string, paren bool) (expr string, ok bool)
	// ParamDefaultValue is the declaration default, or nil if the
	// parameter is required.
	ParamDefaultValue(p *ir.Param) *string
	// TypeParam is the native type of a parameter.
	TypeParam(lut *SymbolLUT, p *ir.Param) string

	ParamDictCreate(lut *SymbolLUT, name string, s *ir.Param, items []ParamItem) LineBuffer
	ParamDictSet(dict string, p *ir.Param, value string) LineBuffer
	ParamDictGet(dict string, p *ir.Param) string
	ParamDictGetOrDefault(dict string, p *ir.Param, def string) string
	ParamDictGetOrNull(dict string, p *ir.Param) string
	// ParamDictTypeDeclare declares the struct's params type (plain and
	// tagged).
	ParamDictTypeDeclare(lut *SymbolLUT, s *ir.Param) LineBuffer

	// StructCollectOutputs is the expression collecting a sub-struct's
	// (or union's) outputs object.
	StructCollectOutputs(lut *SymbolLUT, p *ir.Param, symbol string) string
	// DynDeclare declares the union's dynamic dispatch functions.
	DynDeclare(lut *SymbolLUT, union *ir.Param) []*Func

	// DoesValidate reports whether the provider emits params validation.
	DoesValidate() bool
	BuildFnValidateParams(lut *SymbolLUT, s *ir.Param) *Func
	CallValidateParams(lut *SymbolLUT, paramsSymbol string) LineBuffer

	BuildParamsAndExecute(lut *SymbolLUT, s *ir.Param, runnerSymbol string) LineBuffer
	CallBuildCargs(lut *SymbolLUT, s *ir.Param, params, execution, ret string) LineBuffer
	CallBuildOutputs(lut *SymbolLUT, s *ir.Param, params, execution, ret string) LineBuffer
}

// ModuleProvider assembles functions, structures and modules into
// source text.
type ModuleProvider interface {
	WrapperModuleImports() LineBuffer
	GenerateFunc(f *Func) LineBuffer
	GenerateStructure(s *Structure) LineBuffer
	GenerateModule(m *Module) LineBuffer
	MetadataSymbol(baseName string) string
	GenerateMetadata(symbol string, entries []MetadataEntry) LineBuffer
	RunnerDeclare(symbol string) LineBuffer
	ExecutionDeclare(execution, metadataSymbol string) LineBuffer
	ExecutionProcessParams(execution, params string) LineBuffer
	ExecutionRun(execution, cargs, stdoutSymbol, stderrSymbol string) LineBuffer
	GenerateRetObjectCreation(execution, outputType string, members []Member) LineBuffer
	ResolveOutputFile(execution, fileExpr string) string
}

// LanguageProvider is the full capability set a target backend
// implements to drive code generation.
type LanguageProvider interface {
	TypeProvider
	SymbolProvider
	ExprProvider
	StatementProvider
	IRProvider
	ModuleProvider
}

// GenerateDecl renders a module declaration through the provider.
func GenerateDecl(lang ModuleProvider, d Decl) LineBuffer {
	switch d := d.(type) {
	case *Func:
		return lang.GenerateFunc(d)
	case *Structure:
		return lang.GenerateStructure(d)
	default:
		panic("styx: unknown module declaration")
	}
}
