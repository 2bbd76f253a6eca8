package generic

import "github.com/styx-api/styx-go/ir"

// SymbolLUT pre-allocates every identifier code generation will
// reference, keyed by stable IR ids. Building it is the only naming
// pass; the driver and providers afterwards only look names up.
type SymbolLUT struct {
	// ObjMetadata is the public static metadata object.
	ObjMetadata string
	// FnRootMakeParamsAndExecute is the main entrypoint combining
	// params building and execution.
	FnRootMakeParamsAndExecute string
	// FnRootExecute executes a params object.
	FnRootExecute string
	// FnRootValidateParams validates a root params object. Empty when
	// the provider does not validate.
	FnRootValidateParams string
	// TypeRootParams and friends name the root struct's artifacts.
	TypeRootParams       string
	TypeRootParamsTagged string
	FnRootMakeParams     string
	FnRootMakeCmdargs    string
	TypeRootOutputs      string
	FnRootMakeOutputs    string

	// Per-struct artifacts, keyed by struct param ID.
	TypeStructParams       map[ir.ID]string
	TypeStructParamsTagged map[ir.ID]string
	TypeStructOutputs      map[ir.ID]string
	FnStructMakeParams     map[ir.ID]string
	FnStructMakeCmdargs    map[ir.ID]string
	FnStructMakeOutputs    map[ir.ID]string
	FnStructExecute        map[ir.ID]string
	FnStructValidateParams map[ir.ID]string

	// Union dynamic dispatch functions, keyed by union param ID.
	FnDynUnionMakeCmdargs    map[ir.ID]string
	FnDynUnionMakeOutputs    map[ir.ID]string
	FnDynUnionValidateParams map[ir.ID]string

	// Per-param data.
	ParamByID map[ir.ID]*ir.Param
	TypeParam map[ir.ID]string
	VarParam  map[ir.ID]string
	VarOutput map[ir.ID]string
}

// BuildSymbolLUT allocates all symbols for an app inside the package
// scope. The app must be set up.
func BuildSymbolLUT(lang LanguageProvider, app *ir.App, packageScope *Scope) *SymbolLUT {
	app.AssertSetUp()

	functionScope := lang.LanguageScope()
	functionScope.MustAdd("runner")
	functionScope.MustAdd("execution")
	functionScope.MustAdd("cargs")
	functionScope.MustAdd("ret")
	functionScope.MustAdd("params")

	cmd := app.Command
	cmdName := cmd.Name
	structName := cmd.Body.(*ir.Struct).Name

	lut := &SymbolLUT{
		ObjMetadata:                packageScope.AddOrDodge(lang.MetadataSymbol(cmdName)),
		FnRootExecute:              packageScope.AddOrDodge(lang.SymbolVarCase(structName + "_execute")),
		FnRootMakeParamsAndExecute: packageScope.AddOrDodge(lang.SymbolVarCase(cmdName)),
		TypeRootParams:             packageScope.AddOrDodge(lang.SymbolClassCase(structName + "_Parameters")),
		TypeRootParamsTagged:       packageScope.AddOrDodge(lang.SymbolClassCase(structName + "_ParametersTagged")),
		FnRootMakeParams:           packageScope.AddOrDodge(lang.SymbolVarCase(structName + "_params")),
		FnRootMakeCmdargs:          packageScope.AddOrDodge(lang.SymbolVarCase(structName + "_cargs")),
		TypeRootOutputs:            packageScope.AddOrDodge(lang.SymbolClassCase(structName + "_Outputs")),
		FnRootMakeOutputs:          packageScope.AddOrDodge(lang.SymbolVarCase(structName + "_outputs")),

		TypeStructParams:       make(map[ir.ID]string),
		TypeStructParamsTagged: make(map[ir.ID]string),
		TypeStructOutputs:      make(map[ir.ID]string),
		FnStructMakeParams:     make(map[ir.ID]string),
		FnStructMakeCmdargs:    make(map[ir.ID]string),
		FnStructMakeOutputs:    make(map[ir.ID]string),
		FnStructExecute:        make(map[ir.ID]string),
		FnStructValidateParams: make(map[ir.ID]string),

		FnDynUnionMakeCmdargs:    make(map[ir.ID]string),
		FnDynUnionMakeOutputs:    make(map[ir.ID]string),
		FnDynUnionValidateParams: make(map[ir.ID]string),

		ParamByID: make(map[ir.ID]*ir.Param),
		TypeParam: make(map[ir.ID]string),
		VarParam:  make(map[ir.ID]string),
		VarOutput: make(map[ir.ID]string),
	}
	if lang.DoesValidate() {
		lut.FnRootValidateParams = packageScope.AddOrDodge(lang.SymbolVarCase(structName + "_validate_params"))
	}

	lut.ParamByID[cmd.ID] = cmd
	lut.TypeParam[cmd.ID] = lut.TypeRootParams

	lut.TypeStructParams[cmd.ID] = lut.TypeRootParams
	lut.TypeStructParamsTagged[cmd.ID] = lut.TypeRootParamsTagged
	lut.FnStructMakeParams[cmd.ID] = lut.FnRootMakeParams
	lut.FnStructMakeCmdargs[cmd.ID] = lut.FnRootMakeCmdargs
	lut.FnStructMakeOutputs[cmd.ID] = lut.FnRootMakeOutputs
	lut.FnStructExecute[cmd.ID] = lut.FnRootExecute
	lut.TypeStructOutputs[cmd.ID] = lut.TypeRootOutputs
	if lang.DoesValidate() {
		lut.FnStructValidateParams[cmd.ID] = lut.FnRootValidateParams
	}

	scope := NewScope(packageScope)

	for _, sub := range cmd.StructsDeep() {
		sn := sub.Body.(*ir.Struct).Name
		lut.TypeStructParams[sub.ID] = scope.AddOrDodge(lang.SymbolClassCase(structName + "_" + sn + "_Parameters"))
		lut.TypeStructParamsTagged[sub.ID] = scope.AddOrDodge(lang.SymbolClassCase(structName + "_" + sn + "_ParametersTagged"))
		lut.FnStructMakeParams[sub.ID] = scope.AddOrDodge(lang.SymbolVarCase(structName + "_" + sn + "_params"))
		lut.FnStructMakeCmdargs[sub.ID] = scope.AddOrDodge(lang.SymbolVarCase(structName + "_" + sn + "_cargs"))
		lut.FnStructMakeOutputs[sub.ID] = scope.AddOrDodge(lang.SymbolVarCase(structName + "_" + sn + "_outputs"))
		lut.FnStructExecute[sub.ID] = scope.AddOrDodge(lang.SymbolVarCase(structName + "_" + sn + "_execute"))
		lut.TypeStructOutputs[sub.ID] = packageScope.AddOrDodge(lang.SymbolClassCase(structName + "_" + sn + "_Outputs"))
		if lang.DoesValidate() {
			lut.FnStructValidateParams[sub.ID] = scope.AddOrDodge(lang.SymbolVarCase(structName + "_" + sn + "_validate_params"))
		}
	}

	lut.collectParamSymbols(lang, functionScope, cmd)
	lut.collectOutputSymbols(lang, packageScope, app, cmd)

	for _, p := range cmd.ParamsDeep() {
		lut.ParamByID[p.ID] = p

		switch body := p.Body.(type) {
		case *ir.Struct:
			lut.TypeParam[p.ID] = lang.TypeParam(lut, p)
			lut.collectParamSymbols(lang, functionScope, p)
			lut.collectOutputSymbols(lang, packageScope, app, p)
		case *ir.StructUnion:
			for _, alt := range body.Alts {
				lut.TypeParam[alt.ID] = lang.TypeParam(lut, alt)
			}
			lut.FnDynUnionMakeOutputs[p.ID] = scope.AddOrDodge(
				lang.SymbolVarCase(structName + "_" + p.Name + "_outputs_dyn_fn"))
			lut.FnDynUnionMakeCmdargs[p.ID] = scope.AddOrDodge(
				lang.SymbolVarCase(structName + "_" + p.Name + "_cargs_dyn_fn"))
			if lang.DoesValidate() {
				lut.FnDynUnionValidateParams[p.ID] = scope.AddOrDodge(
					lang.SymbolVarCase(structName + "_" + p.Name + "_validate_params_dyn_fn"))
			}
			lut.TypeParam[p.ID] = lang.TypeParam(lut, p)
		default:
			lut.TypeParam[p.ID] = lang.TypeParam(lut, p)
		}
	}

	return lut
}

// collectParamSymbols names the function arguments holding each direct
// child's value. A per-struct child scope keeps siblings apart while
// letting unrelated structs reuse names.
func (lut *SymbolLUT) collectParamSymbols(lang LanguageProvider, functionScope *Scope, sp *ir.Param) {
	scope := NewScope(functionScope)
	for _, child := range sp.Body.(*ir.Struct).IterParams() {
		lut.VarParam[child.ID] = scope.AddOrDodge(lang.SymbolVarCase(child.Name))
	}
}

// collectOutputSymbols names the fields of a struct's outputs object:
// captured streams first, declared outputs, then sub-struct and union
// output aggregates.
func (lut *SymbolLUT) collectOutputSymbols(lang LanguageProvider, packageScope *Scope, app *ir.App, sp *ir.Param) {
	scope := NewScope(packageScope)
	scope.MustAdd("root")

	for _, stream := range []*ir.StreamOutput{app.CaptureStdout, app.CaptureStderr} {
		if stream == nil {
			continue
		}
		// Reserve the stream name in every outputs scope; record the
		// symbol once (streams surface on the root outputs object).
		sym := scope.AddOrDodge(lang.SymbolVarCase(stream.Name))
		if _, ok := lut.VarOutput[stream.ID]; !ok {
			lut.VarOutput[stream.ID] = sym
		}
	}
	for _, o := range sp.Outputs {
		lut.VarOutput[o.ID] = scope.AddOrDodge(lang.SymbolVarCase(o.Name))
	}
	for _, child := range sp.Body.(*ir.Struct).IterParams() {
		switch child.Body.(type) {
		case *ir.Struct, *ir.StructUnion:
			lut.VarOutput[child.ID] = scope.AddOrDodge(lang.SymbolVarCase(child.Name))
		}
	}
}

// SymbolMap returns a JSON-encodable description of the public symbols
// generated for the app, keyed by parameter names so downstream tooling
// can map IR names to generated identifiers.
func (lut *SymbolLUT) SymbolMap(root *ir.Param) map[string]any {
	return map[string]any{
		"fn_root_make_params_and_execute": lut.FnRootMakeParamsAndExecute,
		"properties":                      lut.paramSymbolMap(root),
	}
}

func (lut *SymbolLUT) paramSymbolMap(sp *ir.Param) map[string]any {
	out := make(map[string]any)
	for _, child := range sp.Body.(*ir.Struct).IterParams() {
		entry := map[string]any{
			"var_param": lut.VarParam[child.ID],
		}
		if _, ok := child.Body.(*ir.Struct); ok {
			entry["fn_struct_make_params"] = lut.FnStructMakeParams[child.ID]
			entry["properties"] = lut.paramSymbolMap(child)
		}
		out[child.Name] = entry
	}
	return out
}
