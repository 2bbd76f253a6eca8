package generic

import (
	"fmt"

	"github.com/styx-api/styx-go/ir"
)

// compileBuildParams emits the function building a struct's params
// object from native arguments.
func compileBuildParams(lang LanguageProvider, sp *ir.Param, lut *SymbolLUT) *Func {
	fn := &Func{
		Name:          lut.FnStructMakeParams[sp.ID],
		DocstringBody: "Build parameters.",
		ReturnType:    lut.TypeStructParamsTagged[sp.ID],
		ReturnDescr:   "Parameter dictionary",
	}

	children := sp.Body.(*ir.Struct).IterParams()
	for _, p := range children {
		fn.Args = append(fn.Args, Arg{
			Name:      lut.VarParam[p.ID],
			Type:      lut.TypeParam[p.ID],
			Default:   lang.ParamDefaultValue(p),
			Docstring: p.Docs.Description,
		})
	}

	const paramsSymbol = "params"

	var items []ParamItem
	for _, p := range children {
		if p.Nullable {
			continue
		}
		items = append(items, ParamItem{Param: p, Value: lut.VarParam[p.ID]})
	}
	fn.Body = append(fn.Body, lang.ParamDictCreate(lut, paramsSymbol, sp, items)...)

	for _, p := range children {
		if !p.Nullable {
			continue
		}
		if cond, ok := lang.ParamVarIsSet(p, lut.VarParam[p.ID], false); ok {
			fn.Body = append(fn.Body, lang.IfElseBlock(cond,
				lang.ParamDictSet(paramsSymbol, p, lut.VarParam[p.ID]), nil)...)
		}
	}

	fn.Body = append(fn.Body, lang.ReturnStatement(paramsSymbol))
	return fn
}

// compileBuildCargs emits the function assembling the command-line
// argument vector from a params object.
//
// Two structurally equal sets of expressions are collected per group:
// one assuming every parameter is set and one substituting empty
// placeholders. The latter is used when more than one set-condition
// guards the group, since any single condition then no longer implies
// the others.
func compileBuildCargs(lang LanguageProvider, sp *ir.Param, lut *SymbolLUT) *Func {
	fn := &Func{
		Name:          lut.FnStructMakeCmdargs[sp.ID],
		DocstringBody: "Build command-line arguments from parameters.",
		ReturnType:    lang.TypeStringList(),
		ReturnDescr:   "Command-line arguments.",
		Args: []Arg{
			{Name: "params", Type: lut.TypeStructParams[sp.ID], Docstring: "The parameters."},
			{Name: "execution", Type: lang.TypeExecution(), Docstring: "The execution object for resolving input paths."},
		},
	}

	fn.Body = append(fn.Body, lang.CargsDeclare("cargs")...)

	for _, group := range sp.Body.(*ir.Struct).Groups {
		var groupConditions []string

		var cargExprs []MStr
		var cargExprsMaybeNull []MStr

		for _, carg := range group.Cargs {
			var exprs []MStr
			var exprsMaybeNull []MStr

			for _, token := range carg.Tokens {
				if token.Param == nil {
					lit := MStr{Expr: lang.ExprStr(token.Literal)}
					exprs = append(exprs, lit)
					exprsMaybeNull = append(exprsMaybeNull, lit)
					continue
				}
				p := token.Param
				var def string
				if p.Default == ir.SetToNone {
					def = lang.ExprNull()
				} else {
					def = lang.ExprLiteral(p.Default)
				}
				symbol := lang.ParamDictGetOrDefault("params", p, def)
				m := lang.ParamVarToMStr(lut, p, symbol)
				exprs = append(exprs, m)
				if cond, ok := lang.ParamVarIsSet(p, symbol, false); ok {
					groupConditions = append(groupConditions, cond)
					empty := lang.MStrEmptyLiteralLike(m)
					exprsMaybeNull = append(exprsMaybeNull, MStr{
						Expr:   lang.ExprTernary(cond, m.Expr, empty, true),
						IsList: m.IsList,
					})
				} else {
					exprsMaybeNull = append(exprsMaybeNull, m)
				}
			}

			if len(exprs) == 1 {
				cargExprs = append(cargExprs, exprs[0])
				cargExprsMaybeNull = append(cargExprsMaybeNull, exprsMaybeNull[0])
			} else {
				join := ""
				if carg.Join != nil {
					join = *carg.Join
				}
				cargExprs = append(cargExprs, lang.MStrConcat(exprs, "", join))
				cargExprsMaybeNull = append(cargExprsMaybeNull, lang.MStrConcat(exprsMaybeNull, "", join))
			}
		}

		chosen := cargExprs
		if len(groupConditions) > 1 {
			chosen = cargExprsMaybeNull
		}
		var appending LineBuffer
		if len(chosen) == 1 {
			appending = append(appending, lang.MStrCargsAdd("cargs", chosen[0])...)
		} else {
			appending = append(appending, lang.MStrCargsAddAll("cargs", chosen)...)
		}

		if len(groupConditions) > 0 {
			fn.Body = append(fn.Body, lang.IfElseBlock(
				lang.ExprConditionsJoinOr(groupConditions), appending, nil)...)
		} else {
			fn.Body = append(fn.Body, appending...)
		}
	}

	fn.Body = append(fn.Body, lang.ReturnStatement("cargs"))
	return fn
}

// compileOutputsStruct declares the outputs structure of a struct: the
// root folder, captured streams, declared output paths and nested
// outputs objects.
func compileOutputsStruct(lang LanguageProvider, sp *ir.Param, module *Module, lut *SymbolLUT, stdout, stderr *ir.StreamOutput) {
	outputs := &Structure{
		Name:      lut.TypeStructOutputs[sp.ID],
		Docstring: fmt.Sprintf("Output object returned when calling `%s(...)`.", lut.TypeParam[sp.ID]),
	}
	outputs.Fields = append(outputs.Fields, Arg{
		Name:      "root",
		Type:      lang.TypeOutputPath(),
		Docstring: "Output root folder. This is the root folder for all outputs.",
	})

	for _, stream := range []*ir.StreamOutput{stdout, stderr} {
		if stream == nil {
			continue
		}
		outputs.Fields = append(outputs.Fields, Arg{
			Name:      lut.VarOutput[stream.ID],
			Type:      lang.TypeStringList(),
			Docstring: stream.Docs.Description,
		})
	}

	for _, o := range sp.Outputs {
		// Optional if any referenced parameter is optional.
		optional := false
		for _, t := range o.Tokens {
			if t.Ref != nil && lut.ParamByID[t.Ref.RefID].Nullable {
				optional = true
			}
		}
		typ := lang.TypeOutputPath()
		if optional {
			typ = lang.TypeOptional(typ)
		}
		outputs.Fields = append(outputs.Fields, Arg{
			Name:      lut.VarOutput[o.ID],
			Type:      typ,
			Docstring: o.Docs.Description,
		})
	}

	for _, child := range sp.Body.(*ir.Struct).IterParams() {
		switch body := child.Body.(type) {
		case *ir.Struct:
			if !child.HasOutputsDeep() {
				continue
			}
			typ := lut.TypeStructOutputs[child.ID]
			docsAppend := ""
			if child.List != nil {
				typ = lang.TypeList(typ)
				docsAppend = " This is a list of outputs with the same length and order as the inputs."
			}
			if child.Nullable {
				typ = lang.TypeOptional(typ)
			}
			outputs.Fields = append(outputs.Fields, Arg{
				Name:      lut.VarOutput[child.ID],
				Type:      typ,
				Docstring: fmt.Sprintf("Outputs from `%s`.%s", lut.FnStructMakeOutputs[child.ID], docsAppend),
			})
		case *ir.StructUnion:
			var altTypes, altInputTypes []string
			for _, alt := range body.Alts {
				if !alt.HasOutputsDeep() {
					continue
				}
				altTypes = append(altTypes, lut.TypeStructOutputs[alt.ID])
				altInputTypes = append(altInputTypes, "`"+lut.TypeStructParams[alt.ID]+"`")
			}
			if len(altTypes) == 0 {
				continue
			}
			typ := lang.TypeUnion(altTypes)
			docsAppend := ""
			if child.List != nil {
				typ = lang.TypeList(typ)
				docsAppend = " This is a list of outputs with the same length and order as the inputs."
			}
			if child.Nullable {
				typ = lang.TypeOptional(typ)
			}
			outputs.Fields = append(outputs.Fields, Arg{
				Name:      lut.VarOutput[child.ID],
				Type:      typ,
				Docstring: fmt.Sprintf("Outputs from %s.%s", joinOr(altInputTypes), docsAppend),
			})
		}
	}

	module.Decls = append(module.Decls, outputs)
	module.AddExport(outputs.Name)
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	out := items[0]
	for _, it := range items[1:] {
		out += " or " + it
	}
	return out
}

// compileBuildOutputs emits the function materializing the outputs
// object: path templates resolved against the execution, conditional on
// every optional referenced parameter being set.
func compileBuildOutputs(lang LanguageProvider, sp *ir.Param, lut *SymbolLUT, stdout, stderr *ir.StreamOutput) *Func {
	fn := &Func{
		Name:          lut.FnStructMakeOutputs[sp.ID],
		DocstringBody: "Build outputs object containing output file paths and possibly stdout/stderr.",
		ReturnType:    lut.TypeStructOutputs[sp.ID],
		ReturnDescr:   "Outputs object.",
		Args: []Arg{
			{Name: "params", Type: lut.TypeStructParams[sp.ID], Docstring: "The parameters."},
			{Name: "execution", Type: lang.TypeExecution(), Docstring: "The execution object for resolving input paths."},
		},
	}

	var members []Member

	refValue := func(ref *ir.OutputParamReference) string {
		p := lut.ParamByID[ref.RefID]
		var symbol string
		if ref.Fallback != nil {
			symbol = lang.ParamDictGetOrDefault("params", p, lang.ExprStr(*ref.Fallback))
		} else {
			var def string
			if p.Default == ir.SetToNone || p.Default == nil {
				def = lang.ExprNull()
			} else {
				def = lang.ExprLiteral(p.Default)
			}
			symbol = lang.ParamDictGetOrDefault("params", p, def)
		}
		if p.List != nil {
			panic(fmt.Sprintf("styx: output path template references list parameter %q", p.Name))
		}
		switch p.Body.(type) {
		case *ir.String:
			return lang.ExprRemoveSuffixes(symbol, ref.FileRemoveSuffixes)
		case *ir.Int, *ir.Float:
			return lang.ExprNumericToStr(symbol)
		case *ir.File:
			return lang.ExprRemoveSuffixes(lang.ExprPathGetFilename(symbol), ref.FileRemoveSuffixes)
		default:
			panic(fmt.Sprintf("styx: unsupported parameter type in output path template of %q", p.Name))
		}
	}

	for _, stream := range []*ir.StreamOutput{stdout, stderr} {
		if stream == nil {
			continue
		}
		members = append(members, Member{Symbol: lut.VarOutput[stream.ID], Expr: lang.ExprList(nil)})
	}

	for _, o := range sp.Outputs {
		var segments []string
		var conditions []string
		for _, t := range o.Tokens {
			if t.Ref == nil {
				segments = append(segments, lang.ExprStr(t.Literal))
				continue
			}
			segments = append(segments, refValue(t.Ref))

			rp := lut.ParamByID[t.Ref.RefID]
			symbol := lang.ParamDictGetOrNull("params", rp)
			if cond, ok := lang.ParamVarIsSet(rp, symbol, false); ok && t.Ref.Fallback == nil {
				conditions = append(conditions, cond)
			}
		}
		resolved := lang.ResolveOutputFile("execution", lang.ExprConcatStrs(segments, ""))
		expr := resolved
		if len(conditions) > 0 {
			expr = lang.ExprTernary(lang.ExprConditionsJoinAnd(conditions), resolved, lang.ExprNull(), false)
		}
		members = append(members, Member{Symbol: lut.VarOutput[o.ID], Expr: expr})
	}

	for _, child := range sp.Body.(*ir.Struct).IterParams() {
		hasOutputs := false
		switch body := child.Body.(type) {
		case *ir.Struct:
			hasOutputs = child.HasOutputsDeep()
		case *ir.StructUnion:
			for _, alt := range body.Alts {
				if alt.HasOutputsDeep() {
					hasOutputs = true
				}
			}
		}
		if !hasOutputs {
			continue
		}
		symbol := lang.ParamDictGetOrNull("params", child)
		members = append(members, Member{
			Symbol: lut.VarOutput[child.ID],
			Expr:   lang.StructCollectOutputs(lut, child, symbol),
		})
	}

	fn.Body = append(fn.Body, lang.GenerateRetObjectCreation("execution", lut.TypeStructOutputs[sp.ID], members)...)
	fn.Body = append(fn.Body, lang.ReturnStatement("ret"))
	return fn
}

// compileExecute emits the function running the tool: validate (when the
// provider supports it), start an execution, build cargs and outputs,
// run and return.
func compileExecute(lang LanguageProvider, sp *ir.Param, lut *SymbolLUT, stdout, stderr *ir.StreamOutput) *Func {
	outputsType := lut.TypeStructOutputs[sp.ID]

	fn := &Func{
		Name:          lut.FnStructExecute[sp.ID],
		ReturnType:    outputsType,
		ReturnDescr:   fmt.Sprintf("NamedTuple of outputs (described in `%s`).", outputsType),
		DocstringBody: DocsToDocstring(sp.Docs),
		Args: []Arg{
			{Name: "params", Type: lut.TypeStructParams[sp.ID], Docstring: "The parameters."},
			{Name: "runner", Type: lang.TypeOptional(lang.TypeRunner()), Default: ptr(lang.ExprNull()), Docstring: "Command runner"},
		},
	}

	var stdoutSymbol, stderrSymbol string
	if stdout != nil {
		stdoutSymbol = lut.VarOutput[stdout.ID]
	}
	if stderr != nil {
		stderrSymbol = lut.VarOutput[stderr.ID]
	}

	if lang.DoesValidate() {
		fn.Body = append(fn.Body, lang.CallValidateParams(lut, "params")...)
	}
	fn.Body = append(fn.Body, lang.RunnerDeclare("runner")...)
	fn.Body = append(fn.Body, lang.ExecutionDeclare("execution", lut.ObjMetadata)...)
	fn.Body = append(fn.Body, lang.ExecutionProcessParams("execution", "params")...)
	fn.Body = append(fn.Body, lang.CallBuildCargs(lut, sp, "params", "execution", "cargs")...)
	fn.Body = append(fn.Body, lang.CallBuildOutputs(lut, sp, "params", "execution", "ret")...)
	fn.Body = append(fn.Body, lang.ExecutionRun("execution", "cargs", stdoutSymbol, stderrSymbol)...)
	fn.Body = append(fn.Body, lang.ReturnStatement("ret"))
	return fn
}

// compileWrapperRoot emits the package's main entrypoint: native
// arguments in, params built, execute called.
func compileWrapperRoot(lang LanguageProvider, sp *ir.Param, lut *SymbolLUT) *Func {
	outputsType := lut.TypeStructOutputs[sp.ID]

	fn := &Func{
		Name:          lut.FnRootMakeParamsAndExecute,
		ReturnType:    outputsType,
		ReturnDescr:   fmt.Sprintf("NamedTuple of outputs (described in `%s`).", outputsType),
		DocstringBody: DocsToDocstring(sp.Docs),
	}

	for _, p := range sp.Body.(*ir.Struct).IterParams() {
		fn.Args = append(fn.Args, Arg{
			Name:      lut.VarParam[p.ID],
			Type:      lut.TypeParam[p.ID],
			Default:   lang.ParamDefaultValue(p),
			Docstring: p.Docs.Description,
		})
	}
	fn.Body = append(fn.Body, lang.BuildParamsAndExecute(lut, sp, "runner")...)
	fn.Args = append(fn.Args, Arg{
		Name:      "runner",
		Type:      lang.TypeOptional(lang.TypeRunner()),
		Default:   ptr(lang.ExprNull()),
		Docstring: "Command runner",
	})
	return fn
}

// compileLookups declares the dynamic dispatch functions of every union
// in the app.
func compileLookups(lang LanguageProvider, app *ir.App, lut *SymbolLUT, module *Module) {
	for _, union := range app.Command.UnionsDeep() {
		for _, f := range lang.DynDeclare(lut, union) {
			module.Decls = append(module.Decls, f)
		}
	}
}

// compileStruct emits all artifacts of one struct, depth-first so nested
// structs come before their parents.
func compileStruct(lang LanguageProvider, sp *ir.Param, module *Module, lut *SymbolLUT, stdout, stderr *ir.StreamOutput) {
	for _, child := range sp.Body.(*ir.Struct).IterParams() {
		switch body := child.Body.(type) {
		case *ir.Struct:
			compileStruct(lang, child, module, lut, nil, nil)
		case *ir.StructUnion:
			for _, alt := range body.Alts {
				compileStruct(lang, alt, module, lut, nil, nil)
			}
		}
	}

	if sp.IsRoot() || sp.HasOutputsDeep() {
		compileOutputsStruct(lang, sp, module, lut, stdout, stderr)
	}

	f := compileBuildParams(lang, sp, lut)
	module.Decls = append(module.Decls, f)
	module.AddExport(f.Name)

	module.Header = append(module.Header, BlankBefore(lang.ParamDictTypeDeclare(lut, sp), 2)...)

	if lang.DoesValidate() {
		vf := lang.BuildFnValidateParams(lut, sp)
		if vf == nil {
			panic("styx: provider validates but returned no validation function")
		}
		module.Decls = append(module.Decls, vf)
	}

	module.Decls = append(module.Decls, compileBuildCargs(lang, sp, lut))

	if sp.IsRoot() || sp.HasOutputsDeep() {
		module.Decls = append(module.Decls, compileBuildOutputs(lang, sp, lut, stdout, stderr))
	}

	if sp.IsRoot() {
		f := compileExecute(lang, sp, lut, stdout, stderr)
		module.Decls = append(module.Decls, f)
		module.AddExport(f.Name)
	}
}

// CompileApp generates one app's wrapper module. The app is set up if it
// was not already; symbols are allocated in the package scope so sibling
// apps never collide.
func CompileApp(lang LanguageProvider, pkg ir.Package, app *ir.App, packageScope *Scope, module *Module) (*SymbolLUT, error) {
	if err := app.Setup(pkg.Name); err != nil {
		return nil, fmt.Errorf("set up app %q: %w", app.UID, err)
	}

	lut := BuildSymbolLUT(lang, app, packageScope)

	module.Imports = append(module.Imports, lang.WrapperModuleImports()...)

	generateStaticMetadata(lang, module, lut, pkg, app)
	module.AddExport(lut.ObjMetadata)

	compileLookups(lang, app, lut, module)

	compileStruct(lang, app.Command, module, lut, app.CaptureStdout, app.CaptureStderr)

	f := compileWrapperRoot(lang, app.Command, lut)
	module.Decls = append(module.Decls, f)
	module.AddExport(f.Name)

	return lut, nil
}

func ptr[T any](v T) *T { return &v }
