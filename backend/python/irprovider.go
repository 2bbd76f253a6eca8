package python

import (
	"fmt"
	"strings"

	"github.com/styx-api/styx-go/backend/generic"
	"github.com/styx-api/styx-go/ir"
)

func (p Provider) BuildParamsAndExecute(lut *generic.SymbolLUT, s *ir.Param, runnerSymbol string) generic.LineBuffer {
	var args generic.LineBuffer
	for _, child := range s.Body.(*ir.Struct).IterParams() {
		a := lut.VarParam[child.ID]
		args = append(args, a+"="+a+",")
	}
	buf := generic.LineBuffer{"params = " + lut.FnStructMakeParams[s.ID] + "("}
	buf = append(buf, generic.Indent1(args)...)
	buf = append(buf, ")")
	buf = append(buf, p.ReturnStatement(lut.FnStructExecute[s.ID]+"(params, "+runnerSymbol+")"))
	return buf
}

func (Provider) CallBuildCargs(lut *generic.SymbolLUT, s *ir.Param, params, execution, ret string) generic.LineBuffer {
	return generic.LineBuffer{ret + " = " + lut.FnStructMakeCmdargs[s.ID] + "(" + params + ", " + execution + ")"}
}

func (Provider) CallBuildOutputs(lut *generic.SymbolLUT, s *ir.Param, params, execution, ret string) generic.LineBuffer {
	return generic.LineBuffer{ret + " = " + lut.FnStructMakeOutputs[s.ID] + "(" + params + ", " + execution + ")"}
}

func (Provider) CallValidateParams(lut *generic.SymbolLUT, paramsSymbol string) generic.LineBuffer {
	return generic.LineBuffer{lut.FnRootValidateParams + "(" + paramsSymbol + ")"}
}

// inputFileExtraArgs renders the keyword arguments of execution.input_file
// for a file parameter.
func inputFileExtraArgs(f *ir.File) string {
	extra := ""
	if f.ResolveParent {
		extra += ", resolve_parent=True"
	}
	if f.Mutable {
		extra += ", mutable=True"
	}
	return extra
}

// boolSide renders one side of a bool parameter: a bare string when the
// side has a single token, a string list otherwise.
func (p Provider) boolSide(side []string, asList bool) string {
	if asList {
		return p.ExprLiteral(side)
	}
	if len(side) == 0 {
		return p.ExprNull()
	}
	return p.ExprStr(side[0])
}

func (p Provider) ParamVarToMStr(lut *generic.SymbolLUT, param *ir.Param, symbol string) generic.MStr {
	if param.List == nil {
		switch body := param.Body.(type) {
		case *ir.String:
			return generic.MStr{Expr: symbol}
		case *ir.Int, *ir.Float:
			return generic.MStr{Expr: "str(" + symbol + ")"}
		case *ir.Bool:
			asList := len(body.ValueTrue) > 1 || len(body.ValueFalse) > 1
			vTrue := p.boolSide(body.ValueTrue, asList)
			vFalse := p.boolSide(body.ValueFalse, asList)
			if len(body.ValueTrue) > 0 {
				if len(body.ValueFalse) > 0 {
					return generic.MStr{
						Expr:   "(" + vTrue + " if " + symbol + " else " + vFalse + ")",
						IsList: asList,
					}
				}
				return generic.MStr{Expr: vTrue, IsList: asList}
			}
			if len(body.ValueFalse) == 0 {
				panic(fmt.Sprintf("styx: bool parameter %q has no values on either side", param.Name))
			}
			return generic.MStr{Expr: vFalse, IsList: asList}
		case *ir.File:
			return generic.MStr{Expr: "execution.input_file(" + symbol + inputFileExtraArgs(body) + ")"}
		case *ir.Struct:
			return generic.MStr{Expr: lut.FnStructMakeCmdargs[param.ID] + "(" + symbol + ", execution)", IsList: true}
		case *ir.StructUnion:
			return generic.MStr{
				Expr:   lut.FnDynUnionMakeCmdargs[param.ID] + `(` + symbol + `["@type"])(` + symbol + `, execution)`,
				IsList: true,
			}
		}
		panic(fmt.Sprintf("styx: unknown param body %T", param.Body))
	}

	if param.List.Join == nil {
		switch body := param.Body.(type) {
		case *ir.String:
			return generic.MStr{Expr: symbol, IsList: true}
		case *ir.Int, *ir.Float:
			return generic.MStr{Expr: "map(str, " + symbol + ")", IsList: true}
		case *ir.Bool:
			onTrue := p.ExprStr(strings.Join(body.ValueTrue, ""))
			onFalse := p.ExprStr(strings.Join(body.ValueFalse, ""))
			return generic.MStr{Expr: "[" + onTrue + " if v else " + onFalse + " for v in " + symbol + "]", IsList: true}
		case *ir.File:
			return generic.MStr{Expr: "[execution.input_file(f" + inputFileExtraArgs(body) + ") for f in " + symbol + "]", IsList: true}
		case *ir.Struct:
			return generic.MStr{
				Expr:   "[a for c in [" + lut.FnStructMakeCmdargs[param.ID] + "(s, execution) for s in " + symbol + "] for a in c]",
				IsList: true,
			}
		case *ir.StructUnion:
			return generic.MStr{
				Expr:   "[a for c in [" + lut.FnDynUnionMakeCmdargs[param.ID] + `(s["@type"])(s, execution) for s in ` + symbol + "] for a in c]",
				IsList: true,
			}
		}
		panic(fmt.Sprintf("styx: unknown param body %T", param.Body))
	}

	sepJoin := p.ExprStr(*param.List.Join) + ".join"
	switch body := param.Body.(type) {
	case *ir.String:
		return generic.MStr{Expr: sepJoin + "(" + symbol + ")"}
	case *ir.Int, *ir.Float:
		return generic.MStr{Expr: sepJoin + "(map(str, " + symbol + "))"}
	case *ir.Bool:
		onTrue := p.ExprStr(strings.Join(body.ValueTrue, ""))
		onFalse := p.ExprStr(strings.Join(body.ValueFalse, ""))
		return generic.MStr{Expr: sepJoin + "([" + onTrue + " if v else " + onFalse + " for v in " + symbol + "])"}
	case *ir.File:
		return generic.MStr{Expr: sepJoin + "([execution.input_file(f" + inputFileExtraArgs(body) + ") for f in " + symbol + "])"}
	case *ir.Struct:
		return generic.MStr{
			Expr: sepJoin + "([a for c in [" + lut.FnStructMakeCmdargs[param.ID] + "(s, execution) for s in " + symbol + "] for a in c])",
		}
	case *ir.StructUnion:
		return generic.MStr{
			Expr: sepJoin + "([a for c in [" + lut.FnDynUnionMakeCmdargs[param.ID] + `(s["@type"])(s, execution) for s in ` + symbol + "] for a in c])",
		}
	}
	panic(fmt.Sprintf("styx: unknown param body %T", param.Body))
}

func (Provider) ParamVarIsSet(param *ir.Param, symbol string, paren bool) (string, bool) {
	if param.Nullable {
		if paren {
			return "(" + symbol + " is not None)", true
		}
		return symbol + " is not None", true
	}
	if body, ok := param.Body.(*ir.Bool); ok {
		switch {
		case len(body.ValueTrue) > 0 && len(body.ValueFalse) == 0:
			return symbol, true
		case len(body.ValueFalse) > 0 && len(body.ValueTrue) == 0:
			if paren {
				return "(not " + symbol + ")", true
			}
			return "not " + symbol, true
		case len(body.ValueTrue) == 0 && len(body.ValueFalse) == 0:
			// Never emits anything.
			return "False", true
		}
	}
	return "", false
}

func (p Provider) ParamDefaultValue(param *ir.Param) *string {
	if param.Default == ir.SetToNone {
		v := p.ExprNull()
		return &v
	}
	if param.Default == nil {
		return nil
	}
	v := p.ExprLiteral(param.Default)
	return &v
}

func (p Provider) TypeParam(lut *generic.SymbolLUT, param *ir.Param) string {
	return generic.TypeParamDefault(p, lut, param)
}

func (p Provider) ParamDictCreate(lut *generic.SymbolLUT, name string, s *ir.Param, items []generic.ParamItem) generic.LineBuffer {
	body := s.Body.(*ir.Struct)
	entries := generic.LineBuffer{`"@type": ` + p.ExprStr(body.PublicName) + ","}
	for _, item := range items {
		entries = append(entries, p.ExprStr(item.Param.Name)+": "+item.Value+",")
	}
	buf := generic.LineBuffer{name + " = {"}
	buf = append(buf, generic.Indent1(entries)...)
	buf = append(buf, "}")
	return buf
}

func (p Provider) ParamDictSet(dict string, param *ir.Param, value string) generic.LineBuffer {
	return generic.LineBuffer{dict + "[" + p.ExprStr(param.Name) + "] = " + value}
}

func (p Provider) ParamDictGet(dict string, param *ir.Param) string {
	return dict + "[" + p.ExprStr(param.Name) + "]"
}

func (p Provider) ParamDictGetOrDefault(dict string, param *ir.Param, def string) string {
	return dict + ".get(" + p.ExprStr(param.Name) + ", " + def + ")"
}

func (p Provider) ParamDictGetOrNull(dict string, param *ir.Param) string {
	return dict + ".get(" + p.ExprStr(param.Name) + ")"
}

func makeTypedDict(symbol string, items [][2]string) generic.LineBuffer {
	if len(items) == 0 {
		return generic.LineBuffer{symbol + " = typing.TypedDict('" + symbol + "', {})"}
	}
	buf := generic.LineBuffer{symbol + " = typing.TypedDict('" + symbol + "', {"}
	var entries generic.LineBuffer
	for _, kv := range items {
		entries = append(entries, kv[0]+": "+kv[1]+",")
	}
	buf = append(buf, generic.Indent1(entries)...)
	buf = append(buf, "})")
	return buf
}

// ParamDictTypeDeclare declares a struct's params types: an untagged
// TypedDict, a tagged TypedDict carrying the "@type" discriminator, and
// the union of both as the accepted input type.
func (p Provider) ParamDictTypeDeclare(lut *generic.SymbolLUT, s *ir.Param) generic.LineBuffer {
	body := s.Body.(*ir.Struct)

	var items [][2]string
	for _, child := range body.IterParams() {
		typ := lut.TypeParam[child.ID]
		if child.Nullable {
			typ = "typing.NotRequired[" + typ + "]"
		}
		items = append(items, [2]string{p.ExprStr(child.Name), typ})
	}

	dictSymbol := lut.TypeStructParams[s.ID]
	dictSymbolTagged := lut.TypeStructParamsTagged[s.ID]

	tagged := append([][2]string{{p.ExprStr("@type"), p.TypeLiteralUnion([]any{body.PublicName})}}, items...)

	buf := makeTypedDict("_"+dictSymbol+"NoTag", items)
	buf = append(buf, makeTypedDict(dictSymbolTagged, tagged)...)
	buf = append(buf, dictSymbol+" = _"+dictSymbol+"NoTag | "+dictSymbolTagged)
	return buf
}

func (Provider) StructCollectOutputs(lut *generic.SymbolLUT, param *ir.Param, symbol string) string {
	switch param.Body.(type) {
	case *ir.Struct:
		fn := lut.FnStructMakeOutputs[param.ID]
		if param.List != nil {
			opt := ""
			if param.Nullable {
				opt = " if " + symbol + " else None"
			}
			return "[" + fn + "(i, execution) if " + fn + " else None for i in " + symbol + "]" + opt
		}
		o := fn + "(" + symbol + ", execution)"
		if param.Nullable {
			o += " if " + symbol + " else None"
		}
		return o
	case *ir.StructUnion:
		fn := lut.FnDynUnionMakeOutputs[param.ID]
		if param.List != nil {
			opt := ""
			if param.Nullable {
				opt = " if " + symbol + " else None"
			}
			return "[" + fn + `(i["@type"])(i, execution) if ` + fn + `(i["@type"]) else None for i in ` + symbol + "]" + opt
		}
		o := fn + "(" + symbol + `["@type"])(` + symbol + ", execution)"
		if param.Nullable {
			o += " if " + symbol + " else None"
		}
		return o
	}
	panic(fmt.Sprintf("styx: cannot collect outputs of %T", param.Body))
}

// DynDeclare emits the union's dispatch tables: build-cargs always,
// build-outputs only when at least one alternative produces outputs,
// validate-params always.
func (p Provider) DynDeclare(lut *generic.SymbolLUT, union *ir.Param) []*generic.Func {
	body := union.Body.(*ir.StructUnion)

	table := func(name, what string, items [][2]string) *generic.Func {
		var entries generic.LineBuffer
		for _, kv := range items {
			entries = append(entries, kv[0]+": "+kv[1]+",")
		}
		fnBody := generic.LineBuffer{"return {"}
		fnBody = append(fnBody, generic.Indent1(entries)...)
		fnBody = append(fnBody, "}.get(t)")
		return &generic.Func{
			Name:          name,
			ReturnType:    "typing.Any",
			DocstringBody: "Get " + what + " function by command type.",
			ReturnDescr:   strings.ToUpper(what[:1]) + what[1:] + " function.",
			Args: []generic.Arg{
				{Name: "t", Type: "str", Docstring: "Command type"},
			},
			Body: fnBody,
		}
	}

	var cargItems [][2]string
	for _, alt := range body.Alts {
		cargItems = append(cargItems, [2]string{
			p.ExprStr(alt.Body.(*ir.Struct).PublicName),
			lut.FnStructMakeCmdargs[alt.ID],
		})
	}
	funcs := []*generic.Func{table(lut.FnDynUnionMakeCmdargs[union.ID], "build cargs", cargItems)}

	var outputItems [][2]string
	for _, alt := range body.Alts {
		if !alt.HasOutputsDeep() {
			continue
		}
		outputItems = append(outputItems, [2]string{
			p.ExprStr(alt.Body.(*ir.Struct).PublicName),
			lut.FnStructMakeOutputs[alt.ID],
		})
	}
	if len(outputItems) > 0 {
		funcs = append(funcs, table(lut.FnDynUnionMakeOutputs[union.ID], "build outputs", outputItems))
	}

	var validateItems [][2]string
	for _, alt := range body.Alts {
		validateItems = append(validateItems, [2]string{
			p.ExprStr(alt.Body.(*ir.Struct).PublicName),
			lut.FnStructValidateParams[alt.ID],
		})
	}
	funcs = append(funcs, table(lut.FnDynUnionValidateParams[union.ID], "validate params", validateItems))

	return funcs
}

func (Provider) DoesValidate() bool { return true }
