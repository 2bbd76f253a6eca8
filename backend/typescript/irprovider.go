package typescript

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
		args = append(args, a+": "+a+",")
	}
	buf := generic.LineBuffer{"const params = " + lut.FnStructMakeParams[s.ID] + "({"}
	buf = append(buf, generic.Indent1(args)...)
	buf = append(buf, "});")
	buf = append(buf, p.ReturnStatement(lut.FnStructExecute[s.ID]+"(params, "+runnerSymbol+")"))
	return buf
}

func (Provider) CallBuildCargs(lut *generic.SymbolLUT, s *ir.Param, params, execution, ret string) generic.LineBuffer {
	return generic.LineBuffer{"const " + ret + " = " + lut.FnStructMakeCmdargs[s.ID] + "(" + params + ", " + execution + ");"}
}

func (Provider) CallBuildOutputs(lut *generic.SymbolLUT, s *ir.Param, params, execution, ret string) generic.LineBuffer {
	return generic.LineBuffer{"const " + ret + " = " + lut.FnStructMakeOutputs[s.ID] + "(" + params + ", " + execution + ");"}
}

func (Provider) CallValidateParams(lut *generic.SymbolLUT, paramsSymbol string) generic.LineBuffer {
	return nil
}

func inputFileOptions(f *ir.File) string {
	var opts []string
	if f.ResolveParent {
		opts = append(opts, "resolveParent: true")
	}
	if f.Mutable {
		opts = append(opts, "mutable: true")
	}
	if len(opts) == 0 {
		return ""
	}
	return ", { " + strings.Join(opts, ", ") + " }"
}

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
			return generic.MStr{Expr: "String(" + symbol + ")"}
		case *ir.Bool:
			asList := len(body.ValueTrue) > 1 || len(body.ValueFalse) > 1
			vTrue := p.boolSide(body.ValueTrue, asList)
			vFalse := p.boolSide(body.ValueFalse, asList)
			if len(body.ValueTrue) > 0 {
				if len(body.ValueFalse) > 0 {
					return generic.MStr{Expr: "(" + symbol + " ? " + vTrue + " : " + vFalse + ")", IsList: asList}
				}
				return generic.MStr{Expr: vTrue, IsList: asList}
			}
			if len(body.ValueFalse) == 0 {
				panic(fmt.Sprintf("styx: bool parameter %q has no values on either side", param.Name))
			}
			return generic.MStr{Expr: vFalse, IsList: asList}
		case *ir.File:
			return generic.MStr{Expr: "execution.inputFile(" + symbol + inputFileOptions(body) + ")"}
		case *ir.Struct:
			return generic.MStr{Expr: lut.FnStructMakeCmdargs[param.ID] + "(" + symbol + ", execution)", IsList: true}
		case *ir.StructUnion:
			return generic.MStr{
				Expr:   lut.FnDynUnionMakeCmdargs[param.ID] + "(" + symbol + `["@type"])!(` + symbol + ", execution)",
				IsList: true,
			}
		}
		panic(fmt.Sprintf("styx: unknown param body %T", param.Body))
	}

	var m generic.MStr
	switch body := param.Body.(type) {
	case *ir.String:
		m = generic.MStr{Expr: symbol, IsList: true}
	case *ir.Int, *ir.Float:
		m = generic.MStr{Expr: symbol + ".map(String)", IsList: true}
	case *ir.Bool:
		onTrue := p.ExprStr(strings.Join(body.ValueTrue, ""))
		onFalse := p.ExprStr(strings.Join(body.ValueFalse, ""))
		m = generic.MStr{Expr: symbol + ".map(v => v ? " + onTrue + " : " + onFalse + ")", IsList: true}
	case *ir.File:
		m = generic.MStr{Expr: symbol + ".map(f => execution.inputFile(f" + inputFileOptions(body) + "))", IsList: true}
	case *ir.Struct:
		m = generic.MStr{
			Expr:   symbol + ".map(s => " + lut.FnStructMakeCmdargs[param.ID] + "(s, execution)).flat()",
			IsList: true,
		}
	case *ir.StructUnion:
		m = generic.MStr{
			Expr:   symbol + ".map(s => " + lut.FnDynUnionMakeCmdargs[param.ID] + `(s["@type"])!(s, execution)).flat()`,
			IsList: true,
		}
	default:
		panic(fmt.Sprintf("styx: unknown param body %T", param.Body))
	}

	if param.List.Join != nil {
		return generic.MStr{Expr: m.Expr + ".join(" + p.ExprStr(*param.List.Join) + ")"}
	}
	return m
}

func (Provider) ParamVarIsSet(param *ir.Param, symbol string, paren bool) (string, bool) {
	if param.Nullable {
		expr := symbol + " !== null"
		if paren {
			return "(" + expr + ")", true
		}
		return expr, true
	}
	if body, ok := param.Body.(*ir.Bool); ok {
		switch {
		case len(body.ValueTrue) > 0 && len(body.ValueFalse) == 0:
			return symbol, true
		case len(body.ValueFalse) > 0 && len(body.ValueTrue) == 0:
			if paren {
				return "(!" + symbol + ")", true
			}
			return "!" + symbol, true
		case len(body.ValueTrue) == 0 && len(body.ValueFalse) == 0:
			// Never emits anything.
			return "false", true
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
	entries := generic.LineBuffer{`"@type": ` + p.ExprStr(body.PublicName) + " as const,"}
	for _, item := range items {
		entries = append(entries, p.ExprStr(item.Param.Name)+": "+item.Value+",")
	}
	buf := generic.LineBuffer{"const " + name + ": " + lut.TypeStructParamsTagged[s.ID] + " = {"}
	buf = append(buf, generic.Indent1(entries)...)
	buf = append(buf, "};")
	return buf
}

func (p Provider) ParamDictSet(dict string, param *ir.Param, value string) generic.LineBuffer {
	return generic.LineBuffer{dict + "[" + p.ExprStr(param.Name) + "] = " + value + ";"}
}

func (p Provider) ParamDictGet(dict string, param *ir.Param) string {
	return dict + "[" + p.ExprStr(param.Name) + "]"
}

func (p Provider) ParamDictGetOrDefault(dict string, param *ir.Param, def string) string {
	return "(" + dict + "[" + p.ExprStr(param.Name) + "] ?? " + def + ")"
}

func (p Provider) ParamDictGetOrNull(dict string, param *ir.Param) string {
	return "(" + dict + "[" + p.ExprStr(param.Name) + "] ?? null)"
}

// ParamDictTypeDeclare declares a struct's params types: an untagged
// interface, a tagged interface extending it with the "@type"
// discriminator, and the union of both.
func (p Provider) ParamDictTypeDeclare(lut *generic.SymbolLUT, s *ir.Param) generic.LineBuffer {
	body := s.Body.(*ir.Struct)

	var fields generic.LineBuffer
	for _, child := range body.IterParams() {
		key := p.ExprStr(child.Name)
		if child.Nullable {
			key += "?"
		}
		fields = append(fields, key+": "+lut.TypeParam[child.ID]+";")
	}

	noTag := "_" + lut.TypeStructParams[s.ID] + "NoTag"
	tagged := lut.TypeStructParamsTagged[s.ID]

	buf := generic.LineBuffer{"interface " + noTag + " {"}
	buf = append(buf, generic.Indent1(fields)...)
	buf = append(buf, "}")
	buf = append(buf, "interface "+tagged+" extends "+noTag+" {")
	buf = append(buf, generic.Indent1(generic.LineBuffer{
		`"@type": ` + p.TypeLiteralUnion([]any{body.PublicName}) + ";",
	})...)
	buf = append(buf, "}")
	buf = append(buf, "type "+lut.TypeStructParams[s.ID]+" = "+noTag+" | "+tagged+";")
	return buf
}

func (Provider) StructCollectOutputs(lut *generic.SymbolLUT, param *ir.Param, symbol string) string {
	switch param.Body.(type) {
	case *ir.Struct:
		fn := lut.FnStructMakeOutputs[param.ID]
		if param.List != nil {
			o := symbol + ".map(i => " + fn + "(i, execution))"
			if param.Nullable {
				o = "(" + symbol + " !== null ? " + o + " : null)"
			}
			return o
		}
		o := fn + "(" + symbol + ", execution)"
		if param.Nullable {
			o = "(" + symbol + " !== null ? " + o + " : null)"
		}
		return o
	case *ir.StructUnion:
		fn := lut.FnDynUnionMakeOutputs[param.ID]
		if param.List != nil {
			o := symbol + ".map(i => " + fn + `(i["@type"])?.(i, execution) ?? null)`
			if param.Nullable {
				o = "(" + symbol + " !== null ? " + o + " : null)"
			}
			return o
		}
		o := fn + "(" + symbol + `["@type"])?.(` + symbol + ", execution) ?? null"
		if param.Nullable {
			o = "(" + symbol + " !== null ? " + o + " : null)"
		}
		return o
	}
	panic(fmt.Sprintf("styx: cannot collect outputs of %T", param.Body))
}

// DynDeclare emits the union's dispatch tables: build-cargs always,
// build-outputs only when at least one alternative produces outputs.
func (p Provider) DynDeclare(lut *generic.SymbolLUT, union *ir.Param) []*generic.Func {
	body := union.Body.(*ir.StructUnion)

	table := func(name, what string, items [][2]string) *generic.Func {
		var entries generic.LineBuffer
		for _, kv := range items {
			entries = append(entries, kv[0]+": "+kv[1]+",")
		}
		fnBody := generic.LineBuffer{"return {"}
		fnBody = append(fnBody, generic.Indent1(entries)...)
		fnBody = append(fnBody, "}[t];")
		return &generic.Func{
			Name:          name,
			ReturnType:    "Function | undefined",
			DocstringBody: "Get " + what + " function by command type.",
			ReturnDescr:   strings.ToUpper(what[:1]) + what[1:] + " function.",
			Args: []generic.Arg{
				{Name: "t", Type: "string", Docstring: "Command type"},
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

	return funcs
}

func (Provider) DoesValidate() bool { return false }

func (Provider) BuildFnValidateParams(lut *generic.SymbolLUT, s *ir.Param) *generic.Func {
	return nil
}
