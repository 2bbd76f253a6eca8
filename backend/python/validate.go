package python

import (
	"fmt"
	"strconv"

	"github.com/styx-api/styx-go/backend/generic"
	"github.com/styx-api/styx-go/ir"
)

// BuildFnValidateParams emits a struct's runtime validator: presence,
// type, range, length and choice checks plus recursive descent into
// nested structs and tag-dispatched descent into unions. Violations
// raise StyxValidationError.
func (p Provider) BuildFnValidateParams(lut *generic.SymbolLUT, s *ir.Param) *generic.Func {
	fn := &generic.Func{
		Name: lut.FnStructValidateParams[s.ID],
		DocstringBody: fmt.Sprintf(
			"Validate parameters. Throws an error if `params` is not a valid `%s` object.",
			lut.TypeStructParams[s.ID]),
		Args: []generic.Arg{
			{Name: "params", Type: "typing.Any", Docstring: "The parameters object to validate."},
		},
	}

	checkError := func(statement, message string) generic.LineBuffer {
		return generic.LineBuffer{
			"if " + statement + ":",
			"    raise StyxValidationError(" + p.ExprStr(message) + ")",
		}
	}
	// checkErrorF interpolates runtime values; message is an f-string
	// body and must already be escaped.
	checkErrorF := func(statement, message string) generic.LineBuffer {
		return generic.LineBuffer{
			"if " + statement + ":",
			"    raise StyxValidationError(f'" + message + "')",
		}
	}

	fn.Body = append(fn.Body,
		"if params is None or not isinstance(params, dict):",
		`    raise StyxValidationError(f'Params object has the wrong type \'{type(params)}\'')`,
	)

	for _, child := range s.Body.(*ir.Struct).IterParams() {
		var def string
		if child.Default == ir.SetToNone || child.Default == nil {
			def = p.ExprNull()
		} else {
			def = p.ExprLiteral(child.Default)
		}
		getOrNull := p.ParamDictGetOrDefault("params", child, def)
		getOrDie := p.ParamDictGet("params", child)

		errExpectedType := fmt.Sprintf(
			"`%s` has the wrong type: Received `{type(%s)}` expected `%s`",
			child.Name, getOrNull, lut.TypeParam[child.ID])

		level := 0
		if child.Nullable {
			fn.Body = append(fn.Body, "if "+getOrNull+" is not None:")
			level = 1
		} else {
			fn.Body = append(fn.Body, checkError(
				getOrNull+" is None",
				fmt.Sprintf("`%s` must not be None", child.Name))...)
		}

		emit := func(lines generic.LineBuffer) {
			fn.Body = append(fn.Body, generic.Indent(lines, level)...)
		}
		notInstance := func(pytype string) string {
			return "not isinstance(" + getOrDie + ", " + pytype + ")"
		}

		if child.List != nil {
			emit(checkErrorF(notInstance("list"), errExpectedType))
			emit(p.listCountChecks(child, getOrDie))
			emit(generic.LineBuffer{"for e in " + getOrDie + ":"})
			getOrNull = "e"
			getOrDie = "e"
			level++
		}

		switch body := child.Body.(type) {
		case *ir.String:
			emit(checkErrorF(notInstance("str"), errExpectedType))
		case *ir.Bool:
			emit(checkErrorF(notInstance("bool"), errExpectedType))
		case *ir.Int:
			emit(checkErrorF(notInstance("int"), errExpectedType))
			emit(p.rangeChecks(child.Name, getOrDie, body.MinValue, body.MaxValue))
		case *ir.Float:
			emit(checkErrorF(notInstance("(float, int)"), errExpectedType))
			emit(p.rangeChecksFloat(child.Name, getOrDie, body.MinValue, body.MaxValue))
		case *ir.File:
			emit(checkErrorF(notInstance("(pathlib.Path, str)"), errExpectedType))
		case *ir.Struct:
			emit(generic.LineBuffer{lut.FnStructValidateParams[child.ID] + "(" + getOrDie + ")"})
		case *ir.StructUnion:
			validTags := make([]any, len(body.Alts))
			for i, alt := range body.Alts {
				validTags[i] = alt.Body.(*ir.Struct).PublicName
			}
			emit(generic.LineBuffer{
				"if not isinstance(" + getOrDie + ", dict):",
				`    raise StyxValidationError(f'Params object has the wrong type \'{type(` + getOrDie + `)}\'')`,
				`if "@type" not in ` + getOrDie + ":",
				"    raise StyxValidationError(" + p.ExprStr("Params object is missing `@type`") + ")",
			})
			emit(checkError(
				getOrDie+`["@type"] not in `+p.ExprLiteral(validTags),
				fmt.Sprintf("Parameter `%s`s `@type` must be one of %s", child.Name, p.ExprLiteral(validTags))))
			emit(generic.LineBuffer{
				lut.FnDynUnionValidateParams[child.ID] + "(" + getOrDie + `["@type"])(` + getOrDie + ")",
			})
		default:
			panic(fmt.Sprintf("styx: unknown param body %T", child.Body))
		}

		if len(child.Choices) > 0 {
			emit(checkError(
				getOrDie+" not in "+p.ExprLiteral(child.Choices),
				fmt.Sprintf("Parameter `%s` must be one of %s", child.Name, p.ExprLiteral(child.Choices))))
		}
	}

	return fn
}

func plural(n int) string {
	if n != 1 {
		return "s"
	}
	return ""
}

// listCountChecks builds length constraint checks for a list parameter.
func (p Provider) listCountChecks(param *ir.Param, symbol string) generic.LineBuffer {
	check := func(statement, message string) generic.LineBuffer {
		return generic.LineBuffer{
			"if " + statement + ":",
			"    raise StyxValidationError(" + p.ExprStr(message) + ")",
		}
	}
	min, max := param.List.CountMin, param.List.CountMax
	switch {
	case min != nil && max != nil && *min == *max:
		return check(
			fmt.Sprintf("len(%s) != %d", symbol, *min),
			fmt.Sprintf("Parameter `%s` must contain exactly %d element%s", param.Name, *min, plural(*min)))
	case min != nil && max != nil:
		return check(
			fmt.Sprintf("not (%d <= len(%s) <= %d)", *min, symbol, *max),
			fmt.Sprintf("Parameter `%s` must contain between %d and %d elements (inclusive)", param.Name, *min, *max))
	case max != nil:
		return check(
			fmt.Sprintf("len(%s) > %d", symbol, *max),
			fmt.Sprintf("Parameter `%s` must contain at most %d element%s", param.Name, *max, plural(*max)))
	case min != nil:
		return check(
			fmt.Sprintf("len(%s) < %d", symbol, *min),
			fmt.Sprintf("Parameter `%s` must contain at least %d element%s", param.Name, *min, plural(*min)))
	}
	return nil
}

// rangeChecks builds numeric bound checks for an int parameter.
func (p Provider) rangeChecks(name, symbol string, min, max *int) generic.LineBuffer {
	var lo, hi string
	if min != nil {
		lo = strconv.Itoa(*min)
	}
	if max != nil {
		hi = strconv.Itoa(*max)
	}
	return p.boundChecks(name, symbol, min != nil, max != nil, lo, hi)
}

// rangeChecksFloat builds numeric bound checks for a float parameter.
func (p Provider) rangeChecksFloat(name, symbol string, min, max *float64) generic.LineBuffer {
	var lo, hi string
	if min != nil {
		lo = p.ExprFloat(*min)
	}
	if max != nil {
		hi = p.ExprFloat(*max)
	}
	return p.boundChecks(name, symbol, min != nil, max != nil, lo, hi)
}

func (p Provider) boundChecks(name, symbol string, hasMin, hasMax bool, lo, hi string) generic.LineBuffer {
	check := func(statement, message string) generic.LineBuffer {
		return generic.LineBuffer{
			"if " + statement + ":",
			"    raise StyxValidationError(" + p.ExprStr(message) + ")",
		}
	}
	switch {
	case hasMin && hasMax:
		return check(
			fmt.Sprintf("not (%s <= %s <= %s)", lo, symbol, hi),
			fmt.Sprintf("Parameter `%s` must be between %s and %s (inclusive)", name, lo, hi))
	case hasMin:
		return check(
			symbol+" < "+lo,
			fmt.Sprintf("Parameter `%s` must be at least %s", name, lo))
	case hasMax:
		return check(
			symbol+" > "+hi,
			fmt.Sprintf("Parameter `%s` must be at most %s", name, hi))
	}
	return nil
}
