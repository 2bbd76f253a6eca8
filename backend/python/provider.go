// Package python generates Python (>=3.10) wrapper packages built on the
// styxdefs runtime: TypedDict parameter objects, NamedTuple outputs,
// runtime validation and per-package dynamic dispatch.
package python

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/styx-api/styx-go/backend/generic"
)

// Provider implements generic.LanguageProvider for Python.
type Provider struct{}

func (Provider) TypeStr() string        { return "str" }
func (Provider) TypeInt() string        { return "int" }
func (Provider) TypeFloat() string      { return "float" }
func (Provider) TypeBool() string       { return "bool" }
func (Provider) TypeInputPath() string  { return "InputPathType" }
func (Provider) TypeOutputPath() string { return "OutputPathType" }
func (Provider) TypeRunner() string     { return "Runner" }
func (Provider) TypeExecution() string  { return "Execution" }
func (Provider) TypeStringList() string { return "list[str]" }

func (p Provider) TypeLiteralUnion(values []any) string {
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = p.ExprLiteral(v)
	}
	return "typing.Literal[" + strings.Join(lits, ", ") + "]"
}

func (Provider) TypeList(elem string) string     { return "list[" + elem + "]" }
func (Provider) TypeOptional(elem string) string { return elem + " | None" }

func (Provider) TypeUnion(elems []string) string {
	return "typing.Union[" + strings.Join(elems, ", ") + "]"
}

func (Provider) SymbolVarCase(name string) string {
	return generic.SnakeCase(generic.Ident(name))
}

func (Provider) SymbolClassCase(name string) string {
	return generic.PascalCase(generic.Ident(name))
}

func (Provider) SymbolConstantCase(name string) string {
	return generic.ScreamingSnakeCase(generic.Ident(name))
}

func (Provider) ExprBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func (Provider) ExprInt(v int) string { return strconv.Itoa(v) }

func (Provider) ExprFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (Provider) ExprStr(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return generic.Enquote(v)
}

func (Provider) ExprList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

// ExprLiteral renders any literal the IR can carry: nil, bools, numbers,
// strings and string lists.
func (p Provider) ExprLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return p.ExprNull()
	case bool:
		return p.ExprBool(v)
	case int:
		return p.ExprInt(v)
	case float64:
		return p.ExprFloat(v)
	case string:
		return p.ExprStr(v)
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = p.ExprStr(s)
		}
		return p.ExprList(items)
	case []any:
		items := make([]string, len(v))
		for i, e := range v {
			items[i] = p.ExprLiteral(e)
		}
		return p.ExprList(items)
	default:
		panic(fmt.Sprintf("styx: no Python literal for %T", v))
	}
}

func (Provider) ExprNull() string { return "None" }

func (Provider) ExprNumericToStr(expr string) string { return "str(" + expr + ")" }

func (p Provider) ExprRemoveSuffixes(expr string, suffixes []string) string {
	for _, suffix := range suffixes {
		expr += ".removesuffix(" + p.ExprStr(suffix) + ")"
	}
	return expr
}

func (Provider) ExprPathGetFilename(expr string) string {
	return "pathlib.Path(" + expr + ").name"
}

func (Provider) ExprConditionsJoinAnd(conds []string) string {
	return strings.Join(conds, " and ")
}

func (Provider) ExprConditionsJoinOr(conds []string) string {
	return strings.Join(conds, " or ")
}

func (p Provider) ExprConcatStrs(exprs []string, join string) string {
	if join != "" {
		return p.ExprStr(join) + ".join([" + strings.Join(exprs, ", ") + "])"
	}
	return strings.Join(exprs, " + ")
}

func (Provider) ExprTernary(cond, truthy, falsy string, paren bool) string {
	if strings.Contains(cond, " ") {
		cond = "(" + cond + ")"
	}
	ret := truthy + " if " + cond + " else " + falsy
	if paren {
		return "(" + ret + ")"
	}
	return ret
}

func (Provider) LineComment(lines generic.LineBuffer) generic.LineBuffer {
	return generic.Comment(lines, "#")
}

func (Provider) ReturnStatement(value string) string { return "return " + value }

func (Provider) IfElseBlock(cond string, truthy, falsy generic.LineBuffer) generic.LineBuffer {
	buf := generic.LineBuffer{"if " + cond + ":"}
	buf = append(buf, generic.Indent1(truthy)...)
	if len(falsy) > 0 {
		buf = append(buf, "else:")
		buf = append(buf, generic.Indent1(falsy)...)
	}
	return buf
}

func (Provider) CargsDeclare(symbol string) generic.LineBuffer {
	return generic.LineBuffer{symbol + " = []"}
}

func (Provider) MStrCollapse(m generic.MStr, join string) generic.MStr {
	if m.IsList {
		return generic.MStr{Expr: `"` + join + `".join(` + m.Expr + `)`}
	}
	return generic.MStr{Expr: m.Expr}
}

func (p Provider) MStrConcat(ms []generic.MStr, innerJoin, outerJoin string) generic.MStr {
	inner := make([]string, len(ms))
	for i, m := range ms {
		inner[i] = p.MStrCollapse(m, innerJoin).Expr
	}
	return generic.MStr{Expr: p.ExprConcatStrs(inner, outerJoin)}
}

func (Provider) MStrEmptyLiteralLike(m generic.MStr) string {
	if m.IsList {
		return "[]"
	}
	return `""`
}

func (Provider) MStrCargsAdd(cargsSymbol string, m generic.MStr) generic.LineBuffer {
	if m.IsList {
		return generic.LineBuffer{cargsSymbol + ".extend(" + m.Expr + ")"}
	}
	return generic.LineBuffer{cargsSymbol + ".append(" + m.Expr + ")"}
}

func (Provider) MStrCargsAddAll(cargsSymbol string, ms []generic.MStr) generic.LineBuffer {
	elements := make([]string, len(ms))
	for i, m := range ms {
		if m.IsList {
			elements[i] = "*" + m.Expr
		} else {
			elements[i] = m.Expr
		}
	}
	buf := generic.LineBuffer{cargsSymbol + ".extend(["}
	buf = append(buf, generic.Indent1(generic.Expand(strings.Join(elements, ",\n")))...)
	buf = append(buf, "])")
	return buf
}
