// Package typescript generates TypeScript wrapper packages built on the
// styxdefs runtime: tagged parameter interfaces, output interfaces and
// per-package dynamic dispatch. Unlike the Python target it emits no
// runtime validators; the type system carries the constraints it can and
// the rest is checked by the tool itself.
package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/styx-api/styx-go/backend/generic"
)

// Provider implements generic.LanguageProvider for TypeScript.
type Provider struct{}

func (Provider) TypeStr() string        { return "string" }
func (Provider) TypeInt() string        { return "number" }
func (Provider) TypeFloat() string      { return "number" }
func (Provider) TypeBool() string       { return "boolean" }
func (Provider) TypeInputPath() string  { return "InputPathType" }
func (Provider) TypeOutputPath() string { return "OutputPathType" }
func (Provider) TypeRunner() string     { return "Runner" }
func (Provider) TypeExecution() string  { return "Execution" }
func (Provider) TypeStringList() string { return "Array<string>" }

func (p Provider) TypeLiteralUnion(values []any) string {
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = p.ExprLiteral(v)
	}
	return strings.Join(lits, " | ")
}

func (Provider) TypeList(elem string) string { return "Array<" + elem + ">" }

func (Provider) TypeOptional(elem string) string { return elem + " | null" }

func (Provider) TypeUnion(elems []string) string { return strings.Join(elems, " | ") }

func (Provider) SymbolVarCase(name string) string {
	return generic.CamelCase(generic.Ident(name))
}

func (Provider) SymbolClassCase(name string) string {
	return generic.PascalCase(generic.Ident(name))
}

func (Provider) SymbolConstantCase(name string) string {
	return generic.ScreamingSnakeCase(generic.Ident(name))
}

func (Provider) ExprBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
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
		panic(fmt.Sprintf("styx: no TypeScript literal for %T", v))
	}
}

func (Provider) ExprNull() string { return "null" }

func (Provider) ExprNumericToStr(expr string) string { return "String(" + expr + ")" }

func (p Provider) ExprRemoveSuffixes(expr string, suffixes []string) string {
	// No removesuffix equivalent; chain conditional slices.
	for _, suffix := range suffixes {
		lit := p.ExprStr(suffix)
		expr = "(" + expr + ".endsWith(" + lit + ") ? " + expr + ".slice(0, -" + lit + ".length) : " + expr + ")"
	}
	return expr
}

func (Provider) ExprPathGetFilename(expr string) string {
	// Keep the bundle platform neutral; no node path module.
	return "(String(" + expr + `).split("/").pop() ?? "")`
}

func (Provider) ExprConditionsJoinAnd(conds []string) string {
	return strings.Join(conds, " && ")
}

func (Provider) ExprConditionsJoinOr(conds []string) string {
	return strings.Join(conds, " || ")
}

func (p Provider) ExprConcatStrs(exprs []string, join string) string {
	if join != "" {
		return "[" + strings.Join(exprs, ", ") + "].join(" + p.ExprStr(join) + ")"
	}
	return strings.Join(exprs, " + ")
}

func (Provider) ExprTernary(cond, truthy, falsy string, paren bool) string {
	ret := cond + " ? " + truthy + " : " + falsy
	if paren {
		return "(" + ret + ")"
	}
	return ret
}

func (Provider) LineComment(lines generic.LineBuffer) generic.LineBuffer {
	return generic.Comment(lines, "//")
}

func (Provider) ReturnStatement(value string) string { return "return " + value + ";" }

func (Provider) IfElseBlock(cond string, truthy, falsy generic.LineBuffer) generic.LineBuffer {
	buf := generic.LineBuffer{"if (" + cond + ") {"}
	buf = append(buf, generic.Indent1(truthy)...)
	if len(falsy) > 0 {
		buf = append(buf, "} else {")
		buf = append(buf, generic.Indent1(falsy)...)
	}
	buf = append(buf, "}")
	return buf
}

func (Provider) CargsDeclare(symbol string) generic.LineBuffer {
	return generic.LineBuffer{"const " + symbol + ": string[] = [];"}
}

func (p Provider) MStrCollapse(m generic.MStr, join string) generic.MStr {
	if m.IsList {
		return generic.MStr{Expr: m.Expr + ".join(" + p.ExprStr(join) + ")"}
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
		return generic.LineBuffer{cargsSymbol + ".push(...(" + m.Expr + "));"}
	}
	return generic.LineBuffer{cargsSymbol + ".push(" + m.Expr + ");"}
}

func (Provider) MStrCargsAddAll(cargsSymbol string, ms []generic.MStr) generic.LineBuffer {
	elements := make(generic.LineBuffer, len(ms))
	for i, m := range ms {
		expr := m.Expr
		if m.IsList {
			expr = "...(" + expr + ")"
		}
		elements[i] = expr + ","
	}
	buf := generic.LineBuffer{cargsSymbol + ".push("}
	buf = append(buf, generic.Indent1(elements)...)
	buf = append(buf, ");")
	return buf
}
