package python

import (
	"sort"

	"github.com/styx-api/styx-go/backend/generic"
)

func (Provider) WrapperModuleImports() generic.LineBuffer {
	return generic.LineBuffer{
		"import typing",
		"import pathlib",
		"from styxdefs import *",
	}
}

func (p Provider) MetadataSymbol(baseName string) string {
	return p.SymbolConstantCase(baseName + "_METADATA")
}

func (p Provider) GenerateMetadata(symbol string, entries []generic.MetadataEntry) generic.LineBuffer {
	var fields generic.LineBuffer
	for _, e := range entries {
		fields = append(fields, e.Key+"="+p.ExprLiteral(e.Value)+",")
	}
	buf := generic.LineBuffer{symbol + " = Metadata("}
	buf = append(buf, generic.Indent1(fields)...)
	buf = append(buf, ")")
	return buf
}

func (Provider) RunnerDeclare(symbol string) generic.LineBuffer {
	return generic.LineBuffer{symbol + " = " + symbol + " or get_global_runner()"}
}

func (Provider) ExecutionDeclare(execution, metadataSymbol string) generic.LineBuffer {
	return generic.LineBuffer{execution + " = runner.start_execution(" + metadataSymbol + ")"}
}

func (Provider) ExecutionProcessParams(execution, params string) generic.LineBuffer {
	return generic.LineBuffer{params + " = " + execution + ".params(" + params + ")"}
}

func (Provider) ExecutionRun(execution, cargs, stdoutSymbol, stderrSymbol string) generic.LineBuffer {
	so := ""
	if stdoutSymbol != "" {
		so = ", handle_stdout=lambda s: ret." + stdoutSymbol + ".append(s)"
	}
	se := ""
	if stderrSymbol != "" {
		se = ", handle_stderr=lambda s: ret." + stderrSymbol + ".append(s)"
	}
	return generic.LineBuffer{execution + ".run(" + cargs + so + se + ")"}
}

func (Provider) GenerateRetObjectCreation(execution, outputType string, members []generic.Member) generic.LineBuffer {
	buf := generic.LineBuffer{"ret = " + outputType + "("}
	fields := generic.LineBuffer{`root=` + execution + `.output_file("."),`}
	for _, m := range members {
		fields = append(fields, m.Symbol+"="+m.Expr+",")
	}
	buf = append(buf, generic.Indent1(fields)...)
	buf = append(buf, ")")
	return buf
}

func (Provider) ResolveOutputFile(execution, fileExpr string) string {
	return execution + ".output_file(" + fileExpr + ")"
}

// argDeclaration renders one signature argument with its annotation and
// default.
func argDeclaration(arg generic.Arg) string {
	decl := arg.Name
	if arg.Type != "" {
		decl += ": " + arg.Type
	}
	if arg.Default != nil {
		decl += " = " + *arg.Default
	}
	return decl
}

// sortDefaultsLast reorders arguments so defaulted ones trail, keeping
// relative order otherwise; Python requires it.
func sortDefaultsLast(args []generic.Arg) {
	sort.SliceStable(args, func(i, j int) bool {
		return args[i].Default == nil && args[j].Default != nil
	})
}

// GenerateFunc renders a function with a Google style docstring.
func (p Provider) GenerateFunc(fn *generic.Func) generic.LineBuffer {
	sortDefaultsLast(fn.Args)

	buf := generic.LineBuffer{"def " + fn.Name + "("}
	for _, arg := range fn.Args {
		buf = append(buf, "    "+argDeclaration(arg)+",")
	}
	returnType := fn.ReturnType
	if returnType == "" {
		returnType = "None"
	}
	buf = append(buf, ") -> "+returnType+":")

	var argDocs generic.LineBuffer
	for _, arg := range fn.Args {
		doc := generic.LinebreakParagraph(
			arg.Name+": "+generic.EscapeBackslash(arg.Docstring),
			80-(4*3)-1, 80-(4*2)-1)
		joined := generic.Expand(generic.EnsureEndswith(generic.Collapse(doc), "."))
		argDocs = append(argDocs, joined[0])
		argDocs = append(argDocs, generic.Indent1(joined[1:])...)
	}

	var bodyDoc generic.LineBuffer
	if fn.DocstringBody != "" {
		bodyDoc = generic.LinebreakParagraph(generic.EscapeBackslash(fn.DocstringBody), 80-4, 80-4)
	} else {
		bodyDoc = generic.LineBuffer{""}
	}

	doc := generic.LineBuffer{`"""`}
	doc = append(doc, bodyDoc...)
	doc = append(doc, "", "Args:")
	doc = append(doc, generic.Indent1(argDocs)...)
	if fn.ReturnDescr != "" {
		doc = append(doc, "Returns:")
		doc = append(doc, generic.Indent1(generic.LineBuffer{generic.EscapeBackslash(fn.ReturnDescr)})...)
	}
	doc = append(doc, `"""`)
	buf = append(buf, generic.Indent1(doc)...)

	if len(fn.Body) > 0 {
		buf = append(buf, generic.Indent1(fn.Body)...)
	} else {
		buf = append(buf, "    pass")
	}
	return buf
}

// GenerateStructure renders a NamedTuple class.
func (p Provider) GenerateStructure(s *generic.Structure) generic.LineBuffer {
	sortDefaultsLast(s.Fields)

	var fields generic.LineBuffer
	for _, f := range s.Fields {
		fields = append(fields, argDeclaration(f))
		if f.Docstring != "" {
			fields = append(fields, generic.LinebreakParagraph(
				`"""`+generic.EscapeBackslash(f.Docstring)+`"""`, 80-4, 80-4)...)
		}
	}

	buf := generic.LineBuffer{"class " + s.Name + "(typing.NamedTuple):"}
	inner := generic.LineBuffer{`"""`, generic.EscapeBackslash(s.Docstring), `"""`}
	inner = append(inner, fields...)
	buf = append(buf, generic.Indent1(inner)...)
	return buf
}

// GenerateModule renders a complete source file: docstring, generated
// header comment, imports, header declarations, functions and classes,
// footer and the __all__ export list.
func (p Provider) GenerateModule(m *generic.Module) generic.LineBuffer {
	var exports generic.LineBuffer
	if len(m.Exports) > 0 {
		sorted := append([]string(nil), m.Exports...)
		sort.Strings(sorted)
		exports = generic.LineBuffer{"__all__ = ["}
		for _, e := range sorted {
			exports = append(exports, "    "+generic.Enquote(e)+",")
		}
		exports = append(exports, "]")
	}

	var buf generic.LineBuffer
	if m.Docstr != "" {
		buf = append(buf, `"""`)
		buf = append(buf, generic.LinebreakParagraph(generic.EscapeBackslash(m.Docstr), 80, 80)...)
		buf = append(buf, `"""`)
	}
	buf = append(buf, generic.Comment(generic.LineBuffer{
		"This file was auto generated by Styx.",
		"Do not edit this file directly.",
	}, "#")...)
	buf = append(buf, generic.BlankBefore(m.Imports, 1)...)
	buf = append(buf, generic.BlankBefore(m.Header, 1)...)
	for _, d := range m.Decls {
		buf = append(buf, generic.BlankBefore(generic.GenerateDecl(p, d), 2)...)
	}
	buf = append(buf, generic.BlankBefore(m.Footer, 1)...)
	buf = append(buf, generic.BlankBefore(exports, 2)...)
	return generic.BlankAfter(buf, 1)
}
