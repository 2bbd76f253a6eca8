package typescript

import (
	"sort"

	"github.com/styx-api/styx-go/backend/generic"
)

func (Provider) WrapperModuleImports() generic.LineBuffer {
	return generic.LineBuffer{
		`import { Runner, Execution, Metadata, InputPathType, OutputPathType, getGlobalRunner } from "styxdefs";`,
	}
}

func (p Provider) MetadataSymbol(baseName string) string {
	return p.SymbolConstantCase(baseName + "_METADATA")
}

func (p Provider) GenerateMetadata(symbol string, entries []generic.MetadataEntry) generic.LineBuffer {
	var fields generic.LineBuffer
	for _, e := range entries {
		fields = append(fields, e.Key+": "+p.ExprLiteral(e.Value)+",")
	}
	buf := generic.LineBuffer{"const " + symbol + ": Metadata = {"}
	buf = append(buf, generic.Indent1(fields)...)
	buf = append(buf, "};")
	return buf
}

func (Provider) RunnerDeclare(symbol string) generic.LineBuffer {
	return generic.LineBuffer{symbol + " = " + symbol + " || getGlobalRunner();"}
}

func (Provider) ExecutionDeclare(execution, metadataSymbol string) generic.LineBuffer {
	return generic.LineBuffer{"const " + execution + " = runner.startExecution(" + metadataSymbol + ");"}
}

func (Provider) ExecutionProcessParams(execution, params string) generic.LineBuffer {
	return generic.LineBuffer{params + " = " + execution + ".params(" + params + ");"}
}

func (Provider) ExecutionRun(execution, cargs, stdoutSymbol, stderrSymbol string) generic.LineBuffer {
	so := "undefined"
	if stdoutSymbol != "" {
		so = "(s) => ret." + stdoutSymbol + ".push(s)"
	}
	se := "undefined"
	if stderrSymbol != "" {
		se = "(s) => ret." + stderrSymbol + ".push(s)"
	}
	if so == "undefined" && se == "undefined" {
		return generic.LineBuffer{execution + ".run(" + cargs + ");"}
	}
	return generic.LineBuffer{execution + ".run(" + cargs + ", " + so + ", " + se + ");"}
}

func (Provider) GenerateRetObjectCreation(execution, outputType string, members []generic.Member) generic.LineBuffer {
	buf := generic.LineBuffer{"const ret: " + outputType + " = {"}
	fields := generic.LineBuffer{"root: " + execution + `.outputFile("."),`}
	for _, m := range members {
		fields = append(fields, m.Symbol+": "+m.Expr+",")
	}
	buf = append(buf, generic.Indent1(fields)...)
	buf = append(buf, "};")
	return buf
}

func (Provider) ResolveOutputFile(execution, fileExpr string) string {
	return execution + ".outputFile(" + fileExpr + ")"
}

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

func sortDefaultsLast(args []generic.Arg) {
	sort.SliceStable(args, func(i, j int) bool {
		return args[i].Default == nil && args[j].Default != nil
	})
}

// tsdoc renders a TSDoc block: body, @param tags and @returns.
func tsdoc(body string, args []generic.Arg, returnDescr string) generic.LineBuffer {
	var inner generic.LineBuffer
	if body != "" {
		inner = append(inner, generic.LinebreakParagraph(body, 80-3, 80-3)...)
	}
	if len(args) > 0 {
		if len(inner) > 0 {
			inner = append(inner, "")
		}
		for _, arg := range args {
			inner = append(inner, "@param "+arg.Name+" "+arg.Docstring)
		}
	}
	if returnDescr != "" {
		inner = append(inner, "", "@returns "+returnDescr)
	}
	buf := generic.LineBuffer{"/**"}
	for _, l := range inner {
		if l == "" {
			buf = append(buf, " *")
			continue
		}
		buf = append(buf, " * "+l)
	}
	buf = append(buf, " */")
	return buf
}

// GenerateFunc renders a function with a TSDoc comment.
func (p Provider) GenerateFunc(fn *generic.Func) generic.LineBuffer {
	sortDefaultsLast(fn.Args)

	buf := tsdoc(fn.DocstringBody, fn.Args, fn.ReturnDescr)

	returnType := fn.ReturnType
	if returnType == "" {
		returnType = "void"
	}
	buf = append(buf, "function "+fn.Name+"(")
	for _, arg := range fn.Args {
		buf = append(buf, "    "+argDeclaration(arg)+",")
	}
	buf = append(buf, "): "+returnType+" {")
	buf = append(buf, generic.Indent1(fn.Body)...)
	buf = append(buf, "}")
	return buf
}

// GenerateStructure renders an interface with per-field TSDoc.
func (p Provider) GenerateStructure(s *generic.Structure) generic.LineBuffer {
	buf := generic.LineBuffer{}
	if s.Docstring != "" {
		buf = append(buf, tsdoc(s.Docstring, nil, "")...)
	}
	buf = append(buf, "interface "+s.Name+" {")
	var fields generic.LineBuffer
	for _, f := range s.Fields {
		if f.Docstring != "" {
			fields = append(fields, "/**")
			for _, l := range generic.LinebreakParagraph(f.Docstring, 80-7, 80-7) {
				fields = append(fields, " * "+l)
			}
			fields = append(fields, " */")
		}
		fields = append(fields, f.Name+": "+f.Type+";")
	}
	buf = append(buf, generic.Indent1(fields)...)
	buf = append(buf, "}")
	return buf
}

// GenerateModule renders a complete source file with a trailing export
// statement.
func (p Provider) GenerateModule(m *generic.Module) generic.LineBuffer {
	var buf generic.LineBuffer
	if m.Docstr != "" {
		buf = append(buf, tsdoc(m.Docstr, nil, "")...)
	}
	buf = append(buf, generic.Comment(generic.LineBuffer{
		"This file was auto generated by Styx.",
		"Do not edit this file directly.",
	}, "//")...)
	buf = append(buf, generic.BlankBefore(m.Imports, 1)...)
	buf = append(buf, generic.BlankBefore(m.Header, 1)...)
	for _, d := range m.Decls {
		buf = append(buf, generic.BlankBefore(generic.GenerateDecl(p, d), 2)...)
	}
	buf = append(buf, generic.BlankBefore(m.Footer, 1)...)
	if len(m.Exports) > 0 {
		sorted := append([]string(nil), m.Exports...)
		sort.Strings(sorted)
		exports := generic.LineBuffer{"export {"}
		for _, e := range sorted {
			exports = append(exports, "    "+e+",")
		}
		exports = append(exports, "};")
		buf = append(buf, generic.BlankBefore(exports, 2)...)
	}
	return generic.BlankAfter(buf, 1)
}
