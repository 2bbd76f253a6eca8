package typescript

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/styx-api/styx-go/backend"
	"github.com/styx-api/styx-go/backend/generic"
	"github.com/styx-api/styx-go/ir"
)

func init() {
	backend.Register(typescriptBackend{})
}

type typescriptBackend struct{}

func (typescriptBackend) Descriptor() backend.Descriptor {
	return backend.Descriptor{
		ID:          "typescript",
		Name:        "TypeScript",
		Description: "TypeScript (ES2020)",
	}
}

// Compile generates one npm package: a module per app under
// src/<package>/, an index per package with a dynamic execute function,
// a root index re-exporting every package namespace, and build
// scaffolding (package.json, tsconfig.json, build.js).
func (typescriptBackend) Compile(ctx context.Context, project ir.Project, packages []backend.PackageApps, emit backend.EmitFunc) error {
	lang := Provider{}
	globalScope := lang.LanguageScope()

	var packageSymbols []string
	for _, pa := range packages {
		pkg := pa.Package

		packageSymbol := globalScope.AddOrDodge(lang.SymbolVarCase(pkg.Name))
		packageSymbols = append(packageSymbols, packageSymbol)
		packageScope := generic.NewScope(globalScope)
		packageModule := &generic.Module{
			Docstr: generic.DocsToDocstring(pkg.Docs),
		}

		type appEntry struct {
			publicName   string
			moduleSymbol string
			lut          *generic.SymbolLUT
		}
		var entries []appEntry

		for _, app := range pa.Apps {
			moduleSymbol := lang.SymbolVarCase(app.Command.Name)

			appModule := &generic.Module{}
			lut, err := generic.CompileApp(lang, pkg, app, packageScope, appModule)
			if err != nil {
				return fmt.Errorf("compile app %q: %w", app.Command.Name, err)
			}

			entries = append(entries, appEntry{
				publicName:   app.Command.Body.(*ir.Struct).PublicName,
				moduleSymbol: moduleSymbol,
				lut:          lut,
			})
			packageModule.Imports = append(packageModule.Imports,
				`export * from "./`+moduleSymbol+`";`)

			if err := emit(backend.File{
				Path:    path.Join("src", packageSymbol, moduleSymbol+".ts"),
				Content: generic.Collapse(lang.GenerateModule(appModule)),
			}); err != nil {
				return err
			}
		}

		var dispatch generic.LineBuffer
		var imports generic.LineBuffer
		for _, e := range entries {
			dispatch = append(dispatch, lang.ExprStr(e.publicName)+": "+e.lut.FnRootExecute+",")
			imports = append(imports, "import { "+e.lut.FnRootExecute+` } from "./`+e.moduleSymbol+`";`)
		}
		dynBody := generic.LineBuffer{"return ({"}
		dynBody = append(dynBody, generic.Indent1(dispatch)...)
		dynBody = append(dynBody, `} as Record<string, Function>)[params["@type"]](params, runner);`)
		packageModule.Decls = append(packageModule.Decls, &generic.Func{
			Name:          "execute",
			ReturnType:    "any",
			DocstringBody: "Run a command in this package dynamically from a params object.",
			ReturnDescr:   "Outputs object.",
			Args: []generic.Arg{
				{Name: "params", Type: "any", Docstring: "The parameters."},
				{Name: "runner", Type: "Runner | null", Default: ptrStr("null"), Docstring: "Command runner"},
			},
			Body: dynBody,
		})
		packageModule.AddExport("execute")

		packageModule.Imports = append(packageModule.Imports, imports...)
		packageModule.Imports = append(packageModule.Imports, `import { Runner } from "styxdefs";`)
		sort.Strings(packageModule.Imports)

		if err := emit(backend.File{
			Path:    path.Join("src", packageSymbol, "index.ts"),
			Content: generic.Collapse(lang.GenerateModule(packageModule)),
		}); err != nil {
			return err
		}
	}

	rootIndex := &generic.Module{}
	for _, symbol := range packageSymbols {
		rootIndex.Imports = append(rootIndex.Imports,
			"export * as "+symbol+` from "./`+symbol+`";`)
	}
	rootIndex.Imports = append(rootIndex.Imports, `export * from "styxdefs";`)

	if err := emit(backend.File{
		Path:    path.Join("src", "index.ts"),
		Content: generic.Collapse(lang.GenerateModule(rootIndex)),
	}); err != nil {
		return err
	}

	if err := emit(backend.File{Path: "package.json", Content: templatePackageJSON(project)}); err != nil {
		return err
	}
	if err := emit(backend.File{Path: "tsconfig.json", Content: templateTsconfigJSON()}); err != nil {
		return err
	}
	return emit(backend.File{Path: "build.js", Content: templateBuildJS()})
}

func ptrStr(s string) *string { return &s }
