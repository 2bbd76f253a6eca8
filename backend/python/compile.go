package python

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/styx-api/styx-go/backend"
	"github.com/styx-api/styx-go/backend/generic"
	"github.com/styx-api/styx-go/ir"
)

func init() {
	backend.Register(pythonBackend{})
}

type pythonBackend struct{}

func (pythonBackend) Descriptor() backend.Descriptor {
	return backend.Descriptor{
		ID:          "python",
		Name:        "Python",
		Description: "Python (>=3.10)",
	}
}

// Compile generates one installable Python package per IR package plus a
// root metapackage re-exporting all of them, a symbol map per app and
// pip requirement files.
func (pythonBackend) Compile(ctx context.Context, project ir.Project, packages []backend.PackageApps, emit backend.EmitFunc) error {
	lang := Provider{}
	globalScope := lang.LanguageScope()

	var packageNames []string
	for _, pa := range packages {
		pkg := pa.Package
		packageNames = append(packageNames, pkg.Name)

		pythonPackageName := project.Name + "_" + pkg.Name
		srcDir := path.Join(pythonPackageName, "src")

		if err := emit(backend.File{
			Path:    path.Join(pythonPackageName, "pyproject.toml"),
			Content: templateSubPyproject(project, pkg),
		}); err != nil {
			return err
		}
		if err := emit(backend.File{
			Path:    path.Join(pythonPackageName, "README.md"),
			Content: templateSubReadme(project, pkg),
		}); err != nil {
			return err
		}

		packageSymbol := globalScope.AddOrDodge(lang.SymbolVarCase(pkg.Name))
		packageScope := generic.NewScope(globalScope)
		packageModule := &generic.Module{
			Docstr: generic.DocsToDocstring(pkg.Docs),
		}

		type appEntry struct {
			publicName string
			lut        *generic.SymbolLUT
		}
		var entries []appEntry

		for _, app := range pa.Apps {
			moduleSymbol := lang.SymbolVarCase(app.Command.Name)

			appModule := &generic.Module{}
			lut, err := generic.CompileApp(lang, pkg, app, packageScope, appModule)
			if err != nil {
				return fmt.Errorf("compile app %q: %w", app.Command.Name, err)
			}

			symbolMap, err := backend.JSONFile(
				path.Join("symbolmaps", pkg.Name, lut.FnRootMakeParamsAndExecute+".json"),
				lut.SymbolMap(app.Command),
			)
			if err != nil {
				return err
			}
			if err := emit(symbolMap); err != nil {
				return err
			}

			entries = append(entries, appEntry{
				publicName: app.Command.Body.(*ir.Struct).PublicName,
				lut:        lut,
			})
			packageModule.Imports = append(packageModule.Imports, "from ."+moduleSymbol+" import *")

			if err := emit(backend.File{
				Path:    path.Join(srcDir, pythonPackageName, packageSymbol, moduleSymbol+".py"),
				Content: generic.Collapse(lang.GenerateModule(appModule)),
			}); err != nil {
				return err
			}
		}

		mapIndex := make(map[string]string, len(entries))
		for _, e := range entries {
			mapIndex[e.publicName] = pkg.Name + "/" + e.lut.FnRootMakeParamsAndExecute + ".json"
		}
		pkgMapFile, err := backend.JSONFile(path.Join("symbolmaps", pkg.Name+".json"), mapIndex)
		if err != nil {
			return err
		}
		if err := emit(pkgMapFile); err != nil {
			return err
		}

		var dispatch generic.LineBuffer
		for _, e := range entries {
			dispatch = append(dispatch, lang.ExprStr(e.publicName)+": "+e.lut.FnRootExecute+",")
		}
		dynBody := generic.LineBuffer{"return {"}
		dynBody = append(dynBody, generic.Indent1(dispatch)...)
		dynBody = append(dynBody, `}[params["@type"]](params, runner)`)
		packageModule.Decls = append(packageModule.Decls, &generic.Func{
			Name:          "execute",
			DocstringBody: "Run a command in this package dynamically from a params object.",
			Args: []generic.Arg{
				{Name: "params", Type: "dict", Docstring: "The parameters."},
				{Name: "runner", Type: "_Runner | None", Default: ptrStr("None"), Docstring: "Command runner"},
			},
			Body: dynBody,
		})

		packageModule.Imports = append(packageModule.Imports, "from styxdefs import Runner as _Runner")
		sort.Strings(packageModule.Imports)

		if err := emit(backend.File{
			Path:    path.Join(srcDir, pythonPackageName, packageSymbol, "__init__.py"),
			Content: generic.Collapse(lang.GenerateModule(packageModule)),
		}); err != nil {
			return err
		}
		if err := emit(backend.File{Path: path.Join(srcDir, pythonPackageName, "__init__.py")}); err != nil {
			return err
		}
		if err := emit(backend.File{Path: path.Join(srcDir, pythonPackageName, "py.typed")}); err != nil {
			return err
		}
	}

	if err := emit(backend.File{
		Path:    path.Join(project.Name, "src", project.Name, "__init__.py"),
		Content: templateRootInitPy(project, packageNames),
	}); err != nil {
		return err
	}
	if err := emit(backend.File{Path: path.Join(project.Name, "src", project.Name, "py.typed")}); err != nil {
		return err
	}
	if err := emit(backend.File{
		Path:    path.Join(project.Name, "pyproject.toml"),
		Content: templateRootPyproject(project, packageNames),
	}); err != nil {
		return err
	}

	requirements := make([]string, 0, len(packageNames)+1)
	for _, name := range packageNames {
		requirements = append(requirements, "./"+project.Name+"_"+name)
	}
	requirements = append(requirements, "./"+project.Name)
	if err := emit(backend.File{
		Path:    "requirements.txt",
		Content: strings.Join(requirements, "\n"),
	}); err != nil {
		return err
	}

	if repoURL, ok := project.Extras["dist_repo_url"].(string); ok && repoURL != "" {
		// Normalize the URL for pip.
		if !strings.HasPrefix(repoURL, "git+") {
			repoURL = "git+" + repoURL
		}
		if !strings.HasSuffix(repoURL, ".git") {
			repoURL += ".git"
		}
		remote := make([]string, 0, len(packageNames)+1)
		for _, name := range packageNames {
			remote = append(remote, fmt.Sprintf("%s#subdirectory=%s_%s", repoURL, project.Name, name))
		}
		remote = append(remote, fmt.Sprintf("%s#subdirectory=%s", repoURL, project.Name))
		if err := emit(backend.File{
			Path:    "requirements_remote.txt",
			Content: strings.Join(remote, "\n"),
		}); err != nil {
			return err
		}
	}

	if readme, ok := project.Extras["readme_md"].(string); ok && readme != "" {
		if err := emit(backend.File{Path: path.Join(project.Name, "README.md"), Content: readme}); err != nil {
			return err
		}
		if err := emit(backend.File{Path: "README.md", Content: readme}); err != nil {
			return err
		}
	}

	index := make(map[string]string, len(packageNames))
	for _, name := range packageNames {
		index[name] = name + ".json"
	}
	indexFile, err := backend.JSONFile(path.Join("symbolmaps", "index.json"), index)
	if err != nil {
		return err
	}
	return emit(indexFile)
}

func ptrStr(s string) *string { return &s }
