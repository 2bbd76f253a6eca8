package typescript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styx-api/styx-go/backend"
	"github.com/styx-api/styx-go/ir"
)

func TestBackendRegistered(t *testing.T) {
	b, ok := backend.Get("typescript")
	require.True(t, ok)
	assert.Equal(t, "typescript", b.Descriptor().ID)
}

func compilePackage(t *testing.T, project ir.Project) map[string]string {
	t.Helper()

	files := map[string]string{}
	err := typescriptBackend{}.Compile(context.Background(), project, []backend.PackageApps{
		{Package: ir.Package{Name: "fsl"}, Apps: []*ir.App{fixtureApp(t)}},
	}, func(f backend.File) error {
		files[f.Path] = f.Content
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestCompileEmitsPackageTree(t *testing.T) {
	t.Parallel()

	files := compilePackage(t, ir.Project{Name: "neurotools", Version: "1.0.0"})

	for _, p := range []string{
		"src/fsl/bet.ts",
		"src/fsl/index.ts",
		"src/index.ts",
		"package.json",
		"tsconfig.json",
		"build.js",
	} {
		assert.Contains(t, files, p)
	}
}

func TestCompileWrapperModule(t *testing.T) {
	t.Parallel()

	files := compilePackage(t, ir.Project{Name: "neurotools"})

	module := files["src/fsl/bet.ts"]
	require.NotEmpty(t, module)
	assert.Contains(t, module, "// This file was auto generated by Styx.")
	assert.Contains(t, module, `from "styxdefs";`)
	assert.Contains(t, module, "function bet(")
	assert.Contains(t, module, "function betExecute(")
	assert.Contains(t, module, "const BET_METADATA: Metadata = {")
	assert.Contains(t, module, "export {")
}

func TestCompilePackageIndex(t *testing.T) {
	t.Parallel()

	files := compilePackage(t, ir.Project{Name: "neurotools"})

	index := files["src/fsl/index.ts"]
	require.NotEmpty(t, index)
	assert.Contains(t, index, `export * from "./bet";`)
	assert.Contains(t, index, `import { betExecute } from "./bet";`)
	assert.Contains(t, index, "function execute(")
	assert.Contains(t, index, `"fsl/bet": betExecute,`)
}

func TestCompileRootIndex(t *testing.T) {
	t.Parallel()

	files := compilePackage(t, ir.Project{Name: "neurotools"})

	root := files["src/index.ts"]
	require.NotEmpty(t, root)
	assert.Contains(t, root, `export * as fsl from "./fsl";`)
	assert.Contains(t, root, `export * from "styxdefs";`)
}

func TestCompileScaffolding(t *testing.T) {
	t.Parallel()

	files := compilePackage(t, ir.Project{Name: "neurotools", Version: "0.3.0"})

	assert.Contains(t, files["package.json"], `"neurotools"`)
	assert.Contains(t, files["package.json"], `"0.3.0"`)
	assert.Contains(t, files["tsconfig.json"], `"compilerOptions"`)
	assert.NotEmpty(t, files["build.js"])
}
