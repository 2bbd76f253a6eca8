package python

import (
	"fmt"
	"strings"

	"github.com/styx-api/styx-go/ir"
)

// styxdefsCompat is the version constraint tying generated packages to a
// compatible styxdefs runtime.
const styxdefsCompat = ">=0.5.0,<0.6"

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func projectAuthors(project ir.Project) string {
	if len(project.Docs.Authors) == 0 {
		return "unknown"
	}
	return strings.Join(project.Docs.Authors, ", ")
}

func projectDescription(project ir.Project) string {
	if project.Docs.Description != "" {
		return project.Docs.Description
	}
	title := project.Docs.Title
	if title == "" {
		title = project.Name
	}
	return fmt.Sprintf("Styx generated wrappers for %s.", title)
}

func templateRootPyproject(project ir.Project, packageNames []string) string {
	var deps strings.Builder
	for _, d := range packageNames {
		fmt.Fprintf(&deps, "\n  %q,", project.Name+"_"+d)
	}
	return fmt.Sprintf(`[project]
name = %q
version = %q
description = %q
readme = "README.md"
license = %q
authors = [{ name = %q }]
requires-python = ">=3.10"
dependencies = [
  "styxdocker",
  "styxsingularity",
  "styxgraph",%s
]

[build-system]
requires = ["uv_build>=0.8.13,<0.9.0"]
build-backend = "uv_build"`,
		project.Name, project.Version, projectDescription(project),
		orUnknown(project.License), projectAuthors(project), deps.String())
}

func templateSubPyproject(project ir.Project, pkg ir.Package) string {
	description := project.Docs.Description
	if description == "" {
		description = "Wrappers"
	}
	return fmt.Sprintf(`[project]
name = %q
version = %q
description = %q
license = %q
authors = [{ name = %q }]
requires-python = ">=3.10"
dependencies = [
    "styxdefs%s"
]

[tool.uv.build-backend]
module-name = %q

[build-system]
requires = ["uv_build>=0.8.13,<0.9.0"]
build-backend = "uv_build"`,
		project.Name+"_"+pkg.Name, project.Version, description,
		orUnknown(project.License), projectAuthors(project), styxdefsCompat,
		project.Name+"_"+pkg.Name+"."+pkg.Name)
}

func templateSubReadme(project ir.Project, pkg ir.Package) string {
	projectTitle := project.Docs.Title
	if projectTitle == "" {
		projectTitle = project.Name
	}
	packageTitle := pkg.Docs.Title
	if packageTitle == "" {
		packageTitle = pkg.Name
	}
	packageAuthors := "unknown"
	if len(pkg.Docs.Authors) > 0 {
		packageAuthors = strings.Join(pkg.Docs.Authors, ", ")
	}
	packageTitleMD := packageTitle
	if len(pkg.Docs.URLs) > 0 {
		packageTitleMD = fmt.Sprintf("[%s](%s)", packageTitle, pkg.Docs.URLs[0])
	}
	packageDescriptionMD := ""
	if pkg.Docs.Description != "" {
		packageDescriptionMD = "\n\n" + pkg.Docs.Description
	}
	return fmt.Sprintf(`# %s wrappers for %s%s

%s is made by %s.

This package contains wrappers only and has no affiliation with the original authors.
`, projectTitle, packageTitleMD, packageDescriptionMD, packageTitle, packageAuthors)
}

func templateRootInitPy(project ir.Project, packageNames []string) string {
	reexports := make([]string, len(packageNames))
	for i, name := range packageNames {
		reexports[i] = fmt.Sprintf("from %s_%s import %s", project.Name, name, name)
	}
	return strings.Join(reexports, "\n") + `
from styxdefs import *  # Reexport styxdefs
from styxdocker import DockerRunner
from styxsingularity import SingularityRunner
from styxgraph import GraphRunner


def use_local(*args, **kwargs):
    """Set the LocalRunner as the global runner."""
    set_global_runner(LocalRunner(*args, **kwargs))


def use_dry(*args, **kwargs):
    """Set the DryRunner as the global runner."""
    set_global_runner(DryRunner(*args, **kwargs))


def use_docker(*args, **kwargs):
    """Set the DockerRunner as the global runner."""
    set_global_runner(DockerRunner(*args, **kwargs))


def use_singularity(*args, **kwargs):
    """Set the SingularityRunner as the global runner."""
    set_global_runner(SingularityRunner(*args, **kwargs))


def use_graph(*args, **kwargs):
    """Set the GraphRunner as the global runner."""
    set_global_runner(GraphRunner(*args, **kwargs))`
}
