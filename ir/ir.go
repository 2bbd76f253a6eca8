// Package ir defines the intermediate representation of a command-line
// tool descriptor. An App wraps a tree of typed parameters that describes
// how native argument values are assembled into command-line tokens and
// which output files a run produces. The tree is populated by a frontend,
// rewritten in place by the optimize package and then treated as read-only
// by the code generation backends.
package ir

import (
	"fmt"

	"github.com/google/uuid"
)

// ID identifies a parameter or output. IDs are unique across the combined
// set of parameters and outputs of an App.
type ID int

type (
	// Documentation holds optional human-readable metadata attached to
	// most IR entities.
	Documentation struct {
		// Title of the documented element.
		Title string
		// Description of the documented element.
		Description string
		// Authors lists the element's authors.
		Authors []string
		// Literature lists related literature references.
		Literature []string
		// URLs lists relevant links.
		URLs []string
	}

	// Project is the metadata of a project containing multiple packages.
	Project struct {
		// Name of the project.
		Name string
		// Version of the project.
		Version string
		// Docs documents the project.
		Docs Documentation
		// License of the project, if any.
		License string
		// Extras holds additional backend specific options.
		Extras map[string]any
	}

	// Package is the metadata of a software package containing commands.
	Package struct {
		// Name of the package.
		Name string
		// Version of the package, if any.
		Version string
		// Docker is the container image tag, if any.
		Docker string
		// Docs documents the package.
		Docs Documentation
	}

	// OutputParamReference is a parameter substitution inside an output
	// path template.
	OutputParamReference struct {
		// RefID is the ID of the referenced parameter.
		RefID ID
		// FileRemoveSuffixes lists suffixes stripped from the
		// substituted value.
		FileRemoveSuffixes []string
		// Fallback is used when the referenced parameter is optional
		// and unset. Nil means no fallback.
		Fallback *string
	}

	// OutputToken is one element of an output path template: either a
	// literal string or a parameter reference.
	OutputToken struct {
		// Literal text. Valid when Ref is nil.
		Literal string
		// Ref is a parameter reference. Nil for literal tokens.
		Ref *OutputParamReference
	}

	// Output declares an output file path template of a struct parameter.
	Output struct {
		// ID of the output. Unique across parameter and output IDs.
		ID ID
		// Name of the output.
		Name string
		// Tokens is the path template, similar to an f-string.
		Tokens []OutputToken
		// Docs documents the output.
		Docs Documentation
		// MediaTypes the output may have.
		MediaTypes []string
	}

	// StreamOutput declares that a standard stream is captured as a
	// string-list output.
	StreamOutput struct {
		// ID of the output. Unique across parameter and output IDs.
		ID ID
		// Name of the output.
		Name string
		// Docs documents the output.
		Docs Documentation
	}

	// CmdArg is one contiguous token-producing unit of the command line.
	// Tokens are literal strings or parameter references.
	CmdArg struct {
		// Tokens in order. A token is either a literal or a parameter.
		Tokens []Token
		// Join collapses all tokens to a single string with this
		// delimiter. Nil means no joining.
		Join *string
	}

	// Token is one element of a CmdArg: either a literal string or a
	// parameter reference.
	Token struct {
		// Literal text. Valid when Param is nil.
		Literal string
		// Param reference. Nil for literal tokens.
		Param *Param
	}

	// ConditionalGroup is a set of CmdArgs emitted together only if at
	// least one contained parameter is set, or unconditionally if it
	// contains no parameters.
	ConditionalGroup struct {
		// Cargs in order.
		Cargs []*CmdArg
		// Join collapses all args to a single string with this
		// delimiter. Nil means no joining.
		Join *string
	}

	// App is one compilable command-line application: a root struct
	// parameter plus capture-stream declarations and project metadata.
	App struct {
		// UID uniquely identifies the app. Assigned on Setup when
		// empty.
		UID string
		// Command is the root parameter. Its body must be a Struct.
		Command *Param
		// CaptureStdout collects stdout as a string output, if set.
		CaptureStdout *StreamOutput
		// CaptureStderr collects stderr as a string output, if set.
		CaptureStderr *StreamOutput
		// Project metadata.
		Project Project

		isSetUp bool
	}
)

// LiteralToken builds a literal CmdArg token.
func LiteralToken(s string) Token { return Token{Literal: s} }

// ParamToken builds a parameter CmdArg token.
func ParamToken(p *Param) Token { return Token{Param: p} }

// Params returns the parameters referenced by the command argument, in
// token order.
func (c *CmdArg) Params() []*Param {
	var ps []*Param
	for _, t := range c.Tokens {
		if t.Param != nil {
			ps = append(ps, t.Param)
		}
	}
	return ps
}

// Params returns the parameters referenced anywhere in the group, in
// argument order.
func (g *ConditionalGroup) Params() []*Param {
	var ps []*Param
	for _, c := range g.Cargs {
		ps = append(ps, c.Params()...)
	}
	return ps
}

// Setup wires parent back-references and derives public structure names.
// It validates the tree invariants first and assigns a fresh UID when none
// was provided. Setup is idempotent: calling it again is a no-op.
func (a *App) Setup(packageName string) error {
	if a.isSetUp {
		return nil
	}
	if a.Command == nil {
		return fmt.Errorf("app %q: missing root command", a.UID)
	}
	root, ok := a.Command.Body.(*Struct)
	if !ok {
		return fmt.Errorf("app %q: root command body must be a struct, got %T", a.UID, a.Command.Body)
	}
	if err := a.checkUniqueIDs(); err != nil {
		return err
	}
	if a.UID == "" {
		a.UID = uuid.NewString()
	}
	a.isSetUp = true

	a.Command.RelinkParents()

	root.PublicName = packageName + "/" + a.Command.Name
	for _, sp := range a.Command.StructsDeep() {
		body := sp.Body.(*Struct)
		body.PublicName = body.Name
	}
	return nil
}

// IsSetUp reports whether Setup has run.
func (a *App) IsSetUp() bool { return a.isSetUp }

// AssertSetUp panics if the app was not set up. Lookup construction and
// code generation require a set-up app; calling them earlier is a
// programming error.
func (a *App) AssertSetUp() {
	if !a.isSetUp {
		panic("styx: app used before Setup")
	}
}

// checkUniqueIDs verifies that parameter and output IDs do not collide.
func (a *App) checkUniqueIDs() error {
	seen := make(map[ID]string)
	claim := func(id ID, what string) error {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("app %q: id %d used by both %s and %s", a.UID, id, prev, what)
		}
		seen[id] = what
		return nil
	}
	for _, so := range []*StreamOutput{a.CaptureStdout, a.CaptureStderr} {
		if so == nil {
			continue
		}
		if err := claim(so.ID, fmt.Sprintf("stream output %q", so.Name)); err != nil {
			return err
		}
	}
	params := append([]*Param{a.Command}, a.Command.ParamsDeep()...)
	for _, p := range params {
		if err := claim(p.ID, fmt.Sprintf("param %q", p.Name)); err != nil {
			return err
		}
		for _, o := range p.Outputs {
			if err := claim(o.ID, fmt.Sprintf("output %q", o.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}
