package generic

type (
	// Arg is a function argument or structure field of the generated
	// language.
	Arg struct {
		// Name of the argument.
		Name string
		// Type expression, empty when the language infers it.
		Type string
		// Default value expression. Nil means required.
		Default *string
		// Docstring describing the argument.
		Docstring string
	}

	// Func is a function of the generated language.
	Func struct {
		// Name of the function.
		Name string
		// Args in declaration order.
		Args []Arg
		// ReturnType expression, empty for no return value.
		ReturnType string
		// ReturnDescr documents the return value.
		ReturnDescr string
		// DocstringBody is the function docstring.
		DocstringBody string
		// Body lines.
		Body LineBuffer
	}

	// Structure is a record type of the generated language.
	Structure struct {
		// Name of the structure.
		Name string
		// Docstring describing the structure.
		Docstring string
		// Fields in declaration order.
		Fields []Arg
	}

	// Decl is a top-level declaration of a module: a *Func or a
	// *Structure.
	Decl interface {
		decl()
	}

	// Module is one generated source file under assembly.
	Module struct {
		// Imports lines.
		Imports LineBuffer
		// Header lines emitted before the declarations.
		Header LineBuffer
		// Decls in emission order.
		Decls []Decl
		// Footer lines emitted after the declarations.
		Footer LineBuffer
		// Exports lists publicly exported symbols.
		Exports []string
		// Docstr is the module docstring.
		Docstr string
	}
)

func (*Func) decl()      {}
func (*Structure) decl() {}

// AddExport records a public symbol of the module.
func (m *Module) AddExport(symbol string) {
	m.Exports = append(m.Exports, symbol)
}
