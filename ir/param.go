package ir

import "fmt"

type (
	// Base carries the identity shared by all parameters.
	Base struct {
		// ID of the parameter. Unique across parameter and output IDs.
		ID ID
		// Name of the parameter.
		Name string
		// Outputs associated with this parameter.
		Outputs []*Output
		// Docs documents the parameter.
		Docs Documentation
	}

	// List marks a parameter as list-valued and carries its bounds.
	List struct {
		// CountMin is the minimum number of items, if bounded.
		CountMin *int
		// CountMax is the maximum number of items, if bounded.
		CountMax *int
		// Join collapses list items to a single string with this
		// delimiter. Nil means items stay separate tokens.
		Join *string
	}

	// ParamBody is the closed set of parameter body variants. Every
	// consumption site type-switches over the concrete types; an unknown
	// variant is a programming error.
	ParamBody interface {
		body()
	}

	// Bool is a boolean parameter rendered as configurable token lists.
	Bool struct {
		// ValueTrue is emitted when the value is true.
		ValueTrue []string
		// ValueFalse is emitted when the value is false.
		ValueFalse []string
	}

	// Int is an integer parameter with optional bounds.
	Int struct {
		// MinValue is the inclusive lower bound, if any.
		MinValue *int
		// MaxValue is the inclusive upper bound, if any.
		MaxValue *int
	}

	// Float is a floating point parameter with optional bounds.
	Float struct {
		// MinValue is the inclusive lower bound, if any.
		MinValue *float64
		// MaxValue is the inclusive upper bound, if any.
		MaxValue *float64
	}

	// String is a free-form string parameter.
	String struct{}

	// File is a path-valued input parameter.
	File struct {
		// ResolveParent resolves the parent directory of the path.
		ResolveParent bool
		// Mutable marks the file as possibly mutated by the tool.
		Mutable bool
		// MediaTypes the file may have.
		MediaTypes []string
	}

	// Struct groups sub-parameters into literal and parameter tokens.
	Struct struct {
		// Name of the structure.
		Name string
		// PublicName is the runtime discriminator ("@type"). Derived
		// during App.Setup; preserved verbatim in generated code.
		PublicName string
		// Groups of command arguments, in emission order.
		Groups []*ConditionalGroup
		// Join collapses all groups to a single string with this
		// delimiter. Nil means no joining.
		Join *string
		// Docs documents the structure.
		Docs *Documentation
	}

	// StructUnion is a tagged choice among alternative struct shapes.
	StructUnion struct {
		// Alts are the alternative struct parameters. Each alternative
		// is distinguished at runtime by its public name.
		Alts []*Param
	}

	// Param is one node of the parameter tree: identity, a body variant
	// and the list/nullable/choices/default modifiers.
	Param struct {
		Base

		// Body determines the parameter's base type.
		Body ParamBody
		// List marks the parameter as list-valued.
		List *List
		// Nullable allows the value to be unset.
		Nullable bool
		// Choices restricts the value to an enumerated set. Elements
		// must match the body's primitive type.
		Choices []any
		// Default value. Nil means no default; SetToNone defaults a
		// nullable parameter to unset. Otherwise the value (or, for
		// lists, the slice) must match the body's primitive type.
		Default any

		parent *Param
	}
)

func (*Bool) body()        {}
func (*Int) body()         {}
func (*Float) body()       {}
func (*String) body()      {}
func (*File) body()        {}
func (*Struct) body()      {}
func (*StructUnion) body() {}

// setToNone is the type of the SetToNone sentinel.
type setToNone struct{}

// SetToNone is the default-value sentinel that defaults a nullable
// parameter to unset.
var SetToNone any = setToNone{}

// NewParam validates the coherence of a parameter's body, list, nullable,
// choices and default fields and returns it. Violations fail construction
// and abort the enclosing App's build.
func NewParam(p *Param) (*Param, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the parameter's internal coherence. It does not descend
// into child parameters.
func (p *Param) Validate() error {
	if p.Body == nil {
		return fmt.Errorf("param %q: missing body", p.Name)
	}
	if err := p.checkChoices(); err != nil {
		return err
	}
	if err := p.checkDefault(); err != nil {
		return err
	}
	return p.checkBounds()
}

// primitiveKind names the native value kind of a body variant, or "" for
// struct-like bodies that have no primitive value.
func (p *Param) primitiveKind() string {
	switch p.Body.(type) {
	case *Bool:
		return "bool"
	case *Int:
		return "int"
	case *Float:
		return "float"
	case *String:
		return "string"
	case *File, *Struct, *StructUnion:
		return ""
	default:
		panic(fmt.Sprintf("styx: unknown param body %T", p.Body))
	}
}

// matchesKind reports whether v is a scalar of the given primitive kind.
// Ints are accepted where floats are expected.
func matchesKind(v any, kind string) bool {
	switch kind {
	case "bool":
		_, ok := v.(bool)
		return ok
	case "int":
		_, ok := v.(int)
		return ok
	case "float":
		switch v.(type) {
		case float64, int:
			return true
		}
		return false
	case "string":
		_, ok := v.(string)
		return ok
	}
	return false
}

func (p *Param) checkChoices() error {
	if p.Choices == nil {
		return nil
	}
	kind := p.primitiveKind()
	if kind == "" {
		return nil
	}
	for _, c := range p.Choices {
		if !matchesKind(c, kind) {
			return fmt.Errorf("param %q: choice %v is not a %s", p.Name, c, kind)
		}
	}
	return nil
}

func (p *Param) checkDefault() error {
	if p.Default == nil {
		return nil
	}
	if p.Default == SetToNone {
		if !p.Nullable {
			return fmt.Errorf("param %q: default SetToNone requires nullable", p.Name)
		}
		return nil
	}
	kind := p.primitiveKind()
	if kind == "" {
		return fmt.Errorf("param %q: default value not supported for %T body", p.Name, p.Body)
	}
	if p.List != nil {
		items, ok := defaultListItems(p.Default)
		if !ok {
			return fmt.Errorf("param %q: default of a list parameter must be a slice", p.Name)
		}
		for _, item := range items {
			if !matchesKind(item, kind) {
				return fmt.Errorf("param %q: default list item %v is not a %s", p.Name, item, kind)
			}
		}
		return nil
	}
	if !matchesKind(p.Default, kind) {
		return fmt.Errorf("param %q: default %v is not a %s", p.Name, p.Default, kind)
	}
	return nil
}

// defaultListItems normalizes a typed or untyped slice default into a
// generic item slice.
func defaultListItems(v any) ([]any, bool) {
	switch vv := v.(type) {
	case []any:
		return vv, true
	case []string:
		items := make([]any, len(vv))
		for i, e := range vv {
			items[i] = e
		}
		return items, true
	case []int:
		items := make([]any, len(vv))
		for i, e := range vv {
			items[i] = e
		}
		return items, true
	case []float64:
		items := make([]any, len(vv))
		for i, e := range vv {
			items[i] = e
		}
		return items, true
	case []bool:
		items := make([]any, len(vv))
		for i, e := range vv {
			items[i] = e
		}
		return items, true
	}
	return nil, false
}

func (p *Param) checkBounds() error {
	switch b := p.Body.(type) {
	case *Int:
		if b.MinValue != nil && b.MaxValue != nil && *b.MinValue > *b.MaxValue {
			return fmt.Errorf("param %q: min value %d greater than max value %d", p.Name, *b.MinValue, *b.MaxValue)
		}
		if d, ok := p.Default.(int); ok && p.List == nil {
			if b.MinValue != nil && d < *b.MinValue {
				return fmt.Errorf("param %q: default %d less than min value %d", p.Name, d, *b.MinValue)
			}
			if b.MaxValue != nil && d > *b.MaxValue {
				return fmt.Errorf("param %q: default %d greater than max value %d", p.Name, d, *b.MaxValue)
			}
		}
	case *Float:
		if b.MinValue != nil && b.MaxValue != nil && *b.MinValue > *b.MaxValue {
			return fmt.Errorf("param %q: min value %v greater than max value %v", p.Name, *b.MinValue, *b.MaxValue)
		}
		if p.List == nil && p.Default != nil && p.Default != SetToNone {
			var d float64
			switch dv := p.Default.(type) {
			case float64:
				d = dv
			case int:
				d = float64(dv)
			default:
				return nil
			}
			if b.MinValue != nil && d < *b.MinValue {
				return fmt.Errorf("param %q: default %v less than min value %v", p.Name, d, *b.MinValue)
			}
			if b.MaxValue != nil && d > *b.MaxValue {
				return fmt.Errorf("param %q: default %v greater than max value %v", p.Name, d, *b.MaxValue)
			}
		}
	}
	if p.List != nil {
		if p.List.CountMin != nil && p.List.CountMax != nil && *p.List.CountMin > *p.List.CountMax {
			return fmt.Errorf("param %q: list count min %d greater than count max %d", p.Name, *p.List.CountMin, *p.List.CountMax)
		}
		if items, ok := defaultListItems(p.Default); ok {
			if p.List.CountMin != nil && len(items) < *p.List.CountMin {
				return fmt.Errorf("param %q: default list shorter than count min %d", p.Name, *p.List.CountMin)
			}
			if p.List.CountMax != nil && len(items) > *p.List.CountMax {
				return fmt.Errorf("param %q: default list longer than count max %d", p.Name, *p.List.CountMax)
			}
		}
	}
	return nil
}
