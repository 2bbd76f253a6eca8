package ir

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaDoc []byte

// compiledSchema validates IR documents before decoding.
var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		panic(fmt.Sprintf("styx: invalid embedded IR schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("styx-ir.json", doc); err != nil {
		panic(fmt.Sprintf("styx: invalid embedded IR schema: %v", err))
	}
	s, err := c.Compile("styx-ir.json")
	if err != nil {
		panic(fmt.Sprintf("styx: invalid embedded IR schema: %v", err))
	}
	return s
}

// ToJSON serializes the app to its JSON document form: camelCase keys, a
// "type" discriminator on parameter bodies and a {"_special":
// "SET_TO_NONE"} object for the unset-default sentinel.
func ToJSON(app *App) ([]byte, error) {
	return json.MarshalIndent(appJSON(app), "", "  ")
}

// FromJSON validates a JSON document against the IR schema and decodes it
// into an App. The returned app is not yet set up.
func FromJSON(data []byte) (*App, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse IR document: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate IR document: %w", err)
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("IR document must be an object")
	}
	return decodeApp(root)
}

// ---------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------

func appJSON(a *App) map[string]any {
	return map[string]any{
		"uid":           a.UID,
		"command":       paramJSON(a.Command),
		"captureStdout": streamOutputJSON(a.CaptureStdout),
		"captureStderr": streamOutputJSON(a.CaptureStderr),
		"project":       projectJSON(a.Project),
	}
}

func projectJSON(p Project) map[string]any {
	extras := p.Extras
	if extras == nil {
		extras = map[string]any{}
	}
	return map[string]any{
		"name":    p.Name,
		"version": p.Version,
		"docs":    docsJSON(p.Docs),
		"license": nullableString(p.License),
		"extras":  extras,
	}
}

func docsJSON(d Documentation) map[string]any {
	return map[string]any{
		"title":       nullableString(d.Title),
		"description": nullableString(d.Description),
		"authors":     stringList(d.Authors),
		"literature":  stringList(d.Literature),
		"urls":        stringList(d.URLs),
	}
}

func streamOutputJSON(s *StreamOutput) any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"id":   int(s.ID),
		"name": s.Name,
		"docs": docsJSON(s.Docs),
	}
}

func outputJSON(o *Output) map[string]any {
	toks := make([]any, len(o.Tokens))
	for i, t := range o.Tokens {
		if t.Ref == nil {
			toks[i] = t.Literal
			continue
		}
		toks[i] = map[string]any{
			"refId":              int(t.Ref.RefID),
			"fileRemoveSuffixes": stringList(t.Ref.FileRemoveSuffixes),
			"fallback":           nullableStringPtr(t.Ref.Fallback),
		}
	}
	return map[string]any{
		"id":         int(o.ID),
		"name":       o.Name,
		"tokens":     toks,
		"docs":       docsJSON(o.Docs),
		"mediaTypes": stringList(o.MediaTypes),
	}
}

func paramJSON(p *Param) map[string]any {
	outputs := make([]any, len(p.Outputs))
	for i, o := range p.Outputs {
		outputs[i] = outputJSON(o)
	}
	m := map[string]any{
		"base": map[string]any{
			"id":      int(p.ID),
			"name":    p.Name,
			"outputs": outputs,
			"docs":    docsJSON(p.Docs),
		},
		"body":         bodyJSON(p.Body),
		"list":         listJSON(p.List),
		"nullable":     p.Nullable,
		"choices":      choicesJSON(p.Choices),
		"defaultValue": defaultJSON(p.Default),
	}
	return m
}

func bodyJSON(b ParamBody) map[string]any {
	switch b := b.(type) {
	case *Bool:
		return map[string]any{
			"type":       "bool",
			"valueTrue":  stringList(b.ValueTrue),
			"valueFalse": stringList(b.ValueFalse),
		}
	case *Int:
		return map[string]any{
			"type":     "int",
			"minValue": nullableIntPtr(b.MinValue),
			"maxValue": nullableIntPtr(b.MaxValue),
		}
	case *Float:
		return map[string]any{
			"type":     "float",
			"minValue": nullableFloatPtr(b.MinValue),
			"maxValue": nullableFloatPtr(b.MaxValue),
		}
	case *String:
		return map[string]any{"type": "string"}
	case *File:
		return map[string]any{
			"type":          "file",
			"resolveParent": b.ResolveParent,
			"mutable":       b.Mutable,
			"mediaTypes":    stringList(b.MediaTypes),
		}
	case *Struct:
		groups := make([]any, len(b.Groups))
		for i, g := range b.Groups {
			groups[i] = groupJSON(g)
		}
		var docs any
		if b.Docs != nil {
			docs = docsJSON(*b.Docs)
		}
		return map[string]any{
			"type":       "struct",
			"name":       nullableString(b.Name),
			"publicName": nullableString(b.PublicName),
			"groups":     groups,
			"join":       nullableStringPtr(b.Join),
			"docs":       docs,
		}
	case *StructUnion:
		alts := make([]any, len(b.Alts))
		for i, a := range b.Alts {
			alts[i] = paramJSON(a)
		}
		return map[string]any{"type": "struct_union", "alts": alts}
	default:
		panic(fmt.Sprintf("styx: unknown param body %T", b))
	}
}

func groupJSON(g *ConditionalGroup) map[string]any {
	cargs := make([]any, len(g.Cargs))
	for i, c := range g.Cargs {
		cargs[i] = cargJSON(c)
	}
	return map[string]any{"cargs": cargs, "join": nullableStringPtr(g.Join)}
}

func cargJSON(c *CmdArg) map[string]any {
	toks := make([]any, len(c.Tokens))
	for i, t := range c.Tokens {
		if t.Param != nil {
			toks[i] = paramJSON(t.Param)
		} else {
			toks[i] = t.Literal
		}
	}
	return map[string]any{"tokens": toks, "join": nullableStringPtr(c.Join)}
}

func listJSON(l *List) any {
	if l == nil {
		return nil
	}
	return map[string]any{
		"countMin": nullableIntPtr(l.CountMin),
		"countMax": nullableIntPtr(l.CountMax),
		"join":     nullableStringPtr(l.Join),
	}
}

func choicesJSON(cs []any) any {
	if cs == nil {
		return nil
	}
	return cs
}

func defaultJSON(d any) any {
	if d == nil {
		return nil
	}
	if d == SetToNone {
		return map[string]any{"_special": "SET_TO_NONE"}
	}
	return d
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableStringPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableIntPtr(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullableFloatPtr(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func stringList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ---------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------

func decodeApp(m map[string]any) (*App, error) {
	cmd, err := decodeParam(asObject(m["command"]))
	if err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}
	app := &App{
		UID:     asString(m["uid"]),
		Command: cmd,
	}
	if so := asObject(m["captureStdout"]); so != nil {
		app.CaptureStdout = decodeStreamOutput(so)
	}
	if so := asObject(m["captureStderr"]); so != nil {
		app.CaptureStderr = decodeStreamOutput(so)
	}
	if pr := asObject(m["project"]); pr != nil {
		app.Project = decodeProject(pr)
	}
	return app, nil
}

func decodeProject(m map[string]any) Project {
	p := Project{
		Name:    asString(m["name"]),
		Version: asString(m["version"]),
		License: asString(m["license"]),
	}
	if d := asObject(m["docs"]); d != nil {
		p.Docs = decodeDocs(d)
	}
	if e := asObject(m["extras"]); e != nil {
		p.Extras = e
	}
	return p
}

func decodeDocs(m map[string]any) Documentation {
	return Documentation{
		Title:       asString(m["title"]),
		Description: asString(m["description"]),
		Authors:     asStringList(m["authors"]),
		Literature:  asStringList(m["literature"]),
		URLs:        asStringList(m["urls"]),
	}
}

func decodeStreamOutput(m map[string]any) *StreamOutput {
	s := &StreamOutput{ID: asID(m["id"]), Name: asString(m["name"])}
	if d := asObject(m["docs"]); d != nil {
		s.Docs = decodeDocs(d)
	}
	return s
}

func decodeOutput(m map[string]any) *Output {
	o := &Output{
		ID:         asID(m["id"]),
		Name:       asString(m["name"]),
		MediaTypes: asStringList(m["mediaTypes"]),
	}
	if d := asObject(m["docs"]); d != nil {
		o.Docs = decodeDocs(d)
	}
	for _, t := range asList(m["tokens"]) {
		switch tv := t.(type) {
		case string:
			o.Tokens = append(o.Tokens, OutputToken{Literal: tv})
		case map[string]any:
			ref := &OutputParamReference{
				RefID:              asID(tv["refId"]),
				FileRemoveSuffixes: asStringList(tv["fileRemoveSuffixes"]),
			}
			if fb, ok := tv["fallback"].(string); ok {
				ref.Fallback = &fb
			}
			o.Tokens = append(o.Tokens, OutputToken{Ref: ref})
		}
	}
	return o
}

func decodeParam(m map[string]any) (*Param, error) {
	if m == nil {
		return nil, fmt.Errorf("missing parameter object")
	}
	base := asObject(m["base"])
	if base == nil {
		return nil, fmt.Errorf("missing parameter base")
	}
	p := &Param{
		Base: Base{
			ID:   asID(base["id"]),
			Name: asString(base["name"]),
		},
		Nullable: asBool(m["nullable"]),
	}
	if d := asObject(base["docs"]); d != nil {
		p.Docs = decodeDocs(d)
	}
	for _, o := range asList(base["outputs"]) {
		if om := asObject(o); om != nil {
			p.Outputs = append(p.Outputs, decodeOutput(om))
		}
	}
	if lm := asObject(m["list"]); lm != nil {
		p.List = &List{
			CountMin: asIntPtr(lm["countMin"]),
			CountMax: asIntPtr(lm["countMax"]),
			Join:     asStringPtr(lm["join"]),
		}
	}
	body, err := decodeBody(asObject(m["body"]), p.Name)
	if err != nil {
		return nil, err
	}
	p.Body = body
	kind := p.primitiveKind()
	if cs, ok := m["choices"].([]any); ok {
		p.Choices = make([]any, len(cs))
		for i, c := range cs {
			p.Choices[i] = coerceScalar(c, kind)
		}
	}
	if dv, ok := m["defaultValue"]; ok && dv != nil {
		if sp, ok := dv.(map[string]any); ok && sp["_special"] == "SET_TO_NONE" {
			p.Default = SetToNone
		} else if items, ok := dv.([]any); ok {
			def := make([]any, len(items))
			for i, item := range items {
				def[i] = coerceScalar(item, kind)
			}
			p.Default = def
		} else {
			p.Default = coerceScalar(dv, kind)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeBody(m map[string]any, name string) (ParamBody, error) {
	if m == nil {
		return nil, fmt.Errorf("param %q: missing body", name)
	}
	switch asString(m["type"]) {
	case "bool":
		return &Bool{
			ValueTrue:  asStringList(m["valueTrue"]),
			ValueFalse: asStringList(m["valueFalse"]),
		}, nil
	case "int":
		return &Int{MinValue: asIntPtr(m["minValue"]), MaxValue: asIntPtr(m["maxValue"])}, nil
	case "float":
		return &Float{MinValue: asFloatPtr(m["minValue"]), MaxValue: asFloatPtr(m["maxValue"])}, nil
	case "string":
		return &String{}, nil
	case "file":
		return &File{
			ResolveParent: asBool(m["resolveParent"]),
			Mutable:       asBool(m["mutable"]),
			MediaTypes:    asStringList(m["mediaTypes"]),
		}, nil
	case "struct":
		s := &Struct{
			Name:       asString(m["name"]),
			PublicName: asString(m["publicName"]),
			Join:       asStringPtr(m["join"]),
		}
		if d := asObject(m["docs"]); d != nil {
			docs := decodeDocs(d)
			s.Docs = &docs
		}
		for _, g := range asList(m["groups"]) {
			gm := asObject(g)
			if gm == nil {
				continue
			}
			group := &ConditionalGroup{Join: asStringPtr(gm["join"])}
			for _, c := range asList(gm["cargs"]) {
				cm := asObject(c)
				if cm == nil {
					continue
				}
				carg := &CmdArg{Join: asStringPtr(cm["join"])}
				for _, t := range asList(cm["tokens"]) {
					switch tv := t.(type) {
					case string:
						carg.Tokens = append(carg.Tokens, LiteralToken(tv))
					case map[string]any:
						child, err := decodeParam(tv)
						if err != nil {
							return nil, err
						}
						carg.Tokens = append(carg.Tokens, ParamToken(child))
					}
				}
				group.Cargs = append(group.Cargs, carg)
			}
			s.Groups = append(s.Groups, group)
		}
		return s, nil
	case "struct_union":
		u := &StructUnion{}
		for _, a := range asList(m["alts"]) {
			am := asObject(a)
			if am == nil {
				continue
			}
			alt, err := decodeParam(am)
			if err != nil {
				return nil, err
			}
			u.Alts = append(u.Alts, alt)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("param %q: unknown body type %q", name, asString(m["type"]))
	}
}

// coerceScalar converts a decoded JSON scalar to the kind the body
// expects. The document decoder yields json.Number for numbers; integer
// bodies need ints back and float bodies float64s.
func coerceScalar(v any, kind string) any {
	f, ok := asNumber(v)
	if !ok {
		return v
	}
	switch kind {
	case "int":
		return int(f)
	case "float":
		return f
	}
	return v
}

// asNumber normalizes json.Number and float64 values to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asStringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func asID(v any) ID {
	if f, ok := asNumber(v); ok {
		return ID(int(f))
	}
	return 0
}

func asIntPtr(v any) *int {
	if f, ok := asNumber(v); ok {
		i := int(f)
		return &i
	}
	return nil
}

func asFloatPtr(v any) *float64 {
	if f, ok := asNumber(v); ok {
		return &f
	}
	return nil
}

func asStringList(v any) []string {
	l, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, e := range l {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
