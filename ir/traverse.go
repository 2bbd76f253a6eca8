package ir

// IterParams returns the struct's direct child parameters in emission
// order: groups, then command arguments, then tokens.
func (s *Struct) IterParams() []*Param {
	var ps []*Param
	for _, g := range s.Groups {
		ps = append(ps, g.Params()...)
	}
	return ps
}

// children returns the direct child parameters of p, if any.
func (p *Param) children() []*Param {
	switch b := p.Body.(type) {
	case *Struct:
		return b.IterParams()
	case *StructUnion:
		return b.Alts
	}
	return nil
}

// ParamsDeep returns all descendant parameters of p in depth-first
// emission order, excluding p itself.
func (p *Param) ParamsDeep() []*Param {
	var ps []*Param
	for _, c := range p.children() {
		ps = append(ps, c)
		ps = append(ps, c.ParamsDeep()...)
	}
	return ps
}

// StructsDeep returns all descendant struct-bodied parameters of p in
// depth-first emission order, excluding p itself.
func (p *Param) StructsDeep() []*Param {
	var ps []*Param
	for _, c := range p.ParamsDeep() {
		if _, ok := c.Body.(*Struct); ok {
			ps = append(ps, c)
		}
	}
	return ps
}

// UnionsDeep returns all descendant union-bodied parameters of p in
// depth-first emission order, excluding p itself.
func (p *Param) UnionsDeep() []*Param {
	var ps []*Param
	for _, c := range p.ParamsDeep() {
		if _, ok := c.Body.(*StructUnion); ok {
			ps = append(ps, c)
		}
	}
	return ps
}

// RelinkParents recomputes the parent back-references of the whole
// subtree rooted at p. Back-references are derived state: structural
// rewrites must call this before anyone reads Parent again.
func (p *Param) RelinkParents() {
	p.parent = nil
	p.relinkChildren()
}

func (p *Param) relinkChildren() {
	for _, c := range p.children() {
		c.parent = p
		c.relinkChildren()
	}
}

// Parent returns the parameter's parent, or nil for the root.
func (p *Param) Parent() *Param { return p.parent }

// IsRoot reports whether the parameter has no parent.
func (p *Param) IsRoot() bool { return p.parent == nil }

// Root returns the root of the tree p belongs to.
func (p *Param) Root() *Param {
	r := p
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// PathFromRoot returns the parameter names from the root down to p,
// inclusive.
func (p *Param) PathFromRoot() []string {
	if p.parent == nil {
		return []string{p.Name}
	}
	return append(p.parent.PathFromRoot(), p.Name)
}

// HasOutputsDeep reports whether p or any descendant declares outputs.
func (p *Param) HasOutputsDeep() bool {
	if len(p.Outputs) > 0 {
		return true
	}
	for _, c := range p.ParamsDeep() {
		if len(c.Outputs) > 0 {
			return true
		}
	}
	return false
}

// HasOutputsDeep reports whether the app declares any output: captured
// streams or parameter outputs anywhere in the tree.
func (a *App) HasOutputsDeep() bool {
	if a.CaptureStdout != nil || a.CaptureStderr != nil {
		return true
	}
	return a.Command.HasOutputsDeep()
}
