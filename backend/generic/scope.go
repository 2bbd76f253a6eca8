// Package generic implements the language-independent half of code
// generation: identifier scopes, the symbol lookup table, a small
// func/struct/module model and the driver that walks an optimized IR
// tree against a LanguageProvider to produce wrapper source.
package generic

import (
	"fmt"
	"strconv"
)

// Scope tracks declared identifiers within a namespace. Scopes nest:
// a symbol collides if it is declared here or in any ancestor.
type Scope struct {
	parent  *Scope
	symbols map[string]struct{}
}

// NewScope returns a scope nested under parent. A nil parent makes a
// root scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: make(map[string]struct{})}
}

// Contains reports whether the symbol is declared in this scope or any
// ancestor.
func (s *Scope) Contains(symbol string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.symbols[symbol]; ok {
			return true
		}
	}
	return false
}

// Add declares the symbol, erroring on collision.
func (s *Scope) Add(symbol string) error {
	if s.Contains(symbol) {
		return fmt.Errorf("symbol %q already declared in scope", symbol)
	}
	s.symbols[symbol] = struct{}{}
	return nil
}

// MustAdd declares the symbol and panics on collision. Collisions here
// are contract breaches: the caller is responsible for seeding scopes
// with non-colliding names.
func (s *Scope) MustAdd(symbol string) string {
	if err := s.Add(symbol); err != nil {
		panic("styx: " + err.Error())
	}
	return symbol
}

// AddOrDodge declares the symbol, appending _2, _3, ... until it no
// longer collides, and returns the declared name. The dodge sequence is
// deterministic for a given declaration order.
func (s *Scope) AddOrDodge(symbol string) string {
	candidate := symbol
	for i := 2; s.Contains(candidate); i++ {
		candidate = symbol + "_" + strconv.Itoa(i)
	}
	s.symbols[candidate] = struct{}{}
	return candidate
}
