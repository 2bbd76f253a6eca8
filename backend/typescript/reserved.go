package typescript

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/styx-api/styx-go/backend/generic"
)

//go:embed reserved.yaml
var reservedYAML []byte

var reservedWords = mustLoadReserved()

func mustLoadReserved() []string {
	var doc struct {
		Reserved []string `yaml:"reserved"`
	}
	if err := yaml.Unmarshal(reservedYAML, &doc); err != nil {
		panic("styx: invalid embedded TypeScript reserved-word table: " + err.Error())
	}
	return doc.Reserved
}

// LanguageScope returns a fresh scope seeded with TypeScript keywords,
// reserved words and common globals.
func (Provider) LanguageScope() *generic.Scope {
	scope := generic.NewScope(nil)
	for _, w := range reservedWords {
		scope.AddOrDodge(w)
	}
	return scope
}
