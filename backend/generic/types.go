package generic

import (
	"fmt"

	"github.com/styx-api/styx-go/ir"
)

// TypeParamDefault derives a parameter's native type from the provider's
// primitive types and the lookup table's struct types. Providers use it
// as their TypeParam implementation unless the language needs special
// cases. Union alternatives get the tagged params type since dynamic
// dispatch requires the discriminator; plain struct children accept both
// forms.
func TypeParamDefault(lang LanguageProvider, lut *SymbolLUT, p *ir.Param) string {
	var base string
	switch b := p.Body.(type) {
	case *ir.Bool:
		base = lang.TypeBool()
	case *ir.Int:
		if len(p.Choices) > 0 {
			base = lang.TypeLiteralUnion(p.Choices)
		} else {
			base = lang.TypeInt()
		}
	case *ir.Float:
		base = lang.TypeFloat()
	case *ir.String:
		if len(p.Choices) > 0 {
			base = lang.TypeLiteralUnion(p.Choices)
		} else {
			base = lang.TypeStr()
		}
	case *ir.File:
		base = lang.TypeInputPath()
	case *ir.Struct:
		if parent := p.Parent(); parent != nil {
			if _, ok := parent.Body.(*ir.StructUnion); ok {
				base = lut.TypeStructParamsTagged[p.ID]
				break
			}
		}
		base = lut.TypeStructParams[p.ID]
	case *ir.StructUnion:
		alts := make([]string, len(b.Alts))
		for i, alt := range b.Alts {
			alts[i] = lut.TypeStructParamsTagged[alt.ID]
		}
		base = lang.TypeUnion(alts)
	default:
		panic(fmt.Sprintf("styx: unknown param body %T", p.Body))
	}
	if p.List != nil {
		base = lang.TypeList(base)
	}
	if p.Nullable {
		base = lang.TypeOptional(base)
	}
	return base
}
