package optimize

import "github.com/styx-api/styx-go/ir"

// mergeLiteralTokens coalesces adjacent literal string tokens inside
// every CmdArg. Arguments with a non-empty join delimiter are left
// alone: their literals are separated by the delimiter, not adjacent.
func mergeLiteralTokens(app *ir.App) {
	for _, sp := range structsIncludingRoot(app) {
		body := sp.Body.(*ir.Struct)
		for _, g := range body.Groups {
			for _, c := range g.Cargs {
				if c.Join != nil && *c.Join != "" {
					continue
				}
				c.Tokens = mergeTokens(c.Tokens)
			}
		}
	}
}

func mergeTokens(tokens []ir.Token) []ir.Token {
	var merged []ir.Token
	for _, t := range tokens {
		if len(merged) > 0 && t.Param == nil && merged[len(merged)-1].Param == nil {
			merged[len(merged)-1].Literal += t.Literal
			continue
		}
		merged = append(merged, t)
	}
	return merged
}
