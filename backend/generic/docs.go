package generic

import (
	"fmt"
	"strings"

	"github.com/styx-api/styx-go/ir"
)

// DocsToDocstring renders documentation metadata as docstring text:
// title, description, author and homepage lines separated by blank
// lines. Returns "" when there is nothing to say.
func DocsToDocstring(docs ir.Documentation) string {
	var sections []string
	if docs.Title != "" {
		sections = append(sections, docs.Title)
	}
	if docs.Description != "" {
		sections = append(sections, docs.Description)
	}
	if len(docs.Authors) > 0 {
		label := "Author"
		if len(docs.Authors) > 1 {
			label = "Authors"
		}
		sections = append(sections, fmt.Sprintf("%s: %s", label, strings.Join(docs.Authors, ", ")))
	}
	if len(docs.URLs) > 0 {
		label := "URL"
		if len(docs.URLs) > 1 {
			label = "URLs"
		}
		sections = append(sections, fmt.Sprintf("%s: %s", label, strings.Join(docs.URLs, "\n")))
	}
	return strings.Join(sections, "\n\n")
}
