package generic

import "github.com/styx-api/styx-go/ir"

// generateStaticMetadata emits the app's static metadata object into the
// module header: id, name, package, and optionally citations and the
// container image tag.
func generateStaticMetadata(lang LanguageProvider, module *Module, lut *SymbolLUT, pkg ir.Package, app *ir.App) {
	entries := []MetadataEntry{
		{Key: "id", Value: app.UID},
		{Key: "name", Value: app.Command.Name},
		{Key: "package", Value: pkg.Name},
	}
	if len(app.Command.Docs.Literature) > 0 {
		entries = append(entries, MetadataEntry{Key: "citations", Value: app.Command.Docs.Literature})
	}
	if pkg.Docker != "" {
		entries = append(entries, MetadataEntry{Key: "container_image_tag", Value: pkg.Docker})
	}
	module.Header = append(module.Header, lang.GenerateMetadata(lut.ObjMetadata, entries)...)
}
