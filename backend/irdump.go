package backend

import (
	"context"
	"fmt"
	"path"

	"github.com/styx-api/styx-go/ir"
)

func init() {
	Register(irDumpBackend{})
}

// irDumpBackend serializes each app back to its JSON document, one file
// per command under the package's directory. Useful for debugging
// frontends and for diffing optimizer effects.
type irDumpBackend struct{}

func (irDumpBackend) Descriptor() Descriptor {
	return Descriptor{
		ID:          "ir",
		Name:        "IR Dump",
		Description: "Serialized intermediate representation",
	}
}

func (irDumpBackend) Compile(ctx context.Context, project ir.Project, packages []PackageApps, emit EmitFunc) error {
	for _, pa := range packages {
		for _, app := range pa.Apps {
			doc, err := ir.ToJSON(app)
			if err != nil {
				return fmt.Errorf("serialize app %q: %w", app.UID, err)
			}
			f := File{
				Path:    path.Join(pa.Package.Name, app.Command.Name+".json"),
				Content: string(doc),
			}
			if err := emit(f); err != nil {
				return err
			}
		}
	}
	return nil
}
