package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"goa.design/clue/log"

	"github.com/styx-api/styx-go/ir"
	"github.com/styx-api/styx-go/optimize"
)

// Request is one batch compilation: a project, its packages with their
// apps, and the target backend ids to compile for.
type Request struct {
	Project  ir.Project
	Packages []PackageApps
	Targets  []string
}

// Compile prepares every app (setup plus optimizer pipeline) and runs
// each requested target over the surviving set. Failures are isolated:
// an app that cannot be prepared is dropped with its error recorded,
// sibling apps and targets still compile. Generated files stream to emit
// tagged with the target id. The combined error joins every per-unit
// failure; a nil return means everything compiled.
func Compile(ctx context.Context, req Request, emit func(target string, f File) error) error {
	runID := "styx-" + uuid.NewString()
	ctx = log.With(ctx, log.KV{K: "run", V: runID})

	var errs []error

	prepared := make([]PackageApps, 0, len(req.Packages))
	for _, pa := range req.Packages {
		kept := PackageApps{Package: pa.Package}
		for _, app := range pa.Apps {
			if err := prepareApp(pa.Package, app); err != nil {
				log.Errorf(ctx, err, "prepare app %q in package %q", app.Command.Name, pa.Package.Name)
				errs = append(errs, fmt.Errorf("package %q app %q: %w", pa.Package.Name, app.Command.Name, err))
				continue
			}
			kept.Apps = append(kept.Apps, app)
		}
		prepared = append(prepared, kept)
	}

	for _, target := range req.Targets {
		b, ok := Get(target)
		if !ok {
			err := fmt.Errorf("unknown backend %q", target)
			log.Errorf(ctx, err, "resolve target")
			errs = append(errs, err)
			continue
		}
		log.Printf(ctx, "compiling target %q", target)
		tctx := log.With(ctx, log.KV{K: "target", V: target})
		err := b.Compile(tctx, req.Project, prepared, func(f File) error {
			return emit(target, f)
		})
		if err != nil {
			log.Errorf(tctx, err, "target failed")
			errs = append(errs, fmt.Errorf("target %q: %w", target, err))
		}
	}

	return errors.Join(errs...)
}

// prepareApp sets the app up and runs the optimizer pipeline. Optimizer
// contract violations surface as panics; they are captured here so one
// malformed app cannot take down the batch.
func prepareApp(pkg ir.Package, app *ir.App) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("optimizer: %v", r)
		}
	}()
	if err := app.Setup(pkg.Name); err != nil {
		return err
	}
	optimize.Optimize(app)
	return nil
}
