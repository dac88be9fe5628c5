package format

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// validateSchema unifies the migrated document bytes against #Document.
// JSON is a subset of CUE, so the document compiles directly.
func validateSchema(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Document"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("resolving #Document: %w", err)
	}

	doc := ctx.CompileBytes(data, cue.Filename("project.json"))
	if err := doc.Err(); err != nil {
		return &InvalidProjectError{Reason: "document does not parse as CUE", Err: err}
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &InvalidProjectError{Reason: "schema violation", Err: firstCUEError(err)}
	}
	return nil
}

// firstCUEError flattens a CUE error list down to its first entry, which
// carries the most specific path information.
func firstCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	return errs[0]
}
