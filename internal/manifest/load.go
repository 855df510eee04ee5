package manifest

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Load reads a single-file CUE manifest and compiles every component
// declared under the top-level "component" struct.
//
// Components are returned in CUE's field iteration order, which is stable
// for a given file.
func Load(path string) ([]Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Compile(path, data)
}

// Compile compiles manifest source. filename is used for error positions
// only.
func Compile(filename string, src []byte) ([]Component, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	componentsVal := value.LookupPath(cue.ParsePath("component"))
	if !componentsVal.Exists() {
		return nil, &CompileError{
			Field:   "component",
			Message: "manifest declares no components",
			Pos:     value.Pos(),
		}
	}

	iter, err := componentsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var components []Component
	for iter.Next() {
		c, err := CompileComponent(iter.Selector().String(), iter.Value())
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", iter.Selector().String(), err)
		}
		components = append(components, *c)
	}

	if len(components) == 0 {
		return nil, &CompileError{
			Field:   "component",
			Message: "manifest declares no components",
			Pos:     value.Pos(),
		}
	}

	return components, nil
}
