package manifest

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/preflight/internal/component"
)

// CompileComponent parses a CUE value into a manifest Component.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
//
// The CUE value should be the component struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`component: profile: { ... }`)
//	c, err := CompileComponent("profile", v.LookupPath(cue.ParsePath("component.profile")))
func CompileComponent(label string, v cue.Value) (*Component, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Component{Name: label}

	// id is required.
	idVal := v.LookupPath(cue.ParsePath("id"))
	if !idVal.Exists() {
		return nil, &CompileError{Field: "id", Message: "id is required", Pos: v.Pos()}
	}
	id, err := idVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	c.ID = id

	// props is optional; defaults to no init props.
	propsVal := v.LookupPath(cue.ParsePath("props"))
	if propsVal.Exists() {
		iter, err := propsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			name, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			c.Props = append(c.Props, name)
		}
	}

	// init_self defaults to "never".
	selfVal := v.LookupPath(cue.ParsePath("init_self"))
	if selfVal.Exists() {
		s, err := selfVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		level, err := parseSelfInit(s)
		if err != nil {
			return nil, &CompileError{Field: "init_self", Message: err.Error(), Pos: selfVal.Pos()}
		}
		c.InitSelf = level
	}

	if c.AllowLazy, err = optionalBool(v, "allow_lazy"); err != nil {
		return nil, err
	}
	if c.Reinitialize, err = optionalBool(v, "reinitialize"); err != nil {
		return nil, err
	}

	if c.Primary, err = parseBehavior(v, "primary"); err != nil {
		return nil, err
	}
	if c.Restricted, err = parseBehavior(v, "restricted"); err != nil {
		return nil, err
	}

	return c, nil
}

func parseSelfInit(s string) (component.SelfInit, error) {
	switch s {
	case "never":
		return component.SelfInitNever, nil
	case "async":
		return component.SelfInitAsync, nil
	case "blocking":
		return component.SelfInitBlocking, nil
	default:
		return component.SelfInitNever, fmt.Errorf("must be one of never, async, blocking; got %q", s)
	}
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return false, nil
	}
	b, err := fieldVal.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func parseBehavior(v cue.Value, field string) (*Behavior, error) {
	bVal := v.LookupPath(cue.ParsePath(field))
	if !bVal.Exists() {
		return nil, nil
	}

	b := &Behavior{}

	resultVal := bVal.LookupPath(cue.ParsePath("result"))
	if resultVal.Exists() {
		if err := resultVal.Decode(&b.Result); err != nil {
			return nil, formatCUEError(err)
		}
	}

	failVal := bVal.LookupPath(cue.ParsePath("fail"))
	if failVal.Exists() {
		s, err := failVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		b.Fail = s
	}

	delayVal := bVal.LookupPath(cue.ParsePath("delay_ms"))
	if delayVal.Exists() {
		d, err := delayVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		b.DelayMS = int(d)
	}

	bare, err := optionalBool(bVal, "bare")
	if err != nil {
		return nil, err
	}
	b.Bare = bare

	return b, nil
}

// CompileError reports a manifest field that failed to compile.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return firstErr
}
