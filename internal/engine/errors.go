package engine

import (
	"errors"
	"fmt"
)

// InitError represents a failure detected by the initialization engine
// itself, as opposed to a failure raised by a supplied action.
//
// Every InitError is fatal to the invocation that raised it and is never
// retried. The structured fields exist so the operator can find the
// offending call site in application code: PREPARATION_MISSING without the
// component identity and concrete input values is undiagnosable.
type InitError struct {
	// Code identifies the error category.
	Code InitErrorCode

	// Message is a human-readable description.
	Message string

	// Component identifies the component type, when known.
	Component string

	// Key is the prepare key of the affected invocation, when known.
	Key string

	// Props holds the serialized input values for preparation-contract
	// violations.
	Props string

	// ReturnType names the concrete type an action returned, for
	// INVALID_ACTION_RETURN.
	ReturnType string
}

// InitErrorCode categorizes engine errors.
type InitErrorCode string

const (
	// ErrCodeMissingInitConfig indicates the entry point was invoked on a
	// component that was never wrapped with an initialization config.
	ErrCodeMissingInitConfig InitErrorCode = "MISSING_INIT_CONFIG"

	// ErrCodeMissingInitState indicates the state accessor returned
	// nothing: the state container was not wired up.
	ErrCodeMissingInitState InitErrorCode = "MISSING_INIT_STATE"

	// ErrCodeInvalidCaller indicates the trigger event name is not one of
	// the four recognized callers.
	ErrCodeInvalidCaller InitErrorCode = "INVALID_CALLER"

	// ErrCodePreparationMissing indicates a component reached its strict
	// mount point without its key ever having been prepared.
	ErrCodePreparationMissing InitErrorCode = "PREPARATION_MISSING"

	// ErrCodePreparationPending indicates preparation for the key was
	// started but has not completed.
	ErrCodePreparationPending InitErrorCode = "PREPARATION_PENDING"

	// ErrCodeInvalidActionReturn indicates a supplied action did not return
	// an awaitable. This is a programmer error in the action itself and is
	// never shielded by an onError handler.
	ErrCodeInvalidActionReturn InitErrorCode = "INVALID_ACTION_RETURN"
)

// Error implements the error interface.
func (e *InitError) Error() string {
	switch {
	case e.Component != "" && e.Props != "":
		return fmt.Sprintf("%s: %s (component=%s, props=%s)", e.Code, e.Message, e.Component, e.Props)
	case e.Component != "" && e.ReturnType != "":
		return fmt.Sprintf("%s: %s (component=%s, returned %s)", e.Code, e.Message, e.Component, e.ReturnType)
	case e.Component != "":
		return fmt.Sprintf("%s: %s (component=%s)", e.Code, e.Message, e.Component)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsPreparationMissing returns true if err is a PREPARATION_MISSING error.
// Uses errors.As to handle wrapped errors.
func IsPreparationMissing(err error) bool {
	return hasCode(err, ErrCodePreparationMissing)
}

// IsPreparationPending returns true if err is a PREPARATION_PENDING error.
func IsPreparationPending(err error) bool {
	return hasCode(err, ErrCodePreparationPending)
}

// IsInvalidActionReturn returns true if err is an INVALID_ACTION_RETURN
// error. The coordinator uses this to keep such failures out of onError
// handlers.
func IsInvalidActionReturn(err error) bool {
	return hasCode(err, ErrCodeInvalidActionReturn)
}

// IsInvalidCaller returns true if err is an INVALID_CALLER error.
func IsInvalidCaller(err error) bool {
	return hasCode(err, ErrCodeInvalidCaller)
}

func hasCode(err error, code InitErrorCode) bool {
	var ie *InitError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// NewMissingInitConfigError creates an InitError for an unwrapped component.
func NewMissingInitConfigError(name string) *InitError {
	return &InitError{
		Code:      ErrCodeMissingInitConfig,
		Message:   "component has no initialization config attached",
		Component: name,
	}
}

// NewMissingInitStateError creates an InitError for a missing state slice.
func NewMissingInitStateError(name string) *InitError {
	return &InitError{
		Code:      ErrCodeMissingInitState,
		Message:   "initialization state accessor returned nothing",
		Component: name,
	}
}

// NewInvalidCallerError creates an InitError for an unrecognized caller.
func NewInvalidCallerError(caller Caller) *InitError {
	return &InitError{
		Code:    ErrCodeInvalidCaller,
		Message: fmt.Sprintf("unrecognized caller %q", caller),
	}
}

// NewPreparationMissingError creates an InitError for a key that was never
// prepared. props is the serialized concrete input values.
func NewPreparationMissingError(componentID, prepareKey, props string) *InitError {
	return &InitError{
		Code:      ErrCodePreparationMissing,
		Message:   "component was never prepared; the preparation pass is missing a matching call",
		Component: componentID,
		Key:       prepareKey,
		Props:     props,
	}
}

// NewPreparationPendingError creates an InitError for a key whose
// preparation started but did not complete.
func NewPreparationPendingError(componentID, prepareKey, props string) *InitError {
	return &InitError{
		Code:      ErrCodePreparationPending,
		Message:   "preparation for component was started but has not completed",
		Component: componentID,
		Key:       prepareKey,
		Props:     props,
	}
}

// NewInvalidActionReturnError creates an InitError for an action that did
// not return an awaitable. returnType is the %T of the offending value.
func NewInvalidActionReturnError(componentID, returnType string) *InitError {
	return &InitError{
		Code:       ErrCodeInvalidActionReturn,
		Message:    "initialization action did not return an awaitable",
		Component:  componentID,
		ReturnType: returnType,
	}
}
