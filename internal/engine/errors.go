package engine

import (
	"errors"
	"fmt"
)

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeExecLimit indicates the tick exhausted its node visit budget.
	ErrCodeExecLimit RuntimeErrorCode = "EXEC_LIMIT"

	// ErrCodeScriptTimeout indicates a run_script call exceeded its deadline.
	ErrCodeScriptTimeout RuntimeErrorCode = "SCRIPT_TIMEOUT"

	// ErrCodeScriptFailed indicates the script host returned an error.
	ErrCodeScriptFailed RuntimeErrorCode = "SCRIPT_FAILED"

	// ErrCodeUnknownOp indicates a graph op the runtime has no handler for.
	ErrCodeUnknownOp RuntimeErrorCode = "UNKNOWN_OP"

	// ErrCodeMissingTemplate indicates a spawn referencing an unknown template.
	ErrCodeMissingTemplate RuntimeErrorCode = "MISSING_TEMPLATE"
)

// RuntimeError is a failure detected during dispatch. Runtime errors are
// collected into TickResult rather than returned, because one broken object
// must not freeze the whole scene.
type RuntimeError struct {
	Code       RuntimeErrorCode `json:"code"`
	Message    string           `json:"message"`
	InstanceID string           `json:"instance_id,omitempty"`
	NodeID     string           `json:"node_id,omitempty"`
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	switch {
	case e.InstanceID != "" && e.NodeID != "":
		return fmt.Sprintf("%s: %s (instance=%s, node=%s)", e.Code, e.Message, e.InstanceID, e.NodeID)
	case e.InstanceID != "":
		return fmt.Sprintf("%s: %s (instance=%s)", e.Code, e.Message, e.InstanceID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsExecLimit reports whether err is an EXEC_LIMIT error.
func IsExecLimit(err error) bool { return hasCode(err, ErrCodeExecLimit) }

// IsScriptTimeout reports whether err is a SCRIPT_TIMEOUT error.
func IsScriptTimeout(err error) bool { return hasCode(err, ErrCodeScriptTimeout) }

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Code == code
}
