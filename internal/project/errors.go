package project

import (
	"errors"
	"fmt"
)

// ModelError codes.
const (
	ErrCodeUnknownTemplate = "UNKNOWN_TEMPLATE"
	ErrCodeTemplateInUse   = "TEMPLATE_IN_USE"
	ErrCodeUnknownScene    = "UNKNOWN_SCENE"
	ErrCodeUnknownInstance = "UNKNOWN_INSTANCE"
	ErrCodeUnknownProperty = "UNKNOWN_PROPERTY"
	ErrCodeDuplicateName   = "DUPLICATE_NAME"
	ErrCodeInvalidGraph    = "INVALID_GRAPH"
	ErrCodeInvalidEvent    = "INVALID_EVENT"
	ErrCodeInvalidValue    = "INVALID_VALUE"
)

// ModelError reports a rejected project mutation.
type ModelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// ID of the entity the mutation targeted, when one exists.
	EntityID string `json:"entity_id,omitempty"`
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.EntityID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownTemplate reports whether err is an UNKNOWN_TEMPLATE error.
func IsUnknownTemplate(err error) bool { return hasCode(err, ErrCodeUnknownTemplate) }

// IsTemplateInUse reports whether err is a TEMPLATE_IN_USE error.
func IsTemplateInUse(err error) bool { return hasCode(err, ErrCodeTemplateInUse) }

// IsUnknownScene reports whether err is an UNKNOWN_SCENE error.
func IsUnknownScene(err error) bool { return hasCode(err, ErrCodeUnknownScene) }

// IsUnknownInstance reports whether err is an UNKNOWN_INSTANCE error.
func IsUnknownInstance(err error) bool { return hasCode(err, ErrCodeUnknownInstance) }

// IsUnknownProperty reports whether err is an UNKNOWN_PROPERTY error.
func IsUnknownProperty(err error) bool { return hasCode(err, ErrCodeUnknownProperty) }

// IsDuplicateName reports whether err is a DUPLICATE_NAME error.
func IsDuplicateName(err error) bool { return hasCode(err, ErrCodeDuplicateName) }

// IsInvalidGraph reports whether err is an INVALID_GRAPH error.
func IsInvalidGraph(err error) bool { return hasCode(err, ErrCodeInvalidGraph) }

func hasCode(err error, code string) bool {
	var me *ModelError
	return errors.As(err, &me) && me.Code == code
}

func newUnknownTemplate(id string) *ModelError {
	return &ModelError{
		Code:     ErrCodeUnknownTemplate,
		Message:  "object template not found",
		EntityID: id,
	}
}

func newUnknownScene(id string) *ModelError {
	return &ModelError{
		Code:     ErrCodeUnknownScene,
		Message:  "scene not found",
		EntityID: id,
	}
}

func newUnknownInstance(id string) *ModelError {
	return &ModelError{
		Code:     ErrCodeUnknownInstance,
		Message:  "instance not found",
		EntityID: id,
	}
}
