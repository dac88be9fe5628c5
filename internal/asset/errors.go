package asset

import (
	"errors"
	"fmt"
)

// RegistryError represents a failed registry operation.
type RegistryError struct {
	// Code identifies the error category.
	Code RegistryErrorCode

	// Message is a human-readable description.
	Message string

	// AssetID identifies the affected asset, when known.
	AssetID string

	// Path is the offending path (for duplicate registration).
	Path string
}

// RegistryErrorCode categorizes registry errors.
type RegistryErrorCode string

const (
	// ErrCodeDuplicatePath indicates the path is already registered.
	ErrCodeDuplicatePath RegistryErrorCode = "DUPLICATE_PATH"

	// ErrCodeUnknownAsset indicates no asset exists with the given ID.
	ErrCodeUnknownAsset RegistryErrorCode = "UNKNOWN_ASSET"

	// ErrCodeAssetInUse indicates a template or graph still references the asset.
	ErrCodeAssetInUse RegistryErrorCode = "ASSET_IN_USE"

	// ErrCodeInvalidKind indicates an unsupported asset kind.
	ErrCodeInvalidKind RegistryErrorCode = "INVALID_KIND"
)

// Error implements the error interface.
func (e *RegistryError) Error() string {
	switch {
	case e.AssetID != "":
		return fmt.Sprintf("%s: %s (asset=%s)", e.Code, e.Message, e.AssetID)
	case e.Path != "":
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsDuplicatePath returns true if the error is a duplicate path registration.
// Uses errors.As to handle wrapped errors.
func IsDuplicatePath(err error) bool {
	return hasCode(err, ErrCodeDuplicatePath)
}

// IsUnknownAsset returns true if the error is an unknown asset lookup.
func IsUnknownAsset(err error) bool {
	return hasCode(err, ErrCodeUnknownAsset)
}

// IsAssetInUse returns true if the error is a rejected unregister of a
// still-referenced asset.
func IsAssetInUse(err error) bool {
	return hasCode(err, ErrCodeAssetInUse)
}

func hasCode(err error, code RegistryErrorCode) bool {
	var re *RegistryError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

func newDuplicatePath(path, existingID string) *RegistryError {
	return &RegistryError{
		Code:    ErrCodeDuplicatePath,
		Message: "path already registered",
		AssetID: existingID,
		Path:    path,
	}
}

func newUnknownAsset(id string) *RegistryError {
	return &RegistryError{
		Code:    ErrCodeUnknownAsset,
		Message: "no asset with this ID",
		AssetID: id,
	}
}

func newAssetInUse(id string, refs int) *RegistryError {
	return &RegistryError{
		Code:    ErrCodeAssetInUse,
		Message: fmt.Sprintf("asset still referenced %d time(s)", refs),
		AssetID: id,
	}
}
