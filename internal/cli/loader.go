package cli

import (
	"errors"
	"io/fs"

	"github.com/fable2d/fable/internal/format"
	"github.com/fable2d/fable/internal/project"
)

// Error codes reported by commands that load a project document.
const (
	ErrCodeIO          = "IO"
	ErrCodeCorrupt     = "CORRUPT"
	ErrCodeUnsupported = "UNSUPPORTED_VERSION"
	ErrCodeInvalid     = "INVALID"
	ErrCodeGeneric     = "ERROR"
)

// loadProject reads a project document and classifies the failure. The
// exit code distinguishes a broken document (ExitFailure) from a missing
// or unreadable file (ExitCommandError).
func loadProject(path string) (*project.Project, string, int, error) {
	p, err := format.LoadFile(path, project.UUIDSource{})
	if err == nil {
		return p, "", ExitSuccess, nil
	}

	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return nil, ErrCodeIO, ExitCommandError, err
	case format.IsCorrupt(err):
		return nil, ErrCodeCorrupt, ExitFailure, err
	case format.IsUnsupportedVersion(err):
		return nil, ErrCodeUnsupported, ExitFailure, err
	case format.IsInvalid(err):
		return nil, ErrCodeInvalid, ExitFailure, err
	default:
		return nil, ErrCodeGeneric, ExitFailure, err
	}
}
