package workspace

import "errors"

var (
	ErrUnsafePath    = errors.New("path escapes the workspace")
	ErrProtectedPath = errors.New("path is protected")
	ErrRootMissing   = errors.New("workspace root does not exist")
)
