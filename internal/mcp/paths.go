package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pathGuard confines tool paths to the configured directory
type pathGuard struct {
	root string
}

func newPathGuard(root string) (*pathGuard, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	// Resolve symlinks in the configured directory so /tmp style links compare
	// equal to what EvalSymlinks returns for files inside it
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = resolved
	}

	return &pathGuard{root: filepath.Clean(absRoot)}, nil
}

// Resolve returns the absolute form of path, relative paths being taken from
// the configured directory. The target does not have to exist, but whatever
// part of it exists must not lead outside the directory through a symlink.
func (g *pathGuard) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(g.root, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	absPath = filepath.Clean(absPath)

	realPath, err := evalExisting(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if !g.contains(realPath) {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}

	return realPath, nil
}

func (g *pathGuard) contains(path string) bool {
	if path == g.root {
		return true
	}
	dirWithSep := g.root
	if !strings.HasSuffix(dirWithSep, string(filepath.Separator)) {
		dirWithSep += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dirWithSep)
}

// evalExisting resolves symlinks on the longest existing prefix of path and
// re-attaches the missing tail.
func evalExisting(path string) (string, error) {
	if _, err := os.Lstat(path); err == nil {
		return filepath.EvalSymlinks(path)
	} else if !os.IsNotExist(err) {
		return "", err
	}

	parent := filepath.Dir(path)
	if parent == path {
		return path, nil
	}
	resolvedParent, err := evalExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}
