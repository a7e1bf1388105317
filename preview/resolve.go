package preview

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/legitscript/lspreview/fs"
)

// ErrorOutsideRoot is returned when a request path leads outside the
// source directory
var ErrorOutsideRoot = errors.New("path is outside the source directory")

// cleanRel cleans the path relative to the source directory and
// checks it doesn't escape it.
//
// Leading slashes are dropped so doubled slashes in the URL still
// name a path inside the source directory.
func cleanRel(rel string) (string, error) {
	rel = path.Clean(strings.TrimLeft(rel, "/"))
	if rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return "", ErrorOutsideRoot
	}
	return rel, nil
}

// within returns true if osPath is root or inside it
func within(root, osPath string) bool {
	rel, err := filepath.Rel(root, osPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// candidates returns the paths to try for rel in priority order
func candidates(root, rel string) []string {
	direct := filepath.Join(root, filepath.FromSlash(rel))
	nested := filepath.Join(root, Namespace, filepath.FromSlash(rel))
	return []string{
		filepath.Join(direct, "index.html"),
		direct,
		filepath.Join(nested, "index.html"),
		nested,
	}
}

// resolve finds the file to serve for the path rel under root.
//
// It returns an error wrapping fs.ErrorObjectNotFound if there is no
// such file or ErrorOutsideRoot if rel isn't inside root.
func resolve(root, rel string) (string, error) {
	cleaned, err := cleanRel(rel)
	if err != nil {
		return "", fmt.Errorf("%q: %w", rel, err)
	}
	for _, osPath := range candidates(root, cleaned) {
		if !within(root, osPath) {
			return "", fmt.Errorf("%q: %w", osPath, ErrorOutsideRoot)
		}
		fi, err := os.Stat(osPath)
		if err != nil {
			err = fs.NotFound(err)
			if errors.Is(err, fs.ErrorObjectNotFound) {
				continue
			}
			return "", fmt.Errorf("%q: %w", osPath, err)
		}
		if fi.Mode().IsRegular() {
			return osPath, nil
		}
	}
	return "", fmt.Errorf("%q: %w", filepath.Join(root, filepath.FromSlash(cleaned)), fs.ErrorObjectNotFound)
}
