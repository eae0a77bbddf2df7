package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// unsafeChars matches everything outside the filename charset we allow.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9 ._-]`)

// sanitizeFilename validates a user-supplied filename. Anything that
// reaches outside the downloads directory is rejected outright; the
// remaining characters are reduced to a safe charset.
func sanitizeFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidFilename)
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: %q contains a path", ErrInvalidFilename, name)
	}
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}

	safe := unsafeChars.ReplaceAllString(name, "_")
	safe = strings.Trim(safe, ". ")
	if safe == "" {
		return "", fmt.Errorf("%w: %q reduces to nothing", ErrInvalidFilename, name)
	}
	return safe, nil
}

// applyCustomFilename renames a completed download within its directory.
// The custom name keeps the downloaded file's extension when it has none of
// its own. Returns the final path.
func applyCustomFilename(path, custom string) (string, error) {
	safe, err := sanitizeFilename(custom)
	if err != nil {
		return "", err
	}

	if filepath.Ext(safe) == "" {
		safe += filepath.Ext(path)
	}

	target := filepath.Join(filepath.Dir(path), safe)
	if target == path {
		return path, nil
	}
	// Never clobber an existing download.
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("%w: %q already exists", ErrInvalidFilename, safe)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat %q: %w", safe, err)
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("rename to %q: %w", safe, err)
	}
	return target, nil
}
