package config

import (
	"fmt"
	"strings"
)

// LoadError reports everything wrong with a config file at once, so a bad
// file gets fixed in one edit instead of one failed start per mistake.
type LoadError struct {
	Path    string   // file the errors came from
	Missing []string // environment variables referenced but unset
	Invalid []string // validation failures, one per field
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config %s:", e.Path)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\n  unset environment variables: %s", strings.Join(e.Missing, ", "))
	}
	for _, msg := range e.Invalid {
		fmt.Fprintf(&b, "\n  %s", msg)
	}
	return b.String()
}
