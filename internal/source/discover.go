package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover returns the regular files matching pattern inside dir, sorted
// lexically. When dir is empty, pattern is used as a complete glob; a pattern
// without glob metacharacters names one file and is returned even if it does
// not exist. Paths equal to any of exclude (after resolving to absolute form)
// are left out.
func Discover(dir, pattern string, exclude ...string) ([]string, error) {
	glob := pattern
	if dir != "" {
		glob = filepath.Join(dir, pattern)
	}

	matches, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", glob, err)
	}
	if len(matches) == 0 && dir == "" && !hasMeta(pattern) {
		matches = []string{pattern}
	}

	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		if p == "" {
			continue
		}
		skip[absPath(p)] = true
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if skip[absPath(m)] {
			continue
		}
		// Unstattable matches are kept so the merge reports them as unreadable.
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			continue
		}
		paths = append(paths, m)
	}

	sort.Strings(paths)
	return paths, nil
}

// SplitInput interprets a CLI input argument. A directory is searched with
// defaultPattern; anything else (a glob or a single file) is used as a
// complete glob.
func SplitInput(arg, defaultPattern string) (dir, pattern string) {
	if !hasMeta(arg) {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			return arg, defaultPattern
		}
	}
	return "", arg
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[`)
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
