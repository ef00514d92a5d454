package common

import (
	"path"
	"strconv"
	"strings"
)

// ImportName returns the name a package is referred to by when imported
// without an alias: the last element of importPath, skipping a major
// version suffix such as "/v2". Returns empty string if importPath is empty.
func ImportName(importPath string) string {
	if importPath == "" {
		return ""
	}

	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." && dir != "/" {
			base = path.Base(dir)
		}
	}

	return base
}

func isMajorVersion(elem string) bool {
	n, ok := strings.CutPrefix(elem, "v")
	if !ok {
		return false
	}

	v, err := strconv.Atoi(n)

	return err == nil && v >= 2
}
