package imageref

import (
	"path/filepath"
	"regexp"
	"strings"
)

var underscoreRuns = regexp.MustCompile(`_+`)

// StripExt removes the last extension from name. Dots in directory
// components are not extensions.
func StripExt(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i < strings.LastIndexAny(name, `/\`) {
		return name
	}
	return name[:i]
}

// Ext returns the last extension of name without the dot, or "".
func Ext(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 || i < strings.LastIndexAny(name, `/\`) {
		return ""
	}
	return name[i+1:]
}

// NormalizeName reduces a path to its base name, trims it, replaces spaces
// with underscores and collapses underscore runs.
func NormalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	name = strings.TrimSpace(filepath.Base(name))
	name = strings.ReplaceAll(name, " ", "_")
	return underscoreRuns.ReplaceAllString(name, "_")
}
