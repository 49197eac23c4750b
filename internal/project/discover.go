// Package project locates spec and project documents on disk.
package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	specerrors "specrun/internal/errors"
)

// ProjectFileName is the reserved filename for project documents. A file
// with this name is always treated as a project, never as a spec.
const ProjectFileName = "project.spec"

// SpecExtension is the filename extension of spec documents.
const SpecExtension = ".spec"

// IsProjectFile reports whether path names a project document.
func IsProjectFile(path string) bool {
	return filepath.Base(path) == ProjectFileName
}

// skipDirs are directory names never descended into during discovery.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
}

// Discover walks root and returns the spec files matching pattern, sorted
// for deterministic execution order. Pattern is a doublestar glob matched
// against the slash-separated path relative to root. Project files are
// excluded; they are entry points, not members of a discovery sweep.
func Discover(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, specerrors.Resource(specerrors.ReasonDirectoryUnreadable, "cannot read directory %q: %v", root, err)
	}
	if !info.IsDir() {
		return nil, specerrors.Resource(specerrors.ReasonDirectoryUnreadable, "%q is not a directory", root)
	}

	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subdirectories are skipped, not fatal to the sweep.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if name == ProjectFileName {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		ok, matchErr := doublestar.Match(pattern, filepath.ToSlash(rel))
		if matchErr != nil {
			return specerrors.Configf("invalid spec pattern %q: %v", pattern, matchErr)
		}
		if ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}
