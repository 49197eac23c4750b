// Package generate resolves target test-file paths and framework hints from
// free-form command lines. Both detectors are ordered, data-driven rule
// tables: first match wins, and a miss is an expected outcome handled by the
// caller, never an error.
package generate

import (
	"strings"
)

// pathRule locates a test-runner invocation inside a command line. Skip is
// the number of characters to move past the marker before scanning for a
// path token.
type pathRule struct {
	marker string
	skip   int
}

// pathRules is ordered most-specific first so that e.g. "python -m pytest"
// wins over the bare "pytest" marker.
var pathRules = []pathRule{
	{"npx playwright test", len("npx playwright test")},
	{"npx vitest run", len("npx vitest run")},
	{"npx vitest", len("npx vitest")},
	{"npx jest", len("npx jest")},
	{"yarn jest", len("yarn jest")},
	{"pnpm jest", len("pnpm jest")},
	{"python -m pytest", len("python -m pytest")},
	{"python3 -m pytest", len("python3 -m pytest")},
	{"bun test", len("bun test")},
	{"deno test", len("deno test")},
	{"go test", len("go test")},
	{"cargo test", len("cargo test")},
	{"vitest", len("vitest")},
	{"jest", len("jest")},
	{"pytest", len("pytest")},
	{"mocha", len("mocha")},
	{"rspec", len("rspec")},
	{"phpunit", len("phpunit")},
}

// testFileSuffixes identifies tokens that name a test file even without a
// path separator.
var testFileSuffixes = []string{
	".test.ts", ".test.tsx", ".test.js", ".test.jsx", ".test.mjs", ".test.cjs",
	".spec.ts", ".spec.tsx", ".spec.js", ".spec.jsx",
	"_test.go", "_test.py", "_spec.rb", ".feature",
}

// frameworkRule maps a tool-name substring to its framework hint.
type frameworkRule struct {
	marker string
	name   string
}

// frameworkRules is the ordered hint catalog. Multi-word markers are matched
// as plain substrings; single tokens require word boundaries so that e.g.
// "java" never matches an "ava" rule.
var frameworkRules = []frameworkRule{
	{"vitest", "vitest"},
	{"playwright", "playwright"},
	{"cypress", "cypress"},
	{"jest", "jest"},
	{"pytest", "pytest"},
	{"mocha", "mocha"},
	{"rspec", "rspec"},
	{"phpunit", "phpunit"},
	{"go test", "go"},
	{"cargo test", "cargo"},
	{"bun test", "bun"},
	{"deno test", "deno"},
	{"ava", "ava"},
}

// ResolveTargetPath extracts the test-file path a command appears to target.
// For the first marker found, the remainder of the command is scanned
// token-by-token for the first non-flag, path-shaped token. When no marker
// matches, all tokens are scanned for a known test-file suffix. Returns ""
// when nothing path-shaped is found.
func ResolveTargetPath(command string) string {
	for _, rule := range pathRules {
		idx := indexMarker(command, rule.marker)
		if idx < 0 {
			continue
		}
		rest := command[idx+rule.skip:]
		for _, tok := range strings.Fields(rest) {
			if strings.HasPrefix(tok, "-") {
				continue
			}
			tok = trimToken(tok)
			if isPathShaped(tok) {
				return tok
			}
		}
		return ""
	}

	// No marker: fall back to a suffix-only scan over the whole command.
	for _, tok := range strings.Fields(command) {
		tok = trimToken(tok)
		if hasTestSuffix(tok) {
			return tok
		}
	}
	return ""
}

// DetectFramework returns a best-effort label for the test runner a command
// invokes, or "" when nothing in the catalog matches.
func DetectFramework(command string) string {
	for _, rule := range frameworkRules {
		if indexMarker(command, rule.marker) >= 0 {
			return rule.name
		}
	}
	return ""
}

// indexMarker finds marker in command at a word boundary, so single-token
// markers do not match inside larger words.
func indexMarker(command, marker string) int {
	from := 0
	for {
		idx := strings.Index(command[from:], marker)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(marker)
		beforeOK := idx == 0 || isBoundary(command[idx-1])
		afterOK := end == len(command) || isBoundary(command[end])
		if beforeOK && afterOK {
			return idx
		}
		from = idx + 1
	}
}

func isBoundary(c byte) bool {
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-')
}

func isPathShaped(tok string) bool {
	if tok == "" {
		return false
	}
	return hasTestSuffix(tok) || strings.ContainsRune(tok, '/')
}

func hasTestSuffix(tok string) bool {
	for _, suffix := range testFileSuffixes {
		if strings.HasSuffix(tok, suffix) {
			return true
		}
	}
	return false
}

// trimToken strips the quoting shells allow around a path argument.
func trimToken(tok string) string {
	return strings.Trim(tok, `"'`)
}
