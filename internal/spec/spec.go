// Package spec defines the typed spec model and binds parsed value trees
// into it. Binding enforces required fields and applies documented defaults;
// the generic tree is discarded once the typed model is built.
package spec

// TestCase is the single executable check of a Spec.
type TestCase struct {
	Command              string  // shell command, required, never empty
	Input                *string // piped to the subprocess's stdin when present
	ExpectOutput         *string // exact-match expectation, byte for byte
	ExpectOutputContains *string // substring expectation; may combine with ExpectOutput
	ExpectExitCode       int     // defaults to 0
	Generate             bool    // when true, a missing target file short-circuits execution
	TargetPath           string  // explicit generate-mode target, overrides heuristics
}

// SetupCommand is one setup step. Exactly one of Run and Start is set:
// Run executes a shell command to completion, Start spawns a background
// process registered under Name for later kill_process teardown.
type SetupCommand struct {
	Run   string
	Start string
	Name  string // registry label for Start; defaults to the command's first token
}

// TeardownCommand is one teardown step. Exactly one field is set.
type TeardownCommand struct {
	Run         string // shell command; failures are swallowed
	KillProcess string // name of a background process registered during setup
}

// Spec is one executable behavioral test definition.
type Spec struct {
	Name        string
	Description string
	Setup       []SetupCommand
	Test        TestCase
	Teardown    []TeardownCommand
}

// Project is a named collection of inline specs and include paths,
// composable recursively through includes of the reserved project filename.
type Project struct {
	Name        string
	Description string
	Specs       []*Spec
	Include     []string // resolved relative to the project file's directory
}
