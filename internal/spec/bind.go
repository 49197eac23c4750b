package spec

import (
	"os"
	"strings"

	specerrors "specrun/internal/errors"
	"specrun/internal/parser"
)

// ParseSpec parses and binds a single spec document.
func ParseSpec(text string) (*Spec, error) {
	tree, err := parseTree(text)
	if err != nil {
		return nil, err
	}
	return BindSpec(tree)
}

// ParseProject parses and binds a project document.
func ParseProject(text string) (*Project, error) {
	tree, err := parseTree(text)
	if err != nil {
		return nil, err
	}
	return BindProject(tree)
}

// LoadSpec reads and parses a spec file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, specerrors.Resource(specerrors.ReasonFileNotFound, "cannot read spec file %s: %v", path, err)
	}
	return ParseSpec(string(data))
}

// LoadProject reads and parses a project file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, specerrors.Resource(specerrors.ReasonFileNotFound, "cannot read project file %s: %v", path, err)
	}
	return ParseProject(string(data))
}

func parseTree(text string) (*parser.Value, error) {
	tree, err := parser.Parse(text)
	if err != nil {
		return nil, specerrors.Parse(specerrors.ReasonInvalidSyntax, "%v", err)
	}
	return tree, nil
}

// BindSpec projects a generic value tree into a Spec. Required fields are
// name and test.command (the test block answers to both `test` and
// `test_case`). Optional fields of the wrong shape fall back to their
// defaults; malformed setup/teardown items are fatal.
func BindSpec(tree *parser.Value) (*Spec, error) {
	if !tree.IsMapping() {
		return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "spec document is not a mapping")
	}

	name, ok := tree.Get("name").AsString()
	if !ok || name == "" {
		return nil, specerrors.Bind(specerrors.ReasonMissingRequiredField, "spec is missing required field %q", "name")
	}

	s := &Spec{Name: name}
	if desc, ok := tree.Get("description").AsString(); ok {
		s.Description = desc
	}

	testNode := tree.Get("test")
	if testNode == nil {
		testNode = tree.Get("test_case")
	}
	if !testNode.IsMapping() {
		return nil, specerrors.Bind(specerrors.ReasonMissingRequiredField, "spec %q is missing required block %q", name, "test")
	}
	tc, err := bindTestCase(testNode, name)
	if err != nil {
		return nil, err
	}
	s.Test = *tc

	setup, err := bindSetup(tree.Get("setup"), name)
	if err != nil {
		return nil, err
	}
	s.Setup = setup

	teardown, err := bindTeardown(tree.Get("teardown"), name)
	if err != nil {
		return nil, err
	}
	s.Teardown = teardown

	return s, nil
}

func bindTestCase(node *parser.Value, specName string) (*TestCase, error) {
	command, ok := node.Get("command").AsString()
	if !ok || command == "" {
		return nil, specerrors.Bind(specerrors.ReasonMissingRequiredField, "spec %q test block is missing required field %q", specName, "command")
	}

	tc := &TestCase{Command: command}
	if input, ok := node.Get("input").AsString(); ok {
		tc.Input = &input
	}
	if exact, ok := node.Get("expect_output").AsString(); ok {
		tc.ExpectOutput = &exact
	}
	if sub, ok := node.Get("expect_output_contains").AsString(); ok {
		tc.ExpectOutputContains = &sub
	}
	if code, ok := node.Get("expect_exit_code").AsInt(); ok {
		tc.ExpectExitCode = int(code)
	}
	if gen, ok := node.Get("generate").AsBool(); ok {
		tc.Generate = gen
	}
	if target, ok := node.Get("target_path").AsString(); ok {
		tc.TargetPath = target
	}
	return tc, nil
}

func bindSetup(node *parser.Value, specName string) ([]SetupCommand, error) {
	if node.IsNull() {
		return nil, nil
	}
	items, ok := node.AsSequence()
	if !ok {
		return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "spec %q: setup must be a sequence", specName)
	}

	var setup []SetupCommand
	for i, item := range items {
		if run, ok := item.AsString(); ok {
			// Bare string shorthand for a run command.
			setup = append(setup, SetupCommand{Run: run})
			continue
		}
		if run, ok := item.Get("run").AsString(); ok {
			setup = append(setup, SetupCommand{Run: run})
			continue
		}
		if start, ok := item.Get("start").AsString(); ok {
			sc := SetupCommand{Start: start}
			if label, ok := item.Get("name").AsString(); ok {
				sc.Name = label
			} else if fields := strings.Fields(start); len(fields) > 0 {
				sc.Name = fields[0]
			}
			setup = append(setup, sc)
			continue
		}
		return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "spec %q: setup item %d has no run or start command", specName, i)
	}
	return setup, nil
}

func bindTeardown(node *parser.Value, specName string) ([]TeardownCommand, error) {
	if node.IsNull() {
		return nil, nil
	}
	items, ok := node.AsSequence()
	if !ok {
		return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "spec %q: teardown must be a sequence", specName)
	}

	var teardown []TeardownCommand
	for i, item := range items {
		if run, ok := item.Get("run").AsString(); ok {
			teardown = append(teardown, TeardownCommand{Run: run})
			continue
		}
		if proc, ok := item.Get("kill_process").AsString(); ok {
			teardown = append(teardown, TeardownCommand{KillProcess: proc})
			continue
		}
		return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "spec %q: teardown item %d has no run or kill_process command", specName, i)
	}
	return teardown, nil
}

// BindProject projects a generic value tree into a Project. Inline specs are
// bound strictly: a malformed inline spec fails the whole project document.
// Failures on included files, by contrast, are isolated at execution time.
func BindProject(tree *parser.Value) (*Project, error) {
	if !tree.IsMapping() {
		return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "project document is not a mapping")
	}

	name, ok := tree.Get("name").AsString()
	if !ok || name == "" {
		return nil, specerrors.Bind(specerrors.ReasonMissingRequiredField, "project is missing required field %q", "name")
	}

	p := &Project{Name: name}
	if desc, ok := tree.Get("description").AsString(); ok {
		p.Description = desc
	}

	if node := tree.Get("specs"); !node.IsNull() {
		items, ok := node.AsSequence()
		if !ok {
			return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "project %q: specs must be a sequence", name)
		}
		for _, item := range items {
			s, err := BindSpec(item)
			if err != nil {
				return nil, err
			}
			p.Specs = append(p.Specs, s)
		}
	}

	if node := tree.Get("include"); !node.IsNull() {
		items, ok := node.AsSequence()
		if !ok {
			return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "project %q: include must be a sequence", name)
		}
		for i, item := range items {
			path, ok := item.AsString()
			if !ok {
				return nil, specerrors.Bind(specerrors.ReasonInvalidFieldType, "project %q: include item %d is not a string", name, i)
			}
			p.Include = append(p.Include, path)
		}
	}

	return p, nil
}
