package cli

import (
	"os"
	"path/filepath"

	"specrun/internal/config"
	"specrun/internal/errors"
	"specrun/internal/parser"
	"specrun/internal/project"
	"specrun/internal/schema"
	"specrun/internal/spec"
)

// cmdCheck validates documents without executing anything. Each document is
// parsed, schema-checked, and bound, so check catches everything run would
// reject plus schema-level problems the tolerant binder lets through.
func cmdCheck(args []string, opts *GlobalOptions) int {
	cfg, err := config.LoadDir(".")
	if err != nil {
		return fatal(err, nil)
	}

	paths := args
	if len(paths) == 0 {
		discovered, err := project.Discover(cfg.Specs.Directory, cfg.Specs.Pattern)
		if err != nil {
			return fatal(err, nil)
		}
		paths = discovered
		projectPath := filepath.Join(cfg.Specs.Directory, project.ProjectFileName)
		if _, err := os.Stat(projectPath); err == nil {
			paths = append([]string{projectPath}, paths...)
		}
	}
	if len(paths) == 0 {
		out.Info("no documents to check")
		return errors.ExitSuccess
	}

	failed := 0
	for _, path := range paths {
		if err := checkDocument(path); err != nil {
			out.SpecFailed(path, err.Error())
			failed++
			continue
		}
		out.SpecPassed(path, "")
	}

	if failed > 0 {
		out.FinalFailure("%d of %d documents invalid", failed, len(paths))
		return errors.ExitConfigError
	}
	if !opts.Quiet {
		out.FinalSuccess("All %d documents valid", len(paths))
	}
	return errors.ExitSuccess
}

func checkDocument(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Resource(errors.ReasonFileNotFound, "cannot read %s: %v", path, err)
	}
	tree, err := parser.Parse(string(data))
	if err != nil {
		return errors.Parse(errors.ReasonInvalidSyntax, "%v", err)
	}

	doc := tree.Interface()
	if project.IsProjectFile(path) {
		if err := schema.ValidateProjectDoc(doc); err != nil {
			return err
		}
		_, err := spec.BindProject(tree)
		return err
	}
	if err := schema.ValidateSpecDoc(doc); err != nil {
		return err
	}
	_, err = spec.BindSpec(tree)
	return err
}
