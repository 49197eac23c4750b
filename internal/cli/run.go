package cli

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"specrun/internal/config"
	"specrun/internal/engine"
	"specrun/internal/errors"
	"specrun/internal/model"
	"specrun/internal/project"
	"specrun/internal/report"
	"specrun/internal/runner"
)

// cmdRun executes specs and reports the results. With no arguments the
// configured spec directory is swept; each argument may name a spec file, a
// project file, or a directory.
func cmdRun(args []string, opts *GlobalOptions, log *zap.Logger) int {
	cfg, err := config.LoadDir(".")
	if err != nil {
		return fatal(err, log)
	}
	if !opts.NoColor && cfg.Report.Color != nil {
		out.SetColor(*cfg.Report.Color)
	}

	eng := engine.New(runner.NewShell(""), engine.NewIDGenerator(), log)

	paths, err := resolveRunPaths(args, cfg)
	if err != nil {
		return fatal(err, log)
	}
	if len(paths) == 0 {
		out.Info("no specs found")
		return errors.ExitSuccess
	}

	ctx := context.Background()
	var results []*model.SpecResult
	for _, path := range paths {
		res, err := eng.ExecutePath(ctx, path)
		if err != nil {
			// A document named explicitly on the command line is fatal when it
			// cannot load; inside a sweep it becomes a failed result so the
			// rest still runs.
			if len(args) == 1 && len(paths) == 1 && paths[0] == args[0] {
				return fatal(err, log)
			}
			results = append(results, eng.FailureResult(path, err))
			continue
		}
		results = append(results, res...)
	}

	if opts.JSON || cfg.Report.Format == report.FormatJSON {
		if err := report.RenderJSON(os.Stdout, results); err != nil {
			return fatal(err, log)
		}
	} else {
		report.RenderText(out, results)
	}

	if model.Summarize(results).Failed > 0 {
		return errors.ExitRuntimeError
	}
	return errors.ExitSuccess
}

// resolveRunPaths expands CLI arguments into executable document paths.
// Directories route through their project file when one exists, otherwise
// through discovery.
func resolveRunPaths(args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		return resolveDir(cfg.Specs.Directory, cfg.Specs.Pattern)
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Resource(errors.ReasonFileNotFound, "cannot read %s: %v", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		dirPaths, err := resolveDir(arg, cfg.Specs.Pattern)
		if err != nil {
			return nil, err
		}
		paths = append(paths, dirPaths...)
	}
	return paths, nil
}

func resolveDir(dir, pattern string) ([]string, error) {
	projectPath := filepath.Join(dir, project.ProjectFileName)
	if _, err := os.Stat(projectPath); err == nil {
		return []string{projectPath}, nil
	}
	return project.Discover(dir, pattern)
}
