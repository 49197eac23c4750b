package cli

import (
	"context"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"specrun/internal/config"
	"specrun/internal/engine"
	"specrun/internal/errors"
	"specrun/internal/model"
	"specrun/internal/project"
	"specrun/internal/report"
	"specrun/internal/runner"
	"specrun/internal/watch"
)

// cmdWatch runs the configured specs, then re-runs on every file change
// until interrupted. A changed spec file re-runs alone; a changed project
// file re-runs the whole directory, since includes may have moved. Watch
// mode exits zero on interrupt; per-run failures are reported but do not
// stop the loop.
func cmdWatch(args []string, opts *GlobalOptions, log *zap.Logger) int {
	cfg, err := config.LoadDir(".")
	if err != nil {
		return fatal(err, log)
	}

	dir := cfg.Specs.Directory
	if len(args) > 0 {
		dir = args[0]
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		out.ErrorPrefix("watch target %q is not a directory", dir)
		return errors.ExitConfigError
	}

	eng := engine.New(runner.NewShell(""), engine.NewIDGenerator(), log)

	runPaths := func(ctx context.Context, paths []string) {
		var results []*model.SpecResult
		for _, path := range paths {
			res, err := eng.ExecutePath(ctx, path)
			if err != nil {
				results = append(results, eng.FailureResult(path, err))
				continue
			}
			results = append(results, res...)
		}
		report.RenderText(out, results)
	}

	runAll := func(ctx context.Context) {
		paths, err := resolveDir(dir, cfg.Specs.Pattern)
		if err != nil {
			out.ErrorPrefix("%v", err)
			return
		}
		if len(paths) == 0 {
			out.Info("no specs found in %s", dir)
			return
		}
		runPaths(ctx, paths)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out.Section("watching " + dir)
	runAll(ctx)

	w := watch.New(dir, cfg.Specs.Pattern, log)
	err = w.Run(ctx, func(changed []string) {
		out.Section("change detected")
		var targets []string
		for _, p := range changed {
			if project.IsProjectFile(p) {
				runAll(ctx)
				return
			}
			// Deleted files drop out of the run.
			if _, err := os.Stat(p); err != nil {
				continue
			}
			targets = append(targets, p)
		}
		if len(targets) == 0 {
			return
		}
		runPaths(ctx, targets)
	})
	if err != nil {
		return fatal(err, log)
	}
	return errors.ExitSuccess
}
