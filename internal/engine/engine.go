// Package engine executes specs: setup, test command, validation, and
// guaranteed teardown. It owns the lifecycle state machine and produces
// model.SpecResult values; rendering them is the reporting layer's job.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	specerrors "specrun/internal/errors"
	"specrun/internal/generate"
	"specrun/internal/model"
	"specrun/internal/runner"
	"specrun/internal/spec"
	"specrun/internal/validate"
)

// Engine executes specs through a CommandRunner. One Engine serves an
// entire run; its IDGenerator keeps result IDs unique across every spec
// and project executed through it.
type Engine struct {
	runner  runner.CommandRunner
	starter runner.ProcessStarter // nil when the runner cannot start background processes
	ids     *IDGenerator
	log     *zap.Logger
	dir     string // base for resolving relative generate targets
}

// New creates an Engine. A nil runner defaults to a ShellRunner in the
// current directory; nil ids and log get fresh defaults.
func New(r runner.CommandRunner, ids *IDGenerator, log *zap.Logger) *Engine {
	if r == nil {
		r = runner.NewShell("")
	}
	if ids == nil {
		ids = NewIDGenerator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{runner: r, ids: ids, log: log}
	if starter, ok := r.(runner.ProcessStarter); ok {
		e.starter = starter
	}
	if sr, ok := r.(*runner.ShellRunner); ok {
		e.dir = sr.Dir
	}
	return e
}

// ExecuteSpec runs one spec through its full lifecycle and always returns a
// result, never an error: execution problems become failed results. The
// generate check happens before any setup side effects; teardown runs
// whenever setup started, with its own failures swallowed.
func (e *Engine) ExecuteSpec(ctx context.Context, s *spec.Spec) *model.SpecResult {
	start := time.Now()
	res := &model.SpecResult{ID: e.ids.Next(), Name: s.Name}
	e.log.Debug("executing spec", zap.String("id", res.ID), zap.String("spec", s.Name))

	if info := e.generateCheck(s); info != nil {
		res.Status = model.StatusGenerateRequired
		res.Generate = info
		res.Duration = time.Since(start)
		e.log.Debug("generate required", zap.String("spec", s.Name), zap.String("target", info.TargetPath))
		return res
	}

	procs := make(map[string]*runner.Proc)
	setupErr := e.runSetup(ctx, s, procs)

	if setupErr != nil {
		res.Status = model.StatusFailed
		res.Error = setupErr.Error()
	} else {
		e.runTest(ctx, s, res)
	}

	e.runTeardown(ctx, s, procs)
	e.reap(s.Name, procs)

	res.Duration = time.Since(start)
	e.log.Debug("spec finished", zap.String("spec", s.Name), zap.String("status", string(res.Status)))
	return res
}

// generateCheck returns GenerateInfo when the spec is in generate mode and
// its target file is missing. An unresolvable target means the spec runs
// normally.
func (e *Engine) generateCheck(s *spec.Spec) *model.GenerateInfo {
	if !s.Test.Generate {
		return nil
	}
	target := s.Test.TargetPath
	if target == "" {
		target = generate.ResolveTargetPath(s.Test.Command)
	}
	if target == "" {
		e.log.Debug("generate mode with unresolvable target, running normally", zap.String("spec", s.Name))
		return nil
	}
	if e.targetExists(target) {
		return nil
	}
	return &model.GenerateInfo{
		TargetPath:  target,
		Description: s.Description,
		Framework:   generate.DetectFramework(s.Test.Command),
		Command:     s.Test.Command,
	}
}

func (e *Engine) targetExists(target string) bool {
	if !filepath.IsAbs(target) && e.dir != "" {
		target = filepath.Join(e.dir, target)
	}
	_, err := os.Stat(target)
	return err == nil
}

// runSetup executes setup steps in order, stopping at the first failure.
// Background starts are registered in procs under their name.
func (e *Engine) runSetup(ctx context.Context, s *spec.Spec, procs map[string]*runner.Proc) error {
	for i, sc := range s.Setup {
		if sc.Run != "" {
			r, err := e.runner.Run(ctx, sc.Run, nil)
			if err != nil {
				return specerrors.Execution(specerrors.ReasonSetupCommandFailed, "setup step %d: %v", i+1, err)
			}
			if r.ExitCode != 0 {
				return specerrors.Execution(specerrors.ReasonSetupCommandFailed, "setup step %d exited with code %d: %s", i+1, r.ExitCode, sc.Run)
			}
			continue
		}
		if e.starter == nil {
			return specerrors.Execution(specerrors.ReasonSetupCommandFailed, "setup step %d: runner cannot start background processes", i+1)
		}
		proc, err := e.starter.Start(ctx, sc.Start)
		if err != nil {
			return specerrors.Execution(specerrors.ReasonSetupCommandFailed, "setup step %d: %v", i+1, err)
		}
		proc.Name = sc.Name
		if old := procs[sc.Name]; old != nil {
			// Re-registering a name replaces the previous process.
			_ = old.Kill()
		}
		procs[sc.Name] = proc
		e.log.Debug("started background process", zap.String("spec", s.Name), zap.String("name", sc.Name))
	}
	return nil
}

// runTest executes the test command and validates the outcome, recording
// everything on res.
func (e *Engine) runTest(ctx context.Context, s *spec.Spec, res *model.SpecResult) {
	var stdin []byte
	if s.Test.Input != nil {
		stdin = []byte(*s.Test.Input)
	}
	r, err := e.runner.Run(ctx, s.Test.Command, stdin)
	if err != nil {
		res.Status = model.StatusFailed
		res.Error = err.Error()
		return
	}
	res.Output = string(r.Stdout)
	res.ExitCode = r.ExitCode

	outcome := validate.Validate(res.Output, r.ExitCode, s.Test.ExpectOutput, s.Test.ExpectOutputContains, s.Test.ExpectExitCode)
	if outcome.Passed {
		res.Status = model.StatusPassed
	} else {
		res.Status = model.StatusFailed
		res.Error = outcome.Message
	}
}

// runTeardown executes every teardown step. Failures never affect the
// verdict; they are logged and swallowed.
func (e *Engine) runTeardown(ctx context.Context, s *spec.Spec, procs map[string]*runner.Proc) {
	for i, td := range s.Teardown {
		if td.Run != "" {
			r, err := e.runner.Run(ctx, td.Run, nil)
			if err != nil {
				e.log.Warn("teardown step failed", zap.String("spec", s.Name), zap.Int("step", i+1), zap.Error(err))
			} else if r.ExitCode != 0 {
				e.log.Warn("teardown step exited nonzero", zap.String("spec", s.Name), zap.Int("step", i+1), zap.Int("exit_code", r.ExitCode))
			}
			continue
		}
		proc := procs[td.KillProcess]
		if proc == nil {
			e.log.Warn("kill_process names an unregistered process", zap.String("spec", s.Name), zap.String("name", td.KillProcess))
			continue
		}
		if err := proc.Kill(); err != nil {
			e.log.Warn("kill_process failed", zap.String("spec", s.Name), zap.String("name", td.KillProcess), zap.Error(err))
		}
		delete(procs, td.KillProcess)
	}
}

// reap kills background processes that teardown never claimed so nothing
// outlives the spec.
func (e *Engine) reap(specName string, procs map[string]*runner.Proc) {
	for name, proc := range procs {
		e.log.Debug("reaping leftover background process", zap.String("spec", specName), zap.String("name", name))
		_ = proc.Kill()
		delete(procs, name)
	}
}

// FailureResult fabricates a failed result for a spec that never executed,
// such as an include that could not be loaded.
func (e *Engine) FailureResult(name string, err error) *model.SpecResult {
	return &model.SpecResult{
		ID:     e.ids.Next(),
		Name:   name,
		Status: model.StatusFailed,
		Error:  err.Error(),
	}
}
