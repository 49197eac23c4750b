package specrun

import (
	"context"

	"go.uber.org/zap"

	"specrun/internal/engine"
	"specrun/internal/model"
	"specrun/internal/project"
	"specrun/internal/runner"
	"specrun/internal/spec"
)

// Aliases so embedding callers can name the core types without reaching
// into internal packages.
type (
	Spec         = spec.Spec
	Project      = spec.Project
	TestCase     = spec.TestCase
	SpecResult   = model.SpecResult
	GenerateInfo = model.GenerateInfo
	RunSummary   = model.RunSummary
	Status       = model.Status
)

// ParseSpec parses and binds a single spec document from text.
func ParseSpec(text string) (*Spec, error) {
	return spec.ParseSpec(text)
}

// ParseProjectSpec parses and binds a project document from text.
func ParseProjectSpec(text string) (*Project, error) {
	return spec.ParseProject(text)
}

// IsProjectFile reports whether path names a project document.
func IsProjectFile(path string) bool {
	return project.IsProjectFile(path)
}

// Summarize folds results into a RunSummary.
func Summarize(results []*SpecResult) RunSummary {
	return model.Summarize(results)
}

// Runner executes specs for embedding callers. One Runner keeps result IDs
// unique across everything executed through it.
type Runner struct {
	eng *engine.Engine
}

// NewRunner creates a Runner whose commands execute in dir (empty means the
// current directory). Pass a nil logger to disable diagnostics.
func NewRunner(dir string, log *zap.Logger) *Runner {
	return &Runner{eng: engine.New(runner.NewShell(dir), engine.NewIDGenerator(), log)}
}

// ExecuteSpec runs one spec through its full lifecycle.
func (r *Runner) ExecuteSpec(ctx context.Context, s *Spec) *SpecResult {
	return r.eng.ExecuteSpec(ctx, s)
}

// ExecuteProjectSpec runs a project, resolving includes relative to baseDir,
// and returns the flattened results in document order.
func (r *Runner) ExecuteProjectSpec(ctx context.Context, p *Project, baseDir string) []*SpecResult {
	return r.eng.ExecuteProject(ctx, p, baseDir)
}

// ExecutePath loads and executes the spec or project file at path.
func (r *Runner) ExecutePath(ctx context.Context, path string) ([]*SpecResult, error) {
	return r.eng.ExecutePath(ctx, path)
}
