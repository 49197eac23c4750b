package engine

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	specerrors "specrun/internal/errors"
	"specrun/internal/model"
	"specrun/internal/project"
	"specrun/internal/spec"
)

// ExecutePath loads and executes the document at path, routing by filename:
// the reserved project filename is a project, anything else is a spec.
// A load failure of the entry document itself is returned as an error;
// failures inside a project tree become synthetic failed results.
func (e *Engine) ExecutePath(ctx context.Context, path string) ([]*model.SpecResult, error) {
	if project.IsProjectFile(path) {
		p, err := spec.LoadProject(path)
		if err != nil {
			return nil, err
		}
		abs := absPath(path)
		return e.executeProject(ctx, p, filepath.Dir(path), map[string]bool{abs: true}), nil
	}

	s, err := spec.LoadSpec(path)
	if err != nil {
		return nil, err
	}
	return []*model.SpecResult{e.ExecuteSpec(ctx, s)}, nil
}

// ExecuteProject runs a project's inline specs, then its includes, in
// document order. Include paths resolve relative to baseDir. The flattened
// result sequence preserves that order across nested projects.
func (e *Engine) ExecuteProject(ctx context.Context, p *spec.Project, baseDir string) []*model.SpecResult {
	return e.executeProject(ctx, p, baseDir, make(map[string]bool))
}

// executeProject carries the set of project files on the current include
// chain. Membership is path scoped: a file may appear on two sibling
// branches, but an include that leads back to an ancestor is a cycle and
// yields a failed result instead of recursing.
func (e *Engine) executeProject(ctx context.Context, p *spec.Project, baseDir string, visiting map[string]bool) []*model.SpecResult {
	e.log.Debug("executing project", zap.String("project", p.Name), zap.Int("inline", len(p.Specs)), zap.Int("includes", len(p.Include)))

	var results []*model.SpecResult
	for _, s := range p.Specs {
		results = append(results, e.ExecuteSpec(ctx, s))
	}

	for _, inc := range p.Include {
		path := inc
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, inc)
		}

		if !project.IsProjectFile(path) {
			s, err := spec.LoadSpec(path)
			if err != nil {
				results = append(results, e.FailureResult(inc, err))
				continue
			}
			results = append(results, e.ExecuteSpec(ctx, s))
			continue
		}

		abs := absPath(path)
		if visiting[abs] {
			e.log.Warn("include cycle detected", zap.String("project", p.Name), zap.String("include", inc))
			results = append(results, e.FailureResult(inc, specerrors.Newf("include cycle: %s is already on the include chain", inc)))
			continue
		}
		sub, err := spec.LoadProject(path)
		if err != nil {
			results = append(results, e.FailureResult(inc, err))
			continue
		}
		visiting[abs] = true
		results = append(results, e.executeProject(ctx, sub, filepath.Dir(path), visiting)...)
		delete(visiting, abs)
	}
	return results
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
