package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"ngthis/packages/component"
	"ngthis/packages/config"
	"ngthis/packages/linter"
	"ngthis/packages/rules"
	"ngthis/packages/rules/consistentthis"
	"ngthis/packages/workspace"
)

// fileResult is the ESLint-shaped report of one file
type fileResult struct {
	FilePath            string           `json:"filePath"`
	Messages            []linter.Message `json:"messages"`
	ErrorCount          int              `json:"errorCount"`
	WarningCount        int              `json:"warningCount"`
	FixableErrorCount   int              `json:"fixableErrorCount"`
	FixableWarningCount int              `json:"fixableWarningCount"`
	Output              string           `json:"output,omitempty"`
}

func newFileResult(path string, messages []linter.Message, quiet bool) *fileResult {
	res := &fileResult{FilePath: path, Messages: []linter.Message{}}
	for _, m := range messages {
		isError := m.Fatal || m.Severity == linter.SeverityError
		if quiet && !isError {
			continue
		}
		res.Messages = append(res.Messages, m)
		switch {
		case isError:
			res.ErrorCount++
			if m.Fix != nil {
				res.FixableErrorCount++
			}
		default:
			res.WarningCount++
			if m.Fix != nil {
				res.FixableWarningCount++
			}
		}
	}
	return res
}

type runner struct {
	opts     *options
	logger   *slog.Logger
	config   *config.Config
	linter   *linter.Linter
	matchers map[string]*workspace.Matcher
}

func newRunner(opts *options, logger *slog.Logger) (*runner, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		logger.Debug("loaded config", slog.String("file", cfg.Path))
	}

	l := linter.New(linter.WithLogger(logger))
	if err := rules.Register(l); err != nil {
		return nil, err
	}

	r := &runner{
		opts:     opts,
		logger:   logger,
		config:   cfg,
		linter:   l,
		matchers: map[string]*workspace.Matcher{},
	}
	for _, root := range opts.paths {
		r.matchers[root] = workspace.NewMatcher(root, cfg.Root(), cfg.IgnorePatterns)
	}
	r.checkAngular()
	return r, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Parse(opts.configPath)
	} else {
		cfg, err = config.Load(opts.paths[0])
	}
	if err != nil {
		return nil, err
	}

	var overrides []config.Option
	for key, value := range map[string]string{
		"properties":         opts.properties,
		"variables":          opts.variables,
		"templateReferences": opts.templateReferences,
	} {
		if value != "" {
			overrides = append(overrides, config.WithRuleOption(consistentthis.RuleName, key, value))
		}
	}
	if err := cfg.Apply(overrides...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *runner) angularVersion() (*semver.Version, error) {
	if r.config.AngularVersion != "" {
		return workspace.ParseVersion(r.config.AngularVersion)
	}
	return workspace.AngularVersion(r.opts.paths[0])
}

func (r *runner) checkAngular() {
	version, err := r.angularVersion()
	if err != nil {
		r.logger.Debug("Angular version unknown", slog.Any("err", err))
		return
	}
	for _, warning := range workspace.CheckVersion(version).Warnings() {
		r.logger.Warn(warning)
	}
}

func (r *runner) ignored(path string, isDir bool) bool {
	for _, m := range r.matchers {
		if m.Ignored(path, isDir) {
			return true
		}
	}
	return false
}

// discover lists the lint targets of every root once
func (r *runner) discover() ([]workspace.File, error) {
	seen := map[string]bool{}
	var files []workspace.File
	for _, root := range r.opts.paths {
		found, err := r.matchers[root].ScanFiles(root)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if f.Kind == "" || seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			files = append(files, f)
		}
	}
	return files, nil
}

func (r *runner) lintAll(ctx context.Context) ([]*fileResult, error) {
	start := time.Now()
	files, err := r.discover()
	if err != nil {
		return nil, err
	}
	results, templates, err := r.lintFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	// external templates of components that lie outside the scanned roots
	seen := map[string]bool{}
	for _, f := range files {
		seen[f.Path] = true
	}
	var extra []workspace.File
	for _, path := range templates {
		if seen[path] || r.ignored(path, false) {
			continue
		}
		seen[path] = true
		extra = append(extra, workspace.File{Path: path, Kind: workspace.KindTemplate})
	}
	if len(extra) > 0 {
		more, _, err := r.lintFiles(ctx, extra)
		if err != nil {
			return nil, err
		}
		results = append(results, more...)
	}

	r.logger.Info("lint complete",
		slog.Int("count", len(results)),
		slog.Duration("elapsed", time.Since(start)))
	return results, nil
}

// lintFiles lints files concurrently and returns their results in input order
// together with the templateUrl targets of the components among them.
func (r *runner) lintFiles(ctx context.Context, files []workspace.File) ([]*fileResult, []string, error) {
	results := make([]*fileResult, len(files))
	templates := make([][]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.jobs)
	for i, f := range files {
		g.Go(func() error {
			res, refs, err := r.lintFile(gctx, f)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Path, err)
			}
			results[i] = res
			templates[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var refs []string
	for _, t := range templates {
		refs = append(refs, t...)
	}
	return results, refs, nil
}

func (r *runner) lintFile(ctx context.Context, f workspace.File) (*fileResult, []string, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, nil, err
	}
	text := string(data)
	cfg := r.config.Linter()

	var refs []string
	var messages []linter.Message
	var report *linter.FixReport
	switch f.Kind {
	case workspace.KindComponent:
		components, err := component.FindComponents(ctx, data, f.Path)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range components {
			if path := c.TemplatePath(); path != "" {
				refs = append(refs, path)
			}
		}
		if r.opts.fix {
			report, err = component.VerifyAndFix(ctx, r.linter, text, f.Path, cfg)
		} else {
			messages, err = component.Verify(ctx, r.linter, text, f.Path, cfg)
		}
		if err != nil {
			return nil, nil, err
		}
	default:
		if r.opts.fix {
			report, err = r.linter.VerifyAndFix(ctx, text, f.Path, cfg)
		} else {
			messages, err = r.linter.Verify(ctx, text, f.Path, cfg)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	if report != nil {
		messages = report.Messages
	}
	res := newFileResult(f.Path, messages, r.opts.quiet)
	if report != nil && report.Fixed {
		if err := os.WriteFile(f.Path, []byte(report.Output), info.Mode().Perm()); err != nil {
			return nil, nil, err
		}
		res.Output = report.Output
		r.logger.Info("fixed", slog.String("file", f.Path))
	}
	r.logger.Debug("linted", slog.String("file", f.Path), slog.Int("count", len(res.Messages)))
	return res, refs, nil
}
