package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocine/canvasdocs/internal/content"
	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/outline"
	"github.com/geocine/canvasdocs/internal/sidebar"
	"github.com/geocine/canvasdocs/internal/stamper"
	"github.com/geocine/canvasdocs/internal/utils"
)

// Service is the LMS as seen by an export run
type Service interface {
	Course(ctx context.Context) (models.Course, error)
	Modules(ctx context.Context) ([]models.Module, error)
	ModuleItems(ctx context.Context, module models.Module) ([]models.ModuleItem, error)
	content.Service
}

// Options configures an export run
type Options struct {
	OutDir         string
	TemplateDir    string
	TemplateSuffix string
	Indent         int
	RelativeLinks  bool
	// TemplateVars returns the template placeholders once the course is known
	TemplateVars func(courseName string) map[string]interface{}
}

// Result describes a finished run
type Result struct {
	Course   models.Course
	Outlines []models.ModuleOutline
	Files    []string // content files
	Sidebars []string
	Template []string // stamped template files, empty when the template was missing
	Duration time.Duration
}

// Exporter runs a course export
type Exporter struct {
	svc  Service
	opts Options
	log  *slog.Logger
}

// New creates an exporter
func New(svc Service, opts Options, log *slog.Logger) *Exporter {
	return &Exporter{svc: svc, opts: opts, log: log}
}

// Run exports the course. Per item and per module problems are logged and
// degrade only that item or module; failing to reach the LMS, a rejected
// token or an unwritable output tree ends the run.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := utils.CreateDirAll(e.opts.OutDir); err != nil {
		return nil, err
	}

	course, err := e.svc.Course(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}
	e.log.Info("exporting course", "course", course.Name, "id", course.ID, "out", e.opts.OutDir)

	modules, err := e.svc.Modules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	AssignDirs(modules)

	result := &Result{Course: course}
	builder := outline.NewBuilder(e.opts.OutDir, content.NewProcessor(e.svc, e.log), e.log)

	for _, m := range modules {
		e.log.Info("exporting module", "module", m.Name, "dir", m.Dir)

		items, err := e.svc.ModuleItems(ctx, m)
		if err != nil {
			if models.IsFatal(err) || ctx.Err() != nil {
				return nil, fmt.Errorf("failed to list items of module '%s': %w", m.Name, err)
			}
			level := slog.LevelError
			if errors.Is(err, models.ErrNotFound) {
				level = slog.LevelWarn
			}
			e.log.Log(ctx, level, "module has no readable items", "module", m.Name, "error", err)
			items = nil
		}

		o, files, err := builder.Build(ctx, m, items)
		if err != nil {
			return nil, err
		}
		result.Outlines = append(result.Outlines, o)
		result.Files = append(result.Files, files...)
	}

	sidebars := sidebar.Render(course, result.Outlines, sidebar.Options{
		Indent:        e.opts.Indent,
		RelativeLinks: e.opts.RelativeLinks,
	})
	e.check(sidebars)
	result.Sidebars, err = sidebars.Write(e.opts.OutDir)
	if err != nil {
		return nil, err
	}

	var vars map[string]interface{}
	if e.opts.TemplateVars != nil {
		vars = e.opts.TemplateVars(course.Name)
	}
	result.Template, err = stamper.New(e.opts.TemplateSuffix, e.log).Stamp(e.opts.TemplateDir, e.opts.OutDir, vars)
	if err != nil {
		if !errors.Is(err, models.ErrTemplateMissing) {
			return nil, err
		}
		e.log.Warn("template directory missing, site shell not written", "dir", e.opts.TemplateDir)
	}

	result.Duration = time.Since(start)
	e.log.Info("export finished",
		"modules", len(result.Outlines),
		"files", len(result.Files),
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// check logs sidebars that would not render as the intended list
func (e *Exporter) check(s sidebar.Sidebars) {
	if err := sidebar.Check(s.Root); err != nil {
		e.log.Warn("root sidebar may render incorrectly", "error", err)
	}
	for _, m := range s.Modules {
		if err := sidebar.Check(m.Content); err != nil {
			e.log.Warn("module sidebar may render incorrectly", "module", m.Module.Name, "error", err)
		}
	}
}

// AssignDirs gives every module a unique directory slug. Names without a
// usable character become module-{N}; repeated slugs get -2, -3, ...
func AssignDirs(modules []models.Module) {
	used := make(map[string]bool, len(modules))
	for i := range modules {
		base := utils.SanitizeName(modules[i].Name)
		if base == "" {
			base = fmt.Sprintf("module-%d", i+1)
		}

		dir := base
		for n := 2; used[dir]; n++ {
			dir = fmt.Sprintf("%s-%d", base, n)
		}
		used[dir] = true
		modules[i].Dir = dir
	}
}
