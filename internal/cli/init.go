package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/geocine/canvasdocs/internal/config"
	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/utils"
)

// InitOptions captures options for initializing a new export project
type InitOptions struct {
	Dir         string // project directory, default: current directory
	Endpoint    string // LMS base url
	CourseID    string
	OutputDir   string // default: docs
	TemplateDir string // default: template
}

// Init scaffolds a project: canvasdocs.toml, a .gitignore and the default
// site template copied from tmpl. Existing files are kept.
func Init(opts InitOptions, tmpl fs.FS) ([]string, error) {
	defaults := config.NewDefaultConfig()
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Endpoint == "" {
		opts.Endpoint = defaults.Canvas.Endpoint
	}
	if opts.OutputDir == "" {
		opts.OutputDir = defaults.Output.Dir
	}
	if opts.TemplateDir == "" {
		opts.TemplateDir = defaults.Output.TemplateDir
	}

	if err := utils.CreateDirAll(opts.Dir); err != nil {
		return nil, err
	}

	var created []string
	write := func(rel string, data []byte) error {
		p := filepath.Join(opts.Dir, rel)
		if utils.FileExists(p) {
			return nil
		}
		if err := utils.WriteFile(p, data); err != nil {
			return err
		}
		created = append(created, p)
		return nil
	}

	// The token is left to AUTH_TOKEN or .env so it never lands in the config file
	configToml := []byte(fmt.Sprintf(`[canvas]
endpoint = %q
course-id = %q
per-page = %d
timeout = %q

[output]
dir = %q
template-dir = %q
template-suffix = %q
indent = %d
relative-links = false

[log]
level = "info"
`, opts.Endpoint, opts.CourseID, defaults.Canvas.PerPage, defaults.Canvas.Timeout,
		opts.OutputDir, opts.TemplateDir, defaults.Output.TemplateSuffix, defaults.Output.Indent))
	if err := write(config.DefaultFile, configToml); err != nil {
		return created, err
	}

	if err := write(".gitignore", []byte(fmt.Sprintf("%s\n.env\n", opts.OutputDir))); err != nil {
		return created, err
	}

	err := fs.WalkDir(tmpl, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(tmpl, p)
		if err != nil {
			return &models.FilesystemError{Op: "read template", Path: p, Err: err}
		}
		return write(filepath.Join(opts.TemplateDir, filepath.FromSlash(p)), data)
	})
	return created, err
}
