package stamper

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/utils"
)

// DefaultSuffix marks files that get variable substitution
const DefaultSuffix = ".hbs"

// Stamper copies a site template into the output directory. Files ending in
// the template suffix are rendered as Handlebars templates and written
// without the suffix, everything else is copied as is.
type Stamper struct {
	suffix string
	log    *slog.Logger
}

// New creates a stamper for templates ending in suffix
func New(suffix string, log *slog.Logger) *Stamper {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Stamper{suffix: suffix, log: log}
}

// Stamp copies templateDir into outDir. A missing template directory
// returns models.ErrTemplateMissing and leaves outDir untouched.
func (s *Stamper) Stamp(templateDir, outDir string, vars map[string]interface{}) ([]string, error) {
	if !utils.DirExists(templateDir) {
		return nil, fmt.Errorf("%w: %s", models.ErrTemplateMissing, templateDir)
	}
	return s.StampFS(os.DirFS(templateDir), outDir, vars)
}

// StampFS copies every file of fsys into outDir, keeping the directory
// structure.
func (s *Stamper) StampFS(fsys fs.FS, outDir string, vars map[string]interface{}) ([]string, error) {
	var written []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read template file '%s': %w", p, err)
		}

		target := filepath.Join(outDir, filepath.FromSlash(p))
		if strings.HasSuffix(p, s.suffix) && len(p) > len(s.suffix) {
			target = strings.TrimSuffix(target, s.suffix)
			out, err := raymond.Render(string(data), vars)
			if err != nil {
				return fmt.Errorf("failed to render template '%s': %w", p, err)
			}
			data = []byte(out)
		}

		if err := utils.WriteFile(target, data); err != nil {
			return err
		}
		s.log.Debug("stamped template file", "source", p, "target", target)
		written = append(written, target)
		return nil
	})
	if err != nil {
		return written, err
	}

	s.log.Info("copied site template", "files", len(written), "dir", outDir)
	return written, nil
}
