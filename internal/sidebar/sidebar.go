package sidebar

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/utils"
)

// FileName is the name docsify loads sidebars from
const FileName = "_sidebar.md"

// Options controls how sidebars are rendered
type Options struct {
	Indent        int  // spaces per outline depth
	RelativeLinks bool // links relative to the sidebar instead of the site root
}

// ModuleSidebar is the rendered sidebar of one module directory
type ModuleSidebar struct {
	Module  models.Module
	Content string
}

// Sidebars holds every rendered sidebar of a course
type Sidebars struct {
	Root    string
	Modules []ModuleSidebar
}

// Render renders the root sidebar and one sidebar per module. Module order
// and node order are taken as given.
func Render(course models.Course, outlines []models.ModuleOutline, opts Options) Sidebars {
	if opts.Indent < 1 {
		opts.Indent = 4
	}

	r := &renderer{course: course, outlines: outlines, opts: opts}
	sidebars := Sidebars{Root: r.root()}
	for i, o := range outlines {
		sidebars.Modules = append(sidebars.Modules, ModuleSidebar{
			Module:  o.Module,
			Content: r.module(i),
		})
	}
	return sidebars
}

type renderer struct {
	course   models.Course
	outlines []models.ModuleOutline
	opts     Options
}

func (r *renderer) root() string {
	var buf strings.Builder
	for _, o := range r.outlines {
		r.summaryLine(&buf, o, "")
	}
	return buf.String()
}

// module renders the sidebar stored in the directory of outlines[current]
func (r *renderer) module(current int) string {
	from := r.outlines[current].Module.Dir

	var buf strings.Builder
	fmt.Fprintf(&buf, "- [%s](%s)\n", label(r.course.Name), r.rootLink(from))

	for i, o := range r.outlines {
		if i != current {
			r.summaryLine(&buf, o, from)
			continue
		}

		fmt.Fprintf(&buf, "- %s\n", label(o.Module.Name))
		for _, n := range o.Nodes {
			buf.WriteString(strings.Repeat(" ", r.opts.Indent*n.Depth))
			switch {
			case n.IsLink():
				fmt.Fprintf(&buf, "- [%s](%s)\n", label(n.Title), r.link(*n.Path, from))
			case strings.TrimSpace(n.Title) == "":
				fmt.Fprintf(&buf, "- %s\n", untitled)
			default:
				fmt.Fprintf(&buf, "- **%s**\n", label(n.Title))
			}
		}
	}

	return buf.String()
}

// summaryLine writes the one line a module gets when it is not expanded
func (r *renderer) summaryLine(buf *strings.Builder, o models.ModuleOutline, from string) {
	name := label(o.Module.Name)
	first, ok := o.FirstLink()
	if !ok {
		fmt.Fprintf(buf, "- %s\n", name)
		return
	}
	fmt.Fprintf(buf, "- [%s](%s)\n", name, r.link(*first.Path, from))
}

// untitled stands in for display text that is empty after trimming
const untitled = "Untitled"

// label returns the escaped display text of a sidebar line
func label(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return untitled
	}
	return utils.EscapeMarkdown(title)
}

// link returns the target for a root relative path as seen from the sidebar
// in directory from ("" for the root sidebar).
func (r *renderer) link(target, from string) string {
	if !r.opts.RelativeLinks || from == "" {
		return target
	}
	if rest, ok := strings.CutPrefix(target, from+"/"); ok {
		return rest
	}
	return utils.PathToRoot(path.Join(from, FileName)) + target
}

func (r *renderer) rootLink(from string) string {
	if !r.opts.RelativeLinks {
		return "/"
	}
	return utils.PathToRoot(path.Join(from, FileName))
}

// Write stores the sidebars below outDir and returns the written paths
func (s Sidebars) Write(outDir string) ([]string, error) {
	written := make([]string, 0, len(s.Modules)+1)

	rootPath := filepath.Join(outDir, FileName)
	if err := utils.WriteFile(rootPath, []byte(s.Root)); err != nil {
		return written, err
	}
	written = append(written, rootPath)

	for _, m := range s.Modules {
		p := filepath.Join(outDir, filepath.FromSlash(m.Module.Dir), FileName)
		if err := utils.WriteFile(p, []byte(m.Content)); err != nil {
			return written, err
		}
		written = append(written, p)
	}

	return written, nil
}
