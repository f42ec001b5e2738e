package outline

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/utils"
)

// Renderer produces the markdown for a module item. ok is false when the
// item has no content to write.
type Renderer interface {
	Render(ctx context.Context, item models.ModuleItem, dir string) (content string, ok bool, err error)
}

// Builder walks module items in order, writes one file per content item and
// records the outline used for the sidebars.
type Builder struct {
	outDir   string
	renderer Renderer
	log      *slog.Logger
}

// NewBuilder creates a builder writing below outDir
func NewBuilder(outDir string, renderer Renderer, log *slog.Logger) *Builder {
	return &Builder{
		outDir:   outDir,
		renderer: renderer,
		log:      log,
	}
}

// moduleState is the per-module position of the walk. It is passed by value
// through step and replaced with the returned value.
type moduleState struct {
	depth   int // depth of the next node
	counter int // prefix of the next file
}

func initialState() moduleState {
	return moduleState{depth: 1, counter: 1}
}

// stepResult is the result of processing one item
type stepResult struct {
	node    *models.OutlineNode
	written string // file path on disk, empty when nothing was written
}

// Build processes the items of module, whose Dir must already be set to its
// unique slug. It returns the outline and the files written on disk.
func (b *Builder) Build(ctx context.Context, module models.Module, items []models.ModuleItem) (models.ModuleOutline, []string, error) {
	outline := models.ModuleOutline{Module: module, Nodes: make([]models.OutlineNode, 0, len(items))}

	dir := filepath.Join(b.outDir, filepath.FromSlash(module.Dir))
	if err := utils.CreateDirAll(dir); err != nil {
		return outline, nil, err
	}

	var written []string
	state := initialState()
	for ordinal, item := range items {
		if err := ctx.Err(); err != nil {
			return outline, written, err
		}

		var (
			s   stepResult
			err error
		)
		state, s, err = b.step(ctx, state, module, dir, ordinal, item)
		if err != nil {
			return outline, written, fmt.Errorf("module '%s', item '%s': %w", module.Name, item.ItemTitle(), err)
		}
		if s.node != nil {
			outline.Nodes = append(outline.Nodes, *s.node)
		}
		if s.written != "" {
			written = append(written, s.written)
		}
	}

	return outline, written, nil
}

// step applies one item to state and returns the next state.
//
//	content item:  node at state.depth, file NN-slug.md, then depth 2, counter+1
//	subheader:     node at depth 1, no file, then depth 2
//	unsupported:   nothing
//
// A content item whose content turns out to be absent is treated like an
// unsupported one.
func (b *Builder) step(ctx context.Context, state moduleState, module models.Module, dir string, ordinal int, item models.ModuleItem) (moduleState, stepResult, error) {
	switch it := item.(type) {
	case models.SubHeader:
		b.log.Debug("subheader", "module", module.Name, "title", it.Title)
		node := &models.OutlineNode{Title: it.Title, Depth: 1, Ordinal: ordinal}
		return moduleState{depth: 2, counter: state.counter}, stepResult{node: node}, nil

	case models.Unsupported:
		b.log.Warn("skipping unsupported item", "module", module.Name, "title", it.Title, "type", it.TypeTag)
		return state, stepResult{}, nil

	case models.Page, models.Assignment, models.ExternalLink:
		b.log.Info("exporting item", "module", module.Name, "title", item.ItemTitle(), "kind", item.Kind().String())
		content, ok, err := b.renderer.Render(ctx, item, dir)
		if err != nil {
			if models.IsFatal(err) || ctx.Err() != nil {
				return state, stepResult{}, err
			}
			b.log.Error("skipping item", "module", module.Name, "title", item.ItemTitle(), "error", err)
			return state, stepResult{}, nil
		}
		if !ok {
			return state, stepResult{}, nil
		}

		name := FileName(state.counter, item.ItemTitle(), ordinal)
		target := filepath.Join(dir, name)
		if err := utils.WriteFile(target, []byte(content)); err != nil {
			return state, stepResult{}, err
		}

		rel := path.Join(module.Dir, name)
		node := &models.OutlineNode{Title: item.ItemTitle(), Path: &rel, Depth: state.depth, Ordinal: ordinal}
		return moduleState{depth: 2, counter: state.counter + 1}, stepResult{node: node, written: target}, nil
	}

	return state, stepResult{}, fmt.Errorf("%w: %T", models.ErrUnsupportedItem, item)
}

// FileName returns the content file name for the n-th written file of a
// module, e.g. "03-getting-started.md". Titles without a usable character
// fall back to item-{ordinal+1}.
func FileName(counter int, title string, ordinal int) string {
	slug := utils.SanitizeName(title)
	if slug == "" {
		slug = fmt.Sprintf("item-%d", ordinal+1)
	}
	return fmt.Sprintf("%02d-%s.md", counter, slug)
}
