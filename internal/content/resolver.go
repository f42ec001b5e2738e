package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/utils"
)

// Fetcher resolves page and assignment bodies
type Fetcher interface {
	PageBody(ctx context.Context, ref string) (string, error)
	AssignmentDescription(ctx context.Context, ref string) (string, error)
}

// Resolver maps a module item to its raw content
type Resolver struct {
	fetcher Fetcher
	log     *slog.Logger
}

// NewResolver creates a resolver backed by fetcher
func NewResolver(fetcher Fetcher, log *slog.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, log: log}
}

// Resolve returns the content of item and whether a file should be written.
// Subheaders and unsupported items never have content. A page or assignment
// that cannot be fetched is logged and reported as absent; only fatal errors
// are returned.
func (r *Resolver) Resolve(ctx context.Context, item models.ModuleItem) (*Document, bool, error) {
	var (
		body string
		err  error
	)

	switch it := item.(type) {
	case models.Page:
		body, err = r.fetcher.PageBody(ctx, it.Ref)
	case models.Assignment:
		body, err = r.fetcher.AssignmentDescription(ctx, it.Ref)
	case models.ExternalLink:
		link := fmt.Sprintf("[%s](%s)\n", utils.EscapeMarkdown(it.Title), it.URL)
		return &Document{Item: item, Body: link, Format: Markdown}, true, nil
	case models.SubHeader, models.Unsupported:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("%w: %T", models.ErrUnsupportedItem, item)
	}

	if err != nil {
		if models.IsFatal(err) {
			return nil, false, err
		}
		level := slog.LevelError
		if errors.Is(err, models.ErrNotFound) {
			level = slog.LevelWarn
		}
		r.log.Log(ctx, level, "skipping item without content", "item", item.ItemTitle(), "kind", item.Kind().String(), "error", err)
		return nil, false, nil
	}

	return &Document{Item: item, Body: body, Format: HTML}, true, nil
}
