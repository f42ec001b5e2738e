package content

import (
	"context"
	"log/slog"

	"github.com/geocine/canvasdocs/internal/models"
)

// Service is everything the processor needs from the LMS
type Service interface {
	Fetcher
	FileService
}

// Processor turns a module item into the markdown written to disk
type Processor struct {
	resolver *Resolver
	pipeline *Pipeline
}

// NewProcessor wires the resolver to the default pipeline:
// images -> markdown -> heading.
func NewProcessor(svc Service, log *slog.Logger) *Processor {
	return &Processor{
		resolver: NewResolver(svc, log),
		pipeline: NewPipeline(
			NewImageStage(NewImageRewriter(svc, log)),
			NewMarkdownStage(),
			HeadingStage{},
		),
	}
}

// Render returns the markdown for item, or ok=false when no file should be
// written. dir is the module directory attachments are stored in.
func (p *Processor) Render(ctx context.Context, item models.ModuleItem, dir string) (string, bool, error) {
	doc, ok, err := p.resolver.Resolve(ctx, item)
	if err != nil || !ok {
		return "", false, err
	}
	doc.Dir = dir

	if err := p.pipeline.Process(ctx, doc); err != nil {
		return "", false, err
	}
	return doc.Body, true, nil
}
