package content

import (
	"context"
	"fmt"

	"github.com/geocine/canvasdocs/internal/models"
)

// Format of a document body
type Format int

const (
	HTML Format = iota
	Markdown
)

// Document is one content item travelling through the pipeline
type Document struct {
	Item   models.ModuleItem
	Dir    string // module output directory on disk
	Body   string
	Format Format
}

// Stage transforms a document before it is written
type Stage interface {
	Name() string
	Process(ctx context.Context, doc *Document) error
}

// Pipeline runs multiple stages in sequence
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a new pipeline
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Add adds a stage to the pipeline
func (p *Pipeline) Add(stage Stage) {
	p.stages = append(p.stages, stage)
}

// Process runs all stages on the document
func (p *Pipeline) Process(ctx context.Context, doc *Document) error {
	for _, stage := range p.stages {
		if err := stage.Process(ctx, doc); err != nil {
			return fmt.Errorf("stage '%s' failed: %w", stage.Name(), err)
		}
	}
	return nil
}
