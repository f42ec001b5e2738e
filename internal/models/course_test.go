package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasContent(t *testing.T) {
	assert.True(t, HasContent(Page{Title: "p"}))
	assert.True(t, HasContent(Assignment{Title: "a"}))
	assert.True(t, HasContent(ExternalLink{Title: "l", URL: "https://example.com"}))
	assert.False(t, HasContent(SubHeader{Title: "s"}))
	assert.False(t, HasContent(Unsupported{Title: "q", TypeTag: "Quiz"}))
}

func TestFirstLinkSkipsSubHeaders(t *testing.T) {
	path := "m1/01-intro.md"
	o := ModuleOutline{Nodes: []OutlineNode{
		{Title: "Week 1", Depth: 1},
		{Title: "Intro", Path: &path, Depth: 2, Ordinal: 1},
	}}

	n, ok := o.FirstLink()
	assert.True(t, ok)
	assert.Equal(t, "Intro", n.Title)

	_, ok = ModuleOutline{Nodes: []OutlineNode{{Title: "Only", Depth: 1}}}.FirstLink()
	assert.False(t, ok)
}

func TestIsFatal(t *testing.T) {
	fsErr := &FilesystemError{Op: "write", Path: "docs/x.md", Err: errors.New("disk full")}
	assert.True(t, IsFatal(fmt.Errorf("module m1: %w", fsErr)))
	assert.True(t, IsFatal(fmt.Errorf("course: %w", ErrUnauthorized)))
	assert.False(t, IsFatal(fmt.Errorf("page: %w", ErrNotFound)))
	assert.False(t, IsFatal(nil))
	assert.Equal(t, "failed to write 'docs/x.md': disk full", fsErr.Error())
}
