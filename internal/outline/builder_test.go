package outline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/geocine/canvasdocs/internal/logging"
	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// titleRenderer writes the title as content and reports every content item
// present except those listed in missing.
type titleRenderer struct {
	missing map[string]bool
	fail    error
}

func (r titleRenderer) Render(_ context.Context, item models.ModuleItem, _ string) (string, bool, error) {
	if r.fail != nil {
		return "", false, r.fail
	}
	if !models.HasContent(item) || r.missing[item.ItemTitle()] {
		return "", false, nil
	}
	return "# " + item.ItemTitle() + "\n", true, nil
}

func depths(o models.ModuleOutline) []int {
	out := make([]int, 0, len(o.Nodes))
	for _, n := range o.Nodes {
		out = append(out, n.Depth)
	}
	return out
}

func paths(o models.ModuleOutline) []string {
	var out []string
	for _, n := range o.Nodes {
		if n.Path != nil {
			out = append(out, *n.Path)
		}
	}
	return out
}

func TestBuildSubHeaderDoesNotConsumeCounter(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, titleRenderer{}, logging.Discard())

	outline, written, err := b.Build(context.Background(), models.Module{Name: "M", Dir: "m"}, []models.ModuleItem{
		models.Page{Title: "A", Ref: "a"},
		models.SubHeader{Title: "B"},
		models.Page{Title: "C", Ref: "c"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"m/01-a.md", "m/02-c.md"}, testutil.ListFiles(t, dir))
	assert.Len(t, written, 2)
	assert.Equal(t, []int{1, 1, 2}, depths(outline))
	assert.Equal(t, []string{"m/01-a.md", "m/02-c.md"}, paths(outline))
	assert.False(t, outline.Nodes[1].IsLink())
	assert.Equal(t, "# C\n", testutil.ReadFile(t, dir, "m/02-c.md"))
}

func TestBuildDepthAfterSubHeaders(t *testing.T) {
	b := NewBuilder(t.TempDir(), titleRenderer{}, logging.Discard())

	outline, _, err := b.Build(context.Background(), models.Module{Name: "M", Dir: "m"}, []models.ModuleItem{
		models.SubHeader{Title: "Week 1"},
		models.Page{Title: "Reading", Ref: "r"},
		models.ExternalLink{Title: "Video", URL: "https://example.com"},
		models.SubHeader{Title: "Week 2"},
		models.Assignment{Title: "Essay", Ref: "1"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 2, 1, 2}, depths(outline))
	assert.Equal(t, []string{"m/01-reading.md", "m/02-video.md", "m/03-essay.md"}, paths(outline))
	for i, n := range outline.Nodes {
		assert.Equal(t, i, n.Ordinal)
	}
}

func TestBuildSkipsUnsupportedAndAbsentItems(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, titleRenderer{missing: map[string]bool{"Deleted": true}}, logging.Discard())

	outline, _, err := b.Build(context.Background(), models.Module{Name: "M", Dir: "m"}, []models.ModuleItem{
		models.Unsupported{Title: "Quiz 1", TypeTag: "Quiz"},
		models.Page{Title: "Deleted", Ref: "gone"},
		models.Page{Title: "Intro", Ref: "intro"},
		models.Unsupported{Title: "Forum", TypeTag: "Discussion"},
		models.Page{Title: "Next", Ref: "next"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"m/01-intro.md", "m/02-next.md"}, testutil.ListFiles(t, dir))
	require.Len(t, outline.Nodes, 2)
	assert.Equal(t, "Intro", outline.Nodes[0].Title)
	assert.Equal(t, 1, outline.Nodes[0].Depth)
	assert.Equal(t, 2, outline.Nodes[0].Ordinal)
	assert.Equal(t, 2, outline.Nodes[1].Depth)
}

func TestBuildOnlySubHeaders(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder(dir, titleRenderer{}, logging.Discard())

	outline, written, err := b.Build(context.Background(), models.Module{Name: "X", Dir: "x"}, []models.ModuleItem{
		models.SubHeader{Title: "X"},
	})
	require.NoError(t, err)

	assert.Empty(t, written)
	_, ok := outline.FirstLink()
	assert.False(t, ok)
	assert.Empty(t, testutil.ListFiles(t, dir))
}

func TestBuildErrors(t *testing.T) {
	items := []models.ModuleItem{models.Page{Title: "A", Ref: "a"}}

	b := NewBuilder(t.TempDir(), titleRenderer{fail: fmt.Errorf("fetch: %w", models.ErrUnauthorized)}, logging.Discard())
	_, _, err := b.Build(context.Background(), models.Module{Name: "M", Dir: "m"}, items)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))

	b = NewBuilder(t.TempDir(), titleRenderer{fail: errors.New("bad html")}, logging.Discard())
	outline, _, err := b.Build(context.Background(), models.Module{Name: "M", Dir: "m"}, items)
	require.NoError(t, err)
	assert.Empty(t, outline.Nodes)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "01-1-foo.md", FileName(1, "1. Foo", 0))
	assert.Equal(t, "12-getting-started.md", FileName(12, "Getting Started!", 3))
	assert.Equal(t, "03-item-5.md", FileName(3, "???", 4))
}
