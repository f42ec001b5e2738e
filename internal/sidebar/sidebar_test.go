package sidebar

import (
	"fmt"
	"testing"

	"github.com/geocine/canvasdocs/internal/models"
	"github.com/geocine/canvasdocs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func twoModules() []models.ModuleOutline {
	return []models.ModuleOutline{
		{
			Module: models.Module{ID: "1", Name: "M1", Dir: "m1"},
			Nodes: []models.OutlineNode{
				{Title: "Intro", Path: ptr("m1/01-intro.md"), Depth: 1, Ordinal: 0},
				{Title: "Week 1", Depth: 1, Ordinal: 1},
				{Title: "Reading", Path: ptr("m1/02-reading.md"), Depth: 2, Ordinal: 2},
			},
		},
		{
			Module: models.Module{ID: "2", Name: "M2", Dir: "m2"},
			Nodes: []models.OutlineNode{
				{Title: "Setup", Path: ptr("m2/01-setup.md"), Depth: 1, Ordinal: 0},
			},
		},
	}
}

func TestRenderRoot(t *testing.T) {
	outlines := append(twoModules(), models.ModuleOutline{
		Module: models.Module{ID: "3", Name: "X", Dir: "x"},
		Nodes:  []models.OutlineNode{{Title: "X", Depth: 1}},
	})

	s := Render(models.Course{Name: "Course"}, outlines, Options{Indent: 4})

	assert.Equal(t, "- [M1](m1/01-intro.md)\n- [M2](m2/01-setup.md)\n- X\n", s.Root)
	require.NoError(t, Check(s.Root))
}

func TestRenderModuleSidebars(t *testing.T) {
	s := Render(models.Course{Name: "Course"}, twoModules(), Options{Indent: 4})
	require.Len(t, s.Modules, 2)

	assert.Equal(t, "m1", s.Modules[0].Module.Dir)
	assert.Equal(t, ""+
		"- [Course](/)\n"+
		"- M1\n"+
		"    - [Intro](m1/01-intro.md)\n"+
		"    - **Week 1**\n"+
		"        - [Reading](m1/02-reading.md)\n"+
		"- [M2](m2/01-setup.md)\n", s.Modules[0].Content)

	assert.Equal(t, ""+
		"- [Course](/)\n"+
		"- [M1](m1/01-intro.md)\n"+
		"- M2\n"+
		"    - [Setup](m2/01-setup.md)\n", s.Modules[1].Content)

	for _, m := range s.Modules {
		require.NoError(t, Check(m.Content), m.Module.Name)
	}
}

func TestRenderRelativeLinks(t *testing.T) {
	s := Render(models.Course{Name: "Course"}, twoModules(), Options{Indent: 2, RelativeLinks: true})

	assert.Equal(t, "- [M1](m1/01-intro.md)\n- [M2](m2/01-setup.md)\n", s.Root)
	assert.Equal(t, ""+
		"- [Course](../)\n"+
		"- [M1](../m1/01-intro.md)\n"+
		"- M2\n"+
		"  - [Setup](01-setup.md)\n", s.Modules[1].Content)
	require.NoError(t, Check(s.Modules[0].Content))
}

func TestRenderEscapesDisplayText(t *testing.T) {
	outlines := []models.ModuleOutline{{
		Module: models.Module{Name: "1. Basics", Dir: "1-basics"},
		Nodes: []models.OutlineNode{
			{Title: "1. Foo", Path: ptr("1-basics/01-1-foo.md"), Depth: 1},
			{Title: "snake_case [draft]", Path: ptr("1-basics/02-snakecase-draft.md"), Depth: 2},
		},
	}}

	s := Render(models.Course{Name: "Intro *to* Go"}, outlines, Options{Indent: 4})

	assert.Equal(t, "- [1\\. Basics](1-basics/01-1-foo.md)\n", s.Root)
	assert.Contains(t, s.Modules[0].Content, "- [Intro \\*to\\* Go](/)\n")
	assert.Contains(t, s.Modules[0].Content, "    - [1\\. Foo](1-basics/01-1-foo.md)\n")
	assert.Contains(t, s.Modules[0].Content, "        - [snake\\_case \\[draft\\]](1-basics/02-snakecase-draft.md)\n")
	require.NoError(t, Check(s.Root))
	require.NoError(t, Check(s.Modules[0].Content))
}

func TestRenderEscapesBlockMarkers(t *testing.T) {
	names := []string{"- Optional", "+ Extra", "1) Intro", "# Week 1", "> Note"}
	var outlines []models.ModuleOutline
	for i, name := range names {
		o := models.ModuleOutline{Module: models.Module{Name: name, Dir: fmt.Sprintf("module-%d", i+1)}}
		if i%2 == 0 {
			o.Nodes = []models.OutlineNode{
				{Title: name, Path: ptr(fmt.Sprintf("module-%d/01-page.md", i+1)), Depth: 1},
				{Title: name, Depth: 1, Ordinal: 1},
			}
		}
		outlines = append(outlines, o)
	}

	s := Render(models.Course{Name: "> Course"}, outlines, Options{Indent: 4})

	assert.Equal(t, ""+
		"- [\\- Optional](module-1/01-page.md)\n"+
		"- \\+ Extra\n"+
		"- [1\\) Intro](module-3/01-page.md)\n"+
		"- \\# Week 1\n"+
		"- [\\> Note](module-5/01-page.md)\n", s.Root)
	assert.Contains(t, s.Modules[3].Content, "- \\# Week 1\n")
	assert.Contains(t, s.Modules[4].Content, "    - **\\> Note**\n")
	assert.Contains(t, s.Modules[0].Content, "- [\\> Course](/)\n")

	require.NoError(t, Check(s.Root))
	for _, m := range s.Modules {
		require.NoError(t, Check(m.Content), m.Module.Name)
	}
}

func TestRenderTrimsLabels(t *testing.T) {
	outlines := []models.ModuleOutline{{
		Module: models.Module{Name: "  M1 ", Dir: "m1"},
		Nodes: []models.OutlineNode{
			{Title: "  Week 1  ", Depth: 1},
			{Title: "   ", Depth: 1, Ordinal: 1},
			{Title: "", Path: ptr("m1/01-page.md"), Depth: 2, Ordinal: 2},
		},
	}}

	s := Render(models.Course{Name: " "}, outlines, Options{Indent: 2})

	assert.Equal(t, ""+
		"- [Untitled](/)\n"+
		"- M1\n"+
		"  - **Week 1**\n"+
		"  - Untitled\n"+
		"    - [Untitled](m1/01-page.md)\n", s.Modules[0].Content)
	assert.Equal(t, "- [M1](m1/01-page.md)\n", s.Root)
	require.NoError(t, Check(s.Root))
	require.NoError(t, Check(s.Modules[0].Content))
}

func TestCheckRejectsBrokenSidebars(t *testing.T) {
	assert.NoError(t, Check(""))
	assert.Error(t, Check("- 1. Foo\n"))
	assert.Error(t, Check("# Title\n- [A](a.md)\n"))
	assert.Error(t, Check("- [A]()\n"))
	assert.Error(t, Check("- A\n\n\n      - B\n"))
	assert.Error(t, Check("- # Week 1\n"))
	assert.Error(t, Check("- > Note\n"))
	assert.Error(t, Check("- A\n    - ****\n"))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	s := Render(models.Course{Name: "Course"}, twoModules(), Options{Indent: 4})

	written, err := s.Write(dir)
	require.NoError(t, err)
	assert.Len(t, written, 3)
	assert.Equal(t, []string{"_sidebar.md", "m1/_sidebar.md", "m2/_sidebar.md"}, testutil.ListFiles(t, dir))
	assert.Equal(t, s.Root, testutil.ReadFile(t, dir, "_sidebar.md"))
	assert.Equal(t, s.Modules[1].Content, testutil.ReadFile(t, dir, "m2/_sidebar.md"))
}
