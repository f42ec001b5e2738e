package sidebar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// Check parses a rendered sidebar and verifies it reads back as the list it
// was meant to be: one bullet list, one list item per line, no ordered
// lists, no other blocks (headings, quotes, code) and no link without a
// target. It catches titles that escaped badly.
func Check(source string) error {
	src := []byte(source)
	doc := markdown.Parser().Parse(text.NewReader(src))

	if strings.TrimSpace(source) == "" {
		return nil
	}
	if doc.ChildCount() != 1 || doc.FirstChild().Kind() != ast.KindList {
		return errors.New("sidebar is not a single list")
	}

	var (
		items int
		errs  []error
	)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock {
			switch n.Kind() {
			case ast.KindDocument, ast.KindList, ast.KindListItem, ast.KindParagraph, ast.KindTextBlock:
			default:
				errs = append(errs, fmt.Errorf("%s at line %d", n.Kind(), lineOf(src, n)))
			}
		}
		switch node := n.(type) {
		case *ast.List:
			if node.IsOrdered() {
				errs = append(errs, fmt.Errorf("ordered list at line %d", lineOf(src, node)))
			}
		case *ast.ListItem:
			items++
		case *ast.Link:
			if len(node.Destination) == 0 {
				errs = append(errs, fmt.Errorf("link without target at line %d", lineOf(src, node)))
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return err
	}

	if lines := countLines(source); items != lines {
		errs = append(errs, fmt.Errorf("expected %d list items, found %d", lines, items))
	}
	return errors.Join(errs...)
}

func countLines(source string) int {
	n := 0
	for _, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// lineOf returns the 1-based line of the first text segment below n
func lineOf(src []byte, n ast.Node) int {
	for c := n; c != nil; c = c.FirstChild() {
		if c.Type() == ast.TypeBlock && c.Lines().Len() > 0 {
			return strings.Count(string(src[:c.Lines().At(0).Start]), "\n") + 1
		}
		if t, ok := c.(*ast.Text); ok {
			return strings.Count(string(src[:t.Segment.Start]), "\n") + 1
		}
	}
	return 0
}
