package models

// Course is the root of an export run
type Course struct {
	ID   string
	Name string
}

// Module is an ordered, named container of items
type Module struct {
	ID       string
	Name     string
	Position int // 0-based position in the course
	Dir      string
}

// ItemKind represents the kind of a ModuleItem
type ItemKind int

const (
	PageItem ItemKind = iota
	AssignmentItem
	ExternalLinkItem
	SubHeaderItem
	UnsupportedItem
)

// String returns a readable name for the kind
func (k ItemKind) String() string {
	switch k {
	case PageItem:
		return "page"
	case AssignmentItem:
		return "assignment"
	case ExternalLinkItem:
		return "external-link"
	case SubHeaderItem:
		return "subheader"
	case UnsupportedItem:
		return "unsupported"
	}
	return "unknown"
}

// ModuleItem is one entry in a module's item sequence.
// The set of implementations is closed: Page, Assignment, ExternalLink,
// SubHeader and Unsupported.
type ModuleItem interface {
	Kind() ItemKind
	ItemTitle() string
	moduleItem()
}

// Page is a wiki page referenced by its url slug
type Page struct {
	Title string
	Ref   string
}

func (p Page) Kind() ItemKind {
	return PageItem
}

func (p Page) ItemTitle() string {
	return p.Title
}

func (Page) moduleItem() {}

// Assignment is referenced by its numeric id
type Assignment struct {
	Title string
	Ref   string
}

func (a Assignment) Kind() ItemKind {
	return AssignmentItem
}

func (a Assignment) ItemTitle() string {
	return a.Title
}

func (Assignment) moduleItem() {}

// ExternalLink points outside the LMS
type ExternalLink struct {
	Title string
	URL   string
}

func (e ExternalLink) Kind() ItemKind {
	return ExternalLinkItem
}

func (e ExternalLink) ItemTitle() string {
	return e.Title
}

func (ExternalLink) moduleItem() {}

// SubHeader groups the items that follow it; it has no content
type SubHeader struct {
	Title string
}

func (s SubHeader) Kind() ItemKind {
	return SubHeaderItem
}

func (s SubHeader) ItemTitle() string {
	return s.Title
}

func (SubHeader) moduleItem() {}

// Unsupported carries the raw type tag of an item we do not export
type Unsupported struct {
	Title   string
	TypeTag string
}

func (u Unsupported) Kind() ItemKind {
	return UnsupportedItem
}

func (u Unsupported) ItemTitle() string {
	return u.Title
}

func (Unsupported) moduleItem() {}

// HasContent reports whether items of this kind produce a file
func HasContent(item ModuleItem) bool {
	switch item.Kind() {
	case PageItem, AssignmentItem, ExternalLinkItem:
		return true
	}
	return false
}

// OutlineNode is one displayed entry of a module outline
type OutlineNode struct {
	Title   string
	Path    *string // Relative to the output root, slash separated. Nil for subheaders.
	Depth   int     // 1 or 2
	Ordinal int     // Position of the source item in its module
}

// IsLink returns true if the node points at a written file
func (n OutlineNode) IsLink() bool {
	return n.Path != nil
}

// ModuleOutline is the ordered outline of one module
type ModuleOutline struct {
	Module Module
	Nodes  []OutlineNode
}

// FirstLink returns the first content-bearing node, if any
func (o ModuleOutline) FirstLink() (OutlineNode, bool) {
	for _, n := range o.Nodes {
		if n.IsLink() {
			return n, true
		}
	}
	return OutlineNode{}, false
}

// Attachment is a file stored in the LMS
type Attachment struct {
	ID          string
	DisplayName string
	URL         string
}
