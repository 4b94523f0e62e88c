package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/helmgast/lore-editor/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeSerializerFunc is the function to serialize a node.
type NodeSerializerFunc func(state *SerializerState, node, parent *html.Node, index int)

// MarkStringFunc computes the opening or closing string of a mark from its
// context: the inline run it applies to and the index in that run.
type MarkStringFunc func(state *SerializerState, mark model.Mark, parent []Inline, index int) string

// MarkSerializerSpec is the serializer info for a mark.
type MarkSerializerSpec struct {
	Open                     interface{} // Can be a string or a MarkStringFunc
	Close                    interface{} // Can be a string or a MarkStringFunc
	Mixable                  bool
	ExpelEnclosingWhitespace bool
	NoEscape                 bool
}

// Inline is a leaf of inline content (a piece of text or an image) with the
// marks of its ancestors, outermost first.
type Inline struct {
	Node  *html.Node
	Text  string
	Marks []model.Mark
}

// IsText is true for text leaves.
func (in Inline) IsText() bool {
	return in.Node.Type == html.TextNode
}

func (in Inline) withText(text string) Inline {
	in.Text = text
	return in
}

// Serializer describes how to serialize a document as Markdown. The
// Nodes table is indexed by tag name and the Marks table by mark type.
type Serializer struct {
	Nodes      map[string]NodeSerializerFunc
	Marks      map[string]MarkSerializerSpec
	TightLists bool
}

// NewSerializer constructs a serializer with the given configuration. The
// `nodes` map should map tag names to functions that take a serializer
// state and such a node, and serialize the node.
//
// The `marks` map should hold objects with `Open` and `Close` properties,
// which hold the strings that should appear before and after a piece of text
// marked that way, either directly or as a MarkStringFunc.
//
// Marks can also be Mixable, which indicates that the order in which the
// mark's opening and closing syntax appears relative to other mixable marks
// can be varied. (For example, you can say `**a _b_**` and `_a **b**_`.)
//
// ExpelEnclosingWhitespace moves enclosing whitespace from inside the marks
// to outside the marks. This is necessary for emphasis marks as CommonMark
// does not permit enclosing whitespace inside emphasis marks, see:
// http://spec.commonmark.org/0.26/#example-330
func NewSerializer(nodes map[string]NodeSerializerFunc, marks map[string]MarkSerializerSpec) *Serializer {
	return &Serializer{
		Nodes:      nodes,
		Marks:      marks,
		TightLists: true,
	}
}

var (
	spaceRunRegexp   = regexp.MustCompile(`(\S)[ \t]{2,}`)
	blankLinesRegexp = regexp.MustCompile(`\n{3,}`)
)

// Serialize the blocks of the document to Markdown.
func (s *Serializer) Serialize(doc *model.Document) string {
	state := NewSerializerState(s.Nodes, s.Marks, s.TightLists)
	state.RenderContent(doc.Root)
	return normalizeOutput(state.Out)
}

func normalizeOutput(out string) string {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	out = strings.Join(lines, "\n")
	out = spaceRunRegexp.ReplaceAllString(out, "$1 ")
	out = blankLinesRegexp.ReplaceAllString(out, "\n\n")
	return strings.Trim(out, "\n")
}

// Export serializes a document with the DefaultSerializer.
func Export(doc *model.Document) string {
	return DefaultSerializer.Serialize(doc)
}

func escapeURL(url string) string {
	url = strings.ReplaceAll(url, "(", "\\(")
	url = strings.ReplaceAll(url, ")", "\\)")
	return strings.ReplaceAll(url, " ", "%20")
}

// listMarker picks the bullet (or ordered delimiter) of a list: the usual
// one, or the alternative when the list directly follows a list using the
// usual one, which would otherwise be read back as a single list.
func (s *SerializerState) listMarker(node *html.Node, usual, alternative string) string {
	marker := usual
	if prev, ok := s.markers[s.Closed]; ok && s.Closed != nil && prev == usual {
		marker = alternative
	}
	if s.markers == nil {
		s.markers = make(map[*html.Node]string)
	}
	s.markers[node] = marker
	return marker
}

func renderBullets(state *SerializerState, node *html.Node, bullet string) {
	state.RenderList(node, "  ", func(_ int) string { return bullet + " " })
}

// DefaultSerializer writes the dialect read back by Import.
var DefaultSerializer = NewSerializer(map[string]NodeSerializerFunc{
	"blockquote": func(state *SerializerState, node, _ *html.Node, _ int) {
		state.WrapBlock("> ", nil, node, func() { state.RenderContent(node) })
	},
	"h2": renderHeading(2),
	"h3": renderHeading(3),
	"h4": renderHeading(4),
	"ul": func(state *SerializerState, node, _ *html.Node, _ int) {
		bullet := state.listMarker(node, "-", "*")
		if model.IsGalleryList(node) {
			state.renderGallery(node, bullet)
			return
		}
		renderBullets(state, node, bullet)
	},
	"ol": func(state *SerializerState, node, _ *html.Node, _ int) {
		delim := state.listMarker(node, ".", ")")
		count := 0
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode {
				count++
			}
		}
		space := strings.Repeat(" ", len(strconv.Itoa(count))+2)
		state.RenderList(node, space, func(i int) string {
			return strconv.Itoa(i+1) + delim + " "
		})
	},
	"li": func(state *SerializerState, node, _ *html.Node, _ int) {
		state.RenderContent(node)
	},
	"p": func(state *SerializerState, node, _ *html.Node, _ int) {
		state.RenderInline(node)
		state.CloseBlock(node)
	},
	"img": func(state *SerializerState, node, _ *html.Node, _ int) {
		ref, _ := model.ImageRefOf(node)
		alt := state.Esc(ref.Alt)
		if ref.Variant != "" {
			alt += "|" + ref.Variant
		}
		state.Write(fmt.Sprintf("![%s](%s)", alt, escapeURL(ref.Src)))
	},
}, map[string]MarkSerializerSpec{
	"em":     {Open: "_", Close: "_", Mixable: true, ExpelEnclosingWhitespace: true},
	"strong": {Open: "**", Close: "**", Mixable: true, ExpelEnclosingWhitespace: true},
	"link": {
		Open: MarkStringFunc(func(state *SerializerState, mark model.Mark, parent []Inline, index int) string {
			state.InAutoLink = isPlainURL(mark, parent, index)
			if state.InAutoLink {
				return "<"
			}
			return "["
		}),
		Close: MarkStringFunc(func(state *SerializerState, mark model.Mark, _ []Inline, _ int) string {
			if state.InAutoLink {
				state.InAutoLink = false
				return ">"
			}
			href := escapeURL(mark.Href)
			href = strings.ReplaceAll(href, `"`, `\"`)
			return fmt.Sprintf("](%s)", href)
		}),
		Mixable: true,
	},
})

func renderHeading(level int) NodeSerializerFunc {
	return func(state *SerializerState, node, _ *html.Node, _ int) {
		state.Write(strings.Repeat("#", level) + " ")
		state.RenderInline(node)
		state.CloseBlock(node)
	}
}

func isPlainURL(link model.Mark, parent []Inline, index int) bool {
	if !strings.Contains(link.Href, ":") || index >= len(parent) {
		return false
	}
	content := parent[index]
	if !content.IsText() || content.Text != link.Href || !content.Marks[len(content.Marks)-1].Eq(link) {
		return false
	}
	if index == len(parent)-1 {
		return true
	}
	return !link.IsInSet(parent[index+1].Marks)
}

// renderGallery writes the layout marker as the first item of a list, then
// one image per item. A gallery without images is left out.
func (s *SerializerState) renderGallery(node *html.Node, bullet string) {
	layout, refs, err := model.DecomposeGallery(node)
	if err != nil {
		return
	}
	if s.InTightList {
		s.flushClose(1)
	}
	items := []string{layout.Marker()}
	for _, ref := range refs {
		alt := s.Esc(ref.Alt)
		if ref.Variant != "" {
			alt += "|" + ref.Variant
		}
		items = append(items, fmt.Sprintf("![%s](%s)", alt, escapeURL(ref.Src)))
	}
	for i, item := range items {
		if i > 0 {
			s.flushClose(1)
		}
		first := bullet + " "
		s.WrapBlock("  ", &first, node, func() { s.Write(item) })
	}
}

// SerializerState is an object used to track state and expose methods related
// to markdown serialization. Instances are passed to node and mark
// serialization methods.
type SerializerState struct {
	Nodes        map[string]NodeSerializerFunc
	Marks        map[string]MarkSerializerSpec
	Delim        string
	Out          string
	Closed       *html.Node
	InAutoLink   bool
	AtBlockStart bool
	InTightList  bool
	tightLists   bool
	markers      map[*html.Node]string
}

// NewSerializerState is the constructor for SerializerState. When tightLists
// is set, list items are not separated by blank lines.
func NewSerializerState(
	nodes map[string]NodeSerializerFunc,
	marks map[string]MarkSerializerSpec,
	tightLists bool,
) *SerializerState {
	return &SerializerState{
		Nodes:      nodes,
		Marks:      marks,
		tightLists: tightLists,
	}
}

func (s *SerializerState) flushClose(size ...int) {
	if s.Closed == nil {
		return
	}
	s.EnsureNewLine()
	siz := 2
	if len(size) > 0 {
		siz = size[0]
	}
	if siz > 1 {
		delimMin := strings.TrimRightFunc(s.Delim, unicode.IsSpace)
		for i := 1; i < siz; i++ {
			s.Out += delimMin + "\n"
		}
	}
	s.Closed = nil
}

// WrapBlock renders a block, prefixing each line with `delim`, and the first
// line in `firstDelim`. `node` should be the node that is closed at the end of
// the block, and `f` is a function that renders the content of the block.
func (s *SerializerState) WrapBlock(delim string, firstDelim *string, node *html.Node, f func()) {
	old := s.Delim
	d := delim
	if firstDelim != nil {
		d = *firstDelim
	}
	s.Write(d)
	s.Delim += delim
	f()
	s.Delim = old
	s.CloseBlock(node)
}

func (s *SerializerState) atBlank() bool {
	if len(s.Out) == 0 {
		return true
	}
	return s.Out[len(s.Out)-1] == '\n'
}

// EnsureNewLine ensures the current content ends with a newline.
func (s *SerializerState) EnsureNewLine() {
	if !s.atBlank() {
		s.Out += "\n"
	}
}

// Write prepares the state for writing output (closing closed paragraphs,
// adding delimiters, and so on), and then optionally add content
// (unescaped) to the output.
func (s *SerializerState) Write(content ...string) {
	s.flushClose()
	if s.Delim != "" && s.atBlank() {
		s.Out += s.Delim
	}
	if len(content) > 0 {
		s.Out += content[0]
	}
}

// CloseBlock closes the block for the given node.
func (s *SerializerState) CloseBlock(node *html.Node) {
	s.Closed = node
}

var textRegexp1 = regexp.MustCompile(`(^|[^\\])\!$`)

// Text adds the given text to the document. When escape is not `false`, it
// will be escaped. Newlines in DOM text are plain whitespace, so they are
// written as spaces.
func (s *SerializerState) Text(text string, escape ...bool) {
	esc := true
	if len(escape) > 0 {
		esc = escape[0]
	}
	line := strings.ReplaceAll(text, "\n", " ")
	s.Write()
	// Escape exclamation marks in front of links
	if !esc && strings.HasPrefix(line, "[") && textRegexp1.MatchString(s.Out) {
		s.Out = s.Out[:len(s.Out)-1] + "\\!"
	}
	if esc {
		s.Out += s.Esc(line, s.AtBlockStart)
		if line != "" {
			s.AtBlockStart = false
		}
	} else {
		s.Out += line
	}
}

// Render the given node as a block. Nodes without a serializer have their
// content rendered in their place.
func (s *SerializerState) Render(node, parent *html.Node, index int) {
	if fn, ok := s.Nodes[model.TagAtom(node).String()]; ok {
		fn(s, node, parent, index)
		return
	}
	s.RenderContent(node)
}

// RenderContent renders the children of `parent` as blocks. Runs of inline
// content in between are rendered as paragraphs.
func (s *SerializerState) RenderContent(parent *html.Node) {
	var run []*html.Node
	flush := func() {
		f := model.Fragment(run)
		if strings.TrimSpace(f.TextContent()) != "" || f.HasImage() {
			s.RenderInlineNodes(run)
			s.CloseBlock(parent)
		}
		run = nil
	}
	i := 0
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		if model.IsInline(child) {
			run = append(run, child)
			continue
		}
		flush()
		if child.Type == html.ElementNode {
			s.Render(child, parent, i)
			i++
		}
	}
	flush()
}

// Flatten collects the inline leaves below the given nodes. Links wrapping
// a single image are skipped: the image token stands alone.
func Flatten(nodes []*html.Node) []Inline {
	var leaves []Inline
	var visit func(n *html.Node, marks []model.Mark)
	visit = func(n *html.Node, marks []model.Mark) {
		switch {
		case n.Type == html.TextNode:
			if n.Data != "" {
				leaves = append(leaves, Inline{Node: n, Text: n.Data, Marks: marks})
			}
			return
		case model.TagAtom(n) == atom.Img:
			leaves = append(leaves, Inline{Node: n, Marks: marks})
			return
		case n.Type != html.ElementNode:
			return
		}
		if m, ok := model.MarkOf(n); ok && !m.IsInSet(marks) && !wrapsImage(n) {
			marks = append(marks[:len(marks):len(marks)], m)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child, marks)
		}
	}
	for _, n := range nodes {
		visit(n, nil)
	}
	return leaves
}

// wrapsImage tests whether the only content of n is one image.
func wrapsImage(n *html.Node) bool {
	var img *html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch {
		case child.Type == html.TextNode && strings.TrimSpace(child.Data) == "":
		case model.TagAtom(child) == atom.Img && img == nil:
			img = child
		default:
			return false
		}
	}
	return img != nil
}

var (
	leadingRegexp  = regexp.MustCompile(`^(\s*)((?s).*)$`)
	trailingRegexp = regexp.MustCompile(`^((?s).*?)(\s*)$`)
)

// expels tests whether one of the marks matching pred moves enclosing
// whitespace out of itself.
func (s *SerializerState) expels(marks []model.Mark, pred func(model.Mark) bool) bool {
	for _, m := range marks {
		if info, ok := s.Marks[m.Type.String()]; ok && info.ExpelEnclosingWhitespace && pred(m) {
			return true
		}
	}
	return false
}

// RenderInline renders the contents of `parent` as inline content.
func (s *SerializerState) RenderInline(parent *html.Node) {
	s.RenderInlineNodes(model.ChildrenOf(parent))
}

// RenderInlineNodes renders a run of sibling nodes as inline content.
func (s *SerializerState) RenderInlineNodes(nodes []*html.Node) {
	parent := Flatten(nodes)
	s.AtBlockStart = true
	var active []model.Mark
	var trailing string

	progress := func(node *Inline, index int) {
		var marks []model.Mark
		if node != nil {
			marks = node.Marks
		}

		leading := trailing
		trailing = ""
		// If whitespace has to be expelled from the node, adjust
		// leading and trailing accordingly.
		if node != nil && node.IsText() && s.expels(marks, func(m model.Mark) bool {
			return !m.IsInSet(active)
		}) {
			parts := leadingRegexp.FindStringSubmatch(node.Text)
			if parts[1] != "" {
				leading += parts[1]
				if parts[2] != "" {
					trimmed := node.withText(parts[2])
					node = &trimmed
				} else {
					node = nil
					marks = active
				}
			}
		}
		if node != nil && node.IsText() && s.expels(marks, func(m model.Mark) bool {
			return index == len(parent)-1 || !m.IsInSet(parent[index+1].Marks)
		}) {
			parts := trailingRegexp.FindStringSubmatch(node.Text)
			if parts[2] != "" {
				trailing = parts[2]
				if parts[1] != "" {
					trimmed := node.withText(parts[1])
					node = &trimmed
				} else {
					node = nil
					marks = active
				}
			}
		}

		var inner *model.Mark
		if len(marks) > 0 {
			inner = &marks[len(marks)-1]
		}
		noEsc := false
		if inner != nil {
			noEsc = s.Marks[inner.Type.String()].NoEscape
		}
		length := len(marks)
		if noEsc {
			length--
		}

		// Try to reorder 'mixable' marks, such as em and strong, which
		// in Markdown may be opened and closed in different order, so
		// that order of the marks for the token matches the order in
		// active.
		for i, mark := range marks {
			if !s.Marks[mark.Type.String()].Mixable {
				break
			}
			for j, other := range active {
				if !s.Marks[other.Type.String()].Mixable {
					break
				}
				if mark.Eq(other) {
					mixed := make([]model.Mark, 0, len(marks))
					if i > j {
						mixed = append(mixed, marks[:j]...)
						mixed = append(mixed, mark)
						mixed = append(mixed, marks[j:i]...)
						mixed = append(mixed, marks[i+1:]...)
					} else {
						mixed = append(mixed, marks[:i]...)
						if i != j {
							mixed = append(mixed, marks[i+1:j]...)
						}
						mixed = append(mixed, mark)
						mixed = append(mixed, marks[j:]...)
					}
					marks = mixed
					break
				}
			}
		}

		// Find the prefix of the mark set that didn't change
		keep := 0
		for keep < min(len(marks), len(active)) && marks[keep].Eq(active[keep]) {
			keep++
		}

		// Close the marks that need to be closed
		for keep < len(active) {
			s.Text(s.MarkString(active[len(active)-1], false, parent, index), false)
			active = active[:len(active)-1]
		}

		// Output any previously expelled trailing whitespace outside the marks
		if leading != "" {
			s.Text(leading)
		}

		// Open the marks that need to be opened
		if node != nil {
			for len(active) < length {
				add := marks[len(active)]
				active = append(active, add)
				s.Text(s.MarkString(add, true, parent, index), false)
			}

			if node.IsText() {
				s.Text(node.Text, !s.InAutoLink)
			} else if fn, ok := s.Nodes[model.TagAtom(node.Node).String()]; ok {
				fn(s, node.Node, node.Node.Parent, index)
				s.AtBlockStart = false
			}
		}
	}

	for i := range parent {
		progress(&parent[i], i)
	}
	progress(nil, len(parent))
	s.AtBlockStart = false
}

// RenderList renders a node's content as a list. `delim` should be the extra
// indentation added to all lines except the first in an item, `firstDelim` is
// a function going from an item index to a delimiter for the first line of the
// item.
func (s *SerializerState) RenderList(node *html.Node, delim string, firstDelim func(i int) string) {
	if s.InTightList {
		s.flushClose(1)
	}

	prevTight := s.InTightList
	s.InTightList = s.tightLists
	i := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if i > 0 && s.tightLists {
			s.flushClose(1)
		}
		first := firstDelim(i)
		idx := i
		item := child
		s.WrapBlock(delim, &first, node, func() { s.Render(item, node, idx) })
		i++
	}
	s.InTightList = prevTight
}

var (
	escRegexp1 = regexp.MustCompile("([`*\\\\~\\[\\]<>&])")
	escRegexp2 = regexp.MustCompile(`(\b_)|(_\b)`)
	escRegexp3 = regexp.MustCompile(`^(\s*)([#\-*+>])`)
	escRegexp4 = regexp.MustCompile(`^(\s*\d+)([.)])`)
)

// Esc escapes the given string so that it can safely appear in Markdown
// content. If `startOfLine` is true, also escape characters that have special
// meaning only at the start of the line.
func (s *SerializerState) Esc(str string, startOfLine ...bool) string {
	start := false
	if len(startOfLine) > 0 {
		start = startOfLine[0]
	}
	str = escRegexp1.ReplaceAllString(str, "\\$1")
	str = escRegexp2.ReplaceAllString(str, "\\_")
	if start {
		str = escRegexp3.ReplaceAllString(str, "$1\\$2")
		str = escRegexp4.ReplaceAllString(str, "$1\\$2")
	}
	return str
}

// MarkString gets the markdown string for a given opening or closing mark.
func (s *SerializerState) MarkString(mark model.Mark, open bool, parent []Inline, index int) string {
	info := s.Marks[mark.Type.String()]
	value := info.Open
	if !open {
		value = info.Close
	}
	switch value := value.(type) {
	case string:
		return value
	case MarkStringFunc:
		return value(s, mark, parent, index)
	}
	return ""
}
