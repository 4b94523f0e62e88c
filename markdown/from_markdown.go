package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/helmgast/lore-editor/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeMapperFunc builds the part of the document for one kind of Markdown
// node. It is called when the walk enters and leaves the node.
type NodeMapperFunc func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error)

// NodeMapper associates Markdown node kinds with the functions mapping them.
// Kinds without a mapper are rendered as their literal text when they are
// blocks, and are transparent when they are inline.
type NodeMapper map[ast.NodeKind]NodeMapperFunc

// ParserState tracks the element being filled while the Markdown tree is
// walked.
type ParserState struct {
	Source []byte
	Root   *html.Node
	stack  []*html.Node
	quotes int
}

// Top is the element receiving content.
func (s *ParserState) Top() *html.Node {
	return s.stack[len(s.stack)-1]
}

// Push appends n to the current element and makes it the current one.
func (s *ParserState) Push(n *html.Node) {
	s.Top().AppendChild(n)
	s.stack = append(s.stack, n)
}

// Pop goes back to the previous element.
func (s *ParserState) Pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// AddText appends text to the current element.
func (s *ParserState) AddText(t string) {
	if t == "" {
		return
	}
	top := s.Top()
	if last := top.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += t
		return
	}
	top.AppendChild(model.NewText(t))
}

// textblock opens the element receiving the inline content of a paragraph.
// Inside a list item, the content goes to the item itself.
func (s *ParserState) textblock() {
	top := s.Top()
	if model.TagAtom(top) == atom.Li {
		if top.FirstChild != nil {
			s.AddText(" ")
		}
		s.stack = append(s.stack, top)
		return
	}
	tag := atom.P
	if s.quotes > 0 {
		tag = atom.Blockquote
	}
	s.Push(model.NewElement(tag))
}

// unescape resolves backslash escapes and character references the way
// CommonMark renders text.
func unescape(b []byte) string {
	var sb strings.Builder
	flush := func(chunk []byte) {
		if len(chunk) == 0 {
			return
		}
		chunk = util.ResolveNumericReferences(chunk)
		chunk = util.ResolveEntityNames(chunk)
		sb.Write(chunk)
	}
	start := 0
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) && util.IsPunct(b[i+1]) {
			flush(b[start:i])
			sb.WriteByte(b[i+1])
			i++
			start = i + 1
		}
	}
	flush(b[start:])
	return sb.String()
}

// plainText collects the text below n, as used for image alt text and
// gallery markers.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			sb.WriteString(unescape(c.Segment.Value(source)))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.AutoLink:
			sb.Write(c.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func linesText(n ast.Node, source []byte) string {
	var lines []string
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		lines = append(lines, strings.TrimRight(string(line.Value(source)), "\n"))
	}
	return strings.Join(lines, "\n")
}

func literalBlock(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	state.textblock()
	state.AddText(linesText(node, state.Source))
	state.Pop()
	return ast.WalkSkipChildren, nil
}

func paragraph(state *ParserState, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		state.textblock()
	} else {
		state.Pop()
	}
	return ast.WalkContinue, nil
}

func inlineElement(tag atom.Atom) NodeMapperFunc {
	return func(state *ParserState, _ ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			state.Push(model.NewElement(tag))
		} else {
			state.Pop()
		}
		return ast.WalkContinue, nil
	}
}

// imageRef builds the reference of an image node, splitting a variant off
// the alt text.
func imageRef(img *ast.Image, source []byte) model.ImageRef {
	alt, variant := model.SplitAlt(plainText(img, source))
	return model.ImageRef{Src: unescape(img.Destination), Alt: alt, Variant: variant}
}

// galleryOf returns the gallery block for a list whose first item is a
// gallery marker. The block is nil when no item holds an image.
func galleryOf(list *ast.List, source []byte) (*html.Node, bool) {
	first := list.FirstChild()
	if list.IsOrdered() || first == nil {
		return nil, false
	}
	layout, ok := model.MatchMarker(plainText(first, source))
	if !ok {
		return nil, false
	}
	var refs []model.ImageRef
	for item := first.NextSibling(); item != nil; item = item.NextSibling() {
		_ = ast.Walk(item, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if img, ok := c.(*ast.Image); ok && entering {
				refs = append(refs, imageRef(img, source))
				return ast.WalkStop, nil
			}
			return ast.WalkContinue, nil
		})
	}
	block, err := model.BuildGallery(layout, refs)
	if err != nil {
		return nil, true
	}
	return block, true
}

// DefaultNodeMapper reads the dialect written by the DefaultSerializer, and
// folds what the editor cannot represent into its closest block.
var DefaultNodeMapper = NodeMapper{
	ast.KindDocument: func(_ *ParserState, _ ast.Node, _ bool) (ast.WalkStatus, error) {
		return ast.WalkContinue, nil
	},
	ast.KindParagraph: paragraph,
	ast.KindTextBlock: paragraph,
	ast.KindHeading: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			state.Pop()
			return ast.WalkContinue, nil
		}
		tag := atom.H4
		switch node.(*ast.Heading).Level {
		case 1, 2:
			tag = atom.H2
		case 3:
			tag = atom.H3
		}
		state.Push(model.NewElement(tag))
		return ast.WalkContinue, nil
	},
	ast.KindBlockquote: func(state *ParserState, _ ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			state.quotes++
		} else {
			state.quotes--
		}
		return ast.WalkContinue, nil
	},
	ast.KindList: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			state.Pop()
			return ast.WalkContinue, nil
		}
		list := node.(*ast.List)
		if block, ok := galleryOf(list, state.Source); ok {
			if block != nil {
				state.Top().AppendChild(block)
			}
			// The walk still leaves the list, which pops.
			state.stack = append(state.stack, state.Top())
			return ast.WalkSkipChildren, nil
		}
		tag := atom.Ul
		if list.IsOrdered() {
			tag = atom.Ol
		}
		state.Push(model.NewElement(tag))
		return ast.WalkContinue, nil
	},
	ast.KindListItem:        inlineElement(atom.Li),
	ast.KindCodeBlock:       literalBlock,
	ast.KindFencedCodeBlock: literalBlock,
	ast.KindHTMLBlock:       literalBlock,
	ast.KindThematicBreak: func(state *ParserState, _ ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			state.textblock()
			state.Pop()
		}
		return ast.WalkSkipChildren, nil
	},
	ast.KindText: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			t := node.(*ast.Text)
			state.AddText(unescape(t.Segment.Value(state.Source)))
			if t.SoftLineBreak() || t.HardLineBreak() {
				state.AddText(" ")
			}
		}
		return ast.WalkContinue, nil
	},
	ast.KindString: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			state.AddText(string(node.(*ast.String).Value))
		}
		return ast.WalkContinue, nil
	},
	ast.KindEmphasis: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		tag := atom.Em
		if node.(*ast.Emphasis).Level >= 2 {
			tag = atom.Strong
		}
		return inlineElement(tag)(state, node, entering)
	},
	ast.KindLink: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			href := unescape(node.(*ast.Link).Destination)
			state.Push(model.NewElement(atom.A, html.Attribute{Key: "href", Val: href}))
		} else {
			state.Pop()
		}
		return ast.WalkContinue, nil
	},
	ast.KindAutoLink: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			link := node.(*ast.AutoLink)
			state.Push(model.NewElement(atom.A, html.Attribute{Key: "href", Val: string(link.URL(state.Source))}))
			state.AddText(string(link.Label(state.Source)))
			state.Pop()
		}
		return ast.WalkSkipChildren, nil
	},
	ast.KindImage: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			state.Top().AppendChild(imageRef(node.(*ast.Image), state.Source).Node())
		}
		return ast.WalkSkipChildren, nil
	},
	ast.KindCodeSpan: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			var buf bytes.Buffer
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					buf.Write(t.Segment.Value(state.Source))
				}
			}
			state.AddText(buf.String())
		}
		return ast.WalkSkipChildren, nil
	},
	ast.KindRawHTML: func(state *ParserState, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			segs := node.(*ast.RawHTML).Segments
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				state.AddText(string(seg.Value(state.Source)))
			}
		}
		return ast.WalkSkipChildren, nil
	},
}

// ParseMarkdown parses the Markdown source and builds a document with the
// node mapper.
func ParseMarkdown(p parser.Parser, mapper NodeMapper, source []byte) (*model.Document, error) {
	tree := p.Parse(text.NewReader(source))
	state := &ParserState{Source: source, Root: model.NewElement(atom.Div)}
	state.stack = []*html.Node{state.Root}
	err := ast.Walk(tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := mapper[n.Kind()]; ok {
			return fn(state, n, entering)
		}
		if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			return literalBlock(state, n, entering)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}
	model.Normalize(state.Root)
	return model.NewDocument(state.Root), nil
}

// Parse builds a document with the DefaultNodeMapper.
func Parse(p parser.Parser, source []byte) (*model.Document, error) {
	return ParseMarkdown(p, DefaultNodeMapper, source)
}

// Import parses Markdown with goldmark's default CommonMark parser. It never
// fails: the default mappers return no error.
func Import(markdown string) *model.Document {
	doc, err := Parse(goldmark.DefaultParser(), []byte(markdown))
	if err != nil {
		return model.NewDocument(model.NewElement(atom.Div))
	}
	return doc
}
