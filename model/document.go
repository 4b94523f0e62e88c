// Package model defines the editable document: a container element whose
// children are blocks, and the helpers used to inspect and rewrite it.
package model

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Document is the editable region of one editor instance. Root is the
// container element; its element children are the blocks.
//
// A document always holds at least one block, see EnsureNotEmpty.
type Document struct {
	Root *html.Node
}

// NewDocument wraps a container element. Blocks are not validated, but an
// empty container gets a placeholder paragraph.
func NewDocument(root *html.Node) *Document {
	d := &Document{Root: root}
	d.EnsureNotEmpty()
	return d
}

// ParseDocument builds a document from an HTML fragment.
func ParseDocument(fragment string) (*Document, error) {
	root, err := ParseFragment(fragment)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return NewDocument(root), nil
}

// Blocks returns the element children of the root.
func (d *Document) Blocks() []*html.Node {
	var blocks []*html.Node
	for child := d.Root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			blocks = append(blocks, child)
		}
	}
	return blocks
}

// BlockCount is the number of blocks.
func (d *Document) BlockCount() int {
	return len(d.Blocks())
}

// Block returns the block at index, or nil if out of range.
func (d *Document) Block(index int) *html.Node {
	blocks := d.Blocks()
	if index < 0 || index >= len(blocks) {
		return nil
	}
	return blocks[index]
}

// Kind classifies the block at index.
func (d *Document) Kind(index int) BlockKind {
	b := d.Block(index)
	if b == nil {
		return Unknown
	}
	return Classify(b)
}

// IndexOf returns the index of a block, or -1.
func (d *Document) IndexOf(block *html.Node) int {
	for i, b := range d.Blocks() {
		if b == block {
			return i
		}
	}
	return -1
}

// InsertBlock inserts a block at index; an index past the end appends.
func (d *Document) InsertBlock(index int, block *html.Node) {
	if ref := d.Block(index); ref != nil {
		d.Root.InsertBefore(block, ref)
		return
	}
	d.Root.AppendChild(block)
}

// ReplaceBlock swaps the block at index for another one.
func (d *Document) ReplaceBlock(index int, block *html.Node) {
	if old := d.Block(index); old != nil {
		ReplaceNode(old, block)
	}
}

// RemoveBlock detaches the block at index.
func (d *Document) RemoveBlock(index int) {
	if old := d.Block(index); old != nil {
		d.Root.RemoveChild(old)
	}
}

// EnsureNotEmpty inserts an empty paragraph when the document has no block.
// It reports whether it did.
func (d *Document) EnsureNotEmpty() bool {
	if len(d.Blocks()) > 0 {
		return false
	}
	for d.Root.FirstChild != nil {
		d.Root.RemoveChild(d.Root.FirstChild)
	}
	d.Root.AppendChild(Placeholder())
	return true
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{Root: CloneNode(d.Root)}
}

// HTML renders the blocks.
func (d *Document) HTML() string {
	return Render(d.Root)
}

// TextContent returns the text of every block, one block or list item per
// line. Galleries have no text.
func (d *Document) TextContent() string {
	var lines []string
	for _, b := range d.Blocks() {
		switch kind := Classify(b); {
		case kind == Gallery:
		case kind.IsList():
			for li := b.FirstChild; li != nil; li = li.NextSibling {
				if li.Type == html.ElementNode {
					lines = append(lines, TextContent(li))
				}
			}
		default:
			lines = append(lines, TextContent(b))
		}
	}
	return strings.Join(lines, "\n")
}

// WordCount counts whitespace-separated words.
func (d *Document) WordCount() int {
	text := d.TextContent()
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// String is a debug representation, e.g. `paragraph("hi"), heading-2("x")`.
func (d *Document) String() string {
	var parts []string
	for _, b := range d.Blocks() {
		parts = append(parts, blockString(b))
	}
	return strings.Join(parts, ", ")
}

func blockString(b *html.Node) string {
	kind := Classify(b)
	switch kind {
	case BulletList, OrderedList:
		var items []string
		for li := b.FirstChild; li != nil; li = li.NextSibling {
			if li.Type == html.ElementNode {
				items = append(items, blockString(li))
			}
		}
		return fmt.Sprintf("%s(%s)", kind, strings.Join(items, ", "))
	case Gallery:
		layout, refs, _ := DecomposeGallery(b)
		srcs := make([]string, len(refs))
		for i, r := range refs {
			srcs[i] = r.Src
		}
		return fmt.Sprintf("%s[%s](%s)", kind, layout, strings.Join(srcs, ", "))
	}
	return fmt.Sprintf("%s(%q)", kind, TextContent(b))
}
