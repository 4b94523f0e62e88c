package model

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NoItem is the Item of a position outside any list.
const NoItem = -1

// Position is a caret position that does not depend on DOM node identity:
// a block index, a list item index inside that block (or NoItem), and an
// offset in the inline content of the textblock.
type Position struct {
	Block  int
	Item   int
	Offset int
}

// At is a position in a non-list block.
func At(block, offset int) Position {
	return Position{Block: block, Item: NoItem, Offset: offset}
}

// AtItem is a position in a list item.
func AtItem(block, item, offset int) Position {
	return Position{Block: block, Item: item, Offset: offset}
}

// ResolvedPos is a DOM caret position resolved against a document root.
type ResolvedPos struct {
	// Path holds the ancestors of the caret node from the innermost one up
	// to, but not including, the root.
	Path []*html.Node
	// Block is the top-level block containing the caret.
	Block      *html.Node
	BlockIndex int
	// Textblock is the innermost node holding the caret's inline content:
	// the list item inside lists, otherwise the block itself.
	Textblock *html.Node
	Item      *html.Node
	ItemIndex int
	// Offset is measured in the inline content of Textblock.
	Offset int
}

// Resolve resolves the DOM position (node, offset) below root. The offset is
// a character offset for text nodes and a child index for elements, like a
// browser range boundary. It returns false when node is not inside root.
func Resolve(root, node *html.Node, offset int) (*ResolvedPos, bool) {
	var path []*html.Node
	cur := node
	for cur != nil && cur != root {
		path = append(path, cur)
		cur = cur.Parent
	}
	if cur != root {
		return nil, false
	}
	if len(path) == 0 {
		// The caret sits between blocks of the root.
		return resolveInRoot(root, offset)
	}
	r := &ResolvedPos{Path: path, ItemIndex: NoItem}
	r.Block = path[len(path)-1]
	r.BlockIndex = elementIndex(r.Block)
	r.Textblock = r.Block
	for i := len(path) - 1; i >= 0; i-- {
		if TagAtom(path[i]) == atom.Li {
			r.Item = path[i]
			r.Textblock = path[i]
			break
		}
	}
	if r.Item != nil {
		r.ItemIndex = elementIndex(r.Item)
	}
	r.Offset = offsetIn(r.Textblock, node, offset)
	return r, true
}

func resolveInRoot(root *html.Node, offset int) (*ResolvedPos, bool) {
	i := 0
	var block *html.Node
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if i >= offset && child.Type == html.ElementNode {
			block = child
			break
		}
		i++
	}
	if block == nil {
		for child := root.LastChild; child != nil; child = child.PrevSibling {
			if child.Type == html.ElementNode {
				block = child
				break
			}
		}
	}
	if block == nil {
		return nil, false
	}
	return Resolve(root, block, 0)
}

// elementIndex counts the element siblings before n.
func elementIndex(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			i++
		}
	}
	return i
}

// offsetIn converts a DOM boundary (node, offset) into an offset in the
// inline content of container.
func offsetIn(container, node *html.Node, offset int) int {
	if node == container {
		size := 0
		i := 0
		for child := container.FirstChild; child != nil && i < offset; child = child.NextSibling {
			size += NodeSize(child)
			i++
		}
		return size
	}
	before := 0
	found := false
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for child := n.FirstChild; child != nil && !found; child = child.NextSibling {
			if child == node {
				found = true
				if child.Type == html.TextNode {
					before += min(offset, NodeSize(child))
				} else {
					before += offsetIn(child, child, offset)
				}
				return
			}
			if isAncestor(child, node) {
				visit(child)
				return
			}
			before += NodeSize(child)
		}
	}
	visit(container)
	return before
}

func isAncestor(a, n *html.Node) bool {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur == a {
			return true
		}
	}
	return false
}

// Kind classifies the textblock holding the caret.
func (r *ResolvedPos) Kind() BlockKind {
	if r.Item != nil {
		if Classify(r.Block) == Gallery {
			return Gallery
		}
		return ListItem
	}
	return Classify(r.Block)
}

// AtStart is true when the caret is before all content of its textblock.
func (r *ResolvedPos) AtStart() bool {
	return r.Offset == 0
}

// AtEnd is true when the caret is after all content of its textblock.
func (r *ResolvedPos) AtEnd() bool {
	return r.Offset >= ChildrenOf(r.Textblock).Size()
}

// Empty is true when the textblock has no text and no image.
func (r *ResolvedPos) Empty() bool {
	return IsEmpty(r.Textblock)
}

// Position drops the node identities.
func (r *ResolvedPos) Position() Position {
	return Position{Block: r.BlockIndex, Item: r.ItemIndex, Offset: r.Offset}
}

// Textblock returns the node a position points into.
func (d *Document) Textblock(pos Position) *html.Node {
	block := d.Block(pos.Block)
	if block == nil || pos.Item == NoItem {
		return block
	}
	i := 0
	for li := block.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode {
			continue
		}
		if i == pos.Item {
			return li
		}
		i++
	}
	return nil
}

// ResolvePosition attaches a position to the document nodes.
func (d *Document) ResolvePosition(pos Position) (*ResolvedPos, bool) {
	tb := d.Textblock(pos)
	if tb == nil {
		return nil, false
	}
	node, offset := d.Locate(pos)
	return Resolve(d.Root, node, offset)
}

// Locate returns a DOM boundary (node, offset) for a position, preferring
// text nodes. Offsets past the end are clamped.
func (d *Document) Locate(pos Position) (*html.Node, int) {
	tb := d.Textblock(pos)
	if tb == nil {
		return d.Root, 0
	}
	var (
		target    *html.Node
		targetOff int
		remaining = pos.Offset
		lastText  *html.Node
	)
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			switch {
			case child.Type == html.TextNode:
				size := NodeSize(child)
				if remaining <= size {
					target, targetOff = child, remaining
					return true
				}
				remaining -= size
				lastText = child
			case TagAtom(child) == atom.Img:
				if remaining == 0 {
					target, targetOff = n, childIndex(child)
					return true
				}
				remaining--
			case child.Type == html.ElementNode:
				if visit(child) {
					return true
				}
			}
		}
		return false
	}
	if visit(tb) {
		return target, targetOff
	}
	if lastText != nil {
		return lastText, NodeSize(lastText)
	}
	return tb, len(ChildrenOf(tb))
}

func childIndex(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}
