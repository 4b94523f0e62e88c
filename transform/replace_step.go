package transform

import (
	"fmt"

	"github.com/helmgast/lore-editor/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Transform converts the block holding the caret into another kind, keeping
// its content.
//
// A list item can only be turned into a paragraph: the item leaves the list.
// When it is the sole item and it is empty, the whole list goes and the caret
// moves to the end of the previous block.
type Transform struct {
	To model.BlockKind
}

func (s Transform) String() string { return fmt.Sprintf("transform(%s)", s.To) }

// Apply is a method of the Action interface.
func (s Transform) Apply(doc *model.Document, pos model.Position) Result {
	block := doc.Block(pos.Block)
	if block == nil {
		return Fail("No block at given position")
	}
	from := model.Classify(block)
	if pos.Item != model.NoItem {
		if !from.IsList() || s.To != model.Paragraph {
			return Fail(fmt.Sprintf("Cannot transform a %s item into %s", from, s.To))
		}
		items := listItems(block)
		if len(items) == 1 && pos.Item == 0 && model.IsEmpty(items[0]) {
			return removeList(doc, pos.Block)
		}
		return liftItem(doc, pos)
	}
	switch {
	case !from.IsTextblock():
		return Fail(fmt.Sprintf("Cannot transform a %s", from))
	case s.To.IsTextblock() && s.To != model.ListItem:
		model.Rename(block, s.To.Tag())
		return OK(pos).WithHint(s.To)
	case s.To.IsList():
		list := model.NewElement(s.To.Tag())
		li := model.NewElement(atom.Li)
		model.ChildrenOf(block).AppendTo(li)
		list.AppendChild(li)
		doc.ReplaceBlock(pos.Block, list)
		return OK(model.AtItem(pos.Block, 0, pos.Offset)).WithHint(s.To)
	}
	return Fail(fmt.Sprintf("Cannot transform into %s", s.To))
}

// Split splits the textblock holding the caret. The content after the caret
// goes to a new block of kind To, inserted after it.
//
// Inside a list, splitting into a list item creates the next item, and
// splitting into a paragraph moves the item out, after the list.
type Split struct {
	To model.BlockKind
}

func (s Split) String() string { return fmt.Sprintf("split(%s)", s.To) }

// Apply is a method of the Action interface.
func (s Split) Apply(doc *model.Document, pos model.Position) Result {
	block := doc.Block(pos.Block)
	if block == nil {
		return Fail("No block at given position")
	}
	kind := model.Classify(block)
	if pos.Item != model.NoItem {
		if !kind.IsList() {
			return Fail(fmt.Sprintf("Cannot split a %s", kind))
		}
		switch s.To {
		case model.ListItem:
			return splitItem(doc, pos)
		case model.Paragraph:
			return liftItem(doc, pos)
		}
		return Fail(fmt.Sprintf("Cannot split a list item into %s", s.To))
	}
	if !kind.IsTextblock() || !s.To.IsTextblock() || s.To == model.ListItem {
		return Fail(fmt.Sprintf("Cannot split a %s into %s", kind, s.To))
	}
	next := model.NewBlock(s.To)
	model.SetContent(next, model.SplitInline(block, pos.Offset))
	model.InsertAfter(block, next)
	return OK(model.At(pos.Block+1, 0)).WithHint(s.To)
}

// Direction tells which neighbour a Merge joins.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Merge joins the textblock holding the caret with the previous block
// (Backward) or the next one into it (Forward). Merging with a list joins the
// nearest item. There is nothing to do at the edges of the document.
type Merge struct {
	Dir Direction
}

func (s Merge) String() string { return fmt.Sprintf("merge(%s)", s.Dir) }

// Apply is a method of the Action interface.
func (s Merge) Apply(doc *model.Document, pos model.Position) Result {
	block := doc.Block(pos.Block)
	if block == nil {
		return Fail("No block at given position")
	}
	if pos.Item != model.NoItem {
		return Fail("Cannot merge inside a list")
	}
	if kind := model.Classify(block); !kind.IsTextblock() {
		return Fail(fmt.Sprintf("Cannot merge a %s", kind))
	}
	if s.Dir == Forward {
		return mergeForward(doc, pos, block)
	}
	return mergeBackward(doc, pos, block)
}

func mergeBackward(doc *model.Document, pos model.Position, block *html.Node) Result {
	if pos.Block == 0 {
		return OK(pos)
	}
	prev := doc.Block(pos.Block - 1)
	switch kind := model.Classify(prev); {
	case kind.IsTextblock():
		at := model.AppendInline(prev, model.ChildrenOf(block))
		doc.RemoveBlock(pos.Block)
		return OK(model.At(pos.Block-1, at))
	case kind.IsList():
		items := listItems(prev)
		if len(items) == 0 {
			return Fail("Cannot merge into an empty list")
		}
		last := items[len(items)-1]
		if hasNestedList(last) {
			return Fail("Cannot merge into a nested list")
		}
		at := model.AppendInline(last, model.ChildrenOf(block))
		doc.RemoveBlock(pos.Block)
		return OK(model.AtItem(pos.Block-1, len(items)-1, at))
	default:
		return Fail(fmt.Sprintf("Cannot merge into a %s", kind))
	}
}

func mergeForward(doc *model.Document, pos model.Position, block *html.Node) Result {
	next := doc.Block(pos.Block + 1)
	if next == nil {
		return OK(pos)
	}
	switch kind := model.Classify(next); {
	case kind.IsTextblock():
		model.AppendInline(block, model.ChildrenOf(next))
		doc.RemoveBlock(pos.Block + 1)
	case kind.IsList():
		items := listItems(next)
		if len(items) == 0 {
			return Fail("Cannot merge an empty list")
		}
		first := items[0]
		if hasNestedList(first) {
			return Fail("Cannot merge a nested list")
		}
		model.AppendInline(block, model.ChildrenOf(first))
		next.RemoveChild(first)
		if len(listItems(next)) == 0 {
			doc.RemoveBlock(pos.Block + 1)
		}
	default:
		return Fail(fmt.Sprintf("Cannot merge a %s", kind))
	}
	return OK(pos)
}

func splitItem(doc *model.Document, pos model.Position) Result {
	list := doc.Block(pos.Block)
	items := listItems(list)
	if pos.Item < 0 || pos.Item >= len(items) {
		return Fail("No list item at given position")
	}
	item := items[pos.Item]
	nested := nestedLists(item).Detach()
	next := model.NewElement(atom.Li)
	model.SetContent(next, model.SplitInline(item, pos.Offset))
	nested.AppendTo(next)
	model.InsertAfter(item, next)
	return OK(model.AtItem(pos.Block, pos.Item+1, 0)).WithHint(model.Classify(list))
}

// liftItem turns a list item into a paragraph placed after the list. Items
// following it move to a new list after the paragraph, and lists nested in
// the item become top-level blocks.
func liftItem(doc *model.Document, pos model.Position) Result {
	list := doc.Block(pos.Block)
	items := listItems(list)
	if pos.Item < 0 || pos.Item >= len(items) {
		return Fail("No list item at given position")
	}
	item := items[pos.Item]
	nested := nestedLists(item).Detach()
	para := model.NewElement(atom.P)
	model.SetContent(para, model.ChildrenOf(item))

	var rest *html.Node
	if pos.Item+1 < len(items) {
		rest = model.NewElement(model.TagAtom(list))
		model.Fragment(items[pos.Item+1:]).AppendTo(rest)
	}
	list.RemoveChild(item)

	index := pos.Block + 1
	if len(listItems(list)) == 0 {
		doc.RemoveBlock(pos.Block)
		index = pos.Block
	}
	blocks := append(model.Fragment{para}, nested...)
	if rest != nil {
		blocks = append(blocks, rest)
	}
	for i, b := range blocks {
		doc.InsertBlock(index+i, b)
	}
	return OK(model.At(index, 0)).WithHint(model.Paragraph)
}

// removeList drops a list and moves the caret to the end of the previous
// block. A paragraph takes the place of the list when nothing precedes it.
func removeList(doc *model.Document, index int) Result {
	doc.RemoveBlock(index)
	if index > 0 {
		return OK(EndOf(doc, index-1))
	}
	doc.InsertBlock(0, model.Placeholder())
	return OK(model.At(0, 0)).WithHint(model.Paragraph)
}

// EndOf is the last caret position of a block.
func EndOf(doc *model.Document, index int) model.Position {
	block := doc.Block(index)
	switch kind := model.Classify(block); {
	case kind == model.Gallery:
		return model.At(index, 0)
	case kind.IsList():
		items := listItems(block)
		if len(items) == 0 {
			return model.At(index, 0)
		}
		last := len(items) - 1
		return model.AtItem(index, last, model.ChildrenOf(items[last]).Size())
	}
	return model.At(index, model.ChildrenOf(block).Size())
}

func listItems(list *html.Node) []*html.Node {
	var items []*html.Node
	for child := list.FirstChild; child != nil; child = child.NextSibling {
		if model.TagAtom(child) == atom.Li {
			items = append(items, child)
		}
	}
	return items
}

func nestedLists(item *html.Node) model.Fragment {
	var lists model.Fragment
	for child := item.FirstChild; child != nil; child = child.NextSibling {
		if model.Classify(child).IsList() {
			lists = append(lists, child)
		}
	}
	return lists
}

func hasNestedList(item *html.Node) bool {
	return len(nestedLists(item)) > 0
}
