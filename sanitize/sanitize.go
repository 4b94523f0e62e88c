// Package sanitize cleans arbitrary HTML (pasted content, stored documents)
// down to the tags and attributes the editor knows how to handle.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/helmgast/lore-editor/model"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var nbspRegexp = regexp.MustCompile(`\x{00A0}+`)

// A Sanitizer holds the compiled attribute policy. It is safe for concurrent
// use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New creates a Sanitizer for the editor whitelist.
func New() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(model.AllowedTags...)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class").Matching(model.VariantPattern).OnElements("img")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("mailto", "http", "https")
	p.AllowDataURIImages()
	return &Sanitizer{policy: p}
}

var (
	defaultSanitizer *Sanitizer
	defaultOnce      sync.Once
)

// Sanitize cleans an HTML fragment with the default Sanitizer.
func Sanitize(fragment string) string {
	defaultOnce.Do(func() {
		defaultSanitizer = New()
	})
	return defaultSanitizer.Sanitize(fragment)
}

// Sanitize cleans an HTML fragment. The result only holds whitelisted tags,
// has at least one block, and is left unchanged by a second call.
func (s *Sanitizer) Sanitize(fragment string) string {
	root, err := model.ParseFragment(fragment)
	if err != nil {
		return model.RenderNode(model.Placeholder())
	}
	if err := s.SanitizeNode(root); err != nil {
		return model.RenderNode(model.Placeholder())
	}
	return model.Render(root)
}

// SanitizeNode cleans the children of a container element in place.
func (s *Sanitizer) SanitizeNode(root *html.Node) error {
	aliasTags(root)
	breaksToSpaces(root)

	// The policy does not touch non-breaking spaces, so they are collapsed
	// on the way in.
	dirty := nbspRegexp.ReplaceAllString(model.Render(root), " ")
	clean, err := model.ParseFragment(s.policy.Sanitize(dirty))
	if err != nil {
		return fmt.Errorf("sanitize: %w", err)
	}

	unwrapInlineAroundBlocks(clean)
	removeBlankParagraphs(clean)
	dropBlankText(clean)
	removeEmpty(clean)
	wrapStrayInline(clean)
	model.Normalize(clean)

	for root.FirstChild != nil {
		root.RemoveChild(root.FirstChild)
	}
	model.MoveChildren(root, clean)
	(&model.Document{Root: root}).EnsureNotEmpty()
	return nil
}

// aliasTags renames tags that have a whitelisted equivalent, so that the
// policy keeps them instead of unwrapping them.
func aliasTags(root *html.Node) {
	var selectors []string
	for from := range model.TagAliases {
		selectors = append(selectors, from)
	}
	goquery.NewDocumentFromNode(root).Find(strings.Join(selectors, ", ")).Each(func(_ int, sel *goquery.Selection) {
		n := sel.Get(0)
		to := model.TagAliases[strings.ToLower(n.Data)]
		model.Rename(n, atom.Lookup([]byte(to)))
	})
}

// breaksToSpaces replaces line breaks, which the policy drops, by spaces so
// that the words around them stay apart.
func breaksToSpaces(root *html.Node) {
	for _, br := range goquery.NewDocumentFromNode(root).Find("br").Nodes {
		model.ReplaceNode(br, model.NewText(" "))
	}
}

// unwrapInlineAroundBlocks removes marks holding blocks, deepest first, so
// that the blocks are not wrapped into paragraphs with them.
func unwrapInlineAroundBlocks(root *html.Node) {
	all := goquery.NewDocumentFromNode(root).Find("a, strong, em").Nodes
	for i := len(all) - 1; i >= 0; i-- {
		sel := goquery.NewDocumentFromNode(all[i])
		holdsBlock := sel.Find("*").FilterFunction(func(_ int, c *goquery.Selection) bool {
			return !model.IsInline(c.Get(0))
		}).Length() > 0
		if holdsBlock && all[i].Parent != nil {
			sel.Contents().Unwrap()
		}
	}
}

func isBlank(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

func removeBlankParagraphs(root *html.Node) {
	goquery.NewDocumentFromNode(root).Find("p").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return model.IsEmpty(sel.Get(0))
	}).Remove()
}

// removeEmpty removes childless elements, except images, deepest first so
// that parents emptied along the way go too.
func removeEmpty(root *html.Node) {
	all := goquery.NewDocumentFromNode(root).Find("*").Nodes
	for i := len(all) - 1; i >= 0; i-- {
		n := all[i]
		if n.FirstChild == nil && model.TagAtom(n) != atom.Img && n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// dropBlankText removes whitespace-only text between list items.
func dropBlankText(root *html.Node) {
	goquery.NewDocumentFromNode(root).Find("ul, ol").Each(func(_ int, sel *goquery.Selection) {
		sel.Contents().FilterFunction(func(_ int, c *goquery.Selection) bool {
			return isBlank(c.Get(0))
		}).Remove()
	})
}

// wrapStrayInline wraps runs of top-level inline content into paragraphs.
// Runs made of whitespace only are dropped.
func wrapStrayInline(root *html.Node) {
	var run []*html.Node
	flush := func(before *html.Node) {
		defer func() { run = nil }()
		blank := true
		for _, n := range run {
			if !isBlank(n) {
				blank = false
			}
		}
		if blank {
			model.Fragment(run).Detach()
			return
		}
		para := model.NewElement(atom.P)
		root.InsertBefore(para, before)
		model.Fragment(run).AppendTo(para)
	}
	for child := root.FirstChild; child != nil; {
		next := child.NextSibling
		if model.IsInline(child) {
			run = append(run, child)
		} else if len(run) > 0 {
			flush(child)
		}
		child = next
	}
	if len(run) > 0 {
		flush(nil)
	}
}
