package sanitize

import (
	"testing"

	"github.com/helmgast/lore-editor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var inputs = []string{
	"",
	"plain text",
	"<div>Hello <b>world</b></div>",
	"<h1>Title</h1><h5>small</h5>",
	`<p style="color:red" class="x">a<span>b</span></p>`,
	"<p>a\u00a0\u00a0b</p><p>&nbsp;</p>",
	"<p>a</p><script>alert(1)</script>",
	`<a href="javascript:alert(1)">x</a>`,
	`<p><img src="a.png" alt="A" class="wide" onclick="x()"></p>`,
	`<img src="b.png" class="bad class!">`,
	"<p>  </p><ul><li></li></ul>",
	"<ul>\n <li>a</li>\n</ul>",
	"<ul>\n</ul><p>x</p>",
	"<p>one</p> loose <em>words</em> <h2>two</h2>",
	"<table><tr><td>cell</td></tr></table>",
	"<blockquote><p>nested</p></blockquote>",
	`<ul class="gallery gallery-wide" contenteditable="false"><li class="hide">gallery-wide</li><li class="gallery-item" title="A"><img src="a.png" alt="A"></li></ul>`,
	`<p><strong></strong><em> </em></p>`,
	`<p><a href="http://x">a</a><a href="http://x">b</a></p>`,
	`<img src="data:image/png;base64,iVBORw0KGgo=">`,
	"<em><p>x</p></em>",
	"<strong>a<ul><li><em><h2>b</h2></em></li></ul></strong>",
	"<p>a<br>b<br/></p>",
}

func TestSanitize(t *testing.T) {
	same := func(input, expected string) {
		t.Helper()
		assert.Equal(t, expected, Sanitize(input), "input: %q", input)
	}

	// empty content gets a placeholder
	same("", "<p></p>")
	same("<p>  </p><ul><li></li></ul>", "<p></p>")

	// aliases are renamed, not unwrapped
	same("<div>Hello <b>world</b></div>", "<p>Hello <strong>world</strong></p>")
	same("<h1>Title</h1><i>x</i>", "<h2>Title</h2><p><em>x</em></p>")

	// other tags are unwrapped and their attributes stripped
	same("<h1>Title</h1><h5>small</h5>", "<h2>Title</h2><p>small</p>")
	same(`<p style="color:red" class="x">a<span>b</span></p>`, "<p>ab</p>")

	// non-breaking space runs collapse
	same("<p>a\u00a0\u00a0b</p>", "<p>a b</p>")
	same("<p>a&nbsp;&nbsp;&nbsp;b</p>", "<p>a b</p>")

	// scripts are dropped along with their content
	same("<p>a</p><script>alert(1)</script>", "<p>a</p>")

	// dangerous links lose their anchor
	same(`<a href="javascript:alert(1)">x</a>`, "<p>x</p>")
	same(`<p><a href="page.html">rel</a> <a href="mailto:a@b.c">mail</a></p>`,
		`<p><a href="page.html">rel</a> <a href="mailto:a@b.c">mail</a></p>`)

	// images keep source, alt and a variant class
	same(`<p><img src="a.png" alt="A" class="wide" onclick="x()"></p>`, `<p><img src="a.png" alt="A" class="wide"/></p>`)
	same(`<img src="b.png" class="bad class!">`, `<p><img src="b.png"/></p>`)

	// blank text between list items goes
	same("<ul>\n <li>a</li>\n</ul>", "<ul><li>a</li></ul>")
	same("<ul>\n</ul><p>x</p>", "<p>x</p>")

	// stray inline content is wrapped
	same("<p>one</p> loose <em>words</em> <h2>two</h2>", "<p>one</p><p> loose <em>words</em> </p><h2>two</h2>")

	// empty inline elements disappear
	same(`<p>x<strong></strong></p>`, "<p>x</p>")

	// adjacent identical links merge
	same(`<p><a href="http://x">a</a><a href="http://x">b</a></p>`, `<p><a href="http://x">ab</a></p>`)

	// marks around blocks are unwrapped
	same("<em><p>x</p></em>", "<p>x</p>")
	same("<p><em>a</em></p><em><h2>b</h2>c</em>", "<p><em>a</em></p><h2>b</h2><p>c</p>")

	// line breaks become spaces
	same("<p>a<br>b</p>", "<p>a b</p>")

	// gallery decoration is stripped, the structure stays
	same(inputs[16], `<ul><li>gallery-wide</li><li><img src="a.png" alt="A"/></li></ul>`)
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), "input: %q", input)
	}
}

func TestSanitizeWhitelist(t *testing.T) {
	allowedAttrs := map[string][]string{
		"a":   {"href"},
		"img": {"src", "alt", "class"},
	}
	for _, input := range inputs {
		root, err := model.ParseFragment(Sanitize(input))
		require.NoError(t, err)
		assert.NotNil(t, root.FirstChild, "input: %q", input)

		var check func(n *html.Node)
		check = func(n *html.Node) {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode {
					assert.True(t, model.IsAllowed(c), "tag %s from %q", c.Data, input)
					for _, attr := range c.Attr {
						assert.Contains(t, allowedAttrs[c.Data], attr.Key, "attribute of %s from %q", c.Data, input)
					}
				}
				check(c)
			}
		}
		check(root)
	}
}

func TestSanitizeNode(t *testing.T) {
	root, err := model.ParseFragment("<div>a</div><font>b</font>")
	require.NoError(t, err)
	require.NoError(t, New().SanitizeNode(root))
	assert.Equal(t, "<p>a</p><p>b</p>", model.Render(root))
}
