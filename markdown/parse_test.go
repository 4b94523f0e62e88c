package markdown

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/helmgast/lore-editor/model"
	"github.com/helmgast/lore-editor/sanitize"
	"github.com/helmgast/lore-editor/test/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

var (
	doc        = builder.Doc
	blockquote = builder.Blockquote
	p          = builder.P
	h2         = builder.H2
	h3         = builder.H3
	h4         = builder.H4
	li         = builder.Li
	ol         = builder.Ol
	ul         = builder.Ul
	a          = builder.A
	em         = builder.Em
	strong     = builder.Strong
	img        = builder.Img
)

func gallery(layout model.Layout, refs ...model.ImageRef) *html.Node {
	n, err := model.BuildGallery(layout, refs)
	if err != nil {
		panic(err)
	}
	return n
}

func TestMarkdown(t *testing.T) {
	parse := func(text string, expected *model.Document) {
		t.Helper()
		actual, err := ParseMarkdown(goldmark.DefaultParser(), DefaultNodeMapper, []byte(text))
		require.NoError(t, err)
		require.Equal(t, expected.HTML(), actual.HTML(), "%s != %s", actual, expected)
	}

	serialize := func(d *model.Document, text string) {
		t.Helper()
		assert.Equal(t, text, DefaultSerializer.Serialize(d))
	}

	same := func(text string, d *model.Document) {
		t.Helper()
		parse(text, d)
		serialize(d, text)
	}

	// parses a paragraph
	same("hello!",
		doc(p("hello!")))

	// parses headings
	same("## one\n\n### two\n\n#### three\n\nfour",
		doc(h2("one"), h3("two"), h4("three"), p("four")))

	// folds other heading levels
	parse("# one\n\n##### five",
		doc(h2("one"), h4("five")))

	// parses quotes
	same("> once\n\n> twice",
		doc(blockquote("once"), blockquote("twice")))

	// splits a multi-paragraph quote
	parse("> one\n>\n> two",
		doc(blockquote("one"), blockquote("two")))

	// parses a bullet list
	same("- foo\n- bar",
		doc(ul(li("foo"), li("bar"))))

	// parses an ordered list
	same("1. one\n2. two",
		doc(ol(li("one"), li("two"))))

	// parses a nested list
	same("- foo\n  - bar\n- baz",
		doc(ul(li("foo", ul(li("bar"))), li("baz"))))

	// keeps adjacent lists apart
	same("- a\n\n* b\n\n- c",
		doc(ul(li("a")), ul(li("b")), ul(li("c"))))
	same("1. a\n\n1) b",
		doc(ol(li("a")), ol(li("b"))))

	// parses inline marks
	same("_em_ **strong** [link](http://x.org/a)",
		doc(p(em("em"), " ", strong("strong"), " ", a("http://x.org/a", "link"))))

	// expels whitespace from marks
	serialize(doc(p("a", em(" b "), "c")), "a _b_ c")

	// parses autolinks
	same("<http://example.com>",
		doc(p(a("http://example.com", "http://example.com"))))

	// escapes special characters
	same("\\*not em\\* 1. \\[x\\]",
		doc(p("*not em* 1. [x]")))
	same("\\# not a heading",
		doc(p("# not a heading")))
	same("fish \\& chips \\<b\\>",
		doc(p("fish & chips <b>")))

	// parses images with a variant
	same("![Alt|portrait](a.png)",
		doc(p(model.ImageRef{Src: "a.png", Alt: "Alt", Variant: "portrait"}.Node())))
	parse("![one|two words](a.png)",
		doc(p(img("a.png", "one|two words"))))

	// links around a single image export the image alone
	serialize(doc(p("see ", a("b.png", img("a.png", "A")))),
		"see ![A](a.png)")
	serialize(doc(p(a("b.png", "x ", img("a.png")))),
		"[x ![](a.png)](b.png)")

	// parses galleries
	same("- gallery-wide\n- ![A](a.png)\n- ![](b.png)",
		doc(gallery(model.LayoutWide, model.ImageRef{Src: "a.png", Alt: "A"}, model.ImageRef{Src: "b.png"})))
	parse("- gallery-card\n- [![x](a.png)](a.png)",
		doc(gallery(model.LayoutCard, model.ImageRef{Src: "a.png", Alt: "x"})))

	// drops a gallery without images
	parse("- gallery-side\n- no image\n\nafter",
		doc(p("after")))

	// keeps a list with an unknown layout
	parse("- gallery-huge\n- x",
		doc(ul(li("gallery-huge"), li("x"))))

	// a list after a gallery gets the other bullet
	serialize(doc(gallery(model.LayoutSide, model.ImageRef{Src: "a.png"}), ul(li("x"))),
		"- gallery-side\n- ![](a.png)\n\n* x")

	// folds unsupported blocks into paragraphs
	parse("```\ncode\n```",
		doc(p("code")))
	parse("a\n\n---\n\nb",
		doc(p("a"), p(), p("b")))
	parse("<div>\nhi\n</div>",
		doc(p("<div>\nhi\n</div>")))

	// keeps unsupported inline content as text
	parse("`code` span",
		doc(p("code span")))
	parse("a <span>b</span>",
		doc(p("a <span>b</span>")))

	// joins soft line breaks
	parse("one\ntwo",
		doc(p("one two")))

	// resolves character references
	parse("&amp; &#65;",
		doc(p("& A")))

	// an empty document gets a placeholder
	parse("",
		doc(p()))
}

func TestExportWhitespace(t *testing.T) {
	assert.Equal(t, "a b", Export(doc(p("a    b"))))
	assert.Equal(t, "one\n\ntwo", Export(doc(p("one"), p("   "), p("two"))))
	assert.Equal(t, "", Export(doc()))
}

func TestExportDisplayHTML(t *testing.T) {
	d := Import("![A|wide](a.png)")
	shown, err := model.ParseFragment(sanitize.Sanitize(d.DisplayHTML()))
	require.NoError(t, err)
	assert.Equal(t, "![A|wide](a.png)", Export(&model.Document{Root: shown}))
}

func TestImport(t *testing.T) {
	d := Import("## Title\n\nSome _text_.")
	assert.Equal(t, `heading-2("Title"), paragraph("Some text.")`, d.String())
}

var (
	plainWords   = []string{"alpha", "beta", "gamma", "delta", "lore", "rune", "sword", "tale"}
	specialWords = []string{"1.", "#tag", "a*b", "[x]", "<b>", "fish&chips", "-", "+", "x_y", "!bang", "`tick`", "~", "\\"}
)

func randomText(r *rand.Rand) []interface{} {
	var args []interface{}
	n := 1 + r.Intn(5)
	for i := 0; i < n; i++ {
		if i > 0 {
			args = append(args, " ")
		}
		word := plainWords[r.Intn(len(plainWords))]
		switch r.Intn(8) {
		case 0:
			args = append(args, em(word))
		case 1:
			args = append(args, strong(word))
		case 2:
			args = append(args, a("http://example.com/"+word, word))
		case 3:
			args = append(args, specialWords[r.Intn(len(specialWords))])
		default:
			args = append(args, word)
		}
	}
	return args
}

func randomItems(r *rand.Rand) []interface{} {
	var items []interface{}
	for i := 0; i <= r.Intn(4); i++ {
		items = append(items, li(randomText(r)...))
	}
	return items
}

func randomDoc(r *rand.Rand) *model.Document {
	var blocks []interface{}
	for i := 0; i <= r.Intn(8); i++ {
		switch r.Intn(8) {
		case 0:
			blocks = append(blocks, h2(randomText(r)...))
		case 1:
			blocks = append(blocks, h3(randomText(r)...))
		case 2:
			blocks = append(blocks, h4(randomText(r)...))
		case 3:
			blocks = append(blocks, blockquote(randomText(r)...))
		case 4:
			blocks = append(blocks, ul(randomItems(r)...))
		case 5:
			blocks = append(blocks, ol(randomItems(r)...))
		case 6:
			var refs []model.ImageRef
			for j := 0; j <= r.Intn(3); j++ {
				refs = append(refs, model.ImageRef{Src: fmt.Sprintf("img/%d.png", j), Alt: plainWords[j]})
			}
			blocks = append(blocks, gallery(model.Layouts[r.Intn(len(model.Layouts))], refs...))
		default:
			blocks = append(blocks, p(randomText(r)...))
		}
	}
	return doc(blocks...)
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		original := randomDoc(r)
		text := Export(original)
		back := Import(text)
		if !assert.True(t, model.Equivalent(original, back), "round trip %d\n%s\n--- markdown ---\n%s\n--- back ---\n%s", i, original, text, back) {
			return
		}
		// exporting again is stable
		assert.Equal(t, text, Export(back))
	}
}

func TestEscRoundTrip(t *testing.T) {
	for _, word := range specialWords {
		text := strings.Join([]string{word, "in", word}, " ")
		back := Import(Export(doc(p(text))))
		assert.Equal(t, text, model.TextContent(back.Block(0)), "word %q", word)
	}
}
