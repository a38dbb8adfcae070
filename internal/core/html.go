package core

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrMalformedTemplate = errors.New("template has no <head> or <body>")

// InjectAssets adds a stylesheet link per style to <head> and a deferred script
// tag per script to the end of <body>.
func InjectAssets(document []byte, scripts []string, styles []string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	head := FindElement(doc, func(n *html.Node) bool { return n.DataAtom == atom.Head })
	body := FindElement(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body })
	if head == nil || body == nil {
		return nil, ErrMalformedTemplate
	}

	for _, href := range styles {
		head.AppendChild(&html.Node{
			Type:     html.ElementNode,
			Data:     "link",
			DataAtom: atom.Link,
			Attr: []html.Attribute{
				{Key: "rel", Val: "stylesheet"},
				{Key: "href", Val: href},
			},
		})
	}

	for _, src := range scripts {
		body.AppendChild(&html.Node{
			Type:     html.ElementNode,
			Data:     "script",
			DataAtom: atom.Script,
			Attr: []html.Attribute{
				{Key: "defer"},
				{Key: "src", Val: src},
			},
		})
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FindElement walks the tree depth-first and returns the first element match accepts.
func FindElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func FindElementByID(n *html.Node, id string) *html.Node {
	return FindElement(n, func(n *html.Node) bool {
		for _, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "id" && attr.Val == id {
				return true
			}
		}
		return false
	})
}

var htmlMinifier = newHTMLMinifier()

func newHTMLMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &minhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc("text/css", mincss.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), minjs.Minify)
	return m
}

// MinifyHTML drops comments and collapses whitespace, minifying inline styles and
// scripts on the way.
func MinifyHTML(document []byte) ([]byte, error) {
	out, err := htmlMinifier.Bytes("text/html", document)
	if err != nil {
		return nil, fmt.Errorf("failed to minify html: %w", err)
	}
	return out, nil
}
