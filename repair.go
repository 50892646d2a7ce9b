package htmlfix

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Skeleton is the minimal document every output is wrapped into.
const Skeleton = "<html><body></body></html>"

// Repair parses possibly malformed markup into a document tree. It never
// fails. Unclosed and misnested tags are closed, tables get their implicit
// rows and bodies, and the tree is rooted at a single html element with a
// single body element holding all of the content.
func Repair(s string) *html.Node {
	doc, _ := repair(s)
	return doc
}

func repair(s string) (doc, body *html.Node) {
	if strings.TrimSpace(s) == "" {
		s = Skeleton
	}

	doc, err := html.Parse(strings.NewReader(closeDanglingTag(s)))
	if err != nil {
		// Only the reader can fail, and a strings.Reader doesn't.
		doc = &html.Node{Type: html.DocumentNode}
	}

	_, body = EnsureSkeleton(doc)
	return doc, body
}

// closeDanglingTag terminates a tag left open at the end of input, like
// `<a href='link'`. The tokenizer drops such tags completely.
func closeDanglingTag(s string) string {
	i := strings.LastIndexByte(s, '<')
	if i < 0 || strings.IndexByte(s[i:], '>') >= 0 {
		return s
	}

	name := strings.TrimPrefix(s[i+1:], "/")
	if name == "" || !asciiLetter(name[0]) {
		return s
	}

	tail := s[i:]
	switch {
	case strings.Count(tail, `"`)%2 == 1:
		s += `"`
	case strings.Count(tail, `'`)%2 == 1:
		s += `'`
	}
	return s + ">"
}

func asciiLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// EnsureSkeleton makes doc rooted at single html element, which contains at
// most one head and exactly one body. Missing elements are created. Top level
// nodes are moved into html, and everything in html except head and body is
// moved into body, preserving order. An empty head, doctype and top level
// comments are removed. It returns html and body elements.
func EnsureSkeleton(doc *html.Node) (root, body *html.Node) {
	for c := doc.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.DoctypeNode, html.CommentNode:
			doc.RemoveChild(c)
		case html.ElementNode:
			if root == nil && isElement(c, atom.Html) {
				root = c
			}
		}
		c = next
	}

	if root == nil {
		root = newElement(atom.Html)
		doc.InsertBefore(root, doc.FirstChild)
	}

	// Other top level nodes belong to html.
	for c := root.NextSibling; c != nil; {
		next := c.NextSibling
		doc.RemoveChild(c)
		root.AppendChild(c)
		c = next
	}
	first := root.FirstChild
	for c := doc.FirstChild; c != root; {
		next := c.NextSibling
		doc.RemoveChild(c)
		root.InsertBefore(c, first)
		c = next
	}

	body = relocateIntoBody(root)
	return root, body
}

func relocateIntoBody(root *html.Node) (body *html.Node) {
	var head *html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case head == nil && isElement(c, atom.Head):
			head = c
		case body == nil && isElement(c, atom.Body):
			body = c
		}
	}

	if body == nil {
		body = newElement(atom.Body)
		root.AppendChild(body)
	}

	if head != nil && blankNode(head) {
		root.RemoveChild(head)
		head = nil
	}

	var before []*html.Node
	afterBody := false
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		switch c {
		case head:
		case body:
			afterBody = true
		default:
			root.RemoveChild(c)
			if afterBody {
				body.AppendChild(c)
			} else {
				before = append(before, c)
			}
		}
		c = next
	}

	first := body.FirstChild
	for _, n := range before {
		body.InsertBefore(n, first)
	}
	return body
}

func isElement(n *html.Node, a atom.Atom) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return n.DataAtom == a || strings.EqualFold(n.Data, a.String())
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// blankNode returns true if n has nothing but whitespace inside.
func blankNode(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode || strings.TrimSpace(c.Data) != "" {
			return false
		}
	}
	return true
}

func render(doc *html.Node) string {
	var b strings.Builder
	// Render fails only for node types the parser never creates.
	_ = html.Render(&b, doc)
	return b.String()
}
