package htmlfix

// DocumentPolicy returns the policy applied to whole documents by a Fixer.
//
// It permits the document structure (html, head, title, meta, style, body),
// basic text formatting (p, a, b, i, strong, em, ul, li, br, span, div) and
// href, class, id, style attributes on all of them. Tables, images and
// horizontal rules are kept as well, because email layouts are built with
// them.
func DocumentPolicy() *Policy {
	p := NewPolicy()

	p.AllowElements("html", "head", "title", "meta", "style", "body")
	p.AllowElements("p", "a", "b", "i", "strong", "em", "ul", "li", "br",
		"span", "div")
	p.AllowAttrs("href", "class", "id", "style").Globally()

	p.AllowTables()
	p.AllowImages()
	p.AllowElements("hr")

	p.AllowStandardURLs()
	return p
}
