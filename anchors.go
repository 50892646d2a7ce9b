package htmlfix

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AnchorOptions configures how NormalizeAnchors resolves link targets.
type AnchorOptions struct {
	// KeepValidURLs keeps href values passing ValidURL. By default every href
	// is replaced by the placeholder.
	KeepValidURLs bool

	// Cond, if not nil, must also accept a valid URL for it to be kept.
	Cond URLCond
}

// NormalizeAnchors resolves href attribute of every anchor inside of n, in
// document order, to either a valid absolute URL or the placeholder. It
// returns the number of anchors, which href has been replaced by the
// placeholder.
func NormalizeAnchors(n *html.Node, opts AnchorOptions) (replaced int) {
	for _, a := range anchors(n) {
		href, ok := attrValue(a, "href")
		resolved := opts.resolve(href, ok)
		if resolved == Placeholder && href != Placeholder {
			replaced++
		}
		setAttr(a, "href", resolved)
	}
	return replaced
}

func (self *AnchorOptions) resolve(href string, ok bool) string {
	switch {
	case !ok || strings.TrimSpace(href) == "":
		return Placeholder
	case hasSchemePrefix(href, "javascript:"):
		return Placeholder
	}

	u, valid := parseValidURL(href)
	switch {
	case !valid:
		return Placeholder
	case !self.KeepValidURLs:
		return Placeholder
	case self.Cond != nil && !self.Cond(u):
		return Placeholder
	}
	return u.String()
}

// ValidURL returns true if s, after trimming, is not empty, doesn't start with
// javascript: or data: and parses as an absolute URL.
func ValidURL(s string) bool {
	_, ok := parseValidURL(s)
	return ok
}

func parseValidURL(s string) (*url.URL, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, false
	case hasSchemePrefix(s, "javascript:"), hasSchemePrefix(s, "data:"):
		return nil, false
	}

	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return nil, false
	} else if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return nil, false
	}
	return u, true
}

func hasSchemePrefix(s, scheme string) bool {
	s = strings.TrimLeft(s, " \t\n\f\r")
	return len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme)
}

func anchors(n *html.Node) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isElement(n, atom.A) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func attrValue(n *html.Node, key string) (val string, ok bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			// Last write wins.
			val, ok = a.Val, true
		}
	}
	return val, ok
}

func setAttr(n *html.Node, key, val string) {
	var found bool
	for i := range n.Attr {
		if a := &n.Attr[i]; a.Namespace == "" && a.Key == key {
			a.Val, found = val, true
		}
	}
	if !found {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	}
}
