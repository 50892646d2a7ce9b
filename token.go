package htmlfix

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type token struct {
	html.Token

	index map[string]int
}

func (self *token) Append(attr html.Attribute) *html.Attribute {
	if i, ok := self.index[attr.Key]; ok {
		// Duplicated name, last write wins.
		self.Attr[i].Val = attr.Val
		return &self.Attr[i]
	}

	i := len(self.Attr)
	self.index[attr.Key] = i
	self.Attr = append(self.Attr, attr)
	return &self.Attr[i]
}

func (self *token) Ref(key string) *html.Attribute {
	if i, ok := self.index[key]; ok {
		return &self.Attr[i]
	}
	return nil
}

func (self *token) Reset() []html.Attribute {
	attrs := self.Attr
	self.Attr = make([]html.Attribute, 0, len(attrs))
	clear(self.index)
	return attrs
}

func (self *token) Void() bool { return voidElement(self.DataAtom) }

// String renders the token the way an HTML serializer would: void elements
// never carry the XML-style self-closing slash.
func (self *token) String() string {
	switch self.Type {
	case html.SelfClosingTagToken:
		t := self.Token
		t.Type = html.StartTagToken
		if self.Void() {
			return t.String()
		}
		end := html.Token{Type: html.EndTagToken, Data: t.Data}
		return t.String() + end.String()
	}
	return self.Token.String()
}

func voidElement(a atom.Atom) bool {
	switch a {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}
