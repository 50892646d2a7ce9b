package htmlfix

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tokenizer reads tokens of the markup one by one, like bufio.Scanner does.
// It reuses the same token for every Scan.
type tokenizer struct {
	z     *html.Tokenizer
	token token
	err   error
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{
		z: html.NewTokenizer(r),
		token: token{
			Token: html.Token{Attr: []html.Attribute{}},
			index: make(map[string]int),
		},
	}
}

// Scan advances to the next token, which will then be available through
// Token. It returns false at the end of the input or on error.
func (self *tokenizer) Scan() bool {
	t := &self.token
	t.Type = self.z.Next()
	t.Reset()
	if t.Type != html.ErrorToken {
		self.fill(t)
		return true
	}

	if err := self.z.Err(); !errors.Is(err, io.EOF) {
		self.err = fmt.Errorf(genericErrMsg, err)
	}
	return false
}

// Token returns the token read by the last Scan.
func (self *tokenizer) Token() *token { return &self.token }

// Err returns the first non-EOF error of the input.
func (self *tokenizer) Err() error { return self.err }

func (self *tokenizer) fill(t *token) {
	switch t.Type {
	case html.TextToken, html.CommentToken, html.DoctypeToken:
		t.Data = string(self.z.Text())
	case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
		name, moreAttr := self.z.TagName()
		for moreAttr {
			var key, val []byte
			key, val, moreAttr = self.z.TagAttr()
			t.Append(html.Attribute{Key: atom.String(key), Val: string(val)})
		}
		if a := atom.Lookup(name); a != 0 {
			t.DataAtom, t.Data = a, a.String()
		} else {
			t.DataAtom, t.Data = 0, string(name)
		}
	}
}
