// Copyright (c) 2014, David Kitchen <david@buro9.com>
//
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
//
// * Redistributions of source code must retain the above copyright notice, this
//   list of conditions and the following disclaimer.
//
// * Redistributions in binary form must reproduce the above copyright notice,
//   this list of conditions and the following disclaimer in the documentation
//   and/or other materials provided with the distribution.
//
// * Neither the name of the organisation (Microcosm) nor the names of its
//   contributors may be used to endorse or promote products derived from
//   this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
// FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
// DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
// CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
// OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package htmlfix

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const genericErrMsg = "htmlfix: %w"

// Sanitize takes a string that contains a HTML fragment or document and applies
// the given policy allowlist.
//
// It returns a HTML string that has been sanitized by the policy or an empty
// string if an error has occurred.
func (self *Policy) Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return self.sanitizeWithBuff(strings.NewReader(s)).String()
}

// SanitizeReaderToWriter takes an io.Reader that contains a HTML fragment or
// document and applies the given policy allowlist and writes to the provided
// writer returning an error if there is one.
func (self *Policy) SanitizeReaderToWriter(r io.Reader, w io.Writer) error {
	return self.sanitize(r, w)
}

func (self *Policy) sanitizeWithBuff(r io.Reader) *bytes.Buffer {
	buff := new(bytes.Buffer)
	if err := self.sanitize(r, buff); err != nil {
		return new(bytes.Buffer)
	}
	return buff
}

type stringWriter struct {
	io.Writer
}

var _ io.StringWriter = (*stringWriter)(nil)

func (a *stringWriter) WriteString(s string) (int, error) {
	return a.Write([]byte(s)) //nolint:wrapcheck // call forwarder
}

// sanitizer holds the state of one sanitize pass, so the policy itself stays
// read only.
type sanitizer struct {
	*Policy

	w io.StringWriter

	// Depth of nested elements inside of a skipped element.
	hidden int

	// Raw text element (like style) the next text token belongs to.
	rawText atom.Atom
}

func (self *Policy) sanitize(r io.Reader, w io.Writer) error {
	self.init()

	buff, ok := w.(io.StringWriter)
	if !ok {
		buff = &stringWriter{w}
	}
	s := sanitizer{Policy: self, w: buff}

	tz := newTokenizer(r)
	for tz.Scan() {
		if err := s.token(tz.Token()); err != nil {
			return err
		}
	}
	return tz.Err()
}

func (self *sanitizer) token(t *token) error {
	switch t.Type {
	case html.DoctypeToken:
		// DocType is not handled as there is no safe parsing mechanism
		// provided by golang.org/x/net/html for the content.

	case html.CommentToken:
		if self.hidden == 0 && self.comments {
			return self.write(t.String())
		}

	case html.StartTagToken, html.SelfClosingTagToken:
		return self.startTag(t)

	case html.EndTagToken:
		self.rawText = 0
		switch {
		case self.hidden > 0:
			self.hidden--
		case self.allowedElement(t.Data):
			return self.write(t.String())
		}

	case html.TextToken:
		rawText := self.rawText
		self.rawText = 0
		switch {
		case self.hidden > 0:
		case rawText == atom.Style:
			return self.write(self.sanitizeStylesheet(t.Data))
		case rawText != 0:
			// Allowed raw text elements other than style are written as is.
			return self.write(t.Data)
		default:
			return self.write(t.String())
		}
	}
	return nil
}

func (self *sanitizer) startTag(t *token) error {
	selfClosing := t.Type == html.SelfClosingTagToken || t.Void()
	if self.hidden > 0 {
		if !selfClosing {
			self.hidden++
		}
		return nil
	}

	if !self.allowedElement(t.Data) {
		if self.skippedContent(t.Data) && !selfClosing {
			self.hidden = 1
		}
		return nil
	}

	self.sanitizeAttrs(t, self.policies(t.Data))
	if !selfClosing && rawTextElement(t.DataAtom) {
		self.rawText = t.DataAtom
	}
	return self.write(t.String())
}

func rawTextElement(a atom.Atom) bool {
	switch a {
	case atom.Style, atom.Script, atom.Xmp, atom.Noembed, atom.Noframes,
		atom.Noscript, atom.Iframe, atom.Plaintext:
		return true
	}
	return false
}

// UnfilteredContent returns true if content of element name is raw text, which
// is written as is once the element is allowed. Content of style is raw text
// too, but it's filtered as CSS.
func UnfilteredContent(name string) bool {
	a := atom.Lookup([]byte(strings.ToLower(name)))
	return a != atom.Style && rawTextElement(a)
}

func (self *sanitizer) write(s string) error {
	if _, err := self.w.WriteString(s); err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}
	return nil
}

// sanitizeAttrs takes a set of element attribute policies and the global
// attribute policies and applies them to the []html.Attribute leaving only
// attributes that match the policies.
func (self *sanitizer) sanitizeAttrs(t *token, el *element) {
	attrs := t.Reset()
	for _, attr := range attrs {
		if !el.Match(attr) && !matchAny(self.globalAttrs[attr.Key], attr.Val) {
			continue
		}

		switch attr.Key {
		case "style":
			attr.Val = self.sanitizeStyleAttr(attr.Val)
			if attr.Val == "" {
				continue
			}
		case "srcset":
			attr.Val = self.sanitizeSrcSet(attr.Val)
			if attr.Val == "" {
				continue
			}
		case "href", "src", "cite", "action", "background", "poster":
			u, ok := self.validURL(attr.Val)
			if !ok {
				continue
			}
			attr.Val = u
		}
		t.Append(attr)
	}
}

// validURL returns normalized value of URL attribute and true, if it's
// parseable and either relative or belongs to an allowed scheme. A bare
// fragment like "#" is always valid.
func (self *Policy) validURL(rawurl string) (string, bool) {
	// URLs are valid if when space is trimmed the URL is valid
	rawurl = strings.TrimSpace(rawurl)
	if strings.HasPrefix(rawurl, "#") {
		return rawurl, true
	}

	u, err := url.Parse(rawurl)
	if err != nil {
		return "", false
	}

	if !u.IsAbs() {
		if u.Opaque != "" || (u.Host == "" && u.Path == "" && u.RawQuery == "") {
			return "", false
		}
		return u.String(), true
	}

	if _, ok := self.urlSchemes[strings.ToLower(u.Scheme)]; !ok {
		return "", false
	}
	return u.String(), true
}
