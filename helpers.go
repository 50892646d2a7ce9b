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
	"regexp"
)

// A selection of regular expressions that can be used as .Matching() rules on
// HTML attributes.
var (
	// Integer describes whole positive integers (including 0) used in places
	// like td.colspan
	// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/td#attr-colspan
	Integer = regexp.MustCompile(`^[0-9]+$`)

	// SpaceSeparatedTokens is used in places like `a.rel` and the common attribute
	// `class` which both contain space delimited lists of data tokens
	// http://www.w3.org/TR/html-markup/datatypes.html#common.data.tokens-def
	// Regexp: \p{L} matches unicode letters, \p{N} matches unicode numbers
	SpaceSeparatedTokens = regexp.MustCompile(`^([\s\p{L}\p{N}_-]+)$`)

	// NumberOrPercent is used predominantly as units of measurement in width
	// and height attributes
	// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/img#attr-height
	NumberOrPercent = regexp.MustCompile(`^[0-9]+[%]?$`)

	// Paragraph of text in an attribute such as *.'title', img.alt, etc
	// https://developer.mozilla.org/en-US/docs/Web/HTML/Global_attributes#attr-title
	// Note that we are not allowing chars that could close tags like '>'
	Paragraph = regexp.MustCompile(`^[\p{L}\p{N}\s\-_',\[\]!\./\\\(\)]*$`)
)

var (
	// defSkipContent contains list of elements we should skip rendering the
	// character content of, if the element itself is not allowed. This is all
	// character data that the end user would not normally see. i.e. if we
	// exclude a <script> tag then we shouldn't render the JavaScript or
	// anything else until we encounter the closing </script> tag.
	defSkipContent = [...]string{
		"frame",
		"frameset",
		"iframe",
		"math",
		"noembed",
		"noframes",
		"noscript",
		"nostyle",
		"object",
		"script",
		"style",
		"svg",
		"template",
		"textarea",
		"title",
	}

	// defURLSchemes are schemes an absolute URL may use. "cid" references
	// inline parts of the same email message.
	defURLSchemes = [...]string{"http", "https", "mailto", "tel", "cid"}
)

// AllowTables enables table elements and the cell spanning attributes.
func (self *Policy) AllowTables() *Policy {
	self.AllowElements("table", "caption", "thead", "tbody", "tfoot", "tr",
		"col", "colgroup")
	self.AllowAttrs("colspan", "rowspan").Matching(Integer).OnElements("td", "th")
	self.AllowAttrs("span").Matching(Integer).OnElements("col", "colgroup")
	return self
}

// AllowImages enables the img element and some popular attributes. The src
// attribute is checked like any other URL attribute, and so is every URL of
// srcset.
func (self *Policy) AllowImages() *Policy {
	self.AllowAttrs("alt").Matching(Paragraph).OnElements("img")
	self.AllowAttrs("height", "width").Matching(NumberOrPercent).OnElements("img")
	self.AllowAttrs("src", "srcset").OnElements("img")
	return self
}

// AllowStandardURLs permits absolute URLs with mailto, tel, http, https and
// cid schemes.
func (self *Policy) AllowStandardURLs() *Policy {
	return self.AllowURLSchemes(defURLSchemes[:]...)
}

// addDefaultSkipElementContent adds the HTML elements that we should skip
// rendering the character content of, if the element itself is not allowed.
func (self *Policy) addDefaultSkipElementContent() {
	self.SkipElementsContent(defSkipContent[:]...)
}
