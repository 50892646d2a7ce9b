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
	"strings"
)

// Policy encapsulates the allowlist of HTML elements and attributes that will
// be applied to the sanitised HTML.
//
// A zero Policy allows nothing. Use NewPolicy() or DocumentPolicy() and the
// Allow* methods to build one. A built policy is safe for concurrent use by
// Sanitize, but must not be changed after first use.
type Policy struct {
	// Declares whether the maps have been initialized, used as a cheap check to
	// ensure that those using Policy{} directly won't cause nil pointer
	// exceptions
	initialized bool

	// When true, comments are written out.
	comments bool

	// When true, style attributes and style elements are written out as is.
	// Otherwise they are filtered declaration by declaration.
	unsafeStyles bool

	// map[htmlElementName]*element
	elements map[string]*element

	// map[htmlAttributeName][]*attrPolicy
	globalAttrs map[string][]*attrPolicy

	// Absolute URLs must belong to one of these schemes.
	urlSchemes map[string]struct{}

	skipContent map[string]struct{}
}

// init initializes the maps if this has not been done already
func (self *Policy) init() {
	if self.initialized {
		return
	}

	self.elements = make(map[string]*element)
	self.globalAttrs = make(map[string][]*attrPolicy)
	self.urlSchemes = make(map[string]struct{})
	self.skipContent = make(map[string]struct{})
	self.initialized = true
}

// NewPolicy returns a blank policy with nothing allowed or permitted, except
// that content of elements like <script> is skipped.
func NewPolicy() *Policy {
	p := new(Policy)
	p.addDefaultSkipElementContent()
	return p
}

// AllowElements will append HTML elements to the allowlist without applying an
// attribute policy to those elements (the elements are permitted
// sans-attributes).
func (self *Policy) AllowElements(names ...string) *Policy {
	self.init()
	for _, name := range names {
		self.allowElement(strings.ToLower(name))
	}
	return self
}

// SkipElementsContent adds the HTML elements whose content should be dropped
// together with the element, when the element itself is not allowed.
func (self *Policy) SkipElementsContent(names ...string) *Policy {
	self.init()
	for _, name := range names {
		self.skipContent[strings.ToLower(name)] = struct{}{}
	}
	return self
}

// AllowElementsContent marks the HTML elements whose content should be kept
// even if the element itself is not allowed.
func (self *Policy) AllowElementsContent(names ...string) *Policy {
	self.init()
	for _, name := range names {
		delete(self.skipContent, strings.ToLower(name))
	}
	return self
}

// AllowComments allows standard HTML comments.
func (self *Policy) AllowComments() *Policy {
	self.init()
	self.comments = true
	return self
}

// AllowUnsafeStyles disables filtering of style attributes and style elements.
func (self *Policy) AllowUnsafeStyles() *Policy {
	self.init()
	self.unsafeStyles = true
	return self
}

// AllowURLSchemes will append URL schemes to the allowlist. Relative URLs and
// fragments are always permitted.
func (self *Policy) AllowURLSchemes(schemes ...string) *Policy {
	self.init()
	for _, s := range schemes {
		self.urlSchemes[strings.ToLower(s)] = struct{}{}
	}
	return self
}

func (self *Policy) skippedContent(name string) bool {
	_, ok := self.skipContent[name]
	return ok
}
