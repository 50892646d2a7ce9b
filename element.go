package htmlfix

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

func (self *Policy) allowElement(name string) {
	if _, ok := self.elements[name]; !ok {
		self.elements[name] = &element{}
	}
}

func (self *Policy) appendElement(name, attr string, ap *attrPolicy) {
	el, ok := self.elements[name]
	if !ok {
		el = &element{}
		self.elements[name] = el
	}
	el.Append(attr, ap)
}

func (self *Policy) policies(name string) *element {
	return self.elements[name]
}

func (self *Policy) allowedElement(name string) bool {
	_, ok := self.elements[name]
	return ok
}

// AllowedElements returns sorted names of all elements permitted by the
// policy.
func (self *Policy) AllowedElements() []string {
	self.init()
	return slices.Sorted(maps.Keys(self.elements))
}

// AllowedAttrs returns sorted names of attributes permitted on every element.
func (self *Policy) AllowedAttrs() []string {
	self.init()
	return slices.Sorted(maps.Keys(self.globalAttrs))
}

// AllowedURLSchemes returns sorted URL schemes permitted in absolute URLs.
func (self *Policy) AllowedURLSchemes() []string {
	self.init()
	return slices.Sorted(maps.Keys(self.urlSchemes))
}

// AllowedElementAttrs returns sorted names of attributes permitted on given
// element in addition to global ones.
func (self *Policy) AllowedElementAttrs(name string) []string {
	self.init()
	el, ok := self.elements[strings.ToLower(name)]
	if !ok || el.attrs == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(el.attrs))
}

type element struct {
	attrs map[string][]*attrPolicy
}

func (self *element) Append(name string, ap *attrPolicy) {
	if self.attrs == nil {
		self.attrs = map[string][]*attrPolicy{name: {ap}}
		return
	}
	self.attrs[name] = append(self.attrs[name], ap)
}

func (self *element) Match(attr html.Attribute) bool {
	if self == nil || self.attrs == nil {
		return false
	}

	policies, ok := self.attrs[attr.Key]
	if !ok {
		return false
	}
	return matchAny(policies, attr.Val)
}

func matchAny(policies []*attrPolicy, value string) bool {
	for _, ap := range policies {
		if ap.Match(value) {
			return true
		}
	}
	return false
}
