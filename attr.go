package htmlfix

import (
	"regexp"
	"strings"
)

type attrPolicy struct {
	values map[string]struct{}

	// optional pattern to match, when not nil the regexp needs to match
	// otherwise the attribute is removed
	regexp *regexp.Regexp
}

func (self *attrPolicy) Match(value string) bool {
	if self.values != nil {
		if _, ok := self.values[strings.ToLower(value)]; ok {
			return true
		}
		if self.regexp == nil {
			return false
		}
	}

	if self.regexp != nil {
		return self.regexp.MatchString(value)
	}
	return true
}

// AttrPolicyBuilder collects a nascent attribute policy. It's added to the
// policy only when either Globally() or OnElements(...) are called.
type AttrPolicyBuilder struct {
	p *Policy

	attrNames []string
	regexp    *regexp.Regexp
	values    []string
}

// AllowAttrs takes a range of HTML attribute names and returns an attribute
// policy builder that allows you to specify the pattern and scope of the
// allowed attribute.
func (self *Policy) AllowAttrs(attrNames ...string) *AttrPolicyBuilder {
	self.init()

	abp := AttrPolicyBuilder{p: self}
	for _, name := range attrNames {
		abp.attrNames = append(abp.attrNames, strings.ToLower(name))
	}
	return &abp
}

// Matching allows a regular expression to be applied to a nascent attribute
// policy, and returns the attribute policy.
func (self *AttrPolicyBuilder) Matching(re *regexp.Regexp) *AttrPolicyBuilder {
	self.regexp = re
	return self
}

// WithValues allows given values (case insensitive) and returns the attribute
// policy.
func (self *AttrPolicyBuilder) WithValues(values ...string) *AttrPolicyBuilder {
	self.values = append(self.values, values...)
	return self
}

// OnElements will bind an attribute policy to a given range of HTML elements
// and return the updated policy. The elements become allowed too.
func (self *AttrPolicyBuilder) OnElements(elements ...string) *Policy {
	for _, name := range elements {
		name = strings.ToLower(name)
		self.p.allowElement(name)
		for _, attr := range self.attrNames {
			ap := self.attrPolicy()
			self.p.appendElement(name, attr, &ap)
		}
	}
	return self.p
}

// Globally will bind an attribute policy to all HTML elements and return the
// updated policy.
func (self *AttrPolicyBuilder) Globally() *Policy {
	for _, attr := range self.attrNames {
		ap := self.attrPolicy()
		self.p.globalAttrs[attr] = append(self.p.globalAttrs[attr], &ap)
	}
	return self.p
}

func (self *AttrPolicyBuilder) attrPolicy() attrPolicy {
	ap := attrPolicy{regexp: self.regexp}
	if len(self.values) > 0 {
		ap.values = make(map[string]struct{}, len(self.values))
		for _, v := range self.values {
			ap.values[strings.ToLower(v)] = struct{}{}
		}
	}
	return ap
}
