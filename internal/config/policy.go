package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dsh2dsh/htmlfix"
)

// GlobalAttrs is the key of PolicyFile.Attributes, which lists attributes
// allowed on every element.
const GlobalAttrs = "*"

// PolicyFile extends htmlfix.DocumentPolicy. It's loaded from YAML like:
//
//	elements: [h1, h2, blockquote]
//	attributes:
//	  "*": [title]
//	  td: [align]
//	skip_content: [button]
//	url_schemes: [ftp]
//	domains: [example.com]
//	keep_valid_urls: true
//
// Elements with unfiltered raw text content, like script or iframe, can't be
// allowed. Allowed style is filtered as CSS.
type PolicyFile struct {
	Elements      []string            `yaml:"elements"`
	Attributes    map[string][]string `yaml:"attributes"`
	SkipContent   []string            `yaml:"skip_content"`
	URLSchemes    []string            `yaml:"url_schemes"`
	Domains       []string            `yaml:"domains"`
	KeepValidURLs *bool               `yaml:"keep_valid_urls"`
}

// LoadPolicyFile reads and decodes YAML policy file. Unknown keys are errors.
// An empty file is an empty PolicyFile.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolicyFile, err)
	}

	pf := new(PolicyFile)
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w %q: %w", ErrPolicyFile, path, err)
	} else if err := pf.Validate(); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrPolicyFile, path, err)
	}
	return pf, nil
}

// Validate returns an error if the file allows an element like script or
// iframe, which content would be written unfiltered.
func (self *PolicyFile) Validate() error {
	var errs []error
	for _, name := range self.Elements {
		if htmlfix.UnfilteredContent(name) {
			errs = append(errs, fmt.Errorf("element %q: content isn't filtered", name))
		}
	}
	return errors.Join(errs...)
}

// Apply adds elements, attributes, skipped content and URL schemes of the
// file to p and returns it.
func (self *PolicyFile) Apply(p *htmlfix.Policy) *htmlfix.Policy {
	p.AllowElements(self.Elements...)
	for name, attrs := range self.Attributes {
		if len(attrs) == 0 {
			continue
		}
		if name == GlobalAttrs {
			p.AllowAttrs(attrs...).Globally()
		} else {
			p.AllowAttrs(attrs...).OnElements(name)
		}
	}
	p.SkipElementsContent(self.SkipContent...)
	p.AllowURLSchemes(self.URLSchemes...)
	return p
}

// Options returns options of htmlfix.Fixer, which apply the file on top of
// htmlfix.DocumentPolicy.
func (self *PolicyFile) Options() []htmlfix.Option {
	opts := []htmlfix.Option{
		htmlfix.WithPolicy(self.Apply(htmlfix.DocumentPolicy())),
	}
	if self.KeepValidURLs != nil {
		opts = append(opts, htmlfix.KeepValidURLs(*self.KeepValidURLs))
	}
	if len(self.Domains) > 0 {
		opts = append(opts, htmlfix.WithURLCond(htmlfix.DomainIn(self.Domains...)))
	}
	return opts
}
