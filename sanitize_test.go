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
	"sync"
	"testing"

	"github.com/aymerick/douceur/css"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test is a simple input vs output struct used to construct a slice of many
// tests to run within a single test method.
type test struct {
	in       string
	expected string
}

func TestEmpty(t *testing.T) {
	p := DocumentPolicy()
	assert.Empty(t, p.Sanitize(``))
	assert.Empty(t, (&Policy{}).Sanitize(``))
}

func TestSignatureBehaviour(t *testing.T) {
	p := DocumentPolicy()

	for _, input := range []string{"Hi.\n", "\t\n \n\t"} {
		assert.Equal(t, input, p.Sanitize(input))

		var b strings.Builder
		require.NoError(t, p.SanitizeReaderToWriter(strings.NewReader(input), &b))
		assert.Equal(t, input, b.String())
	}
}

func TestZeroPolicy(t *testing.T) {
	assert.Equal(t, "x", (&Policy{}).Sanitize(`<p class="a">x</p>`))
}

func TestDocumentPolicy(t *testing.T) {
	tests := []test{
		{
			in:       `<html><body><h1>Title</h1><p>Text</p></body></html>`,
			expected: `<html><body>Title<p>Text</p></body></html>`,
		},
		{
			in:       `<p onclick="x()" class="c">t</p>`,
			expected: `<p class="c">t</p>`,
		},
		{
			in:       `<script>alert(1)</script><p>x</p>`,
			expected: `<p>x</p>`,
		},
		{
			in:       `<a href="javascript:alert(1)">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="#">x</a>`,
			expected: `<a href="#">x</a>`,
		},
		{
			in:       `<a href="/rel?q=1&r=2">x</a>`,
			expected: `<a href="/rel?q=1&amp;r=2">x</a>`,
		},
		{
			in:       `<a href="https://example.com/" id="top">x</a>`,
			expected: `<a href="https://example.com/" id="top">x</a>`,
		},
		{
			in:       `<img src="image.png" onerror="x()">`,
			expected: `<img src="image.png">`,
		},
		{
			in:       `<img src="http://e.com/a.png"/>`,
			expected: `<img src="http://e.com/a.png">`,
		},
		{
			in:       `<img src="cid:logo" width="100%" height="big">`,
			expected: `<img src="cid:logo" width="100%">`,
		},
		{
			in:       `<p>Line 1<br/>Line 2</p><hr/>`,
			expected: `<p>Line 1<br>Line 2</p><hr>`,
		},
		{
			in:       `<table><tbody><tr><td colspan="2" bgcolor="red">x</td></tr></tbody></table>`,
			expected: `<table><tbody><tr><td colspan="2">x</td></tr></tbody></table>`,
		},
		{
			in:       `<td colspan="two">x</td>`,
			expected: `<td>x</td>`,
		},
		{
			in:       `<div><iframe src="x"><p>in</p></iframe>after</div>`,
			expected: `<div>after</div>`,
		},
		{
			in:       `<p>it's "quoted"</p>`,
			expected: `<p>it&#39;s &#34;quoted&#34;</p>`,
		},
		{
			in:       `<form action="/x"><input name="q"></form>`,
			expected: ``,
		},
		{
			in:       `<!DOCTYPE html><ul><li>One</li></ul>`,
			expected: `<ul><li>One</li></ul>`,
		},
	}

	p := DocumentPolicy()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Sanitize(tt.in))
		})
	}
}

func TestConcurrentSanitize(t *testing.T) {
	tests := []test{
		{in: `<p onclick="x()">a</p>`, expected: `<p>a</p>`},
		{in: `<b>b</b><script>x</script>`, expected: `<b>b</b>`},
		{in: `<em class="c">c</em>`, expected: `<em class="c">c</em>`},
		{in: `<h2>d</h2>`, expected: `d`},
	}

	p := DocumentPolicy()

	// These tests are run concurrently to enable the race detector to pick up
	// potential issues
	var wg sync.WaitGroup
	wg.Add(len(tests))
	for ii, tt := range tests {
		go func(ii int, tt test) {
			defer wg.Done()
			out := p.Sanitize(tt.in)
			if out != tt.expected {
				t.Errorf(
					"test %d failed;\ninput   : %s\noutput  : %s\nexpected: %s",
					ii,
					tt.in,
					out,
					tt.expected,
				)
			}
		}(ii, tt)
	}
	wg.Wait()
}

func TestStyling(t *testing.T) {
	tests := []test{
		{
			in:       `<span style="color: red; behavior: url(x.htc)">x</span>`,
			expected: `<span style="color: red">x</span>`,
		},
		{
			in:       `<span style="width: expression(alert(1))">x</span>`,
			expected: `<span>x</span>`,
		},
		{
			in:       `<span style="-moz-binding: url(x.xml)">x</span>`,
			expected: `<span>x</span>`,
		},
		{
			in:       `<p style="">x</p>`,
			expected: `<p>x</p>`,
		},
	}

	p := DocumentPolicy()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Sanitize(tt.in))
		})
	}

	out := p.Sanitize(`<p style="width: \65 xpression(alert(1))">x</p>`)
	assert.NotContains(t, out, "xpression")
	assert.Contains(t, out, ">x</p>")
}

func TestStyleElement(t *testing.T) {
	const input = `<style>@import url(evil.css);
p { color: red; width: expression(alert(1)) }</style>`

	out := DocumentPolicy().Sanitize(input)
	assert.True(t, strings.HasPrefix(out, "<style>"), out)
	assert.True(t, strings.HasSuffix(out, "</style>"), out)
	assert.Contains(t, out, "color")
	assert.Contains(t, out, "red")
	assert.NotContains(t, out, "expression")
	assert.NotContains(t, out, "@import")
}

func TestAllowUnsafeStyles(t *testing.T) {
	p := NewPolicy()
	p.AllowAttrs("style").OnElements("p")
	input := `<p style="width: expression(x)">x</p>`
	assert.Equal(t, `<p>x</p>`, p.Sanitize(input))

	p.AllowUnsafeStyles()
	assert.Equal(t, input, p.Sanitize(input))
}

func TestRemoveUnicode(t *testing.T) {
	s, err := removeUnicode(`\65 xpression`)
	require.NoError(t, err)
	assert.Equal(t, "expression", s)

	_, err = removeUnicode(`\d800`)
	require.Error(t, err)

	_, err = removeUnicode(`\1234567`)
	require.Error(t, err)

	assert.True(t, unsafeDeclaration(&css.Declaration{
		Property: "width",
		Value:    `\d800`,
	}))
	assert.True(t, unsafeDeclaration(&css.Declaration{
		Property: "-webkit-behavior",
		Value:    "url(x)",
	}))
	assert.False(t, unsafeDeclaration(&css.Declaration{
		Property: "color",
		Value:    "#fff",
	}))
}

func TestSrcSet(t *testing.T) {
	tests := []test{
		{
			in:       `<img srcset="a.png 1x, b.png 2x">`,
			expected: `<img srcset="a.png 1x, b.png 2x">`,
		},
		{
			in:       `<img srcset="a.png 480w,javascript:alert(1) 2x">`,
			expected: `<img srcset="a.png 480w">`,
		},
		{
			in:       `<img srcset="https://example.com/a.png">`,
			expected: `<img srcset="https://example.com/a.png">`,
		},
		{
			in:       `<img srcset="a.png big">`,
			expected: `<img>`,
		},
		{
			in:       `<img srcset="a.png 1x 2x, ,">`,
			expected: `<img>`,
		},
	}

	p := DocumentPolicy()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Sanitize(tt.in))
		})
	}
}

func TestSkipElementsContent(t *testing.T) {
	p := NewPolicy()
	input := "<tag>test</tag>"
	assert.Equal(t, "test", p.Sanitize(input))

	p.SkipElementsContent("TAG")
	assert.Empty(t, p.Sanitize(input))

	p.AllowElements("tag")
	assert.Equal(t, input, p.Sanitize(input))

	p = NewPolicy()
	assert.Empty(t, p.Sanitize(`<script>var a = 1;</script>`))
	p.AllowElementsContent("script")
	assert.Equal(t, "var a = 1;", p.Sanitize(`<script>var a = 1;</script>`))

	p = NewPolicy().AllowStandardURLs()
	input = `<iframe src="https://www.youtube.com/"><p>test</p></iframe>`
	assert.Empty(t, p.Sanitize(input))
	p.AllowAttrs("src").OnElements("iframe")
	assert.Equal(t, input, p.Sanitize(input))
}

func TestTagSkipClosingTagNested(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("tag2")
	assert.Equal(t, "<tag2>text</tag2>",
		p.Sanitize("<tag1><tag2><tag3>text</tag3></tag2></tag1>"))
}

func TestSkippedDepth(t *testing.T) {
	p := NewPolicy()
	p.AllowElements("p")

	tests := []test{
		{
			in:       `<p>a</p><svg><g><text>x</text></g></svg><p>b</p>`,
			expected: `<p>a</p><p>b</p>`,
		},
		{
			in:       `<p>a</p><svg><path d="x"/><g></g></svg><p>b</p>`,
			expected: `<p>a</p><p>b</p>`,
		},
		{
			in:       `<object><br>hidden</object>shown`,
			expected: `shown`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Sanitize(tt.in))
		})
	}
}

func TestComments(t *testing.T) {
	p := DocumentPolicy()
	assert.Equal(t, `1  3`, p.Sanitize(`1 <!-- 2 --> 3`))

	p.AllowComments()
	assert.Equal(t, `1 <!-- 2 --> 3`, p.Sanitize(`1 <!-- 2 --> 3`))
	assert.Equal(t, ``, p.Sanitize(`<script><!-- 2 --></script>`))
}

func TestWithValues(t *testing.T) {
	p := NewPolicy()

	p.AllowAttrs("one").WithValues("two").OnElements("tag")
	input := `<tag one="two">test</tag>`
	assert.Equal(t, input, p.Sanitize(input))

	input = `<tag one="TWO">test</tag>`
	assert.Equal(t, input, p.Sanitize(input))

	input = `<tag one="three">test</tag>`
	assert.Equal(t, "<tag>test</tag>", p.Sanitize(input))

	p.AllowAttrs("one").WithValues("two", "three").OnElements("tag")
	assert.Equal(t, input, p.Sanitize(input))
}

func TestMatching(t *testing.T) {
	p := NewPolicy()
	p.AllowAttrs("width").Matching(NumberOrPercent).OnElements("img")

	assert.Equal(t, `<img width="100%">`, p.Sanitize(`<img width="100%">`))
	assert.Equal(t, `<img>`, p.Sanitize(`<img width="wide">`))
	assert.Equal(t, `<img>`, p.Sanitize(`<IMG WIDTH="wide"/>`))
}

func TestURLSchemes(t *testing.T) {
	p := NewPolicy()
	p.AllowAttrs("href").OnElements("a")

	tests := []test{
		{
			in:       `<a href="http://example.com/">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="/path">x</a>`,
			expected: `<a href="/path">x</a>`,
		},
		{
			in:       `<a href="  #frag ">x</a>`,
			expected: `<a href="#frag">x</a>`,
		},
		{
			in:       `<a href="mailto:user@example.com">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="http://[::1">x</a>`,
			expected: `<a>x</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Sanitize(tt.in))
		})
	}

	p.AllowURLSchemes("HTTP")
	assert.Equal(t, `<a href="http://example.com/">x</a>`,
		p.Sanitize(`<a href="http://example.com/">x</a>`))
	assert.Equal(t, `<a>x</a>`, p.Sanitize(`<a href="https://example.com/">x</a>`))
}

func TestSanitizeReaderToWriter(t *testing.T) {
	var b strings.Builder
	require.NoError(t, DocumentPolicy().SanitizeReaderToWriter(
		strings.NewReader(`<p>x<h1>y</h1></p>`), &b))
	assert.Equal(t, `<p>xy</p>`, b.String())
}

func TestUnfilteredContent(t *testing.T) {
	for _, name := range []string{"script", "Script", "iframe", "noscript", "xmp"} {
		assert.True(t, UnfilteredContent(name), name)
	}
	for _, name := range []string{"style", "p", "textarea", "unknown", ""} {
		assert.False(t, UnfilteredContent(name), name)
	}
}

func TestAllowedElements(t *testing.T) {
	p := NewPolicy().AllowElements("B", "a")
	p.AllowAttrs("HREF").OnElements("a")

	assert.Equal(t, []string{"a", "b"}, p.AllowedElements())
	assert.Equal(t, []string{"href"}, p.AllowedElementAttrs("A"))
	assert.Empty(t, p.AllowedElementAttrs("b"))
	assert.Empty(t, p.AllowedElementAttrs("div"))
	assert.Empty(t, p.AllowedAttrs())

	d := DocumentPolicy()
	assert.Subset(t, d.AllowedElements(), []string{
		"html", "head", "title", "meta", "style", "body", "p", "a", "b", "i",
		"strong", "em", "ul", "li", "br", "span", "div", "table", "tbody", "tr",
		"td", "th", "img", "hr",
	})
	assert.Equal(t, []string{"class", "href", "id", "style"}, d.AllowedAttrs())
	assert.Contains(t, d.AllowedElementAttrs("img"), "src")
}
