package htmlfix

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

var defaultFixer = sync.OnceValue(func() *Fixer { return New() })

// SanitizeHTMLDocument fixes s using the default [Fixer]. See [Fixer.Fix].
func SanitizeHTMLDocument(s string) string {
	return defaultFixer().Fix(s)
}

// SanitizeHTMLDocumentPtr is like SanitizeHTMLDocument, but accepts a nil
// pointer, which is handled like an empty document.
func SanitizeHTMLDocumentPtr(s *string) string {
	if s == nil {
		return defaultFixer().Fix("")
	}
	return defaultFixer().Fix(*s)
}

// Fixer turns malformed HTML into well formed and safe documents. It holds
// nothing but configuration and is safe for concurrent use.
type Fixer struct {
	policy  *Policy
	anchors AnchorOptions
	logger  *slog.Logger
}

// Option configures a [Fixer].
type Option func(self *Fixer)

// New returns a Fixer configured by given options. By default it sanitizes
// with [DocumentPolicy] and replaces all link targets by the placeholder.
func New(opts ...Option) *Fixer {
	f := &Fixer{
		policy: DocumentPolicy(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range opts {
		fn(f)
	}

	if f.anchors.KeepValidURLs {
		// Kept link targets must pass the policy too.
		cond := SchemeIn(f.policy.AllowedURLSchemes()...)
		if f.anchors.Cond != nil {
			cond = And(cond, f.anchors.Cond)
		}
		f.anchors.Cond = cond
	}
	return f
}

// WithPolicy sets policy used by the sanitizer stage. A nil policy is ignored.
func WithPolicy(p *Policy) Option {
	return func(self *Fixer) {
		if p != nil {
			self.policy = p
		}
	}
}

// WithLogger sets logger for diagnostic messages. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(self *Fixer) {
		if l != nil {
			self.logger = l
		}
	}
}

// KeepValidURLs keeps link targets, which are valid absolute URLs, instead of
// replacing them by the placeholder.
func KeepValidURLs(keep bool) Option {
	return func(self *Fixer) { self.anchors.KeepValidURLs = keep }
}

// WithURLCond sets condition a valid link target must match to be kept. It
// has effect only together with KeepValidURLs(true).
func WithURLCond(cond URLCond) Option {
	return func(self *Fixer) { self.anchors.Cond = cond }
}

// Policy returns policy of the sanitizer stage.
func (self *Fixer) Policy() *Policy { return self.policy }

// KeepsValidURLs returns true if valid link targets are kept.
func (self *Fixer) KeepsValidURLs() bool { return self.anchors.KeepValidURLs }

// Fix runs s through the pipeline: empty hrefs are normalized, the markup is
// parsed and its structure repaired, anchors get safe targets, and the result
// is sanitized and cleaned up. It never fails and always returns a document
// like <html>...<body>...</body></html>.
func (self *Fixer) Fix(s string) string {
	normalized := NormalizeHrefs(s)
	doc, body := repair(normalized)
	replaced := NormalizeAnchors(body, self.anchors)
	fixed := render(doc)
	safe := self.policy.Sanitize(fixed)
	out := Cleanup(safe)

	self.logger.Debug("htmlfix: document fixed",
		slog.Int("input", len(s)),
		slog.Bool("hrefs_normalized", normalized != s),
		slog.Int("anchors_replaced", replaced),
		slog.Int("repaired", len(fixed)),
		slog.Int("sanitized", len(safe)),
		slog.Int("output", len(out)))
	return out
}

// FixBytes is like Fix, but for []byte. A nil slice is handled like an empty
// document.
func (self *Fixer) FixBytes(b []byte) []byte {
	return []byte(self.Fix(string(b)))
}

// FixReader reads whole r and fixes it. It returns an error only if reading
// fails.
func (self *Fixer) FixReader(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf(genericErrMsg, err)
	}
	return self.Fix(string(b)), nil
}
