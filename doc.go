/*
Package htmlfix normalizes malformed HTML fragments into well formed and safe
HTML documents, suitable for embedding in emails or web views.

Every document goes through the same pipeline:

 1. Empty and missing href values are replaced by "#" (NormalizeHrefs).
 2. The markup is parsed by the fault tolerant HTML5 tree builder, and the
    tree is rooted at single html element with single body (Repair).
 3. href of every anchor is resolved to either a valid absolute URL or the "#"
    placeholder (NormalizeAnchors).
 4. The repaired tree is serialized and filtered by an allowlist Policy, and
    the result is cleaned up (Policy.Sanitize, Cleanup).

The output always looks like <html>...<body>...</body></html>. The pipeline
never fails, whatever the input is:

	safe := htmlfix.SanitizeHTMLDocument(`<div><a href='link'>Click<div>More</div></div>`)
	// <html><body><div><a href="#">Click<div>More</div></a></div></body></html>

By default every link target becomes "#". Use KeepValidURLs to keep valid
absolute URLs:

	f := htmlfix.New(htmlfix.KeepValidURLs(true),
		htmlfix.WithURLCond(htmlfix.DomainIn("example.com")))
	safe := f.Fix(input)

# Policies

A Policy is built the same way as with bluemonday:

	p := htmlfix.NewPolicy()
	p.AllowElements("p", "b")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("width").Matching(htmlfix.NumberOrPercent).OnElements("img")

DocumentPolicy returns the policy used by default. A Policy must not be
changed after first use, but can be used concurrently.
*/
package htmlfix
