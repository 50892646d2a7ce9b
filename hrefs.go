package htmlfix

import "regexp"

// Placeholder is the href value of a link, which target has been neutralized.
const Placeholder = "#"

// emptyHref matches href assignments with empty, whitespace only or missing
// value: href="", href=' ', href=>, href= at the end of input and href=
// followed by the next attribute, like href= class=x.
var emptyHref = regexp.MustCompile(
	`(?i)(^|[\s"'/])href\s*=\s*(?:"\s*"|'\s*'|(>|$|\s+[a-z_:][-\w:.]*\s*=))`)

// NormalizeHrefs replaces every href assignment with empty or missing value by
// href="#". It's a lexical pass over raw markup, which runs before anything
// is parsed.
func NormalizeHrefs(s string) string {
	return emptyHref.ReplaceAllString(s, `${1}href="`+Placeholder+`"${2}`)
}
