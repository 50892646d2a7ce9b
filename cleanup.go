package htmlfix

import (
	"regexp"
	"strings"
)

var (
	htmlOpenTag    = regexp.MustCompile(`(?i)<html[\s>]`)
	bodyOpenTag    = regexp.MustCompile(`(?i)<body[\s>]`)
	emptyParagraph = regexp.MustCompile(`(?i)<p>\s*</p>`)
	emptyHead      = regexp.MustCompile(`(?i)<head>\s*</head>`)

	placeholderHrefs = strings.NewReplacer(
		`href=""`, `href="#"`,
		`href=''`, `href="#"`,
		`href='#'`, `href="#"`,
	)
)

// Cleanup makes sure sanitized markup is wrapped into <html> and <body> and
// then runs final lexical passes over it: empty href values become "#",
// empty paragraphs and an empty head are removed.
func Cleanup(s string) string {
	s = ensureMarkers(s)
	s = placeholderHrefs.Replace(s)
	s = emptyParagraph.ReplaceAllString(s, "")
	return emptyHead.ReplaceAllString(s, "")
}

func ensureMarkers(s string) string {
	if !htmlOpenTag.MatchString(s) {
		s = "<html>" + s + "</html>"
	}
	if bodyOpenTag.MatchString(s) {
		return s
	}

	loc := htmlOpenTag.FindStringIndex(s)
	start := loc[0] + strings.IndexByte(s[loc[0]:], '>') + 1
	end := strings.LastIndex(strings.ToLower(s), "</html>")
	if end < start {
		end = len(s)
	}
	return s[:start] + "<body>" + s[start:end] + "</body>" + s[end:]
}
