package htmlfix

import (
	"strconv"
	"strings"
)

// sanitizeSrcSet returns image candidates of srcset attribute, which have
// valid URL and either no descriptor or a width or density one. Returned empty
// string means srcset attribute should be removed.
// https://html.spec.whatwg.org/#parse-a-srcset-attribute
func (self *Policy) sanitizeSrcSet(attr string) string {
	var candidates []string
	for value := range strings.SplitSeq(attr, ",") {
		if s, ok := self.imageCandidate(value); ok {
			candidates = append(candidates, s)
		}
	}
	return strings.Join(candidates, ", ")
}

func (self *Policy) imageCandidate(value string) (string, bool) {
	fields := strings.Fields(value)
	switch {
	case len(fields) == 0 || len(fields) > 2:
		return "", false
	case len(fields) == 2 && !validWidthDensity(fields[1]):
		return "", false
	}

	u, ok := self.validURL(fields[0])
	if !ok {
		return "", false
	} else if len(fields) == 1 {
		return u, true
	}
	return u + " " + fields[1], true
}

func validWidthDensity(value string) bool {
	lastChar := value[len(value)-1]
	if lastChar != 'w' && lastChar != 'x' {
		return false
	}

	_, err := strconv.ParseFloat(value[:len(value)-1], 32)
	return err == nil
}
