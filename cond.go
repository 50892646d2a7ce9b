package htmlfix

import (
	"net/url"
	"strings"
)

// URLCond is a condition, which decides whether a valid link target may be
// kept. See [WithURLCond].
type URLCond func(u *url.URL) bool

// DomainIn checks that hostname of the URL is one of given domains or their
// subdomain.
func DomainIn(domains ...string) URLCond {
	return func(u *url.URL) bool {
		hostname := strings.ToLower(u.Hostname())
		for _, s := range domains {
			s = strings.ToLower(s)
			if s == hostname {
				return true
			}

			before, ok := strings.CutSuffix(hostname, s)
			if ok && strings.HasSuffix(before, ".") {
				return true
			}
		}
		return false
	}
}

// SchemeIn checks that scheme of the URL is one of given schemes.
func SchemeIn(schemes ...string) URLCond {
	return func(u *url.URL) bool {
		for _, s := range schemes {
			if strings.EqualFold(s, u.Scheme) {
				return true
			}
		}
		return false
	}
}

// And combines conditions, which all must be true.
func And(conds ...URLCond) URLCond {
	return func(u *url.URL) bool {
		for _, cond := range conds {
			if !cond(u) {
				return false
			}
		}
		return true
	}
}
