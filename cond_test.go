package htmlfix

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainIn(t *testing.T) {
	tests := []struct {
		rawURL   string
		expected bool
	}{
		{rawURL: "https://example.com/", expected: true},
		{rawURL: "https://EXAMPLE.com/page", expected: true},
		{rawURL: "https://www.example.com/", expected: true},
		{rawURL: "https://example.org/", expected: true},
		{rawURL: "http://example.com:8080/", expected: true},
		{rawURL: "https://notexample.com/"},
		{rawURL: "https://example.com.evil.org/"},
		{rawURL: "mailto:user@example.com"},
	}

	cond := DomainIn("example.com", "Example.ORG")
	for _, tt := range tests {
		t.Run(tt.rawURL, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cond(u))
		})
	}
}

func TestSchemeIn(t *testing.T) {
	cond := SchemeIn("https", "MAILTO")

	for rawURL, expected := range map[string]bool{
		"https://example.com/":    true,
		"HTTPS://example.com/":    true,
		"mailto:user@example.com": true,
		"http://example.com/":     false,
		"ftp://example.com/":      false,
	} {
		u, err := url.Parse(rawURL)
		require.NoError(t, err)
		assert.Equal(t, expected, cond(u), rawURL)
	}
}

func TestAnd(t *testing.T) {
	u, err := url.Parse("http://example.com/")
	require.NoError(t, err)

	assert.True(t, And()(u))
	assert.True(t, And(DomainIn("example.com"))(u))
	assert.False(t, And(DomainIn("example.com"), SchemeIn("https"))(u))
	assert.True(t, And(DomainIn("example.com"), SchemeIn("http"))(u))
}
