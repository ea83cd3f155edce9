package urlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDropsPathQueryFragment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain host", "https://example.com", "https://example.com"},
		{"path and query", "https://Example.com/a/b?x=1#f", "https://Example.com"},
		{"trailing slash", "http://example.com/", "http://example.com"},
		{"explicit port kept", "http://example.com:8080/path", "http://example.com:8080"},
		{"userless authority", "https://sub.example.co.uk/deep/path?q=v", "https://sub.example.co.uk"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	raws := []string{
		"https://example.com/a/b?x=1#f",
		"http://example.com:3000/index.html",
		"https://Example.com",
	}
	for _, raw := range raws {
		once, err := Normalize(raw)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		require.Equal(t, once, twice)
	}
}

func TestNormalizeRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no scheme", "example.com"},
		{"bare words", "not a url"},
		{"path only", "/just/a/path"},
		{"scheme only", "https://"},
		{"too long", "https://" + strings.Repeat("a", MaxLen) + ".com"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(tt.raw)
			require.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}
