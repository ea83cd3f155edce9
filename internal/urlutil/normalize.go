// Package urlutil canonicalizes user-submitted addresses into the unique
// key stored for each page.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrInvalidURL reports that a submitted string is not a usable absolute URL.
var ErrInvalidURL = errors.New("invalid url")

// MaxLen bounds submitted input; anything longer is rejected before parsing.
const MaxLen = 255

// Normalize reduces a raw URL to its identity form: scheme plus authority,
// with path, query and fragment discarded. The scheme and host are kept
// exactly as typed, so normalizing an already-normalized URL returns it
// unchanged.
func Normalize(raw string) (string, error) {
	if raw == "" || len(raw) > MaxLen {
		return "", fmt.Errorf("%w: bad length", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: scheme and host are required", ErrInvalidURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
