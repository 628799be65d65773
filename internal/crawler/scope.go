package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Origin is the scheme and host of the seed URL. It defines the crawl scope
// and never changes during a crawl.
type Origin struct {
	// Scheme is the lowercase seed scheme, e.g. "http".
	Scheme string

	// Host is the seed authority including any port, e.g. "localhost:8080".
	Host string
}

// String returns the origin as "scheme://host".
func (o Origin) String() string {
	return o.Scheme + "://" + o.Host
}

// ParseOrigin extracts the origin of seed. It fails with ErrMalformedURL when
// seed is not an absolute URL with both scheme and host.
func ParseOrigin(seed string) (Origin, error) {
	u, err := url.Parse(strings.TrimSpace(seed))
	if err != nil {
		return Origin{}, fmt.Errorf("%w: %q: %w", ErrMalformedURL, seed, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Origin{}, fmt.Errorf("%w: %q", ErrMalformedURL, seed)
	}
	return Origin{
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Host),
	}, nil
}

// Resolve turns href, found on pageURL, into an absolute URL string.
// Absolute, path-relative and protocol-relative hrefs are handled. The host
// is lowercased and the fragment is removed so that "/a#x" and "/a#y" name
// the same store key.
// When either input cannot be parsed the trimmed href is returned as is.
func Resolve(href, pageURL string) string {
	href = strings.TrimSpace(href)

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}

	resolved := base.ResolveReference(ref)
	resolved.Host = strings.ToLower(resolved.Host)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String()
}

// Normalize returns the store key of an in-scope URL: the host is lowercased
// (port kept), an empty path on a hosted URL becomes "/" and the fragment is
// removed. "http://Host.example" and "http://host.example/#top" both become
// "http://host.example/". Unparseable input is returned trimmed but otherwise
// unchanged.
func Normalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Host = strings.ToLower(u.Host)
	if u.Host != "" && u.Opaque == "" && u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// Filter returns absURL unchanged when its host matches the origin host.
// The comparison is case-insensitive and includes the port.
func Filter(absURL string, origin Origin) (string, bool) {
	u, err := url.Parse(absURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	if !strings.EqualFold(u.Host, origin.Host) {
		return "", false
	}
	return absURL, true
}
