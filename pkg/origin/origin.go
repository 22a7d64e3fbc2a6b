// Package origin provides the web origin value a credentials container is
// bound to.
package origin

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalid = errors.New("origin: invalid origin")

// Origin is a web origin in the sense of RFC 6454. The zero value is the
// opaque origin. Origins are immutable values.
type Origin struct {
	scheme string
	host   string
	port   string
}

// Parse builds an Origin from a serialized origin like
// "https://login.example.com:8443". Path, query and fragment are not part
// of an origin and are rejected.
func Parse(s string) (Origin, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Origin{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return Origin{}, fmt.Errorf("%w: missing scheme or host in %q", ErrInvalid, s)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return Origin{}, fmt.Errorf("%w: %q is not a serialized origin", ErrInvalid, s)
	}

	return Origin{
		scheme: strings.ToLower(u.Scheme),
		host:   strings.ToLower(u.Hostname()),
		port:   u.Port(),
	}, nil
}

// MustParse is Parse for statically known origins; it panics on error.
func MustParse(s string) Origin {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return o
}

func (o Origin) Opaque() bool {
	return o.scheme == ""
}

// EffectiveDomain returns the origin's host.
// https://html.spec.whatwg.org/multipage/browsers.html#concept-origin-effective-domain
func (o Origin) EffectiveDomain() string {
	return o.host
}

// Serialized returns the ASCII serialization of the origin, "null" for the
// opaque origin. Default ports are omitted.
func (o Origin) Serialized() string {
	if o.Opaque() {
		return "null"
	}
	if o.port == "" || o.port == defaultPort(o.scheme) {
		return o.scheme + "://" + o.host
	}

	return o.scheme + "://" + o.host + ":" + o.port
}

func (o Origin) String() string {
	return o.Serialized()
}

func defaultPort(scheme string) string {
	switch scheme {
	case "http", "ws":
		return "80"
	case "https", "wss":
		return "443"
	}

	return ""
}
