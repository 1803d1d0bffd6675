// Package icecast holds helpers for addressing Icecast servers.
package icecast

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	scheme = "http://"

	// maxPortDigits matches the widest representable port, 65535.
	maxPortDigits = 5
)

// URL identifies a stream mount on an Icecast server.
type URL struct {
	Host  string
	Port  uint16
	Mount string
}

// ParseURL extracts host, port and mount from a URL of the restricted
// form http://host:port/mount. No other scheme is accepted, and there
// is no userinfo, query, fragment or IPv6 bracket handling. The mount
// includes the leading slash and may be just "/".
func ParseURL(rawurl string) (*URL, error) {
	if !strings.HasPrefix(rawurl, scheme) {
		return nil, errors.New("invalid URL: not an HTTP address")
	}

	rest := rawurl[len(scheme):]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return nil, errors.New("invalid URL: missing port")
	}
	if colon == 0 {
		return nil, errors.New("invalid URL: missing host")
	}
	host := rest[:colon]

	rest = rest[colon+1:]
	slash := strings.IndexByte(rest, '/')
	if slash < 0 || slash > maxPortDigits {
		return nil, errors.New("invalid URL: mountpoint missing, or port number too long")
	}

	port, err := parsePort(rest[:slash])
	if err != nil {
		return nil, err
	}

	return &URL{Host: host, Port: port, Mount: rest[slash:]}, nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	switch {
	case err != nil:
		return 0, errors.Errorf("invalid URL: port: %s is invalid", s)
	case n < 1:
		return 0, errors.Errorf("invalid URL: port: %s is too small", s)
	case n > 65535:
		return 0, errors.Errorf("invalid URL: port: %s is too large", s)
	}
	return uint16(n), nil
}
