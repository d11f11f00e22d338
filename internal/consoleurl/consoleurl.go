// Package consoleurl parses the gns3+<scheme> URLs handed to the launcher by
// the web client into a structured request.
package consoleurl

import (
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"github.com/mfulz/gns3launch/internal/launcherr"
)

// Scheme is one of the supported URL schemes.
type Scheme string

const (
	SchemeTelnet Scheme = "gns3+telnet"
	SchemeVNC    Scheme = "gns3+vnc"
	SchemeSpice  Scheme = "gns3+spice"
	SchemePcap   Scheme = "gns3+pcap"
)

// Schemes lists the supported schemes in a stable order.
var Schemes = []Scheme{SchemeTelnet, SchemeVNC, SchemeSpice, SchemePcap}

// Protocol returns the scheme without the gns3+ prefix, e.g. "vnc".
func (s Scheme) Protocol() string {
	return strings.TrimPrefix(string(s), "gns3+")
}

// Valid reports whether s is a supported scheme.
func (s Scheme) Valid() bool {
	for _, known := range Schemes {
		if s == known {
			return true
		}
	}
	return false
}

// ParseScheme accepts either the full scheme ("gns3+vnc") or the bare
// protocol name ("vnc").
func ParseScheme(s string) (Scheme, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "gns3+") {
		s = "gns3+" + s
	}
	scheme := Scheme(s)
	return scheme, scheme.Valid()
}

// URL is a parsed console request.
type URL struct {
	Scheme Scheme
	Host   string
	Port   uint16
	// HasPort is false when the URL carries no port.
	HasPort bool
	Path    string
	Params  map[string]string

	raw string
}

// String returns the reconstructed URL used for the {url} placeholder.
func (u *URL) String() string {
	return u.raw
}

// PortString returns the port as a decimal string, or "" when absent.
func (u *URL) PortString() string {
	if !u.HasPort {
		return ""
	}
	return strconv.Itoa(int(u.Port))
}

// Param returns the named query parameter or def when it is missing.
func (u *URL) Param(name, def string) string {
	if v, ok := u.Params[name]; ok {
		return v
	}
	return def
}

// Parse parses raw into a URL. Unspecified hosts ("", 0.0.0.0, ::) are
// normalised to localhost. Ports outside [0,65535] and malformed query
// strings are rejected. When a query key repeats, its first value wins.
func Parse(raw string) (*URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, launcherr.Parse(err, "Cannot parse URL '%s'", raw)
	}

	scheme := Scheme(strings.ToLower(u.Scheme))
	if !scheme.Valid() {
		return nil, launcherr.Parse(nil, "Protocol not found or supported in URL '%s'", raw)
	}

	out := &URL{
		Scheme: scheme,
		Host:   normalizeHost(u.Hostname()),
		Path:   strings.TrimLeft(u.Path, "/"),
		Params: map[string]string{},
		raw:    u.String(),
	}

	if p := u.Port(); p != "" {
		port, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return nil, launcherr.Parse(err, "Cannot parse URL '%s': port out of range 0-65535", raw)
		}
		out.Port = uint16(port)
		out.HasPort = true
	}

	if u.RawQuery != "" {
		params, err := parseQuery(u.RawQuery)
		if err != nil {
			return nil, launcherr.Parse(err, "Cannot parse URL '%s'", raw)
		}
		out.Params = params
	}
	return out, nil
}

func normalizeHost(host string) string {
	if host == "" {
		return "localhost"
	}
	if addr, err := netip.ParseAddr(host); err == nil && addr.IsUnspecified() {
		return "localhost"
	}
	return strings.ToLower(host)
}

// parseQuery is a strict query parser: every '&' separated field must
// contain '=', blank values are kept and the first occurrence of a key wins.
func parseQuery(query string) (map[string]string, error) {
	params := map[string]string{}
	for _, field := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, &queryError{field: field}
		}
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		if _, seen := params[k]; !seen {
			params[k] = v
		}
	}
	return params, nil
}

type queryError struct {
	field string
}

func (e *queryError) Error() string {
	return "bad query field: '" + e.field + "'"
}
