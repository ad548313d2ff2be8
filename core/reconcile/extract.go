package reconcile

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// FilterProperty is the property holding a secret's filter marker.
const FilterProperty = "fxa"

var (
	// UsernameProperties are checked in order for the login name.
	UsernameProperties = []string{"login", "username", "user"}

	// URLProperties are checked in order for the site URL.
	URLProperties = []string{"url", "uri", "website", "site", "link", "launch"}
)

var errNotAbsolute = errors.New("not an absolute url")

// defaultPorts are dropped from normalized URLs.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// Plaintext is a decrypted secret body: a password line followed by
// "key: value" property lines.
type Plaintext interface {
	// FirstLine returns the first line of the body.
	FirstLine() (string, bool)

	// Property returns the value of the first property named exactly name.
	Property(name string) (string, bool)
}

// Extract builds a LocalLogin from a secret name and its decrypted body.
//
// Errors matching IsSkippable mean the secret should be skipped. An
// *InvalidURLError or *UnknownFilterError means the store holds a bad entry and
// the run must stop.
func Extract(name string, body Plaintext) (LocalLogin, error) {
	password, ok := body.FirstLine()
	if !ok || password == "" {
		return LocalLogin{}, fmt.Errorf("%s: %w", name, ErrNoPassword)
	}

	login := LocalLogin{
		Name:     name,
		Password: password,
	}

	raw, ok := propertyAny(body, URLProperties)
	if !ok {
		parent := parentSegment(name)
		if parent == "" {
			return LocalLogin{}, fmt.Errorf("%s: %w", name, ErrNoHostname)
		}
		raw = "https://" + parent
	}
	u, err := ParseHostname(raw)
	if err != nil {
		return LocalLogin{}, &InvalidURLError{Secret: name, Value: raw, Err: err}
	}
	login.URL = u

	if username, ok := propertyAny(body, UsernameProperties); ok {
		login.Username = username
	} else {
		login.Username = path.Base(name)
	}

	if value, ok := body.Property(FilterProperty); ok {
		filter, err := ParseFilter(value)
		if err != nil {
			return LocalLogin{}, &UnknownFilterError{Secret: name, Value: value}
		}
		login.Filter = filter
	}

	return login, nil
}

// ParseHostname parses an absolute URL and normalizes it so that equal sites
// compare equal as strings: scheme and host are lowercased, the scheme's default
// port is dropped and a bare "/" path is dropped.
func ParseHostname(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errNotAbsolute
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if port := u.Port(); port == "" || port == defaultPorts[u.Scheme] {
		u.Host = joinHost(u.Hostname())
	}
	if u.Path == "/" && u.RawQuery == "" && u.Fragment == "" {
		u.Path = ""
		u.RawPath = ""
	}
	return u, nil
}

// joinHost restores the brackets Hostname strips from IPv6 literals.
func joinHost(host string) string {
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

// propertyAny returns the first present property among names, in order.
func propertyAny(body Plaintext, names []string) (string, bool) {
	for _, name := range names {
		if value, ok := body.Property(name); ok {
			return value, true
		}
	}
	return "", false
}

// parentSegment returns the immediate parent directory of a secret name, or ""
// for a secret at the top of the store.
func parentSegment(name string) string {
	dir := path.Dir(name)
	if dir == "." || dir == "/" {
		return ""
	}
	return path.Base(dir)
}
