package killboard

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidReference means the submitted URL is not a recognized killboard
// kill page. It is a pure validation failure with no side effects.
var ErrInvalidReference = errors.New("not a recognized killboard kill URL")

// killPathPattern matches a kill detail page path and captures the numeric
// record id. Profile pages (character, ship, corporation) do not match.
var killPathPattern = regexp.MustCompile(`^/kill/(\d+)/?$`)

// Resolver extracts kill record ids from pasted killboard URLs.
type Resolver struct {
	hosts map[string]bool
}

// NewResolver creates a resolver accepting the given killboard hosts.
func NewResolver(hosts []string) *Resolver {
	r := &Resolver{hosts: make(map[string]bool, len(hosts))}
	for _, h := range hosts {
		r.hosts[strings.ToLower(h)] = true
	}
	return r
}

// ResolveKillID derives the numeric record id from a kill page URL.
// Returns ErrInvalidReference for unrecognized hosts, non-kill pages and
// URLs containing no digits.
func (r *Resolver) ResolveKillID(rawURL string) (int64, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return 0, ErrInvalidReference
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return 0, ErrInvalidReference
	}

	if !r.hosts[strings.ToLower(u.Hostname())] {
		return 0, ErrInvalidReference
	}

	m := killPathPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return 0, ErrInvalidReference
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidReference
	}

	return id, nil
}

// NormalizeKillURL canonicalizes a kill URL for storage: lowercased host,
// https scheme, query/fragment stripped, trailing slash enforced. The
// normalized form backs the unique duplicate-claim constraint.
func NormalizeKillURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}

	path := u.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	return "https://" + strings.ToLower(u.Hostname()) + path
}
