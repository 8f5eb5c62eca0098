package contract

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidURI is returned when a string cannot be parsed as a resource identifier.
var ErrInvalidURI = errors.New("contract: invalid uri")

// URI is an immutable hierarchical resource identifier:
// scheme://authority/segment/segment?key=value.
//
// The zero value is an empty identifier that matches no route.
type URI struct {
	scheme    string
	authority string
	segments  []string
	query     url.Values
}

// NewURI builds an identifier from its parts. Segments are stored unescaped.
func NewURI(scheme, authority string, segments ...string) URI {
	return URI{
		scheme:    scheme,
		authority: authority,
		segments:  append([]string(nil), segments...),
	}
}

// ParseURI parses a raw identifier such as
// "content://com.example.android.sunshine.app/weather/94043?date=16436".
func ParseURI(raw string) (URI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return URI{}, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return URI{}, fmt.Errorf("%w: %q has no scheme or authority", ErrInvalidURI, raw)
	}

	var segments []string
	for _, s := range strings.Split(u.EscapedPath(), "/") {
		if s == "" {
			continue
		}
		unescaped, err := url.PathUnescape(s)
		if err != nil {
			return URI{}, fmt.Errorf("%w: segment %q: %w", ErrInvalidURI, s, err)
		}
		segments = append(segments, unescaped)
	}

	var query url.Values
	if u.RawQuery != "" {
		query = u.Query()
	}

	return URI{
		scheme:    u.Scheme,
		authority: u.Host,
		segments:  segments,
		query:     query,
	}, nil
}

// MustParseURI is like ParseURI but panics on error.
// It is intended for identifiers known at compile time.
func MustParseURI(raw string) URI {
	u, err := ParseURI(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// Scheme returns the identifier scheme (normally "content").
func (u URI) Scheme() string { return u.scheme }

// Authority returns the identifier authority.
func (u URI) Authority() string { return u.authority }

// PathSegments returns a copy of the decoded path segments.
func (u URI) PathSegments() []string {
	return append([]string(nil), u.segments...)
}

// Segment returns path segment i. It panics when the segment does not exist.
func (u URI) Segment(i int) string {
	if i < 0 || i >= len(u.segments) {
		panic(fmt.Sprintf("contract: %s has no path segment %d", u, i))
	}
	return u.segments[i]
}

// QueryParameter returns the first value of the named query parameter.
func (u URI) QueryParameter(name string) (string, bool) {
	if u.query == nil {
		return "", false
	}
	values, ok := u.query[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// AppendPath returns a new identifier with the given segments appended.
// Query parameters are dropped.
func (u URI) AppendPath(segments ...string) URI {
	out := URI{
		scheme:    u.scheme,
		authority: u.authority,
		segments:  make([]string, 0, len(u.segments)+len(segments)),
	}
	out.segments = append(out.segments, u.segments...)
	out.segments = append(out.segments, segments...)
	return out
}

// WithQueryParameter returns a new identifier with name set to value.
func (u URI) WithQueryParameter(name, value string) URI {
	out := u
	out.segments = append([]string(nil), u.segments...)
	out.query = url.Values{}
	for k, v := range u.query {
		out.query[k] = append([]string(nil), v...)
	}
	out.query.Set(name, value)
	return out
}

// WithoutQuery returns the identifier with all query parameters removed.
func (u URI) WithoutQuery() URI {
	return URI{
		scheme:    u.scheme,
		authority: u.authority,
		segments:  append([]string(nil), u.segments...),
	}
}

// WithAppendedID appends a numeric id segment to u.
func WithAppendedID(u URI, id int64) URI {
	return u.AppendPath(strconv.FormatInt(id, 10))
}

// IDFromURI parses the last path segment of u as a row id.
func IDFromURI(u URI) (int64, error) {
	if len(u.segments) == 0 {
		return 0, fmt.Errorf("%w: %s has no id segment", ErrInvalidURI, u)
	}
	id, err := strconv.ParseInt(u.segments[len(u.segments)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidURI, u, err)
	}
	return id, nil
}

// IsZero reports whether u is the empty identifier.
func (u URI) IsZero() bool {
	return u.scheme == "" && u.authority == "" && len(u.segments) == 0
}

// Equal reports whether u and other address the same resource,
// including query parameters.
func (u URI) Equal(other URI) bool {
	return u.String() == other.String()
}

// HasPrefix reports whether u lies at or below prefix in the identifier tree.
// Query parameters are ignored.
func (u URI) HasPrefix(prefix URI) bool {
	if u.scheme != prefix.scheme || u.authority != prefix.authority {
		return false
	}
	if len(prefix.segments) > len(u.segments) {
		return false
	}
	for i, s := range prefix.segments {
		if u.segments[i] != s {
			return false
		}
	}
	return true
}

// String renders the identifier with escaped segments and a sorted query.
func (u URI) String() string {
	var b strings.Builder
	b.WriteString(u.scheme)
	b.WriteString("://")
	b.WriteString(u.authority)
	for _, s := range u.segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	if len(u.query) > 0 {
		b.WriteByte('?')
		b.WriteString(u.query.Encode())
	}
	return b.String()
}
