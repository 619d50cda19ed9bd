package urlparser

import (
	"errors"
	"net/url"
	"strings"
)

var ErrBadPath = errors.New("wrong url format")

// Wildcard matches any single non-empty segment in a pattern.
const Wildcard = "*"

type PathParams struct {
	Segments []string
}

// ParsePath splits a request path into unescaped segments.
func ParsePath(path string) (PathParams, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return PathParams{}, nil
	}

	parts := strings.Split(trimmed, "/")
	params := PathParams{Segments: make([]string, 0, len(parts))}

	for _, part := range parts {
		segment, err := url.PathUnescape(part)
		if err != nil || segment == "" {
			return PathParams{}, ErrBadPath
		}
		params.Segments = append(params.Segments, segment)
	}

	return params, nil
}

// Match compares the segments with a slash separated pattern. The values
// matched by wildcards are returned in order.
func (p PathParams) Match(pattern string) ([]string, bool) {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	if pattern == "" || pattern == "/" {
		want = nil
	}
	if len(want) != len(p.Segments) {
		return nil, false
	}

	var values []string
	for i, w := range want {
		switch {
		case w == Wildcard:
			values = append(values, p.Segments[i])
		case w != p.Segments[i]:
			return nil, false
		}
	}
	return values, true
}
