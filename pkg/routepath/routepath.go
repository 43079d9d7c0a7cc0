// Package routepath normalizes navigation paths before they reach the route
// matcher.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Path errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
	ErrOutsideBase          = errors.New("path is outside the basename")
)

// Location is a canonical navigation target.
type Location struct {
	// Path always starts with "/" and never ends with one, except for the root.
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Changed reports whether canonicalization rewrote the input path.
	Changed bool
}

// String returns the path with its query string.
func (l Location) String() string {
	if l.Query == "" {
		return l.Path
	}
	return l.Path + "?" + l.Query
}

// Parse canonicalizes a navigation target.
//
// Repeated slashes collapse, "." segments disappear, ".." pops a segment and a
// trailing slash is dropped. Absolute URLs, backslashes, NUL bytes, malformed
// percent escapes and ".." above the root are rejected. Fragments are discarded.
func Parse(input string) (Location, error) {
	if input == "" {
		return Location{Path: "/", Changed: true}, nil
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") || strings.HasPrefix(input, "//") {
		return Location{}, ErrInvalidPath
	}

	input, _, _ = strings.Cut(input, "#")
	raw, query, _ := strings.Cut(input, "?")

	if strings.Contains(raw, "\\") {
		return Location{}, ErrBackslashInPath
	}
	if strings.Contains(raw, "\x00") || strings.Contains(strings.ToUpper(raw), "%00") {
		return Location{}, ErrNullByteInPath
	}
	if strings.Contains(raw, "%") {
		if err := validateEscapes(raw); err != nil {
			return Location{}, err
		}
	}

	var out []string
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return Location{}, ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}

	p := "/" + strings.Join(out, "/")
	return Location{Path: p, Query: query, Changed: p != raw}, nil
}

// StripBase removes a basename prefix from a canonical path. A basename of ""
// or "/" leaves the path untouched.
func StripBase(path, base string) (string, error) {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path, nil
	}
	if path == base {
		return "/", nil
	}
	if !strings.HasPrefix(path, base+"/") {
		return "", ErrOutsideBase
	}
	return path[len(base):], nil
}

// JoinBase is the inverse of StripBase.
func JoinBase(path, base string) string {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path
	}
	if path == "/" {
		return base
	}
	return base + path
}

// Split returns the raw segments of a canonical path. The root yields nil.
func Split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Decode unescapes one path segment. Encoded slashes are refused so a single
// parameter can never span two segments.
func Decode(segment string) (string, error) {
	v, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if strings.Contains(v, "/") {
		return "", ErrInvalidPath
	}
	return v, nil
}

func validateEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
