package router

import (
	"fmt"
	"strings"
)

// segment is one level of a parsed route path.
type segment struct {
	literal string // literal text, or "+" for an anonymous wildcard
	param   string // capture name for ":name" segments
	multi   bool   // trailing "#", matches the rest of the topic
}

// route is a parsed path plus the MQTT pattern it subscribes to.
type route struct {
	path     string
	pattern  string
	segments []segment
}

// parseRoute validates path and derives its subscription pattern.
// ":name" segments become "+", a trailing "#" is kept, and captures must
// span a whole segment.
func parseRoute(path string) (route, error) {
	if path == "" {
		return route{}, fmt.Errorf("%w: empty path", ErrInvalidRoute)
	}

	parts := strings.Split(path, "/")
	segments := make([]segment, 0, len(parts))
	pattern := make([]string, 0, len(parts))

	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return route{}, fmt.Errorf("%w: %q has an unnamed capture", ErrInvalidRoute, path)
			}
			if strings.ContainsAny(name, ":+#") {
				return route{}, fmt.Errorf("%w: %q has a malformed capture %q", ErrInvalidRoute, path, part)
			}
			segments = append(segments, segment{param: name})
			pattern = append(pattern, "+")

		case part == "#":
			if i != len(parts)-1 {
				return route{}, fmt.Errorf("%w: %q has # before the final segment", ErrInvalidRoute, path)
			}
			segments = append(segments, segment{multi: true})
			pattern = append(pattern, "#")

		case strings.ContainsAny(part, ":#"):
			return route{}, fmt.Errorf("%w: %q mixes wildcards into segment %q", ErrInvalidRoute, path, part)

		default:
			// "+" falls through as an anonymous single-level wildcard.
			segments = append(segments, segment{literal: part})
			pattern = append(pattern, part)
		}
	}

	return route{
		path:     path,
		pattern:  strings.Join(pattern, "/"),
		segments: segments,
	}, nil
}

// match tests topic against the route, returning the captured params.
// The map is nil when the route captures nothing.
func (r *route) match(topic string) (map[string]string, bool) {
	parts := strings.Split(topic, "/")

	var params map[string]string
	for i, seg := range r.segments {
		if seg.multi {
			// "#" also matches the parent level itself.
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch {
		case seg.param != "":
			if params == nil {
				params = make(map[string]string, len(r.segments)-i)
			}
			params[seg.param] = parts[i]
		case seg.literal == "+":
		case seg.literal != parts[i]:
			return nil, false
		}
	}
	if len(parts) != len(r.segments) {
		return nil, false
	}
	return params, true
}
