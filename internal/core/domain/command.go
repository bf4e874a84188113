package domain

import (
	"strings"
	"unicode"
)

const pathSeparator = "\x1f"

// Path addresses one registered handler: the command name followed by any
// subcommand group and subcommand names. Segments are always lowercase.
type Path struct {
	segments []string
}

// NewPath builds a path from the given segments, trimming and lowercasing each.
// Empty segments are dropped.
func NewPath(segments ...string) Path {
	p := Path{segments: make([]string, 0, len(segments))}
	for _, s := range segments {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		p.segments = append(p.segments, s)
	}

	return p
}

// PathFromName infers a path from a handler name by splitting on word-boundary
// separators, so "group_command" becomes ("group", "command").
func PathFromName(name string) Path {
	return NewPath(strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})...)
}

func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

func (p Path) Len() int {
	return len(p.segments)
}

func (p Path) IsZero() bool {
	return len(p.segments) == 0
}

// Append returns a new path with name added as the last segment.
func (p Path) Append(name string) Path {
	return NewPath(append(p.Segments(), name)...)
}

// Key returns a comparable representation suitable for map keys.
func (p Path) Key() string {
	return strings.Join(p.segments, pathSeparator)
}

func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}

	return true
}

func (p Path) String() string {
	return strings.Join(p.segments, " ")
}
