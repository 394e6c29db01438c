// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package models

import "strings"

// Path separators. Content uses forward slashes; principals (users and
// groups) use backslashes with the identity domain as the first
// segment. These match the separators the SDK manifest serializes.
const (
	ContentSeparator   = "/"
	PrincipalSeparator = `\`
)

// Location is a hierarchical address for an entity on a site: an
// ordered list of name segments plus the separator used to join them.
// For content, segment[0] is a top-level project; for principals,
// segment[0] is the domain.
//
// Locations are value types; methods never mutate the receiver.
// The JSON field names follow the SDK manifest format.
type Location struct {
	PathSegments  []string `json:"PathSegments"`
	PathSeparator string   `json:"PathSeparator"`
	Path          string   `json:"Path"`
}

// NewLocation builds a Location from segments, computing the joined
// path. The segments slice is copied.
func NewLocation(separator string, segments ...string) Location {
	segs := make([]string, len(segments))
	copy(segs, segments)
	return Location{
		PathSegments:  segs,
		PathSeparator: separator,
		Path:          strings.Join(segs, separator),
	}
}

// ContentLocation builds a slash-separated content location.
func ContentLocation(segments ...string) Location {
	return NewLocation(ContentSeparator, segments...)
}

// PrincipalLocation builds a backslash-separated principal location
// rooted at the given domain.
func PrincipalLocation(domain, name string) Location {
	return NewLocation(PrincipalSeparator, domain, name)
}

// Append returns a new Location with extra segments added.
func (l Location) Append(segments ...string) Location {
	combined := make([]string, 0, len(l.PathSegments)+len(segments))
	combined = append(combined, l.PathSegments...)
	combined = append(combined, segments...)
	return NewLocation(l.PathSeparator, combined...)
}

// Name returns the final segment, or "" for an empty location.
func (l Location) Name() string {
	if len(l.PathSegments) == 0 {
		return ""
	}
	return l.PathSegments[len(l.PathSegments)-1]
}

// Parent returns the location with the final segment removed.
// The parent of an empty or single-segment location is empty.
func (l Location) Parent() Location {
	if len(l.PathSegments) <= 1 {
		return NewLocation(l.PathSeparator)
	}
	return NewLocation(l.PathSeparator, l.PathSegments[:len(l.PathSegments)-1]...)
}

// Equal reports whether two locations address the same place:
// same separator and same segments in the same order.
func (l Location) Equal(other Location) bool {
	if l.PathSeparator != other.PathSeparator ||
		len(l.PathSegments) != len(other.PathSegments) {
		return false
	}
	for i, seg := range l.PathSegments {
		if other.PathSegments[i] != seg {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the location has no segments.
func (l Location) IsEmpty() bool { return len(l.PathSegments) == 0 }

// Normalize recomputes the joined Path from segments and separator.
// Use after deserializing a location whose Path column may be stale.
func (l Location) Normalize() Location {
	return NewLocation(l.PathSeparator, l.PathSegments...)
}

// String returns the joined path.
func (l Location) String() string { return l.Path }
