// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package hooks

import (
	"strings"

	"github.com/sitelift/sitelift/internal/models"
)

// RemapRule rewrites a top-level path segment. A rule whose source
// segment matches segment[0] replaces it with the destination
// segments, which may be more than one (segment insertion).
type RemapRule struct {
	Source      string
	Destination []string
}

// ProjectRemapper returns a mapping that applies the first matching
// rule to the location's leading segment. The separator is preserved;
// unmatched locations pass through untouched.
func ProjectRemapper[T any](rules []RemapRule) Mapping[T] {
	return MappingFunc[T](func(ctx MappingContext[T]) MappingContext[T] {
		segments := ctx.Location.PathSegments
		if len(segments) == 0 {
			return ctx
		}
		for _, rule := range rules {
			if segments[0] != rule.Source {
				continue
			}
			rewritten := make([]string, 0, len(rule.Destination)+len(segments)-1)
			rewritten = append(rewritten, rule.Destination...)
			rewritten = append(rewritten, segments[1:]...)
			ctx.Location = models.NewLocation(ctx.Location.PathSeparator, rewritten...)
			return ctx
		}
		return ctx
	})
}

// TagFilter keeps only items carrying the tag. The labels accessor
// decouples the filter from any one entity shape. An empty tag keeps
// everything.
func TagFilter[T any](tag string, labels func(T) []string) Filter[T] {
	return FilterFunc[T](func(item T) bool {
		if tag == "" {
			return true
		}
		for _, label := range labels(item) {
			if strings.EqualFold(label, tag) {
				return true
			}
		}
		return false
	})
}

// UserAllowList keeps only users whose name appears in the list. An
// empty list keeps everyone.
func UserAllowList(names []string) Filter[models.User] {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[strings.ToLower(name)] = struct{}{}
	}
	return FilterFunc[models.User](func(u models.User) bool {
		if len(allowed) == 0 {
			return true
		}
		_, ok := allowed[strings.ToLower(u.Name)]
		return ok
	})
}

// SkipProjects drops projects whose name is listed.
func SkipProjects(names []string) Filter[models.Project] {
	skipped := make(map[string]struct{}, len(names))
	for _, name := range names {
		skipped[name] = struct{}{}
	}
	return FilterFunc[models.Project](func(p models.Project) bool {
		_, ok := skipped[p.Name]
		return !ok
	})
}

// ShowHiddenViews clears the hidden flag so sheet views excluded from
// tabs still migrate as addressable views.
func ShowHiddenViews() Transformer[models.View] {
	return TransformerFunc[models.View](func(v models.View) models.View {
		v.Hidden = false
		return v
	})
}
