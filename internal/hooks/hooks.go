// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package hooks provides pluggable per-kind pipelines that run over
// entities before the manifest build and before creation calls.
// Three shapes exist and always run in this order: filters drop
// items, mappings rewrite mapped locations, transformers adjust item
// properties.
package hooks

import "github.com/sitelift/sitelift/internal/models"

// MappingContext carries one item's mapped location through the
// mapping hooks. Item is read-only for mappings; only Location may be
// rewritten.
type MappingContext[T any] struct {
	Item     T
	Location models.Location
}

// Filter decides whether an item migrates at all.
type Filter[T any] interface {
	ShouldMigrate(item T) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc[T any] func(item T) bool

// ShouldMigrate calls f.
func (f FilterFunc[T]) ShouldMigrate(item T) bool { return f(item) }

// Mapping rewrites where an item lands on the destination.
type Mapping[T any] interface {
	Map(ctx MappingContext[T]) MappingContext[T]
}

// MappingFunc adapts a function to Mapping.
type MappingFunc[T any] func(ctx MappingContext[T]) MappingContext[T]

// Map calls f.
func (f MappingFunc[T]) Map(ctx MappingContext[T]) MappingContext[T] { return f(ctx) }

// Transformer modifies an item's properties before creation.
type Transformer[T any] interface {
	Transform(item T) T
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc[T any] func(item T) T

// Transform calls f.
func (f TransformerFunc[T]) Transform(item T) T { return f(item) }

// Pipeline is an ordered hook set for one content kind.
type Pipeline[T any] struct {
	filters      []Filter[T]
	mappings     []Mapping[T]
	transformers []Transformer[T]
}

// NewPipeline returns an empty pipeline; every stage is optional.
func NewPipeline[T any]() *Pipeline[T] { return &Pipeline[T]{} }

// AddFilter appends a filter stage.
func (p *Pipeline[T]) AddFilter(f Filter[T]) *Pipeline[T] {
	p.filters = append(p.filters, f)
	return p
}

// AddMapping appends a mapping stage.
func (p *Pipeline[T]) AddMapping(m Mapping[T]) *Pipeline[T] {
	p.mappings = append(p.mappings, m)
	return p
}

// AddTransformer appends a transformer stage.
func (p *Pipeline[T]) AddTransformer(t Transformer[T]) *Pipeline[T] {
	p.transformers = append(p.transformers, t)
	return p
}

// ShouldMigrate reports whether every filter accepts the item.
func (p *Pipeline[T]) ShouldMigrate(item T) bool {
	for _, f := range p.filters {
		if !f.ShouldMigrate(item) {
			return false
		}
	}
	return true
}

// MapLocation threads the location through every mapping stage.
func (p *Pipeline[T]) MapLocation(item T, loc models.Location) models.Location {
	ctx := MappingContext[T]{Item: item, Location: loc}
	for _, m := range p.mappings {
		ctx = m.Map(ctx)
	}
	return ctx.Location
}

// Transform threads the item through every transformer stage.
func (p *Pipeline[T]) Transform(item T) T {
	for _, t := range p.transformers {
		item = t.Transform(item)
	}
	return item
}

// Apply runs the full pipeline over a slice: filters first, then
// transformers, preserving input order. Mapped locations are applied
// separately during the manifest build via MapLocation.
func (p *Pipeline[T]) Apply(items []T) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if !p.ShouldMigrate(item) {
			continue
		}
		kept = append(kept, p.Transform(item))
	}
	return kept
}
