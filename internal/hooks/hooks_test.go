// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package hooks

import (
	"reflect"
	"testing"

	"github.com/sitelift/sitelift/internal/models"
)

func TestProjectRemapperRewritesLeadingSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []RemapRule
		in    models.Location
		want  []string
	}{
		{
			name:  "simple substitution",
			rules: []RemapRule{{Source: "Staging", Destination: []string{"Production"}}},
			in:    models.ContentLocation("Staging", "Sales", "Overview"),
			want:  []string{"Production", "Sales", "Overview"},
		},
		{
			name:  "segment insertion",
			rules: []RemapRule{{Source: "Finance", Destination: []string{"Migrated", "Finance"}}},
			in:    models.ContentLocation("Finance", "Ledger"),
			want:  []string{"Migrated", "Finance", "Ledger"},
		},
		{
			name:  "no rule matches",
			rules: []RemapRule{{Source: "Staging", Destination: []string{"Production"}}},
			in:    models.ContentLocation("Finance", "Ledger"),
			want:  []string{"Finance", "Ledger"},
		},
		{
			name:  "first matching rule wins",
			rules: []RemapRule{{Source: "A", Destination: []string{"B"}}, {Source: "A", Destination: []string{"C"}}},
			in:    models.ContentLocation("A"),
			want:  []string{"B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			remapper := ProjectRemapper[models.Workbook](tt.rules)
			out := remapper.Map(MappingContext[models.Workbook]{Location: tt.in})
			if !reflect.DeepEqual(out.Location.PathSegments, tt.want) {
				t.Errorf("segments = %v, want %v", out.Location.PathSegments, tt.want)
			}
			if out.Location.PathSeparator != tt.in.PathSeparator {
				t.Errorf("separator changed to %q", out.Location.PathSeparator)
			}
		})
	}
}

func TestTagFilter(t *testing.T) {
	t.Parallel()

	labels := func(w models.Workbook) []string { return w.Tags.Labels() }
	tagged := models.Workbook{Tags: models.Tags{Tag: []models.Tag{{Label: "Migrate"}}}}
	untagged := models.Workbook{Name: "plain"}

	filter := TagFilter("migrate", labels)
	if !filter.ShouldMigrate(tagged) {
		t.Error("tag match is case-insensitive and should pass")
	}
	if filter.ShouldMigrate(untagged) {
		t.Error("untagged workbook passed a tag filter")
	}
	if !TagFilter("", labels).ShouldMigrate(untagged) {
		t.Error("empty tag must keep everything")
	}
}

func TestUserAllowList(t *testing.T) {
	t.Parallel()

	filter := UserAllowList([]string{"Amara", "birgit"})
	if !filter.ShouldMigrate(models.User{Name: "amara"}) {
		t.Error("listed user (case-insensitive) was dropped")
	}
	if filter.ShouldMigrate(models.User{Name: "mallory"}) {
		t.Error("unlisted user passed")
	}
	if !UserAllowList(nil).ShouldMigrate(models.User{Name: "anyone"}) {
		t.Error("empty allow list must keep everyone")
	}
}

func TestPipelineOrderAndApply(t *testing.T) {
	t.Parallel()

	p := NewPipeline[models.View]().
		AddFilter(FilterFunc[models.View](func(v models.View) bool { return v.Name != "Scratch" })).
		AddTransformer(ShowHiddenViews())

	in := []models.View{
		{Name: "Summary", Hidden: true},
		{Name: "Scratch"},
		{Name: "Detail"},
	}
	out := p.Apply(in)

	if len(out) != 2 {
		t.Fatalf("Apply() kept %d views, want 2", len(out))
	}
	if out[0].Name != "Summary" || out[1].Name != "Detail" {
		t.Errorf("Apply() reordered items: %+v", out)
	}
	if out[0].Hidden {
		t.Error("transformer did not clear the hidden flag")
	}
}

func TestPipelineMapLocationThreadsStages(t *testing.T) {
	t.Parallel()

	p := NewPipeline[models.Project]().
		AddMapping(ProjectRemapper[models.Project]([]RemapRule{{Source: "Old", Destination: []string{"New"}}})).
		AddMapping(MappingFunc[models.Project](func(ctx MappingContext[models.Project]) MappingContext[models.Project] {
			ctx.Location = ctx.Location.Append("Suffix")
			return ctx
		}))

	got := p.MapLocation(models.Project{}, models.ContentLocation("Old", "Thing"))
	want := []string{"New", "Thing", "Suffix"}
	if !reflect.DeepEqual(got.PathSegments, want) {
		t.Errorf("MapLocation() = %v, want %v", got.PathSegments, want)
	}
}

func TestSkipProjects(t *testing.T) {
	t.Parallel()

	filter := SkipProjects([]string{"Archive"})
	if filter.ShouldMigrate(models.Project{Name: "Archive"}) {
		t.Error("skipped project passed")
	}
	if !filter.ShouldMigrate(models.Project{Name: "Finance"}) {
		t.Error("unlisted project dropped")
	}
}
