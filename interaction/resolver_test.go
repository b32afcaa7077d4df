package interaction

import (
	"errors"
	"testing"

	"github.com/lixenwraith/timeforge/core"
)

func newDefaultResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultTable())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestResolvePicksFirstHit(t *testing.T) {
	r := newDefaultResolver(t)

	tests := []struct {
		name     string
		hits     []Hit
		wantKind TargetKind
		wantRes  core.ResourceType
		wantID   string
	}{
		{"empty", nil, TargetNone, 0, ""},
		{"island", []Hit{{"island.forest", 2}}, TargetResource, core.ResourceWood, "island.forest"},
		{"center", []Hit{{"center", 1}}, TargetUpgrade, 0, "center"},
		{"nearest wins", []Hit{{"island.stone", 1}, {"center", 3}}, TargetResource, core.ResourceStone, "island.stone"},
		// Order is trusted, not re-sorted by distance
		{"no resort", []Hit{{"center", 9}, {"island.metal", 1}}, TargetUpgrade, 0, "center"},
		{"unmapped nearest", []Hit{{"skybox", 0.5}, {"island.food", 2}}, TargetNone, 0, "skybox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(Pointer{X: 3, Y: 4}, tt.hits)
			if res.Target.Kind != tt.wantKind {
				t.Errorf("kind %v, want %v", res.Target.Kind, tt.wantKind)
			}
			if tt.wantKind == TargetResource && res.Target.Resource != tt.wantRes {
				t.Errorf("resource %v, want %v", res.Target.Resource, tt.wantRes)
			}
			if res.TargetID != tt.wantID {
				t.Errorf("id %q, want %q", res.TargetID, tt.wantID)
			}
			if res.Resolved() != (tt.wantKind != TargetNone) {
				t.Errorf("Resolved() = %v", res.Resolved())
			}
			if res.Pointer != (Pointer{3, 4}) {
				t.Errorf("pointer not carried: %+v", res.Pointer)
			}
		})
	}
}

func TestNewResolverRejectsBadTables(t *testing.T) {
	tests := []struct {
		name  string
		table map[string]Target
	}{
		{"empty", map[string]Target{}},
		{"blank id", map[string]Target{" ": UpgradeTarget()}},
		{"unknown resource", map[string]Target{"x": ResourceTarget(core.ResourceCount)}},
		{"none kind", map[string]Target{"x": {Kind: TargetNone}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewResolver(tt.table); !errors.Is(err, ErrInvalidTarget) {
				t.Errorf("expected ErrInvalidTarget, got %v", err)
			}
		})
	}
}

func TestResolverCopiesTable(t *testing.T) {
	table := DefaultTable()
	r, err := NewResolver(table)
	if err != nil {
		t.Fatal(err)
	}
	delete(table, "center")

	if _, ok := r.Lookup("center"); !ok {
		t.Error("resolver must not alias the caller's map")
	}
	ids := r.IDs()
	if len(ids) != 5 || ids[0] != "center" {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable("a=Metal, b = wood ,c=upgrade,,")
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if table["a"] != ResourceTarget(core.ResourceMetal) ||
		table["b"] != ResourceTarget(core.ResourceWood) ||
		table["c"] != UpgradeTarget() {
		t.Errorf("unexpected table %v", table)
	}

	for _, bad := range []string{"a", "=Metal", "a=Rock", "a=Metal,a=Wood"} {
		if _, err := ParseTable(bad); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("ParseTable(%q): expected ErrInvalidTarget, got %v", bad, err)
		}
	}
}
