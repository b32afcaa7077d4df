// Package interaction maps pointer hit lists to logical game targets.
//
// The rendering host performs the hit-test and supplies candidates nearest
// first. Resolution consults an explicit id table built once at load time and
// never inspects the host's scene hierarchy.
package interaction

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lixenwraith/timeforge/core"
)

// ErrInvalidTarget wraps every target table validation failure
var ErrInvalidTarget = errors.New("invalid target table")

// TargetKind classifies a logical target
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetResource
	TargetUpgrade
)

func (k TargetKind) String() string {
	switch k {
	case TargetNone:
		return "none"
	case TargetResource:
		return "resource"
	case TargetUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Target is the logical entity behind a clickable id
type Target struct {
	Kind     TargetKind
	Resource core.ResourceType // Meaningful only for TargetResource
}

// ResourceTarget is a Target for an island yielding rt
func ResourceTarget(rt core.ResourceType) Target {
	return Target{Kind: TargetResource, Resource: rt}
}

// UpgradeTarget is the Target for the time machine
func UpgradeTarget() Target {
	return Target{Kind: TargetUpgrade}
}

// Pointer is a host pointer position in host coordinates
type Pointer struct {
	X, Y int
}

// Hit is one hit-test candidate
type Hit struct {
	TargetID string
	Distance float64
}

// Resolution is the outcome of resolving one pointer event
type Resolution struct {
	Pointer  Pointer
	TargetID string // Empty when no hit was reported
	Target   Target
}

// Resolved reports whether a mapped target was found
func (r Resolution) Resolved() bool {
	return r.Target.Kind != TargetNone
}

// Resolver owns the immutable id to target table
type Resolver struct {
	targets map[string]Target
}

// NewResolver validates the table and copies it
func NewResolver(table map[string]Target) (*Resolver, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: no targets", ErrInvalidTarget)
	}

	targets := make(map[string]Target, len(table))
	for id, tg := range table {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: empty target id", ErrInvalidTarget)
		}
		switch tg.Kind {
		case TargetResource:
			if !tg.Resource.Valid() {
				return nil, fmt.Errorf("%w: %q maps to %v", ErrInvalidTarget, id, tg.Resource)
			}
		case TargetUpgrade:
			tg.Resource = 0
		default:
			return nil, fmt.Errorf("%w: %q has kind %v", ErrInvalidTarget, id, tg.Kind)
		}
		targets[id] = tg
	}
	return &Resolver{targets: targets}, nil
}

// Resolve picks the nearest hit and maps it through the table
// The hit list is trusted to be sorted ascending by distance
func (r *Resolver) Resolve(p Pointer, hits []Hit) Resolution {
	res := Resolution{Pointer: p}
	if len(hits) == 0 {
		return res
	}
	res.TargetID = hits[0].TargetID
	if tg, ok := r.targets[res.TargetID]; ok {
		res.Target = tg
	}
	return res
}

// Lookup returns the target registered for id
func (r *Resolver) Lookup(id string) (Target, bool) {
	tg, ok := r.targets[id]
	return tg, ok
}

// IDs returns all registered ids in sorted order
func (r *Resolver) IDs() []string {
	ids := make([]string, 0, len(r.targets))
	for id := range r.targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseTable reads "id=Kind" pairs separated by commas
// Kind is a resource name or "upgrade"
func ParseTable(pairs string) (map[string]Target, error) {
	table := make(map[string]Target)
	for _, pair := range strings.Split(pairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, kind, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("%w: malformed pair %q", ErrInvalidTarget, pair)
		}
		if _, dup := table[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidTarget, id)
		}
		if strings.EqualFold(strings.TrimSpace(kind), "upgrade") {
			table[id] = UpgradeTarget()
			continue
		}
		rt, err := core.ParseResourceType(kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTarget, id, err)
		}
		table[id] = ResourceTarget(rt)
	}
	return table, nil
}

// DefaultTable maps the reference scene: four islands and the center machine
func DefaultTable() map[string]Target {
	return map[string]Target{
		"island.metal":  ResourceTarget(core.ResourceMetal),
		"island.forest": ResourceTarget(core.ResourceWood),
		"island.stone":  ResourceTarget(core.ResourceStone),
		"island.food":   ResourceTarget(core.ResourceFood),
		"center":        UpgradeTarget(),
	}
}
