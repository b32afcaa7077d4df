package core

import (
	"fmt"
	"strings"
)

// ResourceType identifies one of the collectable island resources
// The set is closed; ResourceCount is the array bound for per-type storage
type ResourceType int

const (
	ResourceMetal ResourceType = iota
	ResourceWood
	ResourceStone
	ResourceFood
	ResourceCount
)

var resourceNames = [ResourceCount]string{"Metal", "Wood", "Stone", "Food"}

// ResourceTypes returns all resource types in declaration order
func ResourceTypes() [ResourceCount]ResourceType {
	return [ResourceCount]ResourceType{ResourceMetal, ResourceWood, ResourceStone, ResourceFood}
}

// Valid reports whether t is a member of the closed set
func (t ResourceType) Valid() bool {
	return t >= 0 && t < ResourceCount
}

func (t ResourceType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ResourceType(%d)", int(t))
	}
	return resourceNames[t]
}

// ParseResourceType resolves a case-insensitive resource name
func ParseResourceType(name string) (ResourceType, error) {
	for i, n := range resourceNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ResourceType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource type %q", name)
}
