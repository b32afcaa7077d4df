package render

import (
	"math"
	"sort"

	"github.com/lixenwraith/timeforge/interaction"
)

// Region box sizes in cells
const (
	IslandWidth   = 16
	IslandHeight  = 5
	MachineWidth  = 20
	MachineHeight = 9

	// Terminal cells are roughly twice as tall as wide
	cellAspect = 2.0
)

// Region is one clickable scene object
type Region struct {
	ID     string
	Target interaction.Target
	X, Y   int
	W, H   int
}

// Contains reports whether cell (x, y) lies inside the box
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the box center in cell coordinates
func (r Region) Center() (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

// distance from the box center, y scaled for cell aspect
func (r Region) distance(x, y int) float64 {
	cx, cy := r.Center()
	dx := float64(x) + 0.5 - cx
	dy := (float64(y) + 0.5 - cy) * cellAspect
	return math.Hypot(dx, dy)
}

// Layout places every target of a resolver on a w by h screen
// Upgrade targets stack at the center; resource islands ring around them
type Layout struct {
	Width, Height int
	Regions       []Region
}

// NewLayout arranges the resolver's targets, ids in sorted order
func NewLayout(w, h int, resolver *interaction.Resolver) Layout {
	l := Layout{Width: w, Height: h}

	var islands, machines []string
	for _, id := range resolver.IDs() {
		tg, _ := resolver.Lookup(id)
		if tg.Kind == interaction.TargetUpgrade {
			machines = append(machines, id)
		} else {
			islands = append(islands, id)
		}
	}

	// Playfield excludes the HUD row at the top and help row at the bottom
	top, bottom := 1, h-1
	cx := float64(w) / 2
	cy := float64(top+bottom) / 2

	for i, id := range machines {
		tg, _ := resolver.Lookup(id)
		offset := (float64(i) - float64(len(machines)-1)/2) * (MachineWidth + 2)
		l.Regions = append(l.Regions, l.place(id, tg, cx+offset, cy, MachineWidth, MachineHeight, top, bottom))
	}

	rx := math.Max(float64(w)/2-IslandWidth/2-1, 0)
	ry := math.Max(float64(bottom-top)/2-IslandHeight/2-0.5, 0)
	for i, id := range islands {
		tg, _ := resolver.Lookup(id)
		// First island top-left, then clockwise
		angle := -3*math.Pi/4 + 2*math.Pi*float64(i)/float64(len(islands))
		x := cx + rx*math.Cos(angle)
		y := cy + ry*math.Sin(angle)
		l.Regions = append(l.Regions, l.place(id, tg, x, y, IslandWidth, IslandHeight, top, bottom))
	}
	return l
}

func (l Layout) place(id string, tg interaction.Target, cx, cy float64, w, h, top, bottom int) Region {
	x := int(math.Round(cx - float64(w)/2))
	y := int(math.Round(cy - float64(h)/2))
	x = max(0, min(x, l.Width-w))
	y = max(top, min(y, bottom-h))
	return Region{ID: id, Target: tg, X: x, Y: y, W: w, H: h}
}

// HitTest returns every region under (x, y), nearest center first
func (l Layout) HitTest(x, y int) []interaction.Hit {
	var hits []interaction.Hit
	for _, r := range l.Regions {
		if r.Contains(x, y) {
			hits = append(hits, interaction.Hit{TargetID: r.ID, Distance: r.distance(x, y)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// Region returns the region with id
func (l Layout) Region(id string) (Region, bool) {
	for _, r := range l.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}
