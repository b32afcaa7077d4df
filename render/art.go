package render

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/timeforge/asset"
)

// ErrNoArt is returned for tiers without a drawing; the swapper does not retry it
var ErrNoArt = fmt.Errorf("%w: no art for tier", asset.ErrUnavailable)

// machineArt holds one drawing per time machine tier, each fitting MachineWidth-2 columns
var machineArt = [][]string{
	{
		"      .      ",
		"     / \\     ",
		"    /___\\    ",
		"    |   |    ",
		"    |___|    ",
	},
	{
		"     _|_     ",
		"    /   \\    ",
		"   | (o) |   ",
		"   |_____|   ",
		"   /_/ \\_\\   ",
	},
	{
		"    _/|\\_    ",
		"   / ___ \\   ",
		"  | ( @ ) |  ",
		"  |  ---  |  ",
		"  /_/===\\_\\  ",
	},
	{
		"  *_/|||\\_*  ",
		"  / _____ \\  ",
		" |=( @@@ )=| ",
		" |  =====  | ",
		" /_/=====\\_\\ ",
	},
	{
		" \\*_/|||\\_*/ ",
		"  /#######\\  ",
		"=|=( @@@ )=|=",
		" |#########| ",
		"/_/=======\\_\\",
	},
}

// ArtCount returns how many tiers have a drawing
func ArtCount() int {
	return len(machineArt)
}

// MachineArt returns the drawing for tier
func MachineArt(tier int) ([]string, bool) {
	if tier < 0 || tier >= len(machineArt) {
		return nil, false
	}
	return machineArt[tier], true
}

// ArtLoader installs machine drawings; it is the host's asset.Loader
type ArtLoader struct {
	installed atomic.Int64
}

// NewArtLoader starts with the tier 0 drawing installed
func NewArtLoader() *ArtLoader {
	return &ArtLoader{}
}

// Load installs the drawing for tier; an older tier never replaces a newer one
func (a *ArtLoader) Load(ctx context.Context, tier int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := MachineArt(tier); !ok {
		return fmt.Errorf("%w %d", ErrNoArt, tier)
	}
	for {
		cur := a.installed.Load()
		if int64(tier) <= cur || a.installed.CompareAndSwap(cur, int64(tier)) {
			return nil
		}
	}
}

// Installed returns the tier whose drawing is shown
func (a *ArtLoader) Installed() int {
	return int(a.installed.Load())
}
