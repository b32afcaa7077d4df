package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/timeforge/core"
)

// RGB is a 24-bit color
type RGB struct {
	R, G, B uint8
}

// Color converts to a tcell color
func (c RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Scene palette
var (
	RGBNight   = RGB{12, 16, 48}
	RGBDay     = RGB{110, 170, 220}
	RGBHUD     = RGB{235, 235, 235}
	RGBMachine = RGB{200, 160, 255}
	RGBReady   = RGB{120, 255, 140}
	RGBAlert   = RGB{255, 90, 70}
)

var resourceColors = [core.ResourceCount]RGB{
	core.ResourceMetal: {190, 200, 210},
	core.ResourceWood:  {70, 170, 60},
	core.ResourceStone: {150, 140, 130},
	core.ResourceFood:  {240, 160, 50},
}

// ResourceColor returns the island color for rt
func ResourceColor(rt core.ResourceType) RGB {
	if !rt.Valid() {
		return RGBHUD
	}
	return resourceColors[rt]
}

func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// Scale multiplies all channels by factor
func Scale(c RGB, factor float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
	}
}

// Lerp linearly interpolates between two colors
// t=0 returns a, t=1 returns b
func Lerp(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return RGB{
		R: uint8(float64(a.R) + t*float64(int(b.R)-int(a.R))),
		G: uint8(float64(a.G) + t*float64(int(b.G)-int(a.G))),
		B: uint8(float64(a.B) + t*float64(int(b.B)-int(a.B))),
	}
}

// SkyColor maps daylight intensity to the background tint
// Intensity is normalized from [min,1] so the darkest night uses RGBNight exactly
func SkyColor(daylight, min float64) RGB {
	if min >= 1 {
		return RGBDay
	}
	return Lerp(RGBNight, RGBDay, (daylight-min)/(1-min))
}
