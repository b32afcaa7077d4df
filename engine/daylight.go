package engine

import (
	"math"
	"time"

	"github.com/lixenwraith/timeforge/parameter"
)

// Daylight returns light intensity in [parameter.DaylightMin, 1] for game time elapsed
// The cycle starts at midnight and peaks at noon, half a day in
func Daylight(elapsed, dayLength time.Duration) float64 {
	if dayLength <= 0 {
		return 1
	}
	phase := float64(elapsed%dayLength) / float64(dayLength)
	if phase < 0 {
		phase += 1
	}
	sun := 0.5 - 0.5*math.Cos(2*math.Pi*phase)
	return parameter.DaylightMin + (1-parameter.DaylightMin)*sun
}
