package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/timeforge/core"
	"github.com/lixenwraith/timeforge/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	seed     uint32 // xorshift state for noise
}

// NewOscillator creates a wave of the given length
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		seed:     0x2545f491,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			o.seed ^= o.seed << 13
			o.seed ^= o.seed >> 17
			o.seed ^= o.seed << 5
			val = float64(o.seed)/float64(math.MaxUint32)*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	totalSamples int
}

// NewEnvelope shapes s over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		release:      rate.N(release),
		totalSamples: rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.release

	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		} else if e.position >= releaseStart && e.release > 0 {
			vol = math.Max(float64(e.totalSamples-e.position)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linear gain vol; zero is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func tone(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, parameter.SoundAttack, parameter.SoundRelease, rate)
}

// chime is a plain sine from beep's generators, falling back to the oscillator above Nyquist
func chime(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return tone(freq, d, WaveSine, rate)
	}
	return NewEnvelope(beep.Take(rate.N(d), sine), d, parameter.SoundAttack, parameter.SoundRelease, rate)
}

// NewSound builds a one-shot streamer for st at linear volume vol
func NewSound(st core.SoundType, vol float64, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer
	switch st {
	case core.SoundCollect:
		s = chime(parameter.CollectSoundFreq, parameter.CollectSoundDuration, rate)
	case core.SoundReject:
		s = tone(parameter.RejectSoundFreq, parameter.RejectSoundDuration, WaveSaw, rate)
	case core.SoundAdvance:
		// Rising fifth
		half := parameter.AdvanceSoundDuration / 2
		s = beep.Seq(
			tone(parameter.AdvanceSoundFreq, half, WaveSquare, rate),
			tone(parameter.AdvanceSoundFreq*1.5, half, WaveSquare, rate),
		)
		s = newVolume(s, 0.5)
	case core.SoundFanfare:
		// Major triad arpeggio over a held root
		step := parameter.FanfareSoundDuration / 4
		root := parameter.FanfareSoundFreq
		s = beep.Mix(
			newVolume(tone(root/2, parameter.FanfareSoundDuration, WaveSine, rate), 0.5),
			beep.Seq(
				tone(root, step, WaveSine, rate),
				tone(root*1.25, step, WaveSine, rate),
				tone(root*1.5, step, WaveSine, rate),
				tone(root*2, step, WaveSine, rate),
			),
		)
	case core.SoundDisruption:
		s = beep.Mix(
			newVolume(tone(0, parameter.DisruptionSoundDuration, WaveNoise, rate), 0.4),
			tone(80, parameter.DisruptionSoundDuration, WaveSine, rate),
		)
	default:
		return beep.Silence(0)
	}
	return newVolume(s, vol)
}
