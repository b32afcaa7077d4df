package status

import (
	"math"
	"sync/atomic"
)

// Gauge is a float reading such as daylight intensity; zero value reads 0
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) { g.bits.Store(math.Float64bits(v)) }

func (g *Gauge) Get() float64 { return math.Float64frombits(g.bits.Load()) }

// Label is a short text reading such as the session lifecycle state; zero value reads ""
type Label struct {
	v atomic.Pointer[string]
}

func (l *Label) Set(v string) { l.v.Store(&v) }

func (l *Label) Get() string {
	if p := l.v.Load(); p != nil {
		return *p
	}
	return ""
}
