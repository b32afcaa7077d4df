// Package status exposes the session's counters and readings for the debug log.
package status

import (
	"strconv"
	"sync/atomic"
)

// Registry groups the session metrics by kind
type Registry struct {
	Bools  *Metrics[atomic.Bool]
	Ints   *Metrics[atomic.Int64]
	Floats *Metrics[Gauge]
	Labels *Metrics[Label]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:  newMetrics(func(b *atomic.Bool) string { return strconv.FormatBool(b.Load()) }),
		Ints:   newMetrics(func(n *atomic.Int64) string { return strconv.FormatInt(n.Load(), 10) }),
		Floats: newMetrics(func(g *Gauge) string { return strconv.FormatFloat(g.Get(), 'f', 3, 64) }),
		Labels: newMetrics(func(l *Label) string { return l.Get() }),
	}
}

// Len returns the number of metrics of every kind
func (r *Registry) Len() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len() + r.Labels.Len()
}

// Dump lists every metric as "key=value", sorted within each kind
// Bools come first, then ints, floats and labels
func (r *Registry) Dump() []string {
	out := make([]string, 0, r.Len())
	out = r.Bools.appendLines(out)
	out = r.Ints.appendLines(out)
	out = r.Floats.appendLines(out)
	return r.Labels.appendLines(out)
}
