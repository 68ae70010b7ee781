// Package series synthesizes per-sensor sample sequences from fleet profiles.
package series

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/config"
)

// Series is one named sequence of samples.
type Series struct {
	Machine string
	Sensor  config.SensorType
	Values  []float64
}

// Name returns the table column name, e.g. "Inj_Vibration".
func (s Series) Name() string {
	return ColumnName(s.Machine, s.Sensor)
}

// ColumnName joins a machine id and a sensor type into a column name.
func ColumnName(machine string, sensor config.SensorType) string {
	return machine + "_" + string(sensor)
}

// Generator draws every series from a single seeded source.
// Output depends on call order, so callers must generate in a fixed order.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds the random source once.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (g *Generator) draw(mean, std float64) float64 {
	return mean + g.rng.NormFloat64()*std
}

func (g *Generator) fill(dst []float64, mean, std float64) {
	for i := range dst {
		dst[i] = g.draw(mean, std)
	}
}

// Normal draws n baseline samples, then redraws each anomaly window in order.
// Later windows overwrite earlier ones where they overlap. Windows are clipped to [0, n).
func (g *Generator) Normal(mean, std float64, n int, windows ...config.AnomalyWindow) []float64 {
	values := make([]float64, n)
	g.fill(values, mean, std)

	for _, w := range windows {
		start, end := max(w.Start, 0), min(w.End, n)
		if start >= end {
			continue
		}
		g.fill(values[start:end], w.Mean, w.StdDev)
	}
	return values
}

// Ramp returns a linear drift from `from` to `to` (both inclusive) with normal noise
// added at every position.
func (g *Generator) Ramp(from, to, noiseMean, noiseStd float64, n int) []float64 {
	values := make([]float64, n)
	switch {
	case n == 1:
		values[0] = from
	case n > 1:
		floats.Span(values, from, to)
	}

	for i := range values {
		values[i] += g.draw(noiseMean, noiseStd)
	}
	return values
}

// Sensor synthesizes one series from its profile.
func (g *Generator) Sensor(machine string, p config.SensorProfile, n int) Series {
	s := Series{Machine: machine, Sensor: p.Type}
	if p.Ramp != nil {
		s.Values = g.Ramp(p.Ramp.From, p.Ramp.To, p.Mean, p.StdDev, n)
	} else {
		s.Values = g.Normal(p.Mean, p.StdDev, n, p.Anomalies...)
	}
	return s
}

// Fleet generates every machine's sensors, machines in profile order and sensors
// in config.SensorTypes order. Sensors a machine does not define are skipped.
func (g *Generator) Fleet(profiles []config.MachineProfile, n int) []Series {
	out := make([]Series, 0, len(profiles)*len(config.SensorTypes()))
	for _, m := range profiles {
		for _, t := range config.SensorTypes() {
			p, ok := m.Sensor(t)
			if !ok {
				continue
			}
			out = append(out, g.Sensor(m.ID, p, n))
		}
	}
	return out
}
