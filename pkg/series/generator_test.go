package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/config"
)

func findSeries(t *testing.T, fleet []Series, name string) Series {
	t.Helper()
	for _, s := range fleet {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("series %s not generated", name)
	return Series{}
}

func TestFleetShape(t *testing.T) {
	fleet := NewGenerator(config.DefaultSeed).Fleet(config.DefaultProfiles(), config.DefaultSamples)
	require.Len(t, fleet, 20)

	assert.Equal(t, "Inj_Vibration", fleet[0].Name())
	assert.Equal(t, "Inj_Quality", fleet[4].Name())
	assert.Equal(t, "Weld_Vibration", fleet[5].Name())
	assert.Equal(t, "Assy_Quality", fleet[19].Name())

	for _, s := range fleet {
		assert.Len(t, s.Values, config.DefaultSamples, s.Name())
	}
}

func TestFleetReproducible(t *testing.T) {
	a := NewGenerator(config.DefaultSeed).Fleet(config.DefaultProfiles(), config.DefaultSamples)
	b := NewGenerator(config.DefaultSeed).Fleet(config.DefaultProfiles(), config.DefaultSamples)
	assert.Equal(t, a, b)

	c := NewGenerator(config.DefaultSeed+1).Fleet(config.DefaultProfiles(), config.DefaultSamples)
	assert.NotEqual(t, a[0].Values, c[0].Values)
}

func TestInjVibrationWindow(t *testing.T) {
	fleet := NewGenerator(config.DefaultSeed).Fleet(config.DefaultProfiles(), config.DefaultSamples)
	vib := findSeries(t, fleet, "Inj_Vibration").Values

	assert.InDelta(t, 2.0, stat.Mean(vib[2000:2100], nil), 0.3)
	assert.InDelta(t, 0.5, stat.Mean(vib[:2000], nil), 0.1)
	assert.InDelta(t, 0.5, stat.Mean(vib[2100:], nil), 0.1)
}

func TestWindowsAcrossSeeds(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		fleet := NewGenerator(seed).Fleet(config.DefaultProfiles(), config.DefaultSamples)
		for _, m := range config.DefaultProfiles() {
			for _, p := range m.Sensors {
				if p.Ramp != nil {
					continue
				}
				values := findSeries(t, fleet, ColumnName(m.ID, p.Type)).Values
				w := p.Anomalies[0]

				inside := values[w.Start:w.End]
				outside := append(append([]float64{}, values[:w.Start]...), values[w.End:]...)

				// Five standard errors keeps flakes out while still telling the regimes apart.
				assert.InDelta(t, w.Mean, stat.Mean(inside, nil), 5*w.StdDev/math.Sqrt(float64(len(inside))), "seed %d %s_%s window", seed, m.ID, p.Type)
				assert.InDelta(t, p.Mean, stat.Mean(outside, nil), 5*p.StdDev/math.Sqrt(float64(len(outside))), "seed %d %s_%s baseline", seed, m.ID, p.Type)
				assert.InDelta(t, p.StdDev, stat.StdDev(outside, nil), 0.1*p.StdDev, "seed %d %s_%s spread", seed, m.ID, p.Type)
			}
		}
	}
}

func TestOilRamp(t *testing.T) {
	fleet := NewGenerator(config.DefaultSeed).Fleet(config.DefaultProfiles(), config.DefaultSamples)
	for _, m := range config.DefaultProfiles() {
		p, _ := m.Sensor(config.Oil)
		oil := findSeries(t, fleet, ColumnName(m.ID, config.Oil)).Values

		step := (p.Ramp.To - p.Ramp.From) / float64(len(oil)-1)
		for i, v := range oil {
			trend := p.Ramp.From + float64(i)*step
			require.LessOrEqual(t, math.Abs(v-trend), 7*p.StdDev, "%s oil[%d]", m.ID, i)
		}

		head := stat.Mean(oil[:200], nil)
		tail := stat.Mean(oil[len(oil)-200:], nil)
		assert.Greater(t, head, tail, m.ID)

		xs := make([]float64, len(oil))
		for i := range xs {
			xs[i] = float64(i)
		}
		_, slope := stat.LinearRegression(xs, oil, nil, false)
		assert.Less(t, slope, 0.0, m.ID)
		assert.InDelta(t, step, slope, math.Abs(step)*0.2, m.ID)
	}
}

func TestNormalWindows(t *testing.T) {
	g := NewGenerator(7)

	t.Run("last window wins", func(t *testing.T) {
		values := g.Normal(0, 0, 10,
			config.AnomalyWindow{Start: 2, End: 6, Mean: 1, StdDev: 0},
			config.AnomalyWindow{Start: 4, End: 8, Mean: 2, StdDev: 0},
		)
		assert.Equal(t, []float64{0, 0, 1, 1, 2, 2, 2, 2, 0, 0}, values)
	})

	t.Run("clipped to length", func(t *testing.T) {
		values := g.Normal(0, 0, 5,
			config.AnomalyWindow{Start: 3, End: 50, Mean: 9, StdDev: 0},
			config.AnomalyWindow{Start: 10, End: 20, Mean: 7, StdDev: 0},
		)
		assert.Equal(t, []float64{0, 0, 0, 9, 9}, values)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, g.Normal(1, 1, 0))
	})
}

func TestRampEndpoints(t *testing.T) {
	g := NewGenerator(7)
	assert.Equal(t, []float64{100, 97.5, 95}, g.Ramp(100, 95, 0, 0, 3))
	assert.Equal(t, []float64{100}, g.Ramp(100, 95, 0, 0, 1))
	assert.Empty(t, g.Ramp(100, 95, 0, 0, 0))
}
