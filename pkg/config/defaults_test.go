package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfiles(t *testing.T) {
	profiles := DefaultProfiles()
	require.Len(t, profiles, 4)

	ids := []string{}
	for _, m := range profiles {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"Inj", "Weld", "Laser", "Assy"}, ids)

	require.NoError(t, Validate(profiles, DefaultSamples))

	vib, ok := profiles[0].Sensor(Vibration)
	require.True(t, ok)
	assert.Equal(t, 0.5, vib.Mean)
	assert.Equal(t, 0.1, vib.StdDev)
	assert.Equal(t, []AnomalyWindow{{Start: 2000, End: 2100, Mean: 2.0, StdDev: 0.3}}, vib.Anomalies)

	// Oil is the only ramp sensor on every machine.
	floors := map[string]float64{"Inj": 95, "Weld": 98, "Laser": 99, "Assy": 96}
	for _, m := range profiles {
		for _, s := range m.Sensors {
			if s.Type != Oil {
				assert.Nil(t, s.Ramp, "%s_%s", m.ID, s.Type)
				continue
			}
			require.NotNil(t, s.Ramp)
			assert.Equal(t, 100.0, s.Ramp.From)
			assert.Equal(t, floors[m.ID], s.Ramp.To, m.ID)
			assert.Empty(t, s.Anomalies)
		}
	}
}

func TestDefaultPanels(t *testing.T) {
	panels := DefaultPanels()
	require.Len(t, panels, 5)

	want := map[SensorType]float64{
		Vibration:   1.5,
		Temperature: 300,
		Oil:         95,
		Pressure:    4,
		Quality:     5,
	}
	for i, p := range panels {
		assert.Equal(t, SensorTypes()[i], p.Sensor, "panel order")
		assert.Equal(t, want[p.Sensor], p.Threshold)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.ThresholdLabel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]MachineProfile) []MachineProfile
	}{
		{"no machines", func([]MachineProfile) []MachineProfile { return nil }},
		{"duplicate machine", func(p []MachineProfile) []MachineProfile { return append(p, p[0]) }},
		{"missing sensor", func(p []MachineProfile) []MachineProfile {
			p[1].Sensors = p[1].Sensors[:4]
			return p
		}},
		{"repeated sensor", func(p []MachineProfile) []MachineProfile {
			p[2].Sensors[4] = p[2].Sensors[0]
			return p
		}},
		{"negative stddev", func(p []MachineProfile) []MachineProfile {
			p[0].Sensors[1].StdDev = -1
			return p
		}},
		{"empty window", func(p []MachineProfile) []MachineProfile {
			p[3].Sensors[0].Anomalies[0].End = p[3].Sensors[0].Anomalies[0].Start
			return p
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mutate(DefaultProfiles()), DefaultSamples)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidProfile), "got %v", err)
		})
	}

	assert.ErrorIs(t, Validate(DefaultProfiles(), 0), ErrInvalidProfile)
}

func TestParseSensorType(t *testing.T) {
	st, err := ParseSensorType("Pressure")
	require.NoError(t, err)
	assert.Equal(t, Pressure, st)

	_, err = ParseSensorType("pressure")
	assert.Error(t, err)
}
