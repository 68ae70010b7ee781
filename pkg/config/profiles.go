package config

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned when a fleet definition cannot produce a complete table.
var ErrInvalidProfile = errors.New("invalid fleet profile")

// SensorType names one of the five monitored sensor categories.
type SensorType string

const (
	Vibration   SensorType = "Vibration"
	Temperature SensorType = "Temperature"
	Oil         SensorType = "Oil"
	Pressure    SensorType = "Pressure"
	Quality     SensorType = "Quality"
)

// SensorTypes returns every sensor category in generation order.
func SensorTypes() []SensorType {
	return []SensorType{Vibration, Temperature, Oil, Pressure, Quality}
}

// ParseSensorType resolves a sensor name as written in profile files.
func ParseSensorType(s string) (SensorType, error) {
	for _, t := range SensorTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown sensor type %q", s)
}

// AnomalyWindow is a half-open index range [Start, End) redrawn from its own distribution.
type AnomalyWindow struct {
	Start  int     `yaml:"start"`
	End    int     `yaml:"end"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
}

// Ramp is a deterministic linear drift from From to To across the whole series.
type Ramp struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

// SensorProfile describes how one series is synthesized.
// With Ramp set, Mean and StdDev describe the noise added on top of the ramp
// and Anomalies are ignored.
type SensorProfile struct {
	Type      SensorType      `yaml:"type"`
	Mean      float64         `yaml:"mean"`
	StdDev    float64         `yaml:"stddev"`
	Anomalies []AnomalyWindow `yaml:"anomalies,omitempty"`
	Ramp      *Ramp           `yaml:"ramp,omitempty"`
}

// MachineProfile groups the sensors of one simulated machine.
type MachineProfile struct {
	ID      string          `yaml:"id"`
	Name    string          `yaml:"name,omitempty"`
	Sensors []SensorProfile `yaml:"sensors"`
}

// Sensor returns the profile of the given sensor type, if the machine has one.
func (m MachineProfile) Sensor(t SensorType) (SensorProfile, bool) {
	for _, s := range m.Sensors {
		if s.Type == t {
			return s, true
		}
	}
	return SensorProfile{}, false
}

// Validate checks that every machine can contribute a full set of columns.
// Windows reaching past samples are allowed; the generator clips them.
func Validate(profiles []MachineProfile, samples int) error {
	if samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidProfile, samples)
	}
	if len(profiles) == 0 {
		return fmt.Errorf("%w: no machines defined", ErrInvalidProfile)
	}

	seen := make(map[string]bool, len(profiles))
	for _, m := range profiles {
		if m.ID == "" {
			return fmt.Errorf("%w: machine without id", ErrInvalidProfile)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate machine %s", ErrInvalidProfile, m.ID)
		}
		seen[m.ID] = true

		if len(m.Sensors) != len(SensorTypes()) {
			return fmt.Errorf("%w: machine %s has %d sensors, want %d", ErrInvalidProfile, m.ID, len(m.Sensors), len(SensorTypes()))
		}
		for _, t := range SensorTypes() {
			s, ok := m.Sensor(t)
			if !ok {
				return fmt.Errorf("%w: machine %s is missing sensor %s", ErrInvalidProfile, m.ID, t)
			}
			if err := validateSensor(s); err != nil {
				return fmt.Errorf("%w: %s_%s: %v", ErrInvalidProfile, m.ID, t, err)
			}
		}
	}
	return nil
}

func validateSensor(s SensorProfile) error {
	if s.StdDev < 0 {
		return fmt.Errorf("negative stddev %g", s.StdDev)
	}
	for i, w := range s.Anomalies {
		if w.Start < 0 || w.Start >= w.End {
			return fmt.Errorf("anomaly %d has empty range [%d, %d)", i, w.Start, w.End)
		}
		if w.StdDev < 0 {
			return fmt.Errorf("anomaly %d has negative stddev %g", i, w.StdDev)
		}
	}
	return nil
}
