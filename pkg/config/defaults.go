// Package config defines the simulated fleet, dashboard panels and run defaults.
package config

// Defaults.
const (
	DefaultSeed    uint64 = 42
	DefaultSamples        = 3600
	DefaultOutput         = "sensor_dashboard.png"
	DefaultDPI            = 100

	// Image size in inches.
	DefaultWidth  = 15.0
	DefaultHeight = 20.0
)

// Panel describes one stacked chart of the dashboard.
type Panel struct {
	Sensor SensorType `yaml:"sensor"`
	Title  string     `yaml:"title"`
	YLabel string     `yaml:"ylabel"`
	// Threshold is drawn as a static reference line.
	Threshold      float64 `yaml:"threshold"`
	ThresholdLabel string  `yaml:"threshold_label"`
}

// DefaultPanels returns the dashboard layout, top to bottom.
func DefaultPanels() []Panel {
	return []Panel{
		{
			Sensor:         Vibration,
			Title:          "Vibration Across Machines",
			YLabel:         "Vibration (g)",
			Threshold:      1.5,
			ThresholdLabel: "Vibration Threshold (1.5g)",
		},
		{
			Sensor:         Temperature,
			Title:          "Temperature Across Machines",
			YLabel:         "Temperature (°C)",
			Threshold:      300,
			ThresholdLabel: "Overheating Threshold (300°C)",
		},
		{
			Sensor:         Oil,
			Title:          "Oil Level Across Machines",
			YLabel:         "Oil Level (%)",
			Threshold:      95,
			ThresholdLabel: "Low Oil Threshold (95%)",
		},
		{
			Sensor:         Pressure,
			Title:          "Pneumatic Pressure Across Machines",
			YLabel:         "Pressure (bar)",
			Threshold:      4,
			ThresholdLabel: "Low Pressure Threshold (4 bar)",
		},
		{
			Sensor:         Quality,
			Title:          "Part Quality (Defect Rate) Across Machines",
			YLabel:         "Defect Rate (%)",
			Threshold:      5,
			ThresholdLabel: "Defect Threshold (5%)",
		},
	}
}

// DefaultProfiles returns the built-in fleet.
func DefaultProfiles() []MachineProfile {
	return []MachineProfile{
		{
			ID:   "Inj",
			Name: "Injection Molding Machine",
			Sensors: []SensorProfile{
				normal(Vibration, 0.5, 0.1, AnomalyWindow{Start: 2000, End: 2100, Mean: 2.0, StdDev: 0.3}),
				normal(Temperature, 250, 10, AnomalyWindow{Start: 1500, End: 1600, Mean: 350, StdDev: 15}),
				ramp(100, 95, 0.5),
				normal(Pressure, 5, 0.2, AnomalyWindow{Start: 2500, End: 2600, Mean: 3, StdDev: 0.2}),
				normal(Quality, 2, 0.5, AnomalyWindow{Start: 3000, End: 3100, Mean: 10, StdDev: 1}),
			},
		},
		{
			ID:   "Weld",
			Name: "Vibration Welding Machine",
			Sensors: []SensorProfile{
				normal(Vibration, 0.8, 0.15, AnomalyWindow{Start: 1800, End: 1900, Mean: 3.0, StdDev: 0.4}),
				normal(Temperature, 150, 5, AnomalyWindow{Start: 2200, End: 2300, Mean: 50, StdDev: 5}),
				ramp(100, 98, 0.3),
				normal(Pressure, 6, 0.2, AnomalyWindow{Start: 2700, End: 2800, Mean: 4, StdDev: 0.2}),
				normal(Quality, 1.5, 0.4, AnomalyWindow{Start: 3200, End: 3300, Mean: 8, StdDev: 1}),
			},
		},
		{
			ID:   "Laser",
			Name: "Laser Weakening System",
			Sensors: []SensorProfile{
				normal(Vibration, 0.3, 0.05, AnomalyWindow{Start: 1900, End: 2000, Mean: 1.5, StdDev: 0.2}),
				normal(Temperature, 100, 5, AnomalyWindow{Start: 2300, End: 2400, Mean: 200, StdDev: 10}),
				ramp(100, 99, 0.2),
				normal(Pressure, 4, 0.1, AnomalyWindow{Start: 2600, End: 2700, Mean: 2, StdDev: 0.1}),
				normal(Quality, 0.5, 0.1, AnomalyWindow{Start: 3100, End: 3200, Mean: 5, StdDev: 0.5}),
			},
		},
		{
			ID:   "Assy",
			Name: "Assembly Line",
			Sensors: []SensorProfile{
				normal(Vibration, 0.6, 0.1, AnomalyWindow{Start: 2100, End: 2200, Mean: 2.5, StdDev: 0.3}),
				normal(Temperature, 60, 5, AnomalyWindow{Start: 2400, End: 2500, Mean: 100, StdDev: 5}),
				ramp(100, 96, 0.4),
				normal(Pressure, 7, 0.2, AnomalyWindow{Start: 2800, End: 2900, Mean: 4, StdDev: 0.2}),
				normal(Quality, 1, 0.3, AnomalyWindow{Start: 3300, End: 3400, Mean: 7, StdDev: 0.7}),
			},
		},
	}
}

func normal(t SensorType, mean, std float64, windows ...AnomalyWindow) SensorProfile {
	return SensorProfile{Type: t, Mean: mean, StdDev: std, Anomalies: windows}
}

// ramp builds a leaking oil level profile: a linear drain plus zero-mean noise.
func ramp(from, to, noise float64) SensorProfile {
	return SensorProfile{Type: Oil, StdDev: noise, Ramp: &Ramp{From: from, To: to}}
}
