package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Fleet files look like:
//
//	machine "Inj" {
//	  name = "Injection Molding Machine"
//	  sensor "Vibration" {
//	    mean   = 0.5
//	    stddev = 0.1
//	    anomaly {
//	      start  = 2000
//	      end    = 2100
//	      mean   = 2.0
//	      stddev = 0.3
//	    }
//	  }
//	  sensor "Oil" {
//	    ramp_from = 100
//	    ramp_to   = 95
//	    stddev    = 0.5
//	  }
//	}
//
// The variable "samples" holds the configured series length.

type fleetFile struct {
	Machines []machineBlock `hcl:"machine,block"`
}

type machineBlock struct {
	ID      string        `hcl:"id,label"`
	Name    string        `hcl:"name,optional"`
	Sensors []sensorBlock `hcl:"sensor,block"`
}

type sensorBlock struct {
	Type      string         `hcl:"type,label"`
	Mean      float64        `hcl:"mean,optional"`
	StdDev    float64        `hcl:"stddev,optional"`
	RampFrom  *float64       `hcl:"ramp_from,optional"`
	RampTo    *float64       `hcl:"ramp_to,optional"`
	Anomalies []anomalyBlock `hcl:"anomaly,block"`
}

type anomalyBlock struct {
	Start  int     `hcl:"start"`
	End    int     `hcl:"end"`
	Mean   float64 `hcl:"mean"`
	StdDev float64 `hcl:"stddev"`
}

// LoadProfiles reads a fleet definition from an HCL file.
func LoadProfiles(path string, samples int) ([]MachineProfile, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	return decodeFleet(f, samples)
}

// ParseProfiles decodes a fleet definition held in memory.
func ParseProfiles(src []byte, filename string, samples int) ([]MachineProfile, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	return decodeFleet(f, samples)
}

func decodeFleet(f *hcl.File, samples int) ([]MachineProfile, error) {
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"samples": cty.NumberIntVal(int64(samples)),
		},
	}

	var fleet fleetFile
	if diags := gohcl.DecodeBody(f.Body, ctx, &fleet); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode fleet: %w", diags)
	}

	profiles := make([]MachineProfile, 0, len(fleet.Machines))
	for _, mb := range fleet.Machines {
		m := MachineProfile{ID: mb.ID, Name: mb.Name}
		for _, sb := range mb.Sensors {
			s, err := sb.profile()
			if err != nil {
				return nil, fmt.Errorf("%w: machine %s: %v", ErrInvalidProfile, mb.ID, err)
			}
			m.Sensors = append(m.Sensors, s)
		}
		profiles = append(profiles, m)
	}

	if err := Validate(profiles, samples); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (b sensorBlock) profile() (SensorProfile, error) {
	t, err := ParseSensorType(b.Type)
	if err != nil {
		return SensorProfile{}, err
	}

	s := SensorProfile{Type: t, Mean: b.Mean, StdDev: b.StdDev}

	switch {
	case b.RampFrom != nil && b.RampTo != nil:
		if len(b.Anomalies) > 0 {
			return SensorProfile{}, fmt.Errorf("sensor %s: ramp series cannot carry anomaly windows", b.Type)
		}
		s.Ramp = &Ramp{From: *b.RampFrom, To: *b.RampTo}
	case b.RampFrom != nil || b.RampTo != nil:
		return SensorProfile{}, fmt.Errorf("sensor %s: ramp_from and ramp_to must be set together", b.Type)
	}

	for _, a := range b.Anomalies {
		s.Anomalies = append(s.Anomalies, AnomalyWindow{
			Start:  a.Start,
			End:    a.End,
			Mean:   a.Mean,
			StdDev: a.StdDev,
		})
	}
	return s, nil
}
