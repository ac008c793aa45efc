// Package profile loads named motor profiles (PI gains, modulator
// selection, PWM resolution) from a YAML file, the same way the teacher's
// src/deviceid.go loads tocalls.yaml at startup: read the whole file once,
// yaml.Unmarshal it, and keep the result around for the life of the
// process. The cmd/ binaries use this as an alternative to spelling every
// gain out on the command line each run.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one named motor profile: the two PI loops' gains, the
// modulator to drive with, and the PWM compare-value ceiling (spec.md
// §4.5's PWM_RESOLUTION).
type Entry struct {
	Modulator     string  `yaml:"modulator"`
	PWMResolution uint16  `yaml:"pwm_resolution"`
	FluxKp        float64 `yaml:"flux_kp"`
	FluxKi        float64 `yaml:"flux_ki"`
	TorqueKp      float64 `yaml:"torque_kp"`
	TorqueKi      float64 `yaml:"torque_ki"`
}

// File is the parsed shape of a profile YAML document: profile name to
// Entry, e.g.
//
//	gimbal-small:
//	  modulator: svpwm
//	  pwm_resolution: 2047
//	  flux_kp: 0.1
//	  flux_ki: 0.01
//	  torque_kp: 0.2
//	  torque_ki: 0.02
type File map[string]Entry

// Load reads and parses path into a File. Unlike deviceid_init, it does
// not search a list of candidate locations: the caller names the file
// explicitly via a CLI flag, so there is no ambiguity to resolve.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("profile: parsing %s: %w", path, err)
	}
	return f, nil
}

// Lookup returns the named entry, or an error if the file has none by
// that name.
func (f File) Lookup(name string) (Entry, error) {
	e, ok := f[name]
	if !ok {
		return Entry{}, fmt.Errorf("profile: no profile named %q", name)
	}
	return e, nil
}
