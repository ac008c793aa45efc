// Command focsim sweeps a synthetic rotor through a full electrical
// revolution against a real foc.Foc instance and records the resulting
// currents and compare values as a day-rotated CSV trace. It supplements
// the original project's pwm.rs example, which performed the same sweep
// against the bare modulator functions and recorded an MCAP file; this
// program drives the whole controller instead and writes CSV.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/geo/s1"
	"github.com/spf13/pflag"
	"github.com/wattloop/foc/foc"
	"github.com/wattloop/foc/profile"
	"github.com/wattloop/foc/telemetry"
)

func main() {
	var modulatorName = pflag.StringP("modulator", "m", "svpwm", "Modulator: sinusoidal, square, trapezoidal, svpwm.")
	var pwmResolution = pflag.IntP("pwm-resolution", "r", 2047, "PWM compare-value ceiling (timer MAX).")
	var revolutions = pflag.IntP("revolutions", "n", 1, "Number of electrical revolutions to sweep.")
	var stepsPerRev = pflag.IntP("steps", "s", 360, "Simulated ticks per electrical revolution.")
	var tickHz = pflag.Float64P("tick-hz", "f", 20000, "Simulated control tick rate in Hz.")
	var desiredTorque = pflag.Float64P("torque", "t", 1.0, "Desired q-axis current command.")
	var ampsPeak = pflag.Float64P("amps-peak", "a", 1.0, "Peak phase current fed back into the controller.")
	var outDir = pflag.StringP("out-dir", "o", ".", "Directory for the recorded CSV trace.")
	var namePattern = pflag.StringP("name-pattern", "p", "focsim-%Y%m%d.csv", "strftime pattern for the trace file name.")
	var advertiseName = pflag.String("advertise", "", "If set, advertise this name over mDNS as a _focdebug._tcp service.")
	var advertisePort = pflag.Int("advertise-port", 9999, "Port to advertise alongside --advertise.")
	var fluxKp = pflag.Float64("flux-kp", 0.1, "Flux-axis (d) PI proportional gain.")
	var fluxKi = pflag.Float64("flux-ki", 0.01, "Flux-axis (d) PI integral gain.")
	var torqueKp = pflag.Float64("torque-kp", 0.1, "Torque-axis (q) PI proportional gain.")
	var torqueKi = pflag.Float64("torque-ki", 0.01, "Torque-axis (q) PI integral gain.")
	var profileFile = pflag.String("profile-file", "", "YAML file of named motor profiles (gains, modulator, pwm-resolution).")
	var profileName = pflag.String("profile", "", "Named profile to load from --profile-file, overriding the individual gain/modulator/pwm-resolution flags.")
	pflag.Parse()

	if *profileFile != "" {
		if err := applyProfile(*profileFile, *profileName, modulatorName, pwmResolution, fluxKp, fluxKi, torqueKp, torqueKi); err != nil {
			log.Error("focsim: loading profile", "err", err)
			os.Exit(1)
		}
	}

	modulator, err := selectModulator(*modulatorName)
	if err != nil {
		log.Error("focsim: bad modulator", "err", err)
		os.Exit(1)
	}

	controller := foc.NewFoc(
		foc.FromFloat64(*fluxKp), foc.FromFloat64(*fluxKi),
		foc.FromFloat64(*torqueKp), foc.FromFloat64(*torqueKi),
		modulator, uint16(*pwmResolution),
	)

	recorder, err := telemetry.NewRecorder(*outDir, *namePattern)
	if err != nil {
		log.Error("focsim: creating recorder", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			log.Error("focsim: closing recorder", "err", err)
		}
	}()

	if *advertiseName != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		advertiser, err := telemetry.Advertise(ctx, *advertiseName, *advertisePort)
		if err != nil {
			log.Error("focsim: mDNS advertise failed, continuing without it", "err", err)
		} else {
			defer advertiser.Close()
		}
	}

	dt := foc.FromFloat64(1.0 / *tickHz)
	totalTicks := *revolutions * *stepsPerRev
	now := time.Now()

	log.Info("focsim: starting sweep", "modulator", *modulatorName, "ticks", totalTicks, "pwm_resolution", *pwmResolution)

	for tick := 0; tick < totalTicks; tick++ {
		rawAngle := 2*math.Pi*float64(tick)/float64(*stepsPerRev) - math.Pi
		angleRad := float64(s1.Angle(rawAngle).Normalized())
		currentA := *ampsPeak * math.Cos(angleRad)
		currentB := *ampsPeak * math.Cos(angleRad-2*math.Pi/3)

		compares := controller.Update(
			foc.FromFloat64(currentA),
			foc.FromFloat64(currentB),
			foc.FromFloat64(angleRad),
			foc.FromFloat64(*desiredTorque),
			dt,
		)

		sample := telemetry.Sample{
			Time:          now.Add(time.Duration(float64(tick) * float64(time.Second) / *tickHz)),
			CurrentA:      currentA,
			CurrentB:      currentB,
			AngleRad:      angleRad,
			DesiredTorque: *desiredTorque,
			DtSeconds:     1.0 / *tickHz,
			CompareA:      compares[0],
			CompareB:      compares[1],
			CompareC:      compares[2],
		}
		if err := recorder.Write(sample); err != nil {
			log.Error("focsim: writing sample", "err", err)
			os.Exit(1)
		}
	}

	log.Info("focsim: sweep complete", "ticks", totalTicks)
}

func selectModulator(name string) (foc.Modulator, error) {
	switch name {
	case "sinusoidal":
		return foc.SinusoidalModulator{}, nil
	case "square":
		return foc.SquareModulator{}, nil
	case "trapezoidal":
		return foc.TrapezoidalModulator{}, nil
	case "svpwm":
		return foc.SpaceVectorModulator{}, nil
	default:
		return nil, fmt.Errorf("unknown modulator %q (want sinusoidal, square, trapezoidal, svpwm)", name)
	}
}

// applyProfile loads name out of the profile file at path and overwrites
// the gain/modulator/pwm-resolution flag values with it, the same
// override-the-defaults role the teacher's tocalls.yaml plays for
// device-identifier lookups, just for motor tuning instead.
func applyProfile(path, name string, modulatorName *string, pwmResolution *int, fluxKp, fluxKi, torqueKp, torqueKi *float64) error {
	if name == "" {
		return fmt.Errorf("--profile-file given without --profile")
	}

	file, err := profile.Load(path)
	if err != nil {
		return err
	}
	entry, err := file.Lookup(name)
	if err != nil {
		return err
	}

	*modulatorName = entry.Modulator
	*pwmResolution = int(entry.PWMResolution)
	*fluxKp = entry.FluxKp
	*fluxKi = entry.FluxKi
	*torqueKp = entry.TorqueKp
	*torqueKi = entry.TorqueKi
	return nil
}
