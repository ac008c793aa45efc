// Command focbench drives a foc.Foc instance against a bench inverter: it
// gates the inverter's gate driver through a GPIO enable line, runs a
// fixed-frequency control loop reading simulated feedback, and streams
// each tick's compare values out over a COBS-framed serial debug link so
// a host tool can observe them, mirroring the kind of serial-attached
// debug console the teacher drives through pkg/term.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/term"
	"github.com/spf13/pflag"
	"github.com/wattloop/foc/cobs"
	"github.com/wattloop/foc/foc"
	"github.com/wattloop/foc/hal"
	"github.com/wattloop/foc/profile"
	"github.com/wattloop/foc/telemetry"
)

const debugEndpointID = 0x01

func main() {
	var gpioChip = pflag.StringP("gpio-chip", "c", "gpiochip0", "GPIO chip device for the inverter enable line.")
	var gpioOffset = pflag.IntP("gpio-offset", "g", 0, "GPIO line offset for the inverter enable line.")
	var gpioActiveLow = pflag.Bool("gpio-active-low", false, "Treat the enable line as active-low.")
	var serialDevice = pflag.StringP("serial-device", "d", "", "Serial device for the COBS-framed debug link. Empty disables it.")
	var serialBaud = pflag.IntP("serial-baud", "b", 115200, "Serial baud rate for the debug link.")
	var modulatorName = pflag.StringP("modulator", "m", "svpwm", "Modulator: sinusoidal, square, trapezoidal, svpwm.")
	var pwmResolution = pflag.IntP("pwm-resolution", "r", 2047, "PWM compare-value ceiling (timer MAX).")
	var tickHz = pflag.Float64P("tick-hz", "f", 1000, "Control tick rate in Hz.")
	var desiredTorque = pflag.Float64P("torque", "t", 0.0, "Desired q-axis current command.")
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
			log.Error("focbench: loading profile", "err", err)
			os.Exit(1)
		}
	}

	modulator, err := selectModulator(*modulatorName)
	if err != nil {
		log.Error("focbench: bad modulator", "err", err)
		os.Exit(1)
	}

	enable, err := hal.NewEnableLine(*gpioChip, *gpioOffset, *gpioActiveLow)
	if err != nil {
		log.Error("focbench: acquiring enable line", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := enable.Disable(); err != nil {
			log.Error("focbench: disabling enable line on exit", "err", err)
		}
		if err := enable.Close(); err != nil {
			log.Error("focbench: closing enable line", "err", err)
		}
	}()

	var debugLink *term.Term
	if *serialDevice != "" {
		debugLink, err = openDebugLink(*serialDevice, *serialBaud)
		if err != nil {
			log.Error("focbench: opening debug link, continuing without it", "err", err)
			debugLink = nil
		} else {
			defer debugLink.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *advertiseName != "" {
		advertiser, err := telemetry.Advertise(ctx, *advertiseName, *advertisePort)
		if err != nil {
			log.Error("focbench: mDNS advertise failed, continuing without it", "err", err)
		} else {
			defer advertiser.Close()
		}
	}

	controller := foc.NewFoc(
		foc.FromFloat64(*fluxKp), foc.FromFloat64(*fluxKi),
		foc.FromFloat64(*torqueKp), foc.FromFloat64(*torqueKi),
		modulator, uint16(*pwmResolution),
	)

	if err := enable.Enable(); err != nil {
		log.Error("focbench: enabling inverter", "err", err)
		os.Exit(1)
	}

	log.Info("focbench: running", "modulator", *modulatorName, "tick_hz", *tickHz)
	dt := foc.FromFloat64(1.0 / *tickHz)
	runLoop(ctx, controller, debugLink, foc.FromFloat64(*desiredTorque), dt, *tickHz)
	log.Info("focbench: stopped")
}

// runLoop ticks controller at tickHz until ctx is cancelled (SIGINT/SIGTERM),
// reading feedback currents and rotor angle from readFeedback and, when
// debugLink is non-nil, writing each tick's compare values out as a
// COBS-framed debug frame.
func runLoop(ctx context.Context, controller *foc.Foc, debugLink *term.Term, desiredTorque, dt foc.Q, tickHz float64) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			currentA, currentB, angle := readFeedback()
			compares := controller.Update(currentA, currentB, angle, desiredTorque, dt)

			if debugLink != nil {
				if err := writeDebugFrame(debugLink, compares); err != nil {
					log.Error("focbench: writing debug frame", "err", err)
				}
			}
		}
	}
}

// readFeedback stands in for the bench's real ADC reads: a motionless
// rotor at zero current, enough to exercise the control loop without
// real hardware attached.
func readFeedback() (currentA, currentB, angle foc.Q) {
	return foc.ZERO, foc.ZERO, foc.ZERO
}

func writeDebugFrame(link *term.Term, compares [3]uint16) error {
	payload := []byte{
		byte(compares[0]), byte(compares[0] >> 8),
		byte(compares[1]), byte(compares[1] >> 8),
		byte(compares[2]), byte(compares[2] >> 8),
	}
	frame := cobs.EndpointFrame{Endpoint: debugEndpointID, Payload: payload}
	encoded := frame.Encode()
	if _, err := link.Write(encoded); err != nil {
		return fmt.Errorf("focbench: serial write: %w", err)
	}
	return nil
}

func openDebugLink(device string, baud int) (*term.Term, error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("focbench: opening %s: %w", device, err)
	}
	if err := t.SetSpeed(baud); err != nil {
		t.Close()
		return nil, fmt.Errorf("focbench: setting speed %d on %s: %w", baud, device, err)
	}
	return t, nil
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
// the gain/modulator/pwm-resolution flag values with it.
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
