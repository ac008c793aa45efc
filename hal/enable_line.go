// Package hal provides a thin, illustrative implementation of one of the
// hardware-interface boundaries spec.md §6 names as external collaborators:
// a GPIO inverter enable line. It is not a full driver, and it contains no
// serial or timer/ADC code. The foc package itself never imports this one.
package hal

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/warthog618/go-gpiocdev"
)

// EnableLine drives a single GPIO line that gates the inverter's gate
// driver: asserted to enable switching, deasserted to force all phases
// off. This is the Go-native gpiocdev analogue of the teacher's cgo
// libgpiod-based push-to-talk control in src/ptt.go, repurposed from
// keying a transmitter to gating a motor inverter.
type EnableLine struct {
	line      *gpiocdev.Line
	activeLow bool
}

// NewEnableLine opens offset on chip (e.g. "gpiochip0") as an output,
// initially deasserted. If activeLow is true, Enable drives the line low
// rather than high.
func NewEnableLine(chip string, offset int, activeLow bool) (*EnableLine, error) {
	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	line, err := gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, fmt.Errorf("hal: requesting gpio line %s:%d: %w", chip, offset, err)
	}

	log.Info("hal: inverter enable line acquired", "chip", chip, "offset", offset, "active_low", activeLow)
	return &EnableLine{line: line, activeLow: activeLow}, nil
}

// Enable asserts the enable line, allowing the inverter to switch.
func (e *EnableLine) Enable() error {
	if err := e.line.SetValue(1); err != nil {
		return fmt.Errorf("hal: asserting enable line: %w", err)
	}
	return nil
}

// Disable deasserts the enable line, forcing the inverter off regardless
// of what the kernel's Update would otherwise command. This is the
// system-level "gate shutdown" spec.md §7 says belongs outside the kernel.
func (e *EnableLine) Disable() error {
	if err := e.line.SetValue(0); err != nil {
		return fmt.Errorf("hal: deasserting enable line: %w", err)
	}
	return nil
}

// Close releases the underlying GPIO line request.
func (e *EnableLine) Close() error {
	return e.line.Close()
}
