// Package telemetry provides the simulation/bench harness's recording and
// discovery support around the foc package: a day-rotated CSV trace
// recorder and an mDNS advertiser, neither of which the kernel itself
// depends on (see spec.md §5-§7 — the kernel performs no I/O).
package telemetry

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// Sample is one control tick's inputs and outputs, as recorded by the
// simulation/bench CLI for offline analysis. It has no role in the
// kernel's API.
type Sample struct {
	Time          time.Time
	CurrentA      float64
	CurrentB      float64
	AngleRad      float64
	DesiredTorque float64
	DtSeconds     float64
	CompareA      uint16
	CompareB      uint16
	CompareC      uint16
}

var csvHeader = []string{
	"time", "current_a", "current_b", "angle_rad", "desired_torque",
	"dt_seconds", "compare_a", "compare_b", "compare_c",
}

// Recorder writes Samples to a day-rotated CSV file, mirroring the
// teacher's log.go daily-names feature: a new file is opened whenever the
// pattern formatted against a sample's timestamp differs from the
// currently open file's name, rather than on a fixed schedule.
type Recorder struct {
	namePattern string
	dir         string
	currentName string
	file        *os.File
	writer      *csv.Writer
}

// NewRecorder creates a Recorder that writes CSV files into dir, named by
// formatting namePattern (an strftime pattern, e.g. "foc-%Y%m%d.csv")
// against each sample's timestamp, exactly as the teacher's xmit.go/tq.go
// format their timestamp-format flag via strftime.Format.
func NewRecorder(dir, namePattern string) (*Recorder, error) {
	if _, err := strftime.Format(namePattern, time.Now()); err != nil {
		return nil, fmt.Errorf("telemetry: invalid recorder name pattern: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: creating recorder directory: %w", err)
	}
	return &Recorder{namePattern: namePattern, dir: dir}, nil
}

// Write appends one sample, rotating to a new file first if the sample's
// timestamp now formats to a different file name.
func (r *Recorder) Write(s Sample) error {
	name, err := strftime.Format(r.namePattern, s.Time)
	if err != nil {
		return fmt.Errorf("telemetry: formatting file name: %w", err)
	}
	if name != r.currentName {
		if err := r.rotate(name); err != nil {
			return err
		}
	}

	row := []string{
		s.Time.Format(time.RFC3339Nano),
		strconv.FormatFloat(s.CurrentA, 'g', -1, 64),
		strconv.FormatFloat(s.CurrentB, 'g', -1, 64),
		strconv.FormatFloat(s.AngleRad, 'g', -1, 64),
		strconv.FormatFloat(s.DesiredTorque, 'g', -1, 64),
		strconv.FormatFloat(s.DtSeconds, 'g', -1, 64),
		strconv.Itoa(int(s.CompareA)),
		strconv.Itoa(int(s.CompareB)),
		strconv.Itoa(int(s.CompareC)),
	}
	if err := r.writer.Write(row); err != nil {
		return fmt.Errorf("telemetry: writing sample: %w", err)
	}
	r.writer.Flush()
	return r.writer.Error()
}

func (r *Recorder) rotate(name string) error {
	if r.file != nil {
		r.writer.Flush()
		_ = r.file.Close()
	}

	path := filepath.Join(r.dir, name)
	needsHeader := true
	if _, err := os.Stat(path); err == nil {
		needsHeader = false
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("telemetry: opening %s: %w", path, err)
	}

	r.file = f
	r.writer = csv.NewWriter(f)
	r.currentName = name

	if needsHeader {
		if err := r.writer.Write(csvHeader); err != nil {
			return fmt.Errorf("telemetry: writing header for %s: %w", path, err)
		}
		r.writer.Flush()
	}

	log.Info("telemetry: recording to new file", "path", path)
	return nil
}

// Close flushes and closes the currently open file, if any.
func (r *Recorder) Close() error {
	if r.file == nil {
		return nil
	}
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		return err
	}
	return r.file.Close()
}
