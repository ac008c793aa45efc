package telemetry

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

// Advertiser publishes a service record for a given TCP port over mDNS so
// host tooling (a GUI, a log viewer) can find it on the local network
// without being told an address, the same kind of zero-configuration
// discovery role dnssd plays for the teacher's networked services. It only
// announces the port; it does not open or listen on it, and neither CLI in
// this repository serves anything there. This is purely a development
// convenience; the kernel has no notion of it.
type Advertiser struct {
	responder dnssd.Responder
	handle    dnssd.ServiceHandle
	cancel    context.CancelFunc
}

// Advertise starts advertising a "_focdebug._tcp" service named name on
// the given port, starts the responder in a background goroutine, and
// returns without waiting for it. Call Close to stop advertising.
func Advertise(ctx context.Context, name string, port int) (*Advertiser, error) {
	cfg := dnssd.Config{
		Name: name,
		Type: "_focdebug._tcp",
		Port: port,
	}
	service, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: building mDNS service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("telemetry: starting mDNS responder: %w", err)
	}

	handle, err := responder.Add(service)
	if err != nil {
		return nil, fmt.Errorf("telemetry: registering mDNS service: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := responder.Respond(runCtx); err != nil && runCtx.Err() == nil {
			log.Error("telemetry: mDNS responder stopped", "err", err)
		}
	}()

	log.Info("telemetry: advertising debug service", "name", name, "port", port)
	return &Advertiser{responder: responder, handle: handle, cancel: cancel}, nil
}

// Close stops advertising and tears down the responder.
func (a *Advertiser) Close() {
	a.cancel()
}
