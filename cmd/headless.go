package main

import (
	"context"
	"fmt"
	"io"

	"metronome/internal/core/session"
	"metronome/internal/ui/panel"
)

// runHeadless starts a session and prints its status once per second until
// the timer expires or ctx is cancelled.
func runHeadless(ctx context.Context, controller *session.Controller, out io.Writer) {
	events := controller.Subscribe(64)
	controller.Start()
	fmt.Fprintln(out, panel.Status(controller.Snapshot()))

	for {
		select {
		case <-ctx.Done():
			controller.Stop()
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case session.EventProgress:
				fmt.Fprintln(out, panel.Status(event.Snapshot))
			case session.EventExpired:
				fmt.Fprintln(out, "time is up")
			case session.EventStateChange, session.EventFault:
				if event.State == session.StateInactive {
					return
				}
			}
		}
	}
}
