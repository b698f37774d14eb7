package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"metronome/internal/audio"
	"metronome/internal/audio/midi"
	"metronome/internal/core/session"
	"metronome/internal/core/tempo"
	"metronome/internal/logging"
	"metronome/internal/platform"
	"metronome/internal/storage"
	"metronome/internal/ui/animation"
	"metronome/internal/ui/panel"
	"metronome/internal/ui/preferences"
	"metronome/internal/ui/tray"
	"metronome/resources"
)

const appName = "Metronome"

func main() {
	headless := flag.Bool("headless", false, "run a session in the terminal without a window")
	bpm := flag.Int("bpm", 0, "initial tempo in beats per minute (0 keeps the saved default)")
	minutes := flag.Int("minutes", -1, "timer length in minutes, 0 counts up (-1 keeps the saved default)")
	debug := flag.Bool("debug", false, "enable debug logging")
	midiPort := flag.String("midi", "", `MIDI output port for the click ("list" prints the available ports)`)
	flag.Parse()

	logger := logging.Init(os.Stderr, *debug)

	if *midiPort == "list" {
		if err := printMIDIOutputs(); err != nil {
			logger.Error("list midi outputs", "err", err)
			os.Exit(1)
		}
		return
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Info("metronome already running", "err", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "err", err)
	}
	settings = applyFlags(settings, *bpm, *minutes, *midiPort)

	outputs := newClickOutputs(logger)
	defer outputs.Close()

	controller := session.New(settings.SessionConfig(), session.Config{
		Clicker: outputs.Rebuild(settings, nil),
		Logger:  logger,
	})
	defer controller.Close()

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runHeadless(ctx, controller, os.Stdout)
		return
	}

	runDesktop(controller, settings, outputs, guard, logger)
}

func applyFlags(settings preferences.Settings, bpm, minutes int, midiPort string) preferences.Settings {
	if bpm > 0 {
		settings.Tempo = tempo.Clamp(tempo.BPM(bpm))
	}
	if minutes >= 0 {
		settings.TimerMinutes = minutes
	}
	if midiPort != "" {
		settings.MIDIPort = midiPort
	}
	return settings
}

func printMIDIOutputs() error {
	names, err := midi.ListOutputs()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no MIDI outputs found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runDesktop(controller *session.Controller, settings preferences.Settings, outputs *clickOutputs, guard *platform.InstanceGuard, logger *slog.Logger) {
	fyneApp := app.NewWithID("io.github.metronome")
	activeIcon := resources.MustIcon(resources.ActiveIcon)
	idleIcon := resources.MustIcon(resources.IdleIcon)
	fyneApp.SetIcon(idleIcon)

	quit := func() {
		controller.Close()
		fyneApp.Quit()
	}

	mainPanel := panel.New(fyneApp, appName, panel.Callbacks{
		OnToggle:   controller.Toggle,
		OnReset:    controller.Reset,
		OnIncrease: controller.IncreaseTempo,
		OnDecrease: controller.DecreaseTempo,
		OnTempo:    controller.SetTempo,
		OnTimer:    controller.SetDuration,
	})

	flash := animation.New(animation.DefaultConfig(), func(lit bool) {
		fyne.Do(func() {
			mainPanel.SetBeat(lit)
		})
	})

	ports, err := midi.ListOutputs()
	if err != nil {
		logger.Debug("list midi outputs", "err", err)
	}
	prefsWindow := preferences.New(fyneApp, settings, ports, func(updated preferences.Settings) {
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Error("save settings", "err", err)
		}
		outputs.Rebuild(updated, func(output audio.Output) {
			controller.SetClicker(output)
		})
	})

	var trayManager *tray.Manager
	desktopApp, ok := fyneApp.(desktop.App)
	if ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:        mainPanel.Show,
			OnToggle:      controller.Toggle,
			OnReset:       controller.Reset,
			OnIncrease:    controller.IncreaseTempo,
			OnDecrease:    controller.DecreaseTempo,
			OnPreferences: prefsWindow.Show,
			OnQuit:        quit,
		})
		desktopApp.SetSystemTrayIcon(idleIcon)
		mainPanel.SetCloseIntercept(mainPanel.Hide)
	} else {
		logger.Warn("system tray unsupported on this platform")
		mainPanel.SetCloseIntercept(quit)
	}

	render := func(snapshot session.Snapshot) {
		mainPanel.Update(snapshot)
		if trayManager == nil {
			return
		}
		active := snapshot.State == session.StateActive
		trayManager.SetStatus(panel.Status(snapshot))
		trayManager.SetActive(active)
		if active {
			desktopApp.SetSystemTrayIcon(activeIcon)
		} else {
			desktopApp.SetSystemTrayIcon(idleIcon)
		}
	}

	events := controller.Subscribe(64)
	go func() {
		for event := range events {
			switch event.Type {
			case session.EventBeat:
				flash.Trigger()
			case session.EventClickError:
				// Already logged by the controller; the session keeps running.
			default:
				if event.State != session.StateActive {
					flash.Stop()
				}
				fyne.Do(func() {
					render(event.Snapshot)
				})
			}
		}
	}()

	guard.Listen(func() {
		fyne.Do(mainPanel.Show)
	})

	render(controller.Snapshot())
	mainPanel.Show()
	fyneApp.Run()
}
