// Package daemon wires the event pipeline together: compositor events,
// the liveness tick, idle-monitor signals and the shutdown trigger, all
// multiplexed into the journal by a single loop.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nodech/sway-matiane/internal/config"
	"github.com/nodech/sway-matiane/internal/event"
	"github.com/nodech/sway-matiane/internal/logging"
	"github.com/nodech/sway-matiane/internal/store"
	"github.com/nodech/sway-matiane/internal/sway"
	"github.com/nodech/sway-matiane/internal/swayidle"
	"github.com/nodech/sway-matiane/internal/tray"
)

// swaySockEnv points at the compositor's IPC socket. Required.
const swaySockEnv = "SWAYSOCK"

// ErrNoSwaySock is returned when SWAYSOCK is not set.
var ErrNoSwaySock = errors.New("could not find SWAYSOCK env var")

// streamItem is one result from the subscription reader goroutine.
type streamItem struct {
	event *sway.Event
	err   error
}

// Run acquires the single-instance lock, opens the journal and runs the
// pipeline until ctx is cancelled or a fatal error occurs. configPath,
// when non-empty, is watched for on-disk changes (reported, not applied).
func Run(ctx context.Context, cfg *config.Config, configPath string) error {
	sock := os.Getenv(swaySockEnv)
	if sock == "" {
		return ErrNoSwaySock
	}

	// The lock guards everything else in the state directory, so it is
	// taken before any of it is opened.
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	lock, err := store.AcquireLockFile(cfg.StateDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	logging.Debugf("opening journal in %s", cfg.StateDir)
	writer, err := store.Open(cfg.StateDir, time.Now())
	if err != nil {
		return err
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logging.WithError(err).Error("error closing journal")
		}
	}()

	logging.Debugf("opening sway socket")
	stream, err := sway.Subscribe(ctx, sock, sway.EventWindow)
	if err != nil {
		return err
	}
	defer stream.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	idle := swayidle.New(cfg.SwayidlePath).
		Add(swayidle.DaemonHooks(os.Getpid(), uint32(cfg.IdleTimeout))...).
		Spawn(ctx)
	defer idle.Stop()

	group, groupCtx := errgroup.WithContext(ctx)
	if cfg.TrayEnabled() {
		group.Go(func() error {
			if err := tray.Run(groupCtx); err != nil {
				logging.WithError(err).Warn("tray registration failed")
			}
			return nil
		})
	}
	if configPath != "" {
		group.Go(func() error {
			watchConfig(groupCtx, configPath)
			return nil
		})
	}

	events := make(chan streamItem)
	go func() {
		for {
			ev, err := stream.Next()
			select {
			case events <- streamItem{event: ev, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	logging.Infof("sway-matiane has started")
	err = pipeline(ctx, cfg, writer, events)

	// Tear ancillary tasks down before the journal flushes on the way
	// out.
	cancel()
	stream.Close()
	if werr := group.Wait(); werr != nil {
		logging.WithError(werr).Warn("background task failed")
	}

	return err
}

// pipeline is the single writer to the journal: every wake-up stamps the
// current time and appends exactly one record.
func pipeline(ctx context.Context, cfg *config.Config, writer *store.EventWriter, events <-chan streamItem) error {
	sigLock := notify(swayidle.SignalLock)
	sigUnlock := notify(swayidle.SignalUnlock)
	sigIdle := notify(swayidle.SignalIdle)
	sigActive := notify(swayidle.SignalActive)
	defer signal.Stop(sigLock)
	defer signal.Stop(sigUnlock)
	defer signal.Stop(sigIdle)
	defer signal.Stop(sigActive)

	// time.Ticker already has skip semantics: a slow loop iteration
	// drops missed ticks and realigns.
	alive := time.NewTicker(cfg.LiveIntervalDuration())
	defer alive.Stop()

	write := func(ev event.Event) error {
		return writer.Write(event.Timed(time.Now(), ev))
	}

	for {
		select {
		case item := <-events:
			if item.err != nil {
				if errors.Is(item.err, io.EOF) {
					return errors.New("sway socket has closed")
				}
				return fmt.Errorf("sway event stream failed: %w", item.err)
			}
			logging.Tracef("received a %s window event", item.event.Window.Change)
			if err := write(normalizeWindow(item.event.Window)); err != nil {
				return err
			}

		case <-alive.C:
			logging.Tracef("alive tick")
			if err := write(event.New(event.KindAlive)); err != nil {
				return err
			}

		case <-sigLock:
			if err := write(event.New(event.KindLock)); err != nil {
				return err
			}
		case <-sigUnlock:
			if err := write(event.New(event.KindUnlock)); err != nil {
				return err
			}
		case <-sigIdle:
			if err := write(event.New(event.KindIdle)); err != nil {
				return err
			}
		case <-sigActive:
			if err := write(event.New(event.KindActive)); err != nil {
				return err
			}

		case <-ctx.Done():
			logging.Debugf("interrupt detected, closing")
			return nil
		}
	}
}

func notify(sig os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	return ch
}

// normalizeWindow reduces a window event to the focused record the
// journal stores. Identity prefers the wayland app id, then the X11
// instance and class.
func normalizeWindow(w *sway.WindowEvent) event.Event {
	c := &w.Container

	id := "app-id-not-found"
	switch {
	case c.AppID != nil:
		id = *c.AppID
	case c.WindowProperties != nil && c.WindowProperties.Instance != nil:
		id = *c.WindowProperties.Instance
	case c.WindowProperties != nil && c.WindowProperties.Class != nil:
		id = *c.WindowProperties.Class
	}

	title := id
	if c.Name != nil {
		title = *c.Name
	}

	var pid int32
	if c.PID != nil {
		pid = *c.PID
	}

	return event.NewFocused(title, id, pid)
}
