package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/wm"
)

func runManager(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: framewm run")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Take over the display named by $DISPLAY (or the config's display) and frame its windows.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := config.LoadWithSources()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	if res.File != "" {
		log.Printf("Configuration loaded from %s", res.File)
	}

	// Not installed as the slog default: the log lines below must print at
	// every configured level.
	logger := newLogger(cfg, os.Stderr)

	mgr, err := wm.New(wm.Options{Display: cfg.Display, Logger: logger})
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return 1
	}
	defer mgr.Close()

	if cfg.IPC.Enabled {
		srv, err := ipc.NewServer(mgr, cfg.IPC.Socket, logger)
		if err != nil {
			log.Printf("Warning: status socket disabled: %v", err)
		} else if err := srv.Start(); err != nil {
			log.Printf("Warning: status socket disabled: %v", err)
		} else {
			defer func() {
				if err := srv.Stop(); err != nil {
					log.Printf("Failed to stop IPC server: %v", err)
				}
			}()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mgr.Run(ctx); err != nil {
		log.Printf("Window manager exited: %v", err)
		return 1
	}
	if mgr.State() == wm.StateProbingOwnership {
		log.Printf("Another window manager is already running on %s", mgr.Status().Display)
		return 1
	}

	log.Println("framewm stopped")
	return 0
}

// newLogger builds the process logger from the log section of cfg.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
