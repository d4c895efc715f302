package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/verletsim/internal/spawn"
	"github.com/san-kum/verletsim/internal/stream"
	"github.com/san-kum/verletsim/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	log := newLogger(logOut, cfg)

	sys, err := cfg.NewSystem(log)
	if err != nil {
		return err
	}
	sp := spawn.New(cfg.Spawn, cfg.Seed)

	var em *spawn.Emitter
	if cfg.Emitter.Total > 0 {
		em = spawn.NewEmitter(sp, cfg.Emitter, cfg.Spawn.Key, cfg.Spawn.Mass)
	}

	title := cfg.Name
	if title == "" {
		title = "verletsim"
	}
	m := viz.NewModel(sys, viz.Options{
		Spawner: sp,
		Emitter: em,
		Logger:  log,
		Theme:   theme,
		Title:   title,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr, cfg)

	sys, err := cfg.NewSystem(log)
	if err != nil {
		return err
	}
	sp := spawn.New(cfg.Spawn, cfg.Seed)

	var em *spawn.Emitter
	if cfg.Emitter.Total > 0 {
		em = spawn.NewEmitter(sp, cfg.Emitter, cfg.Spawn.Key, cfg.Spawn.Mass)
	}

	srv := stream.NewServer(sys, sp, stream.Options{
		Dt:             cfg.Dt,
		BroadcastEvery: broadcastEvery,
		Spawn:          cfg.Spawn,
		Emitter:        em,
		Logger:         log,
	})
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Infof("verletsim listening on %s (websocket at /ws)", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
