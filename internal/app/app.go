// Package app wires configuration, the serial link, the WS2300 device and
// the optional HTTP server together.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/ws2300/internal/controllers/restserver"
	"github.com/chrissnell/ws2300/internal/log"
	"github.com/chrissnell/ws2300/internal/serialport"
	"github.com/chrissnell/ws2300/internal/station"
	"github.com/chrissnell/ws2300/pkg/config"
	"github.com/chrissnell/ws2300/pkg/responseformat"
	"github.com/chrissnell/ws2300/pkg/ws2300"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	out            io.Writer
}

// New creates a new application instance. Readings are written to out.
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger, out io.Writer) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
		out:            out,
	}
}

// Run opens the station and either prints one reading or, when a listen
// address is configured, serves readings over HTTP until shutdown.
func (a *App) Run(ctx context.Context) error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	target := cfg.Device.Target()
	a.logger.Debugf("opening %s (driver %s, %d baud)", target, cfg.Device.Driver, cfg.Device.Baud)

	port, err := serialport.Open(serialport.Config{
		Device:      target,
		Baud:        cfg.Device.Baud,
		Driver:      cfg.Device.Driver,
		ReadTimeout: cfg.Device.ReadTimeout,
		Trace:       cfg.Log.Debug,
	})
	if err != nil {
		return err
	}
	defer port.Close()

	dev := ws2300.NewDevice(port, a.options(cfg.Protocol))

	if cfg.Server.ListenAddr == "" {
		return a.readOnce(dev, cfg.Output)
	}
	return a.serve(ctx, dev, cfg.Server)
}

func (a *App) options(p config.ProtocolData) ws2300.Options {
	return ws2300.Options{
		ReadAttempts:  p.ReadAttempts,
		ResetAttempts: p.ResetAttempts,
		ResetBackoff:  p.ResetBackoff,
		StrictReset:   p.StrictReset,
		OnRetry: func(cell ws2300.MemoryCell, attempt int, err error) {
			a.logger.Debugw("retrying read", "address", fmt.Sprintf("0x%03X", cell.Address), "attempt", attempt+1, "error", err)
		},
	}
}

func (a *App) readOnce(dev *ws2300.Device, out config.OutputData) error {
	var data any

	if out.Field != "" {
		v, err := dev.ReadField(out.Field)
		if err != nil {
			return err
		}
		data = map[string]any{out.Field: v}
	} else {
		snap, err := dev.ReadAll()
		if err != nil {
			return err
		}
		data = snap
	}

	return responseformat.NewFormatter().Encode(a.out, out.Format, data)
}

func (a *App) serve(ctx context.Context, dev *ws2300.Device, srv config.ServerData) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	st := station.New(dev, a.logger)
	g.Go(func() error {
		return st.Run(ctx)
	})

	ctrl := restserver.NewController(ctx, &wg, srv.ListenAddr, st, a.logger)
	if err := ctrl.StartController(); err != nil {
		cancel()
		g.Wait()
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	g.Go(func() error {
		select {
		case <-sigs:
			log.Info("shutdown signal received, initiating graceful shutdown...")
			cancel()
		case <-ctx.Done():
			log.Info("context cancelled, shutting down...")
		}

		log.Info("waiting for the REST server to terminate...")
		wg.Wait()
		return nil
	})

	err := g.Wait()
	log.Info("shutdown complete")
	return err
}
