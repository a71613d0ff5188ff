// Package restserver serves on-demand station readings over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/ws2300/internal/log"
	"github.com/chrissnell/ws2300/internal/station"
	"github.com/chrissnell/ws2300/pkg/ws2300"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Source answers reading requests. *station.Station satisfies it.
type Source interface {
	Snapshot(ctx context.Context) (*ws2300.Snapshot, error)
	Field(ctx context.Context, name string) (any, error)
	Status() station.Status
}

// Controller represents the REST server controller
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	Server   http.Server
	listener net.Listener
	source   Source
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, listenAddr string, source Source, logger *zap.SugaredLogger) *Controller {
	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		source: source,
		logger: logger,
	}

	if listenAddr == "" {
		logger.Info("server.listen-addr not provided; defaulting to :8080")
		listenAddr = ":8080"
	}

	ctrl.handlers = NewHandlers(ctrl)
	ctrl.Server.Addr = listenAddr
	ctrl.Server.Handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger}),
		handlers.PrintRecoveryStack(true),
	)(handlers.ProxyHeaders(ctrl.setupRouter()))
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl
}

// StartController starts the REST server. It returns once the server is
// listening; the server stops when the controller's context is cancelled.
func (c *Controller) StartController() error {
	log.Infof("Starting REST server on %s...", c.Server.Addr)

	ln, err := net.Listen("tcp", c.Server.Addr)
	if err != nil {
		return fmt.Errorf("REST server could not listen on %s: %w", c.Server.Addr, err)
	}
	c.listener = ln

	c.wg.Add(2)

	go func() {
		defer c.wg.Done()

		if err := c.Server.Serve(ln); err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Addr returns the address the server listens on, or nil before
// StartController.
func (c *Controller) Addr() net.Addr {
	if c.listener == nil {
		return nil
	}
	return c.listener.Addr()
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)

	router.HandleFunc("/snapshot", c.handlers.GetSnapshot).Methods(http.MethodGet)
	router.HandleFunc("/fields", c.handlers.ListFields).Methods(http.MethodGet)
	router.HandleFunc("/fields/{field}", c.handlers.GetField).Methods(http.MethodGet)
	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)

	return router
}

// recoveryLogger sends panics caught by the HTTP server to zap.
type recoveryLogger struct {
	logger *zap.SugaredLogger
}

func (r recoveryLogger) Println(args ...interface{}) {
	r.logger.Error(args...)
}
