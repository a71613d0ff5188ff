package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrissnell/ws2300/internal/log"
	"github.com/chrissnell/ws2300/pkg/ws2300/emulator"
)

func handleConnection(conn net.Conn, station *emulator.Station) {
	defer conn.Close()

	log.Infof("WS2300 connection from %s", conn.RemoteAddr())
	if err := station.Serve(conn); err != nil {
		log.Errorf("Connection error: %v", err)
	}
	log.Infof("WS2300 connection from %s closed (%d resets, %d reads so far)",
		conn.RemoteAddr(), station.Resets(), station.Transactions())
}

// updateReadings refreshes the station memory until ctx is done.
func updateReadings(ctx context.Context, station *emulator.Station, interval time.Duration, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r := emulator.Generate(time.Now(), rng)
		station.Load(r)
		log.Debugf("new readings: outdoor=%.1f°C humidity=%d%% pressure=%.1fhPa wind=%.1fm/s",
			r.TemperatureOutdoor, r.HumidityOutdoor, r.Pressure, r.WindSpeed)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func main() {
	var (
		port     = flag.Int("port", 22300, "Port to listen on")
		debug    = flag.Bool("debug", false, "Turn on debugging output")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed for readings and faults")
		interval = flag.Duration("update-interval", 10*time.Second, "How often the readings change")

		// Flaky hardware simulation flags
		flaky           = flag.Bool("flaky", false, "Enable flaky hardware simulation")
		dropByteRate    = flag.Float64("drop-rate", 0.01, "Probability of dropping a response byte (0.0-1.0)")
		corruptByteRate = flag.Float64("corrupt-rate", 0.01, "Probability of corrupting a response byte (0.0-1.0)")
		badChecksumRate = flag.Float64("bad-checksum-rate", 0.05, "Probability of a wrong payload checksum (0.0-1.0)")
		busyRate        = flag.Float64("busy-rate", 0.1, "Probability of extra busy answers to a reset (0.0-1.0)")
		desyncRate      = flag.Float64("desync-rate", 0.02, "Probability of a garbage answer to a reset (0.0-1.0)")
	)
	flag.Parse()

	if err := log.Init(log.Options{Debug: *debug}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Infof("Starting WS2300 Weather Station Emulator on port %d", *port)
	if *flaky {
		log.Info("FLAKY HARDWARE MODE ENABLED:")
		log.Infof("  Drop bytes: %.1f%%, Corrupt bytes: %.1f%%, Bad checksum: %.1f%%",
			*dropByteRate*100, *corruptByteRate*100, *badChecksumRate*100)
		log.Infof("  Busy resets: %.1f%%, Desynced resets: %.1f%%", *busyRate*100, *desyncRate*100)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	defer listener.Close()

	station := emulator.NewStation(emulator.Config{
		Seed: *seed,
		Flaky: emulator.FlakyConfig{
			Enabled:         *flaky,
			DropByteRate:    *dropByteRate,
			CorruptByteRate: *corruptByteRate,
			BadChecksumRate: *badChecksumRate,
			BusyRate:        *busyRate,
			DesyncRate:      *desyncRate,
		},
	})

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received, stopping server...")
		cancel()
		listener.Close()
	}()

	go updateReadings(ctx, station, *interval, *seed)

	log.Infof("WS2300 emulator listening on port %d", *port)
	log.Infof("Read it with: ws2300 tcp://localhost:%d", *port)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Server stopped")
				return
			}
			log.Errorf("Failed to accept connection: %v", err)
			continue
		}

		go handleConnection(conn, station)
	}
}
