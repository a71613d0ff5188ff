package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chrissnell/ws2300/internal/app"
	"github.com/chrissnell/ws2300/internal/constants"
	"github.com/chrissnell/ws2300/internal/log"
	"github.com/chrissnell/ws2300/pkg/config"
	"github.com/chrissnell/ws2300/pkg/responseformat"
	"github.com/chrissnell/ws2300/pkg/ws2300"
)

func main() {
	cfgFile := flag.String("config", "", "Path to an optional YAML configuration file")
	debug := flag.Bool("debug", false, "Turn on debugging output, including a hex trace of the serial link")
	showVersion := flag.Bool("version", false, "Show version and exit")
	format := flag.String("format", "", "Output format: "+strings.Join(responseformat.Formats(), ", "))
	field := flag.String("field", "", "Read a single field instead of the whole snapshot: "+strings.Join(ws2300.Fields(), ", "))
	listen := flag.String("listen", "", "Serve readings over HTTP on this address (e.g. :8080) instead of printing once")
	driver := flag.String("driver", "", "Serial driver: bugst or goserial")
	readTimeout := flag.Duration("read-timeout", 0, "Per-byte read timeout on the link")
	strictReset := flag.Bool("strict-reset", false, "Fail a read when the reset handshake never completes")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <serial device | tcp://host:port>\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("ws2300 %s\n", constants.Version)
		os.Exit(0)
	}

	if err := log.Init(log.Options{Debug: *debug}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var base config.ConfigProvider
	if *cfgFile != "" {
		filename, _ := filepath.Abs(*cfgFile)
		base = config.NewYAMLProvider(filename)
	}

	if flag.NArg() == 0 && base == nil {
		flag.Usage()
		os.Exit(1)
	}

	provider := config.NewOverrideProvider(base, func(c *config.ConfigData) {
		if dev := flag.Arg(0); dev != "" {
			c.Device.SerialDevice = dev
		}
		if *driver != "" {
			c.Device.Driver = *driver
		}
		if *readTimeout > 0 {
			c.Device.ReadTimeout = *readTimeout
		}
		if *strictReset {
			c.Protocol.StrictReset = true
		}
		if *format != "" {
			c.Output.Format = *format
		}
		if *field != "" {
			c.Output.Field = *field
		}
		if *listen != "" {
			c.Server.ListenAddr = *listen
		}
		if *debug {
			c.Log.Debug = true
		}
	})
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// A log file or debug setting from the config file takes effect now.
	if cfgData.Log.File != "" || cfgData.Log.Debug != *debug {
		if err := log.Init(log.Options{Debug: cfgData.Log.Debug, File: cfgData.Log.File}); err != nil {
			log.Errorf("Failed to initialize logger: %v", err)
			os.Exit(1)
		}
	}

	start := time.Now()
	application := app.New(provider, log.GetSugaredLogger(), os.Stdout)
	if err := application.Run(context.Background()); err != nil {
		if errors.Is(err, ws2300.ErrUnreadable) {
			log.Errorf("station did not answer after %v: %v", time.Since(start).Round(time.Millisecond), err)
		} else {
			log.Errorf("Application error: %v", err)
		}
		log.Sync()
		os.Exit(1)
	}
}
