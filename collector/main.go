// Collector is a sensor log service. It ingests sensor readings over TCP and
// answers bounded-tail queries against the per-sensor history.
//
// Usage: collector --data-dir=./data --max-connections=100 --rate-limit=65536 8081
//
// Protocol, one message per line terminated by CRLF:
//
//	LOG|<sensor id>|<timestamp>|<reading>   appends a record, no reply
//	GET|<sensor id>|<count>                 replies with the last count records
//
// Flags:
//
//	--host: interface to bind, all interfaces when empty
//	--data-dir: directory holding the sensor_<id>.log files
//	--max-frame-size: largest accepted message (e.g. 256KiB)
//	--idle-timeout: close sessions idle for this long
//	--max-connections: maximum number of concurrent sessions
//	--rate-limit: per-session rate limit in bytes/sec
//	--config: optional TOML or YAML config file
//	--no-color: disable colored log levels
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
	collectorInfrastructure "github.com/samoilenko/sensorlog/collector/infrastructure"
)

func endWithError(flags *pflag.FlagSet, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", err, collectorInfrastructure.Usage(flags))
	os.Exit(1)
}

func main() {
	flags := collectorInfrastructure.NewFlagSet("collector")
	config, err := collectorInfrastructure.GetFromCommandLineParameters(flags)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(os.Stdout, collectorInfrastructure.Usage(flags))
			return
		}
		endWithError(flags, err)
	}

	color.NoColor = config.NoColor || !isatty.IsTerminal(os.Stdout.Fd())

	ctx, finish := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer finish()

	// create instances
	stdlibLogger := log.New(os.Stdout, "", log.LstdFlags)
	logger := collectorDomain.NewStdLogger(stdlibLogger)

	logger.Info("Creating services...")
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(string(config.DataDir), 0755); err != nil {
		endWithError(flags, fmt.Errorf("error on creating data directory: %w", err))
	}
	store := collectorInfrastructure.NewSensorLogStore(fs, config.DataDir, logger)

	// every session gets its own interceptor chain so rate limits are per connection
	commandValidator := collectorInfrastructure.NewCommandValidator()
	newHandler := func() *collectorDomain.CommandHandler {
		interceptors := collectorDomain.WithInterceptors[collectorDomain.Command](commandValidator)
		if config.RateLimit.Enabled() {
			interceptors.Interceptors = append(
				interceptors.Interceptors,
				collectorInfrastructure.NewRateLimiter(config.RateLimit, 1*time.Second),
			)
		}
		return collectorDomain.NewCommandHandler(store, interceptors, logger)
	}

	listener := collectorInfrastructure.NewListener(config.ListenerConfig(), newHandler, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listener.ListenAndServe(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down TCP server...")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("listenAndServe error: %s", err.Error())
		os.Exit(1)
	}
	logger.Info("All components stopped gracefully")
}
