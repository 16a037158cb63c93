// This component reads data from a sensor and transfers it to the collector
//
// Usage example: sensor --rate 5 --name TEMP2 --address=127.0.0.1:8081
//
// Required flags:
//
//	--rate: number of readings per second to send
//	--name: name of the sensor, used as the sensor id
//	--address: address of the collector (e.g., 127.0.0.1:8081)
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	sensorDomain "github.com/samoilenko/sensorlog/sensor/domain"
	sensorInfrastructure "github.com/samoilenko/sensorlog/sensor/infrastructure"
)

func endWithError(flags *pflag.FlagSet, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
	flags.PrintDefaults()
	os.Exit(1)
}

func main() {
	flags := sensorInfrastructure.NewFlagSet("sensor")
	address, sensorName, rate, err := sensorInfrastructure.GetConfigParameters(flags, os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		endWithError(flags, err)
	}

	noColor, _ := flags.GetBool("no-color")
	color.NoColor = noColor || !isatty.IsTerminal(os.Stdout.Fd())

	ctx, finish := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer finish()

	stdlibLogger := log.New(os.Stdout, "", log.LstdFlags)
	logger := sensorDomain.NewStdLogger(stdlibLogger)

	stream := sensorInfrastructure.NewTCPStream(address, logger)
	transport := sensorInfrastructure.NewTCPStreamSender(stream, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		transport.Run(gctx)
		return nil
	})
	g.Go(func() error {
		reader := sensorDomain.NewValueReader(rate, 2, logger)
		valuesCh := reader.Read(gctx, sensorInfrastructure.DummySensor{})
		sender := sensorDomain.NewSensorDataSender(transport, logger, sensorName)
		sender.Send(gctx, valuesCh)
		return nil
	})

	_ = g.Wait()
	logger.Info("sensor %s stopped", sensorName)
}
