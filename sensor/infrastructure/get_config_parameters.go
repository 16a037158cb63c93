package infrastructure

import (
	"github.com/spf13/pflag"

	sensorDomain "github.com/samoilenko/sensorlog/sensor/domain"
)

// NewFlagSet declares the sensor flags on a new FlagSet.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("name", "", "sensor name, used as the sensor id")
	flags.String("address", "", "collector address (e.g. 127.0.0.1:8081)")
	flags.Int("rate", 0, "number of readings per second to send, greater than 0")
	flags.Bool("no-color", false, "disable colored log levels")
	return flags
}

// GetConfigParameters parses args and returns validated sensor configuration.
func GetConfigParameters(flags *pflag.FlagSet, args []string) (sensorDomain.Address, sensorDomain.SensorName, sensorDomain.Rate, error) {
	if err := flags.Parse(args); err != nil {
		return "", "", 0, err
	}

	rawSinkAddress, _ := flags.GetString("address")
	address, err := sensorDomain.NewAddress(rawSinkAddress)
	if err != nil {
		return "", "", 0, err
	}

	rawRate, _ := flags.GetInt("rate")
	rate, err := sensorDomain.NewRate(rawRate)
	if err != nil {
		return "", "", 0, err
	}

	rawSensorName, _ := flags.GetString("name")
	sensorName, err := sensorDomain.NewSensorName(rawSensorName)
	if err != nil {
		return "", "", 0, err
	}

	return address, sensorName, rate, nil
}
