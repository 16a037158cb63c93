package infrastructure

import (
	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

// CommandValidator implements validation rules for parsed commands.
type CommandValidator struct {
}

// Apply validates a command before it reaches the store. Sensor ids must
// stay inside the data directory and ingested fields must fit the on-disk
// length prefix.
func (v CommandValidator) Apply(cmd *collectorDomain.Command) error {
	switch cmd.Kind {
	case collectorDomain.CommandIngest:
		if err := cmd.SensorID.Validate(); err != nil {
			return err
		}
		return cmd.Record.Validate()
	case collectorDomain.CommandQuery:
		return cmd.SensorID.Validate()
	}

	return nil
}

// NewCommandValidator creates a new instance of CommandValidator.
func NewCommandValidator() *CommandValidator {
	return &CommandValidator{}
}
