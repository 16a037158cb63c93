package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

// scanCancelCheckInterval is how many records ReadTail decodes between
// context checks.
const scanCancelCheckInterval = 1024

// SensorLogStore keeps one append-only binary log file per sensor.
//
// Writes to the same sensor are serialized by an exclusive per-sensor lock
// (plus an advisory file lock for other processes) and land as a single
// write call, so a record is never interleaved with another. Reads take the
// shared lock, which lets queries run together while never observing a
// record half written.
type SensorLogStore struct {
	fs      afero.Fs
	dataDir collectorDomain.DataDir
	locks   *KeyedLocker
	logger  collectorDomain.Logger
}

// Path returns the log file of the sensor.
func (s *SensorLogStore) Path(id collectorDomain.SensorID) string {
	return filepath.Join(string(s.dataDir), "sensor_"+string(id)+".log")
}

// Write appends record to the log of the sensor, creating the file on first use.
func (s *SensorLogStore) Write(_ context.Context, id collectorDomain.SensorID, record collectorDomain.LogRecord) error {
	if err := id.Validate(); err != nil {
		return err
	}

	buf, err := AppendRecord(make([]byte, 0, EncodedRecordSize(record)), record)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(string(id))
	defer unlock()

	name := s.Path(id)
	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error on opening file %s: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.Error("error on closing file %s: %s", name, closeErr.Error())
		}
	}()

	unlockFile, err := lockFile(f, true)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer unlockFile()

	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("error on writing file %s: %w", name, err)
	}

	s.logger.Info("log saved to %s", name)
	return nil
}

// ReadTail scans the whole log of the sensor from the start and returns the
// last count records, oldest first. A log that ends inside a record yields
// the records decoded before it. A sensor without a log file returns
// collectorDomain.ErrSensorNotFound, while an empty log returns no records.
func (s *SensorLogStore) ReadTail(ctx context.Context, id collectorDomain.SensorID, count int) ([]collectorDomain.LogRecord, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count is negative: %d", collectorDomain.ErrValidation, count)
	}

	unlock := s.locks.RLock(string(id))
	defer unlock()

	name := s.Path(id)
	f, err := s.fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", collectorDomain.ErrSensorNotFound, name)
		}
		return nil, fmt.Errorf("error on opening file %s: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if count == 0 {
		return []collectorDomain.LogRecord{}, nil
	}

	unlockFile, err := lockFile(f, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer unlockFile()

	window := newTailWindow[collectorDomain.LogRecord](count)
	reader := NewRecordReader(f)
	scanned := 0
	for {
		if scanned%scanCancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, ErrTruncatedRecord) {
				s.logger.Error("%s: %s, returning %d records decoded before it", name, err.Error(), scanned)
				break
			}
			return nil, fmt.Errorf("error on reading file %s: %w", name, err)
		}

		window.Push(record)
		scanned++
	}

	s.logger.Info("scanned %s of %s: %d records, returning %d",
		humanize.Bytes(uint64(reader.Offset())), name, scanned, window.Len(),
	)
	return window.Items(), nil
}

// NewSensorLogStore creates a SensorLogStore writing under dataDir on fs.
// The directory must exist.
func NewSensorLogStore(fs afero.Fs, dataDir collectorDomain.DataDir, logger collectorDomain.Logger) *SensorLogStore {
	return &SensorLogStore{
		fs:      fs,
		dataDir: dataDir,
		locks:   NewKeyedLocker(),
		logger:  logger,
	}
}
