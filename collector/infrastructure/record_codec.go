package infrastructure

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

// lengthPrefixSize is the width of the little-endian length stored before
// each field of a record.
const lengthPrefixSize = 2

// ErrTruncatedRecord reports a log that ends in the middle of a record.
var ErrTruncatedRecord = errors.New("truncated record")

// AppendRecord appends the persisted encoding of record to dst:
// len(timestamp), timestamp, len(reading), reading, with 2-byte
// little-endian lengths and no header or checksum.
func AppendRecord(dst []byte, record collectorDomain.LogRecord) ([]byte, error) {
	if err := record.Validate(); err != nil {
		return dst, err
	}

	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(record.Timestamp)))
	dst = append(dst, record.Timestamp...)
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(record.Reading)))
	dst = append(dst, record.Reading...)
	return dst, nil
}

// EncodedRecordSize returns the number of bytes AppendRecord writes for record.
func EncodedRecordSize(record collectorDomain.LogRecord) int {
	return 2*lengthPrefixSize + len(record.Timestamp) + len(record.Reading)
}

// RecordReader decodes records sequentially from the start of a sensor log.
type RecordReader struct {
	r      *bufio.Reader
	offset int64
}

// Next returns the next record. It returns io.EOF when the log ends exactly
// at a record boundary and an error wrapping ErrTruncatedRecord when it ends
// inside a record.
func (rr *RecordReader) Next() (collectorDomain.LogRecord, error) {
	start := rr.offset

	timestamp, err := rr.readField()
	if err != nil {
		if errors.Is(err, io.EOF) && rr.offset == start {
			return collectorDomain.LogRecord{}, io.EOF
		}
		return collectorDomain.LogRecord{}, rr.truncated(start, err)
	}

	reading, err := rr.readField()
	if err != nil {
		return collectorDomain.LogRecord{}, rr.truncated(start, err)
	}

	return collectorDomain.LogRecord{Timestamp: timestamp, Reading: reading}, nil
}

// Offset returns the number of bytes consumed so far.
func (rr *RecordReader) Offset() int64 {
	return rr.offset
}

func (rr *RecordReader) readField() (string, error) {
	var prefix [lengthPrefixSize]byte
	n, err := io.ReadFull(rr.r, prefix[:])
	rr.offset += int64(n)
	if err != nil {
		return "", err
	}

	field := make([]byte, binary.LittleEndian.Uint16(prefix[:]))
	n, err = io.ReadFull(rr.r, field)
	rr.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}

	return string(field), nil
}

func (rr *RecordReader) truncated(start int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w at offset %d", ErrTruncatedRecord, start)
	}
	return fmt.Errorf("error on reading record at offset %d: %w", start, err)
}

// NewRecordReader creates a RecordReader over r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{r: bufio.NewReader(r)}
}
