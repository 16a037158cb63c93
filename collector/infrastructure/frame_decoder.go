package infrastructure

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

var crlf = []byte(collectorDomain.FrameDelimiter)

// ScanCRLF is a bufio.SplitFunc that yields messages terminated by "\r\n",
// with the terminator removed. A lone '\r' or '\n' is part of the message.
// Bytes left without a terminator at EOF are dropped.
func ScanCRLF(data []byte, _ bool) (advance int, token []byte, err error) {
	if i := bytes.Index(data, crlf); i >= 0 {
		return i + len(crlf), data[:i], nil
	}

	// request more data
	return 0, nil, nil
}

// FrameDecoder splits a byte stream into protocol messages.
type FrameDecoder struct {
	scanner *bufio.Scanner
}

// Next returns the next complete message. It returns io.EOF when the stream
// ends and collectorDomain.ErrFrameTooLarge when a message outgrows the
// configured limit before its terminator arrives.
func (d *FrameDecoder) Next() (string, error) {
	if d.scanner.Scan() {
		return d.scanner.Text(), nil
	}

	err := d.scanner.Err()
	if err == nil {
		return "", io.EOF
	}
	if errors.Is(err, bufio.ErrTooLong) {
		return "", collectorDomain.ErrFrameTooLarge
	}
	return "", err
}

// NewFrameDecoder creates a FrameDecoder over r accepting messages of up to
// maxFrameSize bytes, terminator excluded.
func NewFrameDecoder(r io.Reader, maxFrameSize collectorDomain.MaxFrameSize) *FrameDecoder {
	limit := int(maxFrameSize) + len(crlf)
	initial := 4096
	if initial > limit {
		initial = limit
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), limit)
	scanner.Split(ScanCRLF)

	return &FrameDecoder{scanner: scanner}
}
