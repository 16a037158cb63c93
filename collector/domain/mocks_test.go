package domain

import (
	"context"
	"sync"
)

type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) GetErrors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.errors...)
}

type writeCall struct {
	id     SensorID
	record LogRecord
}

type mockStore struct {
	mu        sync.Mutex
	writes    []writeCall
	reads     []SensorID
	writeErr  error
	readErr   error
	records   []LogRecord
	lastCount int
}

func (m *mockStore) Write(_ context.Context, id SensorID, record LogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, writeCall{id: id, record: record})
	return m.writeErr
}

func (m *mockStore) ReadTail(_ context.Context, id SensorID, count int) ([]LogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, id)
	m.lastCount = count
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.records, nil
}

type rejectAll struct {
	err error
}

func (r rejectAll) Apply(_ *Command) error {
	return r.err
}
