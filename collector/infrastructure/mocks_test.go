package infrastructure

import (
	"strings"
	"sync"
)

type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) Error(msg string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockLogger) Info(_ string, _ ...interface{}) {}

func (m *mockLogger) GetMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.messages...)
}

func (m *mockLogger) Contains(fragment string) bool {
	for _, msg := range m.GetMessages() {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
