package queue

import (
	"context"
	"sync"
)

// Message is one published notification.
type Message struct {
	RunID   string
	PostURL string
}

// MemoryProvider implements Provider in memory for tests.
type MemoryProvider struct {
	mu       sync.Mutex
	messages []Message
}

// NewMemoryProvider returns an empty in-memory queue.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

// Publish records the notification.
func (m *MemoryProvider) Publish(_ context.Context, runID, postURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{RunID: runID, PostURL: postURL})
	return nil
}

// Messages returns a copy of everything published so far.
func (m *MemoryProvider) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Close does nothing.
func (m *MemoryProvider) Close() error { return nil }
