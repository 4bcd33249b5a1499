package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// MemoryStorage is an ObjectStorage that keeps objects in a map.
type MemoryStorage struct {
	mu         sync.Mutex
	Objects    map[string][]byte
	Types      map[string]string
	Deleted    []string
	BaseURL    string
	FailUpload bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Objects: map[string][]byte{},
		Types:   map[string]string{},
		BaseURL: "https://images.test",
	}
}

func (m *MemoryStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if m.FailUpload {
		return errors.New("upload failed")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Types[key] = contentType
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

func (m *MemoryStorage) PublicURL(key string) string {
	return m.BaseURL + "/" + key
}

func (m *MemoryStorage) KeyFromURL(url string) (string, bool) {
	prefix := m.BaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// RecordingSender captures welcome emails. Sent receives one value per call.
type RecordingSender struct {
	Sent chan string
	Err  error
}

func NewRecordingSender() *RecordingSender {
	return &RecordingSender{Sent: make(chan string, 16)}
}

func (r *RecordingSender) SendWelcomeEmail(email string, _ *string) error {
	r.Sent <- email
	return r.Err
}
