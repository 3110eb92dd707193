package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "sessions"

var errNotStored = errors.New("session entry not found")

// Backend persists encrypted tokens keyed by session id.
type Backend interface {
	Load(id string) (string, error)
	Save(id string, value string) error
	Delete(id string) error
}

type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]string)}
}

func (m *MemoryBackend) Load(id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[id]
	if !ok {
		return "", errNotStored
	}
	return value, nil
}

func (m *MemoryBackend) Save(id string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = value
	return nil
}

func (m *MemoryBackend) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// BoltBackend stores sessions in a bbolt file.
type BoltBackend struct {
	db *bbolt.DB
}

func NewBoltBackend(path string) (*BoltBackend, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session bucket: %w", err)
	}

	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Load(id string) (string, error) {
	var value string
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(id))
		if data == nil {
			return errNotStored
		}
		value = string(data)
		return nil
	})
	return value, err
}

func (b *BoltBackend) Save(id string, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(id), []byte(value))
	})
}

func (b *BoltBackend) Delete(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(id))
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
