package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/kshitij/vidtube/internal/media"
)

// MemoryMediaStore is an in-memory media.Store for tests.
type MemoryMediaStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailUploads makes every Upload fail, for media-host error paths.
	FailUploads bool
}

func NewMemoryMediaStore() *MemoryMediaStore {
	return &MemoryMediaStore{objects: make(map[string][]byte)}
}

func (s *MemoryMediaStore) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*media.Asset, error) {
	if s.FailUploads {
		return nil, errors.New("upload rejected")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s-%s", folder, uuid.New(), filename)

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return &media.Asset{
		URL: "http://media.test/" + key,
		Key: key,
	}, nil
}

func (s *MemoryMediaStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return errors.New("object not found")
	}
	delete(s.objects, key)
	return nil
}

// Has reports whether an object with the given key is stored.
func (s *MemoryMediaStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Count returns the number of stored objects.
func (s *MemoryMediaStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
