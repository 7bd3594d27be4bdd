package fakerepo

import (
	"context"
	"io"
	"sync"

	"github.com/jhoicas/storefront-api/internal/application/ports"
)

var _ ports.ObjectStorage = (*Storage)(nil)

// Storage almacenamiento de objetos en memoria.
type Storage struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Deleted   []string
	UploadErr error
	DeleteErr error
}

func NewStorage() *Storage {
	return &Storage{Objects: map[string][]byte{}}
}

func (s *Storage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.Objects[key] = b
	return "https://cdn.test/" + key, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Objects, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

// Len objetos vigentes.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}
