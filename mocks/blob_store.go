package mocks

import (
	"context"
	"io"
	"sync"
)

// BlobStore keeps uploaded objects in memory.
type BlobStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
	PutErr  error
	BaseURL string
}

func NewBlobStore() *BlobStore {
	return &BlobStore{
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
		BaseURL: "http://localhost:8080/storage",
	}
}

func (b *BlobStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if b.PutErr != nil {
		return b.PutErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.Objects[key] = data
	b.Types[key] = contentType
	return nil
}

func (b *BlobStore) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Objects, key)
	delete(b.Types, key)
	return nil
}

func (b *BlobStore) URL(key string) string {
	return b.BaseURL + "/" + key
}

func (b *BlobStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Objects)
}
