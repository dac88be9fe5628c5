package project

import (
	"strconv"

	"github.com/google/uuid"
)

// IDSource mints IDs for templates, scenes, and instances. Assets are
// content-addressed and do not use it.
type IDSource interface {
	NewID() string
}

// UUIDSource mints UUIDv7 IDs. Time-ordered, so entities created later sort
// later, which keeps ID-sorted listings close to creation order.
type UUIDSource struct{}

// NewID returns a fresh UUIDv7 string.
func (UUIDSource) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequentialSource mints "prefix-1", "prefix-2", ... for tests and goldens.
type SequentialSource struct {
	Prefix string
	n      int
}

// NewID returns the next sequential ID.
func (s *SequentialSource) NewID() string {
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return prefix + "-" + strconv.Itoa(s.n)
}
