package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for live sessions and request correlation.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	return v.String(), nil
}

// Sequence returns ids with a fixed prefix and an increasing counter. Tests use it for stable
// session ids.
type Sequence struct {
	Prefix string
	next   int
}

func (s *Sequence) NewID() (string, error) {
	s.next++
	return fmt.Sprintf("%s%d", s.Prefix, s.next), nil
}
