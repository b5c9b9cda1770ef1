// Package identity hands out short, collision-checked identifiers for
// plugin instances and regions. It mirrors a single global ID registry:
// generated IDs are remembered so neither a later Generate nor a later
// Register can silently collide with one already handed out.
package identity

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// idLen is the number of hex characters kept from a generated UUID4.
const idLen = 10

// Conflict is returned by Register when the supplied id has already
// been generated or registered.
type Conflict struct {
	ID string
}

func (e *Conflict) Error() string {
	return fmt.Sprintf("identity: id %q is already registered", e.ID)
}

// Service is a collision-checked identifier registry. The zero value is
// ready to use. A Service is safe for concurrent use.
type Service struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewService returns a ready-to-use Service.
func NewService() *Service {
	return &Service{seen: make(map[string]struct{})}
}

// Generate returns a new 10-hex-character id, retrying on the
// astronomically unlikely event of a collision with a previously
// generated or registered id.
func (s *Service) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id := uuid.New().String()
		id = stripHyphens(id)[:idLen]
		if _, taken := s.seen[id]; !taken {
			s.seen[id] = struct{}{}
			return id
		}
	}
}

// Register records an externally supplied id, such as one deserialized
// from a package manifest or a previous run's state, into the registry.
// It returns *Conflict if the id is already registered.
func (s *Service) Register(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.seen[id]; taken {
		return &Conflict{ID: id}
	}
	s.seen[id] = struct{}{}
	return nil
}

// Has reports whether id has already been generated or registered.
func (s *Service) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

func stripHyphens(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
