package identity

import (
	"context"
	"sort"
	"strings"
	"sync"

	"basetrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemoryUserStore is the degraded-mode account directory used when the
// identity database is unreachable at startup. Same contract as the
// persistent store, no module-level state.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemoryUserStore) FindByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	ident := strings.ToLower(identifier)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == ident || u.Email == ident {
			copied := u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemoryUserStore) Update(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.users[user.ID] = *user
	return nil
}

// MemoryBaseStore holds the base directory in memory, seeded with the
// default base list in degraded mode.
type MemoryBaseStore struct {
	mu    sync.RWMutex
	bases map[uuid.UUID]model.Base
}

func NewMemoryBaseStore(seed []model.Base) *MemoryBaseStore {
	s := &MemoryBaseStore{bases: make(map[uuid.UUID]model.Base, len(seed))}
	for _, b := range seed {
		s.bases[b.ID] = b
	}
	return s
}

func (s *MemoryBaseStore) Create(_ context.Context, base *model.Base) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	s.bases[base.ID] = *base
	return nil
}

func (s *MemoryBaseStore) FindByID(_ context.Context, id uuid.UUID) (*model.Base, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.bases[id]; ok {
		copied := b
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *MemoryBaseStore) ListActive(_ context.Context) ([]model.Base, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bases := make([]model.Base, 0, len(s.bases))
	for _, b := range s.bases {
		if b.IsActive {
			bases = append(bases, b)
		}
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i].Name < bases[j].Name })
	return bases, nil
}
