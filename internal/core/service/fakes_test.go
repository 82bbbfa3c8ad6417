package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == domain.NormalizeEmail(email) })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmailOrUsername(_ context.Context, identifier string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return u.Email == domain.NormalizeEmail(identifier) || u.Username == identifier
	})
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, skip, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	if skip >= len(all) {
		return []*domain.User{}, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *stubUserRepo) ExistsWithRole(_ context.Context, role domain.Role) (bool, error) {
	_, err := r.find(func(u *domain.User) bool { return u.Role == role })
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) put(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
}

// plainHasher is a reversible stand-in for bcrypt that counts Verify calls.
type plainHasher struct {
	mu       sync.Mutex
	verifies int
}

func (h *plainHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", domain.ErrInvalidInput
	}
	return "hashed:" + plaintext, nil
}

func (h *plainHasher) Verify(plaintext, hash string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return strings.HasPrefix(hash, "hashed:") && hash == "hashed:"+plaintext
}

func (h *plainHasher) calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.verifies
}

type recordingNotifier struct {
	notices []ports.ResetNotice
	err     error
}

func (n *recordingNotifier) NotifyReset(_ context.Context, notice ports.ResetNotice) error {
	if n.err != nil {
		return n.err
	}
	n.notices = append(n.notices, notice)
	return nil
}

type memoryThrottle struct {
	marked map[string]bool
	err    error
}

func newMemoryThrottle() *memoryThrottle {
	return &memoryThrottle{marked: make(map[string]bool)}
}

func (t *memoryThrottle) Allow(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return !t.marked[email], nil
}

func (t *memoryThrottle) Mark(_ context.Context, email string) error {
	t.marked[email] = true
	return nil
}

func seedUser(repo *stubUserRepo, id, email, username, password string, role domain.Role, active bool) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: "hashed:" + password,
		IsActive:     active,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	repo.put(u)
	return u
}
