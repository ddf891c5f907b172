package stubserver

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/raovat-dev/raovat/internal/bangtin"
)

// Store coordinates concurrent access to the stub's dataset and the
// bearer tokens it has issued. Handlers never see the backing slices;
// reads hand out copies.
type Store struct {
	mu     sync.RWMutex
	posts  []bangtin.Post
	users  []User
	tokens map[string]User
}

// NewStore builds a store holding the given dataset.
func NewStore(ds Dataset) *Store {
	return &Store{
		posts:  clonePosts(ds.Posts),
		users:  append([]User(nil), ds.Users...),
		tokens: make(map[string]User),
	}
}

// Posts returns a copy of every post in the dataset, including the
// unpublished ones. Filtering is the handler's job.
func (s *Store) Posts() []bangtin.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePosts(s.posts)
}

// ReplacePosts swaps the whole post set. Used by tests to shape a scenario.
func (s *Store) ReplacePosts(posts []bangtin.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = clonePosts(posts)
}

// UserByEmail finds a fixture user. Email comparison is case-insensitive,
// matching how identity providers treat addresses.
func (s *Store) UserByEmail(email string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}

// IssueToken mints a bearer token for the user and remembers it until
// revoked.
func (s *Store) IssueToken(u User) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = u
	return token
}

// TokenUser resolves an issued token back to its user.
func (s *Store) TokenUser(token string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.tokens[token]
	return u, ok
}

// RevokeToken forgets an issued token. Unknown tokens are a no-op; sign-out
// must be idempotent.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func clonePosts(posts []bangtin.Post) []bangtin.Post {
	if len(posts) == 0 {
		return nil
	}
	dup := make([]bangtin.Post, len(posts))
	copy(dup, posts)
	return dup
}
