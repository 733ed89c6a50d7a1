// Package memory holds in-process stores used for local development
// (STORE_DRIVER=memory) and tests. They copy documents on every read and
// write so callers get the same load/replace semantics as Mongo.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cinecomments/internal/models"
	"cinecomments/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type movieEntry struct {
	seq   int
	movie *models.Movie
}

// MovieStore is a development-only in-memory movie store.
type MovieStore struct {
	mu     sync.RWMutex
	seq    int
	movies map[primitive.ObjectID]movieEntry
}

func NewMovieStore() *MovieStore {
	return &MovieStore{movies: make(map[primitive.ObjectID]movieEntry)}
}

func (s *MovieStore) Insert(_ context.Context, m *models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.Comments == nil {
		m.Comments = []models.Comment{}
	}
	m.Version = 1
	s.seq++
	s.movies[m.ID] = movieEntry{seq: s.seq, movie: m.Clone()}
	return nil
}

func (s *MovieStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.movies[id]
	if !ok {
		return nil, nil
	}
	return e.movie.Clone(), nil
}

func (s *MovieStore) FindAll(_ context.Context) ([]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]movieEntry, 0, len(s.movies))
	for _, e := range s.movies {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].movie, entries[j].movie
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})

	out := make([]models.Movie, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e.movie.Clone())
	}
	return out, nil
}

func (s *MovieStore) Replace(_ context.Context, m *models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.movies[m.ID]
	if !ok || e.movie.Version != m.Version {
		return repository.ErrVersionConflict
	}
	m.Version++
	s.movies[m.ID] = movieEntry{seq: e.seq, movie: m.Clone()}
	return nil
}

func (s *MovieStore) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[id]; !ok {
		return false, nil
	}
	delete(s.movies, id)
	return true, nil
}

// UserStore is a development-only in-memory user store with a unique email index.
type UserStore struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]models.User
	byEmail map[string]primitive.ObjectID
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[primitive.ObjectID]models.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := s.users[id]
	return &u, nil
}

func (s *UserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			u.Password = ""
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserStore) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	return nil
}

// SetAdmin flips the admin flag. Admins are otherwise provisioned directly in the store.
func (s *UserStore) SetAdmin(email string, admin bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.TrimSpace(email)]
	if !ok {
		return false
	}
	u := s.users[id]
	u.IsAdmin = admin
	s.users[id] = u
	return true
}
