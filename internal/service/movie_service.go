// internal/service/movie_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinecomments/internal/auth"
	"cinecomments/internal/cache"
	"cinecomments/internal/events"
	"cinecomments/internal/models"
	"cinecomments/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// movieGenerationKey holds a counter bumped after every write. Cache keys carry
// the generation read before the store, so a fill that raced a write lands
// under a key no reader will ask for again.
const movieGenerationKey = "movies:gen"

func movieListCacheKey(gen int64) string { return fmt.Sprintf("movies:all:%d", gen) }

func movieCacheKey(gen int64, id primitive.ObjectID) string {
	return fmt.Sprintf("movie:%d:%s", gen, id.Hex())
}

// MovieStore persists Movie aggregates as whole documents.
type MovieStore interface {
	Insert(ctx context.Context, m *models.Movie) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Movie, error)
	FindAll(ctx context.Context) ([]models.Movie, error)
	// Replace must fail with repository.ErrVersionConflict when m.Version is stale.
	Replace(ctx context.Context, m *models.Movie) error
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// AuthorResolver maps comment author ids to their public projection.
type AuthorResolver interface {
	ResolveAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Author, error)
}

// MovieService owns the movie aggregate and its embedded comments. Every
// mutation is load, mutate, replace; the version check in the store turns a
// lost update into ErrConcurrentUpdate.
type MovieService struct {
	movies  MovieStore
	authors AuthorResolver
	cache   *cache.Cache
	events  events.Publisher
	log     *zap.Logger
	now     func() time.Time
}

func NewMovieService(
	movies MovieStore,
	authors AuthorResolver,
	c *cache.Cache,
	pub events.Publisher,
	log *zap.Logger,
) *MovieService {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MovieService{
		movies:  movies,
		authors: authors,
		cache:   c,
		events:  pub,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MovieService) CreateMovie(ctx context.Context, p auth.Principal, in models.MovieInput) (*models.Movie, error) {
	if !canManageMovies(p) {
		return nil, ErrForbidden
	}
	if err := validateMovie(in); err != nil {
		return nil, err
	}

	now := s.now()
	m := &models.Movie{
		Title:       in.Title,
		Director:    in.Director,
		Year:        *in.Year,
		Description: in.Description,
		Genre:       in.Genre,
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.movies.Insert(ctx, m); err != nil {
		return nil, err
	}

	s.invalidate(ctx, m.ID)
	s.publish(ctx, events.MovieCreated, m.ID, primitive.NilObjectID, p)
	return m, nil
}

func (s *MovieService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	gen, cacheable := s.generation(ctx)
	if cacheable {
		var cached []models.Movie
		if ok, err := s.cache.GetJSON(ctx, movieListCacheKey(gen), &cached); err != nil {
			s.log.Warn("movie list cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	movies, err := s.movies.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := s.cache.SetJSON(ctx, movieListCacheKey(gen), movies); err != nil {
			s.log.Warn("movie list cache write failed", zap.Error(err))
		}
	}
	return movies, nil
}

func (s *MovieService) GetMovie(ctx context.Context, movieID string) (*models.Movie, error) {
	id, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, ErrMovieNotFound
	}

	gen, cacheable := s.generation(ctx)
	if cacheable {
		var cached models.Movie
		if ok, err := s.cache.GetJSON(ctx, movieCacheKey(gen, id), &cached); err != nil {
			s.log.Warn("movie cache read failed", zap.String("movie_id", movieID), zap.Error(err))
		} else if ok {
			return &cached, nil
		}
	}

	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := s.cache.SetJSON(ctx, movieCacheKey(gen, id), m); err != nil {
			s.log.Warn("movie cache write failed", zap.String("movie_id", movieID), zap.Error(err))
		}
	}
	return m, nil
}

// UpdateMovie replaces the five scalar fields and leaves comments untouched.
func (s *MovieService) UpdateMovie(ctx context.Context, p auth.Principal, movieID string, in models.MovieInput) (*models.Movie, error) {
	if !canManageMovies(p) {
		return nil, ErrForbidden
	}
	if err := validateMovie(in); err != nil {
		return nil, err
	}

	m, err := s.loadHex(ctx, movieID)
	if err != nil {
		return nil, err
	}

	m.Title = in.Title
	m.Director = in.Director
	m.Year = *in.Year
	m.Description = in.Description
	m.Genre = in.Genre

	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, events.MovieUpdated, m.ID, primitive.NilObjectID, p)
	return m, nil
}

// DeleteMovie removes the movie together with all of its comments.
func (s *MovieService) DeleteMovie(ctx context.Context, p auth.Principal, movieID string) error {
	if !canManageMovies(p) {
		return ErrForbidden
	}

	id, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return ErrMovieNotFound
	}
	deleted, err := s.movies.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMovieNotFound
	}

	s.invalidate(ctx, id)
	s.publish(ctx, events.MovieDeleted, id, primitive.NilObjectID, p)
	return nil
}

func (s *MovieService) loadHex(ctx context.Context, movieID string) (*models.Movie, error) {
	id, err := primitive.ObjectIDFromHex(movieID)
	if err != nil {
		return nil, ErrMovieNotFound
	}
	return s.load(ctx, id)
}

func (s *MovieService) load(ctx context.Context, id primitive.ObjectID) (*models.Movie, error) {
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMovieNotFound
	}
	if m.Comments == nil {
		m.Comments = []models.Comment{}
	}
	return m, nil
}

// save replaces the whole aggregate. Nothing is written if the movie changed
// since it was loaded.
func (s *MovieService) save(ctx context.Context, m *models.Movie) error {
	m.UpdatedAt = s.now()
	if err := s.movies.Replace(ctx, m); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return ErrConcurrentUpdate
		}
		return err
	}
	s.invalidate(ctx, m.ID)
	return nil
}

// generation reports the current cache generation. ok is false when there is
// no cache or it cannot be read, in which case the store is used directly.
func (s *MovieService) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx, movieGenerationKey)
	if err != nil {
		s.log.Warn("movie cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

// invalidate runs after the store write, so any reader that sees the new
// generation also sees the write.
func (s *MovieService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Bump(ctx, movieGenerationKey); err != nil {
		s.log.Warn("movie cache invalidation failed", zap.String("movie_id", id.Hex()), zap.Error(err))
	}
}

func (s *MovieService) publish(ctx context.Context, typ string, movieID, commentID primitive.ObjectID, p auth.Principal) {
	var cid string
	if !commentID.IsZero() {
		cid = commentID.Hex()
	}
	evt := events.NewEvent(typ, movieID.Hex(), cid, p.UserID)
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Warn("publish event failed",
			zap.String("subject", evt.Subject()),
			zap.String("movie_id", evt.MovieID),
			zap.Error(err),
		)
	}
}
