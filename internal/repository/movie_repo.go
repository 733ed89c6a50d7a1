// internal/repository/movie_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"cinecomments/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrVersionConflict means the document changed (or vanished) between load and save.
var ErrVersionConflict = errors.New("movie version conflict")

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{col: db.Collection("movies")}
}

func (r *MovieRepository) Insert(ctx context.Context, m *models.Movie) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.Comments == nil {
		m.Comments = []models.Comment{}
	}
	m.Version = 1

	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Movie, error) {
	var m models.Movie
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie %s: %w", id.Hex(), err)
	}
	return &m, nil
}

// FindAll returns every movie, most recently created first.
func (r *MovieRepository) FindAll(ctx context.Context) ([]models.Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Movie{}
	for cur.Next(ctx) {
		var m models.Movie
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// Replace writes the whole document back, guarded by the version it was
// loaded with. On success m.Version is advanced to the stored value.
func (r *MovieRepository) Replace(ctx context.Context, m *models.Movie) error {
	prev := m.Version

	filter := bson.M{"_id": m.ID, "version": prev}
	if prev == 0 {
		// documents written before versioning have no field at all
		filter["version"] = bson.M{"$in": bson.A{0, nil}}
	}

	m.Version = prev + 1
	res, err := r.col.ReplaceOne(ctx, filter, m)
	if err != nil {
		m.Version = prev
		return fmt.Errorf("replace movie %s: %w", m.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		m.Version = prev
		return ErrVersionConflict
	}
	return nil
}

// Delete removes the movie and, with it, every embedded comment.
func (r *MovieRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete movie %s: %w", id.Hex(), err)
	}
	return res.DeletedCount > 0, nil
}
