package dataloader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cinecomments/internal/models"

	"github.com/graph-gophers/dataloader"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const key = contextKey("dataloaders")

// UserFinder is the slice of the user store the loaders need.
type UserFinder interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// Loaders holds the per-request loaders.
type Loaders struct {
	AuthorByID *dataloader.Loader
}

func NewLoaders(users UserFinder) *Loaders {
	return &Loaders{
		AuthorByID: dataloader.NewBatchedLoader(authorBatch(users), dataloader.WithWait(time.Millisecond)),
	}
}

// authorBatch resolves every requested user id with a single store query.
// Unknown ids resolve to an Author with an empty email rather than an error.
func authorBatch(users UserFinder) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		results := make([]*dataloader.Result, len(keys))

		ids := make([]primitive.ObjectID, 0, len(keys))
		for _, k := range keys {
			if id, err := primitive.ObjectIDFromHex(k.String()); err == nil {
				ids = append(ids, id)
			}
		}

		found, err := users.FindByIDs(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		byID := make(map[string]models.User, len(found))
		for _, u := range found {
			byID[u.ID.Hex()] = u
		}

		for i, k := range keys {
			id, _ := primitive.ObjectIDFromHex(k.String())
			a := models.Author{ID: id}
			if u, ok := byID[k.String()]; ok {
				a.Email = u.Email
			}
			results[i] = &dataloader.Result{Data: a}
		}
		return results
	}
}

// Middleware puts fresh loaders into the request context.
func Middleware(users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, NewLoaders(users))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// For returns the loaders of the current request, or nil outside of Middleware.
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(key).(*Loaders)
	return l
}

// AuthorResolver resolves comment authors through the request's loaders,
// falling back to a one-off loader when none is attached.
type AuthorResolver struct {
	users UserFinder
}

func NewAuthorResolver(users UserFinder) *AuthorResolver {
	return &AuthorResolver{users: users}
}

func (r *AuthorResolver) ResolveAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Author, error) {
	out := make(map[primitive.ObjectID]models.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	loaders := For(ctx)
	if loaders == nil {
		loaders = NewLoaders(r.users)
	}

	hex := make([]string, len(ids))
	for i, id := range ids {
		hex[i] = id.Hex()
	}

	data, errs := loaders.AuthorByID.LoadMany(ctx, dataloader.NewKeysFromStrings(hex))()
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("resolve comment authors: %w", err)
		}
	}

	for i, d := range data {
		a, ok := d.(models.Author)
		if !ok {
			a = models.Author{ID: ids[i]}
		}
		out[ids[i]] = a
	}
	return out, nil
}
