package handler

import (
	"cinecomments/internal/auth"
	"cinecomments/internal/dataloader"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Movies   *MovieHandler
	Comments *CommentHandler
	Users    *UserHandler

	Tokens  auth.TokenManager
	Authors dataloader.UserFinder

	// Redis backs the rate limiter; nil disables it.
	Redis     *redis.Client
	RateLimit RateLimitOptions

	CORSOrigins []string
	Checks      map[string]CheckFunc
	Log         *zap.Logger
}

func NewRouter(d RouterDeps) chi.Router {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", Health)
	r.Get("/ready", Ready(d.Checks))

	authMw := JWTAuth(d.Tokens)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", d.Movies.ListMovies)
		r.With(authMw, AdminOnly()).Post("/", d.Movies.CreateMovie)

		r.Route("/{movieId}", func(r chi.Router) {
			r.Get("/", d.Movies.GetMovie)
			r.With(authMw, AdminOnly()).Put("/", d.Movies.UpdateMovie)
			r.With(authMw, AdminOnly()).Delete("/", d.Movies.DeleteMovie)

			r.Route("/comments", func(r chi.Router) {
				r.With(dataloader.Middleware(d.Authors)).Get("/", d.Comments.ListComments)

				r.Group(func(r chi.Router) {
					r.Use(authMw)
					r.Post("/", d.Comments.AddComment)
					r.Put("/{commentId}", d.Comments.UpdateComment)
					r.Delete("/{commentId}", d.Comments.DeleteComment)
				})
			})
		})
	})

	r.Route("/users", func(r chi.Router) {
		loginLimit := d.RateLimit
		loginLimit.Prefix = "ratelimit:login"
		registerLimit := d.RateLimit
		registerLimit.Prefix = "ratelimit:register"

		r.With(RateLimit(d.Redis, registerLimit, log)).Post("/register", d.Users.Register)
		r.With(RateLimit(d.Redis, loginLimit, log)).Post("/login", d.Users.Login)
		r.With(authMw).Get("/profile", d.Users.Profile)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
