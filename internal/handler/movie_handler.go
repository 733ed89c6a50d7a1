// internal/handler/movie_handler.go
package handler

import (
	"net/http"

	"cinecomments/internal/models"
	"cinecomments/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	svc *service.MovieService
	log *zap.Logger
}

func NewMovieHandler(s *service.MovieService, log *zap.Logger) *MovieHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MovieHandler{svc: s, log: log}
}

type movieUpdatedResponse struct {
	Message      string        `json:"message"`
	UpdatedMovie *models.Movie `json:"updatedMovie"`
}

// @Summary Create movie
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.MovieInput true "movie"
// @Success 201 {object} models.Movie
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var in models.MovieInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, _ := PrincipalFromContext(r.Context())
	m, err := h.svc.CreateMovie(r.Context(), p, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// @Summary List movies
// @Tags movies
// @Produce json
// @Success 200 {array} models.Movie
// @Router /movies [get]
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.ListMovies(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// @Summary Get movie
// @Tags movies
// @Produce json
// @Param movieId path string true "movie id"
// @Success 200 {object} models.Movie
// @Failure 404 {object} errorResponse
// @Router /movies/{movieId} [get]
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMovie(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// @Summary Update movie
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param movieId path string true "movie id"
// @Param body body models.MovieInput true "movie"
// @Success 200 {object} movieUpdatedResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /movies/{movieId} [put]
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var in models.MovieInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, _ := PrincipalFromContext(r.Context())
	m, err := h.svc.UpdateMovie(r.Context(), p, chi.URLParam(r, "movieId"), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, movieUpdatedResponse{Message: "Movie updated successfully", UpdatedMovie: m})
}

// @Summary Delete movie
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Param movieId path string true "movie id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /movies/{movieId} [delete]
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	if err := h.svc.DeleteMovie(r.Context(), p, chi.URLParam(r, "movieId")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Movie deleted successfully"})
}
