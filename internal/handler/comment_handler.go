package handler

import (
	"net/http"

	"cinecomments/internal/models"
	"cinecomments/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CommentHandler serves the comments embedded in a movie.
type CommentHandler struct {
	svc *service.MovieService
	log *zap.Logger
}

func NewCommentHandler(s *service.MovieService, log *zap.Logger) *CommentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommentHandler{svc: s, log: log}
}

type commentListResponse struct {
	Comments []models.CommentView `json:"comments"`
}

type commentUpdatedResponse struct {
	Message        string          `json:"message"`
	UpdatedComment *models.Comment `json:"updatedComment"`
	UpdatedMovie   *models.Movie   `json:"updatedMovie"`
}

// @Summary Add comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param movieId path string true "movie id"
// @Param body body models.CommentInput true "comment"
// @Success 200 {object} movieUpdatedResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/{movieId}/comments [post]
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, _ := PrincipalFromContext(r.Context())
	m, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "movieId"), p, in.Comment)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, movieUpdatedResponse{Message: "Comment added successfully", UpdatedMovie: m})
}

// @Summary List comments
// @Description Comments in display order, each with its author's id and email.
// @Tags comments
// @Produce json
// @Param movieId path string true "movie id"
// @Success 200 {object} commentListResponse
// @Failure 404 {object} errorResponse
// @Router /movies/{movieId}/comments [get]
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.ListComments(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, commentListResponse{Comments: comments})
}

// @Summary Update comment
// @Description Only the comment's author may edit it.
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param movieId path string true "movie id"
// @Param commentId path string true "comment id"
// @Param body body models.CommentInput true "comment"
// @Success 200 {object} commentUpdatedResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/{movieId}/comments/{commentId} [put]
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, _ := PrincipalFromContext(r.Context())
	c, m, err := h.svc.UpdateComment(r.Context(), chi.URLParam(r, "movieId"), chi.URLParam(r, "commentId"), p, in.Comment)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, commentUpdatedResponse{
		Message:        "Comment updated successfully",
		UpdatedComment: c,
		UpdatedMovie:   m,
	})
}

// @Summary Delete comment
// @Description The comment's author or an admin may delete it.
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param movieId path string true "movie id"
// @Param commentId path string true "comment id"
// @Success 200 {object} movieUpdatedResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/{movieId}/comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	m, err := h.svc.DeleteComment(r.Context(), chi.URLParam(r, "movieId"), chi.URLParam(r, "commentId"), p)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, movieUpdatedResponse{Message: "Comment deleted successfully", UpdatedMovie: m})
}
