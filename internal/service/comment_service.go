package service

import (
	"context"
	"strings"

	"cinecomments/internal/auth"
	"cinecomments/internal/events"
	"cinecomments/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddComment appends a comment authored by p and persists the whole movie.
func (s *MovieService) AddComment(ctx context.Context, movieID string, p auth.Principal, text string) (*models.Movie, error) {
	authorID, ok := p.ObjectID()
	if !ok {
		return nil, ErrAuthRequired
	}
	if strings.TrimSpace(text) == "" {
		return nil, validationError([]string{"comment"}, []string{MsgCommentRequired})
	}

	m, err := s.loadHex(ctx, movieID)
	if err != nil {
		return nil, err
	}

	c := models.Comment{ID: primitive.NewObjectID(), UserID: authorID, Comment: text}
	m.Comments = append(m.Comments, c)

	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, events.CommentAdded, m.ID, c.ID, p)
	return m, nil
}

// ListComments returns the movie's comments in display order with authors resolved.
func (s *MovieService) ListComments(ctx context.Context, movieID string) ([]models.CommentView, error) {
	m, err := s.loadHex(ctx, movieID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(m.Comments))
	for _, c := range m.Comments {
		ids = append(ids, c.UserID)
	}
	authors, err := s.authors.ResolveAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.CommentView, 0, len(m.Comments))
	for _, c := range m.Comments {
		a, ok := authors[c.UserID]
		if !ok {
			a = models.Author{ID: c.UserID}
		}
		out = append(out, models.CommentView{ID: c.ID, UserID: a, Comment: c.Comment})
	}
	return out, nil
}

// UpdateComment replaces the text of a comment. Only its author may do so.
func (s *MovieService) UpdateComment(
	ctx context.Context,
	movieID, commentID string,
	p auth.Principal,
	text string,
) (*models.Comment, *models.Movie, error) {
	m, idx, err := s.locateComment(ctx, movieID, commentID)
	if err != nil {
		return nil, nil, err
	}
	if !canUpdateComment(p, m.Comments[idx]) {
		return nil, nil, ErrUnauthorizedUpdate
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, validationError([]string{"comment"}, []string{MsgCommentRequired})
	}

	m.Comments[idx].Comment = text
	if err := s.save(ctx, m); err != nil {
		return nil, nil, err
	}

	updated := m.Comments[idx]
	s.publish(ctx, events.CommentUpdated, m.ID, updated.ID, p)
	return &updated, m, nil
}

// DeleteComment removes a comment, keeping the order of the rest. The author
// or an admin may do so.
func (s *MovieService) DeleteComment(ctx context.Context, movieID, commentID string, p auth.Principal) (*models.Movie, error) {
	m, idx, err := s.locateComment(ctx, movieID, commentID)
	if err != nil {
		return nil, err
	}
	c := m.Comments[idx]
	if !canDeleteComment(p, c) {
		return nil, ErrUnauthorizedDelete
	}

	m.Comments = append(m.Comments[:idx], m.Comments[idx+1:]...)
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, events.CommentDeleted, m.ID, c.ID, p)
	return m, nil
}

func (s *MovieService) locateComment(ctx context.Context, movieID, commentID string) (*models.Movie, int, error) {
	m, err := s.loadHex(ctx, movieID)
	if err != nil {
		return nil, -1, err
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, -1, ErrCommentNotFound
	}
	idx := m.CommentIndex(cid)
	if idx < 0 {
		return nil, -1, ErrCommentNotFound
	}
	return m, idx, nil
}
