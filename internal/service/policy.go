package service

import (
	"cinecomments/internal/auth"
	"cinecomments/internal/models"
)

// Movie scalar fields and the movie's existence are managed by admins only.
func canManageMovies(p auth.Principal) bool {
	return p.IsAdmin
}

// Only the author may edit a comment. Admins are deliberately not exempt;
// see canDeleteComment for the asymmetry.
func canUpdateComment(p auth.Principal, c models.Comment) bool {
	return p.Is(c.UserID)
}

// The author or any admin may delete a comment.
func canDeleteComment(p auth.Principal, c models.Comment) bool {
	return p.Is(c.UserID) || p.IsAdmin
}
