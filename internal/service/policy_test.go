package service

import (
	"testing"

	"cinecomments/internal/auth"
	"cinecomments/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCommentPolicy(t *testing.T) {
	authorID := primitive.NewObjectID()
	c := models.Comment{ID: primitive.NewObjectID(), UserID: authorID, Comment: "hi"}

	author := auth.Principal{UserID: authorID.Hex()}
	adminAuthor := auth.Principal{UserID: authorID.Hex(), IsAdmin: true}
	admin := auth.Principal{UserID: primitive.NewObjectID().Hex(), IsAdmin: true}
	stranger := auth.Principal{UserID: primitive.NewObjectID().Hex()}
	anonymous := auth.Principal{}

	tests := []struct {
		name      string
		p         auth.Principal
		canUpdate bool
		canDelete bool
	}{
		{"author", author, true, true},
		{"author who is admin", adminAuthor, true, true},
		{"admin non-author", admin, false, true},
		{"non-author non-admin", stranger, false, false},
		{"anonymous", anonymous, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canUpdate, canUpdateComment(tt.p, c))
			assert.Equal(t, tt.canDelete, canDeleteComment(tt.p, c))
		})
	}
}

func TestCanManageMovies(t *testing.T) {
	assert.True(t, canManageMovies(auth.Principal{IsAdmin: true}))
	assert.False(t, canManageMovies(auth.Principal{UserID: primitive.NewObjectID().Hex()}))
}
