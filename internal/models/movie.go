package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment lives only inside a Movie; its id is unique within that movie.
type Comment struct {
	ID      primitive.ObjectID `json:"id" bson:"_id"`
	UserID  primitive.ObjectID `json:"userId" bson:"userId"`
	Comment string             `json:"comment" bson:"comment"`
}

// Movie is the root aggregate. Comments are persisted with it as one document.
type Movie struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Director    string             `json:"director" bson:"director"`
	Year        int                `json:"year" bson:"year"`
	Description string             `json:"description" bson:"description"`
	Genre       string             `json:"genre" bson:"genre"`
	Comments    []Comment          `json:"comments" bson:"comments"`
	Version     int64              `json:"-" bson:"version"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (m *Movie) CommentIndex(id primitive.ObjectID) int {
	for i := range m.Comments {
		if m.Comments[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so the caller can mutate it freely.
func (m *Movie) Clone() *Movie {
	c := *m
	c.Comments = make([]Comment, len(m.Comments))
	copy(c.Comments, m.Comments)
	return &c
}

// Payload to create or fully replace a movie's scalar fields.
type MovieInput struct {
	Title       string `json:"title" validate:"notblank"`
	Director    string `json:"director" validate:"notblank"`
	Year        *int   `json:"year" validate:"required"`
	Description string `json:"description" validate:"notblank"`
	Genre       string `json:"genre" validate:"notblank"`
}

// UnmarshalJSON accepts year as a JSON number or a numeric string such as
// "2021". A year that is neither, or not a whole number, is left unset and
// reported by validation with the other missing fields.
func (in *MovieInput) UnmarshalJSON(data []byte) error {
	type plain MovieInput
	aux := struct {
		*plain
		Year json.RawMessage `json:"year"`
	}{plain: (*plain)(in)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	in.Year = parseYear(aux.Year)
	return nil
}

func parseYear(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	year := int(f)
	return &year
}

type CommentInput struct {
	Comment string `json:"comment"`
}

// Author is the minimal user projection attached to listed comments.
type Author struct {
	ID    primitive.ObjectID `json:"id"`
	Email string             `json:"email"`
}

type CommentView struct {
	ID      primitive.ObjectID `json:"id"`
	UserID  Author             `json:"userId"`
	Comment string             `json:"comment"`
}
