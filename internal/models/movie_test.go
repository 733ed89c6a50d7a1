package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMovie_CommentIndex(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	m := &Movie{Comments: []Comment{{ID: a}, {ID: b}}}

	assert.Equal(t, 0, m.CommentIndex(a))
	assert.Equal(t, 1, m.CommentIndex(b))
	assert.Equal(t, -1, m.CommentIndex(primitive.NewObjectID()))
}

func TestMovie_CloneDoesNotShareComments(t *testing.T) {
	m := &Movie{Title: "Dune", Comments: []Comment{{ID: primitive.NewObjectID(), Comment: "first"}}}

	c := m.Clone()
	c.Comments[0].Comment = "edited"
	c.Comments = append(c.Comments, Comment{Comment: "second"})

	assert.Equal(t, "first", m.Comments[0].Comment)
	assert.Len(t, m.Comments, 1)
	assert.Equal(t, "Dune", c.Title)
}

func TestMovieInput_YearAcceptsNumbersAndNumericStrings(t *testing.T) {
	tests := []struct {
		body string
		want *int
	}{
		{`{"year":2021}`, intPtr(2021)},
		{`{"year":"2021"}`, intPtr(2021)},
		{`{"year":" 1999 "}`, intPtr(1999)},
		{`{"year":2021.0}`, intPtr(2021)},
		{`{"year":"2021.0"}`, intPtr(2021)},
		{`{"year":0}`, intPtr(0)},
		{`{"year":"soon"}`, nil},
		{`{"year":""}`, nil},
		{`{"year":"NaN"}`, nil},
		{`{"year":2021.5}`, nil},
		{`{"year":true}`, nil},
		{`{"year":null}`, nil},
		{`{"year":1e12}`, nil},
		{`{}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var in MovieInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			assert.Equal(t, tt.want, in.Year)
		})
	}
}

func TestMovieInput_DecodesOtherFields(t *testing.T) {
	var in MovieInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","director":"Villeneuve","year":"2021","description":"...","genre":"Sci-Fi"}`), &in))

	assert.Equal(t, "Dune", in.Title)
	assert.Equal(t, "Villeneuve", in.Director)
	assert.Equal(t, "...", in.Description)
	assert.Equal(t, "Sci-Fi", in.Genre)
	require.NotNil(t, in.Year)
	assert.Equal(t, 2021, *in.Year)
}

func TestMovieInput_MalformedBodyStillFails(t *testing.T) {
	var in MovieInput
	assert.Error(t, json.Unmarshal([]byte(`{"title":`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"title":5}`), &in))
}

func intPtr(v int) *int { return &v }
