package service

import (
	"testing"

	"cinecomments/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_RegistersNotBlank(t *testing.T) {
	require.NotPanics(t, func() { newValidator() })

	type named struct {
		Name string `validate:"notblank"`
	}
	v := newValidator()
	assert.NoError(t, v.Struct(named{Name: "x"}))
	assert.Error(t, v.Struct(named{Name: " \t"}))
}

func TestValidateMovie_WhitespaceIsMissing(t *testing.T) {
	in := duneInput()
	in.Title = "   "
	in.Genre = "\n"

	err := validateMovie(in)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"title", "genre"}, e.Fields)
}

func TestValidateMovie_AcceptsCompleteInput(t *testing.T) {
	assert.NoError(t, validateMovie(duneInput()))
	assert.NoError(t, validateMovie(models.MovieInput{Title: "a", Director: "b", Year: intPtr(0), Description: "c", Genre: "d"}))
}
