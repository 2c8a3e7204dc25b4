package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestIngredientService_ImportCSVAndSearch(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	ingredients := service.NewIngredientService(repository.NewIngredientRepository(db))

	csv := "name,measurement_unit\nFlour,g\nflaxseed, g\nSalt,g\n"
	n, err := ingredients.ImportCSV(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	found, err := ingredients.Search(ctx, "FL")
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, ingredient := range found {
		assert.True(t, strings.HasPrefix(strings.ToLower(ingredient.Name), "fl"))
		assert.Equal(t, "g", ingredient.MeasurementUnit)
	}
}

func TestIngredientService_ImportCSVRejectsBadRows(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	ingredients := service.NewIngredientService(repository.NewIngredientRepository(db))

	_, err := ingredients.ImportCSV(ctx, strings.NewReader("Flour,g\nSalt\n"))
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = ingredients.ImportCSV(ctx, strings.NewReader("Flour,\n"))
	assert.True(t, models.IsCode(err, models.CodeValidation))

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTagService_List(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	tags := service.NewTagService(repository.NewTagRepository(db))
	created := testhelpers.CreateTag(t, db)

	list, err := tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.Slug, list[0].Slug)

	got, err := tags.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
}
