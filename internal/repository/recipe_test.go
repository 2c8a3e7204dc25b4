package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRecipeRepository_ReplaceLinesKeepsOrder(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db)
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, testhelpers.Line{Ingredient: salt, Amount: 1})

	err := repo.ReplaceLines(ctx, recipe.ID, []models.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 200},
		{IngredientID: salt.ID, Amount: 5},
		{IngredientID: flour.ID, Amount: 50},
	})
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 3)
	assert.Equal(t, flour.ID, loaded.Lines[0].IngredientID)
	assert.Equal(t, "flour", loaded.Lines[0].Ingredient.Name)
	assert.Equal(t, 5, loaded.Lines[1].Amount)
	assert.Equal(t, 50, loaded.Lines[2].Amount)
	assert.Equal(t, author.ID, loaded.Author.ID)
}

func TestRecipeRepository_ListFilters(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewRecipeRepository(db)
	relations := NewRelationRepository(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db)
	bob := testhelpers.CreateUser(t, db)
	breakfast := testhelpers.CreateTag(t, db)
	tagged := testhelpers.CreateRecipe(t, db, alice)
	untagged := testhelpers.CreateRecipe(t, db, alice)
	bobs := testhelpers.CreateRecipe(t, db, bob)
	require.NoError(t, repo.ReplaceTags(ctx, tagged.ID, []uuid.UUID{breakfast.ID}))
	require.NoError(t, relations.Create(ctx, models.FavoriteKind, bob.ID, untagged.ID))

	all, total, err := repo.List(ctx, RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	byAuthor, total, err := repo.List(ctx, RecipeFilter{AuthorID: &bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, bobs.ID, byAuthor[0].ID)

	byTag, _, err := repo.List(ctx, RecipeFilter{TagSlugs: []string{breakfast.Slug}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, tagged.ID, byTag[0].ID)
	require.Len(t, byTag[0].Tags, 1)
	assert.Equal(t, breakfast.Slug, byTag[0].Tags[0].Slug)

	favorited, _, err := repo.List(ctx, RecipeFilter{FavoritedBy: &bob.ID})
	require.NoError(t, err)
	require.Len(t, favorited, 1)
	assert.Equal(t, untagged.ID, favorited[0].ID)

	inCart, total, err := repo.List(ctx, RecipeFilter{InCartOf: &bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, inCart)
}

func TestRecipeRepository_DeleteMissingIsNotFound(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewRecipeRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestIngredientRepository_SearchByPrefix(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := NewIngredientRepository(db)
	ctx := context.Background()

	testhelpers.CreateIngredient(t, db, "Sugar", "g")
	testhelpers.CreateIngredient(t, db, "sugar syrup", "ml")
	testhelpers.CreateIngredient(t, db, "brown sugar", "g")

	found, err := repo.SearchByPrefix(ctx, "sug", 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Sugar", found[0].Name)
	assert.Equal(t, "sugar syrup", found[1].Name)

	limited, err := repo.SearchByPrefix(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
