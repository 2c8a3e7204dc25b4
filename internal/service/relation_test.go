package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestRelationManager_AddToCartTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db)
	recipe := testhelpers.CreateRecipe(t, f.db, user)

	target, err := f.relations.Add(f.ctx, user.ID, models.ShoppingCartKind, recipe.ID)
	require.NoError(t, err)
	short, ok := target.(service.RecipeShort)
	require.True(t, ok)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, recipe.Name, short.Name)
	assert.Equal(t, recipe.CookingTime, short.CookingTime)

	_, err = f.relations.Add(f.ctx, user.ID, models.ShoppingCartKind, recipe.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))

	assert.Equal(t, int64(1), f.count(t, "shopping_carts"))
}

func TestRelationManager_AddMissingTargetIsNotFound(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db)

	_, err := f.relations.Add(f.ctx, user.ID, models.FavoriteKind, uuid.New())

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.Equal(t, "Recipe", appErr.Resource)
	assert.Equal(t, int64(0), f.count(t, "favorites"))
}

func TestRelationManager_FollowSelfIsValidationError(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db)

	_, err := f.relations.Add(f.ctx, user.ID, models.FollowKind, user.ID)

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
	assert.Equal(t, int64(0), f.count(t, "follows"))
}

func TestRelationManager_FollowReturnsAuthorSummary(t *testing.T) {
	f := newFixture(t)
	reader := testhelpers.CreateUser(t, f.db)
	author := testhelpers.CreateUser(t, f.db)
	testhelpers.CreateRecipe(t, f.db, author)
	testhelpers.CreateRecipe(t, f.db, author)

	target, err := f.relations.Add(f.ctx, reader.ID, models.FollowKind, author.ID)
	require.NoError(t, err)

	summary, ok := target.(service.AuthorSummary)
	require.True(t, ok)
	assert.Equal(t, author.ID, summary.ID)
	assert.Equal(t, author.Username, summary.Username)
	assert.True(t, summary.IsSubscribed)
	assert.Equal(t, int64(2), summary.RecipesCount)
	assert.Len(t, summary.Recipes, 2)
}

func TestRelationManager_RemoveAbsentRelationIsNotFound(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db)
	recipe := testhelpers.CreateRecipe(t, f.db, user)

	err := f.relations.Remove(f.ctx, user.ID, models.FavoriteKind, recipe.ID)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeRelationNotFound, appErr.Code)
	assert.Equal(t, "Favorite", appErr.Resource)
}

func TestRelationManager_RemoveMissingTargetIsNotFound(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db)

	err := f.relations.Remove(f.ctx, user.ID, models.FollowKind, uuid.New())

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.Equal(t, "User", appErr.Resource)
}

func TestRelationManager_RemoveDeletesOnlyThatRow(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db)
	other := testhelpers.CreateUser(t, f.db)
	recipe := testhelpers.CreateRecipe(t, f.db, user)

	_, err := f.relations.Add(f.ctx, user.ID, models.FavoriteKind, recipe.ID)
	require.NoError(t, err)
	_, err = f.relations.Add(f.ctx, other.ID, models.FavoriteKind, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, f.relations.Remove(f.ctx, user.ID, models.FavoriteKind, recipe.ID))

	assert.Equal(t, int64(1), f.count(t, "favorites"))
	err = f.relations.Remove(f.ctx, user.ID, models.FavoriteKind, recipe.ID)
	assert.True(t, models.IsCode(err, models.CodeRelationNotFound))
}

func TestRelationManager_ListInInsertionOrder(t *testing.T) {
	f := newFixture(t)
	user := testhelpers.CreateUser(t, f.db)
	author := testhelpers.CreateUser(t, f.db)
	a := testhelpers.CreateRecipe(t, f.db, author)
	b := testhelpers.CreateRecipe(t, f.db, author)
	c := testhelpers.CreateRecipe(t, f.db, author)

	for _, recipe := range []*models.Recipe{b, c, a} {
		_, err := f.relations.Add(f.ctx, user.ID, models.FavoriteKind, recipe.ID)
		require.NoError(t, err)
	}

	page, err := f.relations.List(f.ctx, user.ID, models.FavoriteKind, service.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, b.ID, page.Results[0].TargetID())
	assert.Equal(t, c.ID, page.Results[1].TargetID())

	rest, err := f.relations.List(f.ctx, user.ID, models.FavoriteKind, service.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest.Results, 1)
	assert.Equal(t, a.ID, rest.Results[0].TargetID())
}

func TestRelationManager_ListFollowsHonoursRecipesLimit(t *testing.T) {
	f := newFixture(t)
	reader := testhelpers.CreateUser(t, f.db)
	author := testhelpers.CreateUser(t, f.db)
	for i := 0; i < 3; i++ {
		testhelpers.CreateRecipe(t, f.db, author)
	}
	_, err := f.relations.Add(f.ctx, reader.ID, models.FollowKind, author.ID)
	require.NoError(t, err)

	page, err := f.relations.List(f.ctx, reader.ID, models.FollowKind, service.PageRequest{RecipesLimit: 1})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)

	summary := page.Results[0].(service.AuthorSummary)
	assert.Len(t, summary.Recipes, 1)
	assert.Equal(t, int64(3), summary.RecipesCount)
}
