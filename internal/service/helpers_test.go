package service_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type fixture struct {
	db        *gorm.DB
	relations *service.RelationManager
	recipes   *service.RecipeService
	shopping  *service.ShoppingListService
	users     *service.UserService
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testhelpers.NewSQLiteDB(t)
	recipeRepo := repository.NewRecipeRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &fixture{
		db:        db,
		relations: service.NewRelationManager(db, relationRepo, recipeRepo, userRepo, nil),
		recipes: service.NewRecipeService(db, recipeRepo, relationRepo,
			repository.NewIngredientRepository(db), repository.NewTagRepository(db), nil),
		shopping: service.NewShoppingListService(repository.NewShoppingListRepository(db)),
		users:    service.NewUserService(db, userRepo, recipeRepo, relationRepo),
		ctx:      context.Background(),
	}
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	if err := f.db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
