package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// ShoppingListRepository reads the ingredient lines behind a user's cart.
type ShoppingListRepository interface {
	CartLines(ctx context.Context, userID uuid.UUID) ([]models.ShoppingLine, error)
}

type shoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// CartLines returns one row per recipe line of every recipe in the cart,
// ordered by cart insertion and then by line position.
func (r *shoppingListRepository) CartLines(ctx context.Context, userID uuid.UUID) ([]models.ShoppingLine, error) {
	var lines []models.ShoppingLine
	err := r.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Order("shopping_carts.id ASC, recipe_ingredients.position ASC, recipe_ingredients.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return lines, nil
}
