package testhelpers

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CreateUser inserts a user with fake profile data.
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	user := &models.User{
		Email:        fmt.Sprintf("%s+%s@example.com", gofakeit.Username(), suffix),
		Username:     fmt.Sprintf("%s_%s", gofakeit.Username(), suffix),
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		PasswordHash: "hashed_password",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateIngredient inserts an ingredient. An empty name gets a fake one.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	if name == "" {
		name = gofakeit.Noun() + " " + uuid.NewString()[:4]
	}
	if unit == "" {
		unit = "g"
	}
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ingredient
}

// CreateTag inserts a tag with unique fake name, slug and color.
func CreateTag(t *testing.T, db *gorm.DB) *models.Tag {
	t.Helper()

	suffix := uuid.NewString()[:6]
	tag := &models.Tag{
		Name:  gofakeit.Adjective() + " " + suffix,
		Slug:  "tag-" + suffix,
		Color: "#" + suffix,
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// Line is an (ingredient, amount) pair used to build recipes in tests.
type Line struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe by author with the given lines, in order.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, lines ...Line) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        gofakeit.Dessert(),
		Text:        gofakeit.Sentence(12),
		Image:       "recipes/" + uuid.NewString() + ".jpg",
		CookingTime: gofakeit.Number(5, 120),
	}
	if err := db.Omit("Author", "Tags", "Lines").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}

	for i, line := range lines {
		row := &models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: line.Ingredient.ID,
			Amount:       line.Amount,
			Position:     i,
		}
		if err := db.Omit("Ingredient").Create(row).Error; err != nil {
			t.Fatalf("failed to create recipe line: %v", err)
		}
		recipe.Lines = append(recipe.Lines, *row)
	}
	return recipe
}
