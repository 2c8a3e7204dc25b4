package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	AuthorID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"-"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	Image       string             `gorm:"size:255" json:"-"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Lines       []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`

	// Resolved per request, never stored.
	ImageURL         string `gorm:"-" json:"image"`
	IsFavorited      bool   `gorm:"-" json:"is_favorited"`
	IsInShoppingCart bool   `gorm:"-" json:"is_in_shopping_cart"`
}

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one ingredient line of a recipe. The same ingredient may
// appear on more than one line.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"-"`
	IngredientID uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
	Amount       int        `gorm:"not null;check:amount >= 1" json:"amount"`
	Position     int        `gorm:"not null" json:"-"`
}

// MarshalJSON flattens the ingredient into the line as
// {id, name, measurement_unit, amount}.
func (l RecipeIngredient) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID              uuid.UUID `json:"id"`
		Name            string    `json:"name"`
		MeasurementUnit string    `json:"measurement_unit"`
		Amount          int       `json:"amount"`
	}{
		ID:              l.IngredientID,
		Name:            l.Ingredient.Name,
		MeasurementUnit: l.Ingredient.MeasurementUnit,
		Amount:          l.Amount,
	})
}
