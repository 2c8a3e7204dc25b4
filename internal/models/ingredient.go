package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a ledger entry. (Name, MeasurementUnit) is not unique: imported
// data may carry the same pair under several ids.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string    `gorm:"size:100;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ShoppingLine is one (ingredient, amount) contribution read from a cart.
type ShoppingLine struct {
	Name            string
	MeasurementUnit string
	Amount          int
}
