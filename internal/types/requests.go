package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IngredientAmountRequest is one ingredient line of a recipe request
type IngredientAmountRequest struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeRequest is the body of recipe create and update requests.
// Author is accepted so that an attempt to reassign a recipe can be rejected.
type RecipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	Image       string                    `json:"image"`
	CookingTime int                       `json:"cooking_time"`
	Tags        []uuid.UUID               `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Author      *uuid.UUID                `json:"author"`
}
