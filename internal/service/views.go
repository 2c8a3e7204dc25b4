package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Target is a relation target as returned to callers: a RecipeShort for
// favorites and shopping carts, an AuthorSummary for follows.
type Target interface {
	TargetID() uuid.UUID
}

// RecipeShort is the compact recipe view.
type RecipeShort struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func (r RecipeShort) TargetID() uuid.UUID { return r.ID }

// AuthorSummary is an author's public profile with a preview of their recipes.
type AuthorSummary struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	Username     string        `json:"username"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	IsSubscribed bool          `json:"is_subscribed"`
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func (a AuthorSummary) TargetID() uuid.UUID { return a.ID }

// UserProfile is a user's public profile as seen by a viewer.
type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// Page is one page of a listing plus the total number of items.
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

// PageRequest selects a page. RecipesLimit caps the recipe preview of author
// summaries; zero means no cap.
type PageRequest struct {
	Limit        int
	Offset       int
	RecipesLimit int
}

func (p PageRequest) normalize() PageRequest {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.RecipesLimit < 0 {
		p.RecipesLimit = 0
	}
	return p
}

// ImageURLResolver turns a stored image key into a URL clients can fetch.
type ImageURLResolver interface {
	ImageURL(ctx context.Context, key string) (string, error)
}

const imageURLTimeout = 2 * time.Second

func resolveImage(ctx context.Context, images ImageURLResolver, key string) string {
	if images == nil || key == "" {
		return key
	}
	ctx, cancel := context.WithTimeout(ctx, imageURLTimeout)
	defer cancel()

	url, err := images.ImageURL(ctx, key)
	if err != nil {
		observability.Logger.WarnContext(ctx, "failed to resolve recipe image",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return key
	}
	return url
}

func toRecipeShort(ctx context.Context, images ImageURLResolver, recipe *models.Recipe) RecipeShort {
	return RecipeShort{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       resolveImage(ctx, images, recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

func toUserProfile(user *models.User, subscribed bool) UserProfile {
	return UserProfile{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}
