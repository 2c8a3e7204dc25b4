package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRelationManager defines the interface for favorite, shopping cart and follow operations
type IRelationManager interface {
	Add(ctx context.Context, userID uuid.UUID, kind models.RelationKind, targetID uuid.UUID) (Target, error)
	Remove(ctx context.Context, userID uuid.UUID, kind models.RelationKind, targetID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, kind models.RelationKind, page PageRequest) (*Page[Target], error)
}

// IShoppingListService defines the interface for shopping list downloads
type IShoppingListService interface {
	DownloadShoppingList(ctx context.Context, userID uuid.UUID) (*ShoppingListFile, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, actorID uuid.UUID, in RecipeInput) (*models.Recipe, error)
	Update(ctx context.Context, actorID, recipeID uuid.UUID, in RecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, actorID, recipeID uuid.UUID) error
	Get(ctx context.Context, viewerID, recipeID uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, viewerID uuid.UUID, filter repository.RecipeFilter) (*Page[models.Recipe], error)
}

// IUserService defines the interface for user profile operations
type IUserService interface {
	Get(ctx context.Context, viewerID, userID uuid.UUID) (*UserProfile, error)
	Delete(ctx context.Context, actorID, userID uuid.UUID) error
}

// IIngredientService defines the interface for ingredient lookups
type IIngredientService interface {
	Search(ctx context.Context, prefix string) ([]models.Ingredient, error)
}

// ITagService defines the interface for tag lookups
type ITagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Tag, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IRelationManager     = (*RelationManager)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ IIngredientService   = (*IngredientService)(nil)
	_ ITagService          = (*TagService)(nil)
)
